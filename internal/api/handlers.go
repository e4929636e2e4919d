/*
Package api
File: handlers.go
Description:
    HTTP handlers for the catalog, stat calculation and saved loadouts.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Is the catalog loaded?)
    - Sanitizing loadouts before they are stored
    - Mapping store errors to status codes
    - Announcing saved and deleted loadouts on the hub
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/everforgeworks/regolith/internal/catalog"
	"github.com/everforgeworks/regolith/internal/loadout"
	"github.com/everforgeworks/regolith/internal/store"
)

// Request / response DTOs

type CompareRequest struct {
	Current loadout.MiningLoadout `json:"current"`
	Hover   loadout.MiningLoadout `json:"hover"`
}

type StatsResponse struct {
	Stats loadout.AllStats `json:"stats"`
}

type LoadoutDeletedEvent struct {
	ID string `json:"id"`
}

type HealthResponse struct {
	CatalogReady bool `json:"catalogReady"`
}

// HandleHealth reports whether the server can answer catalog-backed requests.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !s.calc.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{CatalogReady: s.calc.Ready()})
}

// HandleGetCatalog returns the full equipment catalog.
func (s *Server) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Current()
	if err != nil {
		s.storeError(w, err, "Catalog")
		return
	}
	writeJSON(w, http.StatusOK, cat.File())
}

// HandleGetLasers returns the laser heads that fit ?ship=.
func (s *Server) HandleGetLasers(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Current()
	if err != nil {
		s.storeError(w, err, "Catalog")
		return
	}
	ship := catalog.ShipType(r.URL.Query().Get("ship"))
	if _, ok := cat.Ship(ship); !ok {
		http.Error(w, "Ship not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cat.LasersForShip(ship))
}

// HandleLoadoutStats computes the derived stats of the posted loadout.
func (s *Server) HandleLoadoutStats(w http.ResponseWriter, r *http.Request) {
	var l loadout.MiningLoadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	stats, ok := s.calc.Stats(l)
	if !ok {
		http.Error(w, "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Stats: stats})
}

// HandleLoadoutCompare previews the effect of swapping to the hovered loadout.
func (s *Server) HandleLoadoutCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	comparison, ok := s.calc.Compare(req.Current, req.Hover)
	if !ok {
		http.Error(w, "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

// HandleNewLoadout returns an unsaved stock loadout for ?ship=, defaulting
// to the Prospector when the ship is missing or unknown.
func (s *Server) HandleNewLoadout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	l, ok := s.calc.New(catalog.ShipType(q.Get("ship")), q.Get("name"))
	if !ok {
		s.storeError(w, catalog.ErrNotReady, "Catalog")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HandleListLoadouts returns a user's saved loadouts.
func (s *Server) HandleListLoadouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListLoadouts(r.Context(), r.PathValue("userID"))
	if err != nil {
		s.storeError(w, err, "Loadouts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreateLoadout sanitizes and saves a new loadout for the caller.
func (s *Server) HandleCreateLoadout(w http.ResponseWriter, r *http.Request) {
	var l loadout.MiningLoadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	clean, ok := s.calc.Sanitize(l)
	if !ok {
		http.Error(w, "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}

	userID := r.PathValue("userID")
	if !requireUser(w, r, userID) {
		return
	}
	saved, err := s.repo.CreateLoadout(r.Context(), userID, clean)
	if err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	s.hub.Publish(EventLoadoutSaved, userID, saved)
	writeJSON(w, http.StatusCreated, saved)
}

// HandleGetLoadout returns one saved loadout.
func (s *Server) HandleGetLoadout(w http.ResponseWriter, r *http.Request) {
	l, err := s.repo.GetLoadout(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HandleUpdateLoadout sanitizes and replaces a saved loadout. Owner only.
func (s *Server) HandleUpdateLoadout(w http.ResponseWriter, r *http.Request) {
	var l loadout.MiningLoadout
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	clean, ok := s.calc.Sanitize(l)
	if !ok {
		http.Error(w, "Catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	existing, err := s.repo.GetLoadout(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	if !requireUser(w, r, existing.Owner) {
		return
	}
	clean.ID = existing.ID

	saved, err := s.repo.UpdateLoadout(r.Context(), clean)
	if err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	s.hub.Publish(EventLoadoutSaved, saved.Owner, saved)
	writeJSON(w, http.StatusOK, saved)
}

// HandleDeleteLoadout removes a saved loadout. Owner only.
func (s *Server) HandleDeleteLoadout(w http.ResponseWriter, r *http.Request) {
	existing, err := s.repo.GetLoadout(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	if !requireUser(w, r, existing.Owner) {
		return
	}
	if err := s.repo.DeleteLoadout(r.Context(), existing.ID); err != nil {
		s.storeError(w, err, "Loadout")
		return
	}
	s.hub.Publish(EventLoadoutDeleted, existing.Owner, LoadoutDeletedEvent{ID: existing.ID})
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps persistence and catalog errors to status codes.
func (s *Server) storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, catalog.ErrNotReady):
		http.Error(w, "Catalog not loaded", http.StatusServiceUnavailable)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, what+" not found", http.StatusNotFound)
	case errors.Is(err, store.ErrLoadoutLimit):
		http.Error(w, "Loadout limit reached", http.StatusConflict)
	default:
		s.logger.Error("store request failed", zap.String("entity", what), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
