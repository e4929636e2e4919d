/*
Package api
File: settings_handlers.go
Description:
    HTTP handlers for user profile settings, sessions, field locks and
    work orders. Session writes are restricted to the session owner.
*/

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/everforgeworks/regolith/internal/settings"
	"github.com/everforgeworks/regolith/internal/store"
	"github.com/everforgeworks/regolith/internal/workorder"
)

type UserSettingsResponse struct {
	User      settings.Destructured `json:"user"`      // The user's own layer
	Effective settings.Destructured `json:"effective"` // User over system
}

type CreateSessionRequest struct {
	Settings settings.Destructured `json:"settings"` // Overrides on top of the owner's defaults
}

type SessionSettingsResponse struct {
	ID        string                   `json:"id"`
	Owner     string                   `json:"owner"`
	Session   settings.Destructured    `json:"session"`   // Stored session layer
	Effective settings.Destructured    `json:"effective"` // Session over system
	Nested    settings.SessionSettings `json:"nested"`    // Effective, folded back
}

type LockRequest struct {
	Field  settings.LockableField `json:"field"`
	Locked bool                   `json:"locked"`
}

// ResolveRequest is a draft work order, optionally with the sale to split.
type ResolveRequest struct {
	settings.WorkOrderDraft
	Sale *Sale `json:"sale,omitempty"`
}

// Sale describes what the work order sold for.
type Sale struct {
	SellerScName string              `json:"sellerScName,omitempty"` // Defaults to the caller
	GrossValue   float64             `json:"grossValue"`
	Expenses     []workorder.Expense `json:"expenses"`
	CargoSCU     float64             `json:"cargoScu,omitempty"`
	CapacitySCU  float64             `json:"capacityScu,omitempty"`
}

type ResolveResponse struct {
	WorkOrder settings.WorkOrderDraft  `json:"workOrder"`
	Rejected  []settings.LockableField `json:"rejected"`         // Locked fields the caller may not edit
	Shares    *workorder.Summary       `json:"shares,omitempty"` // Set when a sale was posted
}

// HandleGetUserSettings returns the user's layer and its effect over the system defaults.
func (s *Server) HandleGetUserSettings(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.GetUserSettings(r.Context(), r.PathValue("userID"))
	if err != nil {
		s.storeError(w, err, "User settings")
		return
	}
	writeJSON(w, http.StatusOK, UserSettingsResponse{User: user, Effective: settings.Layer(s.system(), user)})
}

// HandlePutUserSettings replaces the user's layer. Only the user may write it.
func (s *Server) HandlePutUserSettings(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, r.PathValue("userID")) {
		return
	}
	var d settings.Destructured
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := s.repo.PutUserSettings(r.Context(), r.PathValue("userID"), d); err != nil {
		s.storeError(w, err, "User settings")
		return
	}
	writeJSON(w, http.StatusOK, UserSettingsResponse{User: d, Effective: settings.Layer(s.system(), d)})
}

// HandleCreateSession starts a session for the caller. The session captures
// the caller's profile defaults at creation time plus any posted overrides.
func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	owner := r.Header.Get(UserHeader)
	if owner == "" {
		http.Error(w, "Missing "+UserHeader+" header", http.StatusBadRequest)
		return
	}
	// An empty body means no overrides.
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, err := s.repo.GetUserSettings(r.Context(), owner)
	if err != nil {
		s.storeError(w, err, "User settings")
		return
	}
	sess, err := s.repo.CreateSession(r.Context(), owner, settings.Merge(user, req.Settings))
	if err != nil {
		s.storeError(w, err, "Session")
		return
	}
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

// HandleGetSessionSettings returns the stored and effective session settings.
func (s *Server) HandleGetSessionSettings(w http.ResponseWriter, r *http.Request) {
	sess, err := s.repo.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Session")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

// HandlePutSessionSettings replaces the session layer. Owner only.
func (s *Server) HandlePutSessionSettings(w http.ResponseWriter, r *http.Request) {
	var d settings.Destructured
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	s.saveSessionSettings(w, r, sess, d)
}

// HandleToggleLock locks or unlocks one work-order field. Owner only.
func (s *Server) HandleToggleLock(w http.ResponseWriter, r *http.Request) {
	var req LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !req.Field.Valid() {
		http.Error(w, "Unknown lockable field", http.StatusBadRequest)
		return
	}
	sess, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	s.saveSessionSettings(w, r, sess, settings.ToggleLock(sess.Settings, req.Field, req.Locked))
}

// HandleResolveWorkOrder applies a draft work order on top of the session's
// effective defaults. Locked fields only change for the session owner. When
// a sale is included the resolved crew shares are split as well.
func (s *Server) HandleResolveWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess, err := s.repo.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Session")
		return
	}
	caller := r.Header.Get(UserHeader)
	resolved, rejected := settings.ResolveWorkOrder(settings.Layer(s.system(), sess.Settings), req.WorkOrderDraft, caller == sess.Owner)
	resp := ResolveResponse{WorkOrder: resolved, Rejected: rejected}

	if sale := req.Sale; sale != nil {
		seller := sale.SellerScName
		if seller == "" {
			seller = caller
		}
		order := workorder.FromDraft(resolved, seller, sale.GrossValue, sale.Expenses)
		order.CargoSCU, order.CapacitySCU = sale.CargoSCU, sale.CapacitySCU
		sum := workorder.Calculate(order)
		resp.Shares = &sum
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWorkOrderShares splits a work order's proceeds.
func (s *Server) HandleWorkOrderShares(w http.ResponseWriter, r *http.Request) {
	var order workorder.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, workorder.Calculate(order))
}

func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (store.Session, bool) {
	sess, err := s.repo.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Session")
		return store.Session{}, false
	}
	if r.Header.Get(UserHeader) != sess.Owner {
		http.Error(w, "Only the session owner can change settings", http.StatusForbidden)
		return store.Session{}, false
	}
	return sess, true
}

func (s *Server) saveSessionSettings(w http.ResponseWriter, r *http.Request, sess store.Session, d settings.Destructured) {
	if err := s.repo.PutSessionSettings(r.Context(), sess.ID, d); err != nil {
		s.storeError(w, err, "Session")
		return
	}
	sess.Settings = d
	resp := s.sessionResponse(sess)
	s.hub.Publish(EventSessionSettingsUpdated, sess.Owner, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sessionResponse(sess store.Session) SessionSettingsResponse {
	effective := settings.Layer(s.system(), sess.Settings)
	return SessionSettingsResponse{
		ID:        sess.ID,
		Owner:     sess.Owner,
		Session:   sess.Settings,
		Effective: effective,
		Nested:    settings.Reverse(effective),
	}
}
