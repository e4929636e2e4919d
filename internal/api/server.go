/*
Package api
File: server.go
Description:
    Wires the REST routes and the WebSocket hub to their dependencies.
    Nothing here is global: main builds one Server and mounts Handler().

    Callers identify themselves with the X-Regolith-User header. There is
    no authentication; the header only decides who owns a session,
    a loadout or a settings profile.
*/

package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/everforgeworks/regolith/internal/catalog"
	"github.com/everforgeworks/regolith/internal/loadout"
	"github.com/everforgeworks/regolith/internal/settings"
	"github.com/everforgeworks/regolith/internal/store"
)

// UserHeader carries the caller's user id.
const UserHeader = "X-Regolith-User"

// Repository is the persistence the handlers need.
type Repository interface {
	GetUserSettings(ctx context.Context, userID string) (settings.Destructured, error)
	PutUserSettings(ctx context.Context, userID string, d settings.Destructured) error
	CreateSession(ctx context.Context, owner string, d settings.Destructured) (store.Session, error)
	GetSession(ctx context.Context, id string) (store.Session, error)
	PutSessionSettings(ctx context.Context, id string, d settings.Destructured) error
	CreateLoadout(ctx context.Context, owner string, l loadout.MiningLoadout) (loadout.MiningLoadout, error)
	UpdateLoadout(ctx context.Context, l loadout.MiningLoadout) (loadout.MiningLoadout, error)
	DeleteLoadout(ctx context.Context, id string) error
	GetLoadout(ctx context.Context, id string) (loadout.MiningLoadout, error)
	ListLoadouts(ctx context.Context, owner string) ([]loadout.MiningLoadout, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	catalog  *catalog.Store
	calc     *loadout.Calculator
	repo     Repository
	hub      *Hub
	logger   *zap.Logger
	defaults atomic.Pointer[settings.Destructured] // System layer, swapped on reload
}

// NewServer builds a Server. system is the initial system settings layer.
func NewServer(cat *catalog.Store, system settings.Destructured, repo Repository, hub *Hub, logger *zap.Logger) *Server {
	s := &Server{
		catalog: cat,
		calc:    loadout.NewCalculator(cat),
		repo:    repo,
		hub:     hub,
		logger:  logger,
	}
	s.SetDefaults(system)
	return s
}

// SetDefaults replaces the system settings layer.
func (s *Server) SetDefaults(d settings.Destructured) {
	s.defaults.Store(&d)
}

func (s *Server) system() settings.Destructured {
	return *s.defaults.Load()
}

// requireUser writes 403 unless the caller header names owner.
func requireUser(w http.ResponseWriter, r *http.Request, owner string) bool {
	if user := r.Header.Get(UserHeader); user == "" || user != owner {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// Handler returns the routed, CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.HandleHealth)

	// Catalog & stats
	mux.HandleFunc("GET /api/catalog", s.HandleGetCatalog)
	mux.HandleFunc("GET /api/catalog/lasers", s.HandleGetLasers)
	mux.HandleFunc("POST /api/loadouts/stats", s.HandleLoadoutStats)
	mux.HandleFunc("POST /api/loadouts/compare", s.HandleLoadoutCompare)
	mux.HandleFunc("GET /api/loadouts/new", s.HandleNewLoadout)

	// Saved loadouts
	mux.HandleFunc("GET /api/users/{userID}/loadouts", s.HandleListLoadouts)
	mux.HandleFunc("POST /api/users/{userID}/loadouts", s.HandleCreateLoadout)
	mux.HandleFunc("GET /api/loadouts/{id}", s.HandleGetLoadout)
	mux.HandleFunc("PUT /api/loadouts/{id}", s.HandleUpdateLoadout)
	mux.HandleFunc("DELETE /api/loadouts/{id}", s.HandleDeleteLoadout)

	// Settings layers
	mux.HandleFunc("GET /api/users/{userID}/settings", s.HandleGetUserSettings)
	mux.HandleFunc("PUT /api/users/{userID}/settings", s.HandlePutUserSettings)
	mux.HandleFunc("POST /api/sessions", s.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}/settings", s.HandleGetSessionSettings)
	mux.HandleFunc("PUT /api/sessions/{id}/settings", s.HandlePutSessionSettings)
	mux.HandleFunc("POST /api/sessions/{id}/locks", s.HandleToggleLock)

	// Work orders
	mux.HandleFunc("POST /api/sessions/{id}/workorders/resolve", s.HandleResolveWorkOrder)
	mux.HandleFunc("POST /api/workorders/shares", s.HandleWorkOrderShares)

	// Real-time
	mux.HandleFunc("GET /ws", s.hub.ServeWs)

	return corsMiddleware(mux)
}

// corsMiddleware lets the browser client call the API across origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+UserHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
