package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/everforgeworks/regolith/internal/catalog"
	"github.com/everforgeworks/regolith/internal/loadout"
	"github.com/everforgeworks/regolith/internal/settings"
	"github.com/everforgeworks/regolith/internal/store"
	"github.com/everforgeworks/regolith/internal/workorder"
)

type testEnv struct {
	server  *Server
	catalog *catalog.Store
	hub     *Hub
	handler http.Handler
}

func newTestEnv(t *testing.T, ready bool) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cat := catalog.NewStore()
	if ready {
		cat.Set(catalog.Default())
	}
	hub := NewHub(zap.NewNop())
	srv := NewServer(cat, settings.SystemDefaults(), st, hub, zap.NewNop())
	return &testEnv{server: srv, catalog: cat, hub: hub, handler: srv.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// drain returns the event types queued on the hub so far.
func (e *testEnv) drain() []string {
	var types []string
	for {
		select {
		case data := <-e.hub.broadcast:
			var m Message
			if json.Unmarshal(data, &m) == nil {
				types = append(types, m.Type)
			}
		default:
			return types
		}
	}
}

func TestCatalogNotReady(t *testing.T) {
	env := newTestEnv(t, false)
	l := loadout.MiningLoadout{Ship: catalog.ShipProspector}

	tests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/catalog", nil},
		{http.MethodGet, "/api/catalog/lasers?ship=MOLE", nil},
		{http.MethodPost, "/api/loadouts/stats", l},
		{http.MethodPost, "/api/loadouts/compare", CompareRequest{Current: l, Hover: l}},
		{http.MethodPost, "/api/users/miner/loadouts", l},
		{http.MethodGet, "/api/loadouts/new?ship=MOLE", nil},
		{http.MethodGet, "/api/health", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, "", tt.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}

	env.catalog.Set(catalog.Default())
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/catalog", "", nil).Code)
	assert.True(t, decode[HealthResponse](t, env.do(t, http.MethodGet, "/api/health", "", nil)).CatalogReady)
}

func TestNewLoadout(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/loadouts/new?ship=MOLE&name=fresh", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[loadout.MiningLoadout](t, rec)
	assert.Equal(t, catalog.ShipMole, got.Ship)
	assert.Equal(t, "fresh", got.Name)
	assert.Len(t, got.ActiveLasers, 3)
	assert.Empty(t, got.ID, "not saved")

	got = decode[loadout.MiningLoadout](t, env.do(t, http.MethodGet, "/api/loadouts/new?ship=ORION", "", nil))
	assert.Equal(t, catalog.ShipProspector, got.Ship)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t, true)

	file := decode[catalog.File](t, env.do(t, http.MethodGet, "/api/catalog", "", nil))
	assert.NotEmpty(t, file.Lasers)

	lasers := decode[[]catalog.Laser](t, env.do(t, http.MethodGet, "/api/catalog/lasers?ship=MOLE", "", nil))
	require.NotEmpty(t, lasers)
	for _, l := range lasers {
		assert.Equal(t, 2, l.Size)
	}

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/catalog/lasers?ship=ORION", "", nil).Code)
}

func TestStatsAndCompare(t *testing.T) {
	env := newTestEnv(t, true)
	stock := loadout.New(catalog.Default(), catalog.ShipProspector, "stock")

	resp := decode[StatsResponse](t, env.do(t, http.MethodPost, "/api/loadouts/stats", "", stock))
	assert.InDelta(t, 1890, resp.Stats.MaxPower, 1e-9)
	assert.Zero(t, resp.Stats.PriceNoStock)

	hover := stock.Clone()
	hover.ActiveLasers[0].Laser = "HelixI"
	hover = loadout.Sanitize(catalog.Default(), hover)
	cmp := decode[loadout.Comparison](t, env.do(t, http.MethodPost, "/api/loadouts/compare", "",
		CompareRequest{Current: stock, Hover: hover}))
	assert.InDelta(t, 3150, cmp.Hover.MaxPower, 1e-9)
	assert.NotEmpty(t, cmp.Deltas)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/loadouts/stats", "", "not a loadout").Code)
}

func TestLoadoutLifecycle(t *testing.T) {
	env := newTestEnv(t, true)

	// Wrong-size head gets stripped on save.
	l := loadout.MiningLoadout{
		Name: "dirty",
		Ship: catalog.ShipProspector,
		ActiveLasers: []loadout.ActiveLaser{
			{Laser: "HelixII", LaserActive: true},
		},
	}
	rec := env.do(t, http.MethodPost, "/api/users/miner/loadouts", "miner", l)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[loadout.MiningLoadout](t, rec)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "miner", saved.Owner)
	require.Len(t, saved.ActiveLasers, 1)
	assert.Empty(t, saved.ActiveLasers[0].Laser)

	list := decode[[]loadout.MiningLoadout](t, env.do(t, http.MethodGet, "/api/users/miner/loadouts", "", nil))
	assert.Len(t, list, 1)

	saved.Name = "clean"
	saved.ActiveLasers[0].Laser = "HelixI"
	rec = env.do(t, http.MethodPut, "/api/loadouts/"+saved.ID, "miner", saved)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[loadout.MiningLoadout](t, rec)
	assert.Equal(t, "clean", updated.Name)
	assert.Len(t, updated.ActiveLasers[0].Modules, 2, "HelixI has two slots")

	got := decode[loadout.MiningLoadout](t, env.do(t, http.MethodGet, "/api/loadouts/"+saved.ID, "", nil))
	assert.Equal(t, catalog.LaserCode("HelixI"), got.ActiveLasers[0].Laser)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/loadouts/"+saved.ID, "miner", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/loadouts/"+saved.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/loadouts/"+saved.ID, "miner", nil).Code)

	assert.Equal(t, []string{EventLoadoutSaved, EventLoadoutSaved, EventLoadoutDeleted}, env.drain())
}

func TestLoadoutOwnership(t *testing.T) {
	env := newTestEnv(t, true)
	l := loadout.New(catalog.Default(), catalog.ShipProspector, "mine")

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/users/alice/loadouts", "mallory", l).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/users/alice/loadouts", "", l).Code)

	rec := env.do(t, http.MethodPost, "/api/users/alice/loadouts", "alice", l)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[loadout.MiningLoadout](t, rec)
	env.drain()

	stolen := saved
	stolen.Name = "stolen"
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, "/api/loadouts/"+saved.ID, "mallory", stolen).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/api/loadouts/"+saved.ID, "mallory", nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/api/loadouts/"+saved.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/loadouts/nope", "mallory", stolen).Code)

	got := decode[loadout.MiningLoadout](t, env.do(t, http.MethodGet, "/api/loadouts/"+saved.ID, "", nil))
	assert.Equal(t, "mine", got.Name)
	assert.Equal(t, "alice", got.Owner)
	assert.Empty(t, env.drain(), "rejected writes publish nothing")

	// The delete event names the owner.
	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/loadouts/"+saved.ID, "alice", nil).Code)
	select {
	case data := <-env.hub.broadcast:
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, EventLoadoutDeleted, m.Type)
		assert.Equal(t, "alice", m.Sender)
	default:
		t.Fatal("no delete event")
	}
}

func TestLoadoutLimitConflict(t *testing.T) {
	env := newTestEnv(t, true)
	l := loadout.New(catalog.Default(), catalog.ShipProspector, "x")
	for i := 0; i < store.MaxLoadoutsPerOwner; i++ {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/users/miner/loadouts", "miner", l).Code)
	}
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/users/miner/loadouts", "miner", l).Code)
}

func TestUserSettingsLayering(t *testing.T) {
	env := newTestEnv(t, true)

	got := decode[UserSettingsResponse](t, env.do(t, http.MethodGet, "/api/users/miner/settings", "", nil))
	assert.Equal(t, settings.Destructured{}, got.User)
	require.NotNil(t, got.Effective.WorkOrderDefaults.Method)
	assert.Equal(t, settings.MethodDinyx, *got.Effective.WorkOrderDefaults.Method)

	ferron := settings.MethodFerron
	user := settings.Destructured{WorkOrderDefaults: settings.WorkOrderGroup{Method: &ferron}}
	rec := env.do(t, http.MethodPut, "/api/users/miner/settings", "miner", user)
	require.Equal(t, http.StatusOK, rec.Code)

	got = decode[UserSettingsResponse](t, env.do(t, http.MethodGet, "/api/users/miner/settings", "", nil))
	assert.Equal(t, settings.MethodFerron, *got.Effective.WorkOrderDefaults.Method)
	require.NotNil(t, got.Effective.SessionSettings.Activity, "system fields still fill the gaps")

	// Only the user writes their own profile.
	dinyx := settings.MethodDinyx
	other := settings.Destructured{WorkOrderDefaults: settings.WorkOrderGroup{Method: &dinyx}}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, "/api/users/miner/settings", "mallory", other).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, "/api/users/miner/settings", "", other).Code)
	got = decode[UserSettingsResponse](t, env.do(t, http.MethodGet, "/api/users/miner/settings", "", nil))
	assert.Equal(t, settings.MethodFerron, *got.User.WorkOrderDefaults.Method)
}

func TestCreateSessionBody(t *testing.T) {
	env := newTestEnv(t, true)

	// A streamed empty body carries no length but still means no overrides.
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set(UserHeader, "owner")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	gold := []settings.ShipOre{settings.OreGold}
	rec = env.do(t, http.MethodPost, "/api/sessions", "owner",
		CreateSessionRequest{Settings: settings.Destructured{ShipOreDefaults: gold}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, gold, decode[SessionSettingsResponse](t, rec).Effective.ShipOreDefaults)

	req = httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{"))
	req.Header.Set(UserHeader, "owner")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionSettingsAndLocks(t *testing.T) {
	env := newTestEnv(t, true)

	ferron := settings.MethodFerron
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/users/owner/settings", "owner",
		settings.Destructured{WorkOrderDefaults: settings.WorkOrderGroup{Method: &ferron}}).Code)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/sessions", "", nil).Code)

	rec := env.do(t, http.MethodPost, "/api/sessions", "owner", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decode[SessionSettingsResponse](t, rec)
	assert.Equal(t, settings.MethodFerron, *sess.Effective.WorkOrderDefaults.Method, "profile defaults captured")
	require.NotNil(t, sess.Nested.WorkOrderDefaults)

	base := "/api/sessions/" + sess.ID

	// Only the owner can lock.
	lock := LockRequest{Field: settings.FieldRefinery, Locked: true}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, base+"/locks", "crew", lock).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/locks", "owner",
		LockRequest{Field: "bogus", Locked: true}).Code)
	rec = env.do(t, http.MethodPost, base+"/locks", "owner", lock)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[SessionSettingsResponse](t, rec).Effective.WorkOrderDefaults.LockedFields.Has(settings.FieldRefinery))

	// Crew edits to locked fields are rejected, unlocked ones apply.
	refinery := settings.Refinery("HURL1")
	refined := false
	draft := settings.WorkOrderDraft{Refinery: &refinery, IsRefined: &refined}
	res := decode[ResolveResponse](t, env.do(t, http.MethodPost, base+"/workorders/resolve", "crew", draft))
	assert.Equal(t, []settings.LockableField{settings.FieldRefinery}, res.Rejected)
	assert.False(t, *res.WorkOrder.IsRefined)
	assert.NotEqual(t, refinery, *res.WorkOrder.Refinery)

	res = decode[ResolveResponse](t, env.do(t, http.MethodPost, base+"/workorders/resolve", "owner", draft))
	assert.Empty(t, res.Rejected)
	assert.Equal(t, refinery, *res.WorkOrder.Refinery)

	// Unlock through a full replace of the session layer.
	rec = env.do(t, http.MethodGet, base+"/settings", "", nil)
	current := decode[SessionSettingsResponse](t, rec)
	replaced := settings.Unlock(current.Session, settings.FieldRefinery)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, base+"/settings", "crew", replaced).Code)
	rec = env.do(t, http.MethodPut, base+"/settings", "owner", replaced)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[SessionSettingsResponse](t, rec).Effective.WorkOrderDefaults.LockedFields.Has(settings.FieldRefinery))

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sessions/nope/settings", "", nil).Code)
	assert.Equal(t, []string{EventSessionSettingsUpdated, EventSessionSettingsUpdated}, env.drain())
}

func TestResolveWithSale(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodPost, "/api/sessions", "owner", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[SessionSettingsResponse](t, rec)

	req := ResolveRequest{
		WorkOrderDraft: settings.WorkOrderDraft{CrewShares: []settings.CrewShareTemplate{
			{PayeeScName: "a", ShareType: settings.ShareShare, Share: 1},
			{PayeeScName: "b", ShareType: settings.ShareShare, Share: 1},
		}},
		Sale: &Sale{
			GrossValue:  1100,
			Expenses:    []workorder.Expense{{Name: "fuel", Amount: 100}},
			CargoSCU:    16,
			CapacitySCU: 32,
		},
	}
	res := decode[ResolveResponse](t, env.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/workorders/resolve", "owner", req))
	require.NotNil(t, res.Shares)
	assert.InDelta(t, 1000, res.Shares.Shareable, 1e-9)
	assert.InDelta(t, 0.5, res.Shares.PercentFull, 1e-9)
	require.Len(t, res.Shares.Payouts, 2)
	assert.InDelta(t, 500, res.Shares.Payouts[0].Amount, 1e-9)
	assert.InDelta(t, 2.5, res.Shares.Payouts[0].TransferFee, 1e-9, "system default includes the transfer fee")

	// Without a sale only the draft is resolved.
	req.Sale = nil
	res = decode[ResolveResponse](t, env.do(t, http.MethodPost, "/api/sessions/"+sess.ID+"/workorders/resolve", "owner", req))
	assert.Nil(t, res.Shares)
}

func TestWorkOrderShares(t *testing.T) {
	env := newTestEnv(t, true)
	order := workorder.Order{
		SellerScName: "seller",
		GrossValue:   1000,
		Shares: []settings.CrewShareTemplate{
			{PayeeScName: "a", ShareType: settings.ShareShare, Share: 1},
			{PayeeScName: "b", ShareType: settings.ShareShare, Share: 1},
		},
	}
	sum := decode[workorder.Summary](t, env.do(t, http.MethodPost, "/api/workorders/shares", "", order))
	require.Len(t, sum.Payouts, 2)
	assert.InDelta(t, 500, sum.Payouts[0].Amount, 1e-9)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodOptions, "/api/loadouts/abc", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), UserHeader)
}
