package loadout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/regolith/internal/catalog"
)

func TestNewStockLoadout(t *testing.T) {
	cat := catalog.Default()

	m := New(cat, catalog.ShipMole, "stock mole")
	require.Len(t, m.ActiveLasers, 3)
	for _, al := range m.ActiveLasers {
		assert.Equal(t, catalog.LaserCode("ArborMH2"), al.Laser)
		assert.True(t, al.LaserActive)
		assert.Len(t, al.Modules, 2)
		assert.Len(t, al.ModulesActive, 2)
	}
	stats := Calculate(cat, m)
	assert.InDelta(t, 3*2400, stats.MaxPower, tol)
	assert.Zero(t, stats.PriceNoStock)

	p := New(cat, "HULL_C", "fallback")
	assert.Equal(t, catalog.ShipProspector, p.Ship)
	require.Len(t, p.ActiveLasers, 1)
}

func TestSanitize(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name  string
		in    MiningLoadout
		check func(t *testing.T, out MiningLoadout)
	}{
		{
			name: "pads mole turrets",
			in:   mole("HelixII"),
			check: func(t *testing.T, out MiningLoadout) {
				require.Len(t, out.ActiveLasers, 3)
				assert.Equal(t, catalog.LaserCode(""), out.ActiveLasers[1].Laser)
				assert.Len(t, out.ActiveLasers[0].Modules, 3)
			},
		},
		{
			name: "drops wrong-size head",
			in:   prospector("HelixII", []catalog.ModuleCode{"Brandt"}, []bool{true}),
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, catalog.LaserCode(""), out.ActiveLasers[0].Laser)
				assert.Empty(t, out.ActiveLasers[0].Modules)
			},
		},
		{
			name: "trims modules to slot count",
			in:   prospector("ArborMH1", []catalog.ModuleCode{"Brandt", "Rime"}, []bool{true, true, true}),
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, []catalog.ModuleCode{"Brandt"}, out.ActiveLasers[0].Modules)
				assert.Equal(t, []bool{true}, out.ActiveLasers[0].ModulesActive)
			},
		},
		{
			name: "passive modules never active",
			in:   prospector("HelixI", []catalog.ModuleCode{"RiegerC3", "Surge"}, []bool{true, true}),
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, []bool{false, true}, out.ActiveLasers[0].ModulesActive)
			},
		},
		{
			name: "inactive laser clears module toggles",
			in: MiningLoadout{Ship: catalog.ShipProspector, ActiveLasers: []ActiveLaser{
				{Laser: "HelixI", LaserActive: false, Modules: []catalog.ModuleCode{"Surge", "Brandt"}, ModulesActive: []bool{true, true}},
			}},
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, []bool{false, false}, out.ActiveLasers[0].ModulesActive)
				assert.Equal(t, []catalog.ModuleCode{"Surge", "Brandt"}, out.ActiveLasers[0].Modules)
			},
		},
		{
			name: "unknown module becomes empty slot",
			in:   prospector("HelixI", []catalog.ModuleCode{"Ghost", "Rime"}, []bool{true, true}),
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, []catalog.ModuleCode{"", "Rime"}, out.ActiveLasers[0].Modules)
				assert.Equal(t, []bool{false, true}, out.ActiveLasers[0].ModulesActive)
			},
		},
		{
			name: "unknown ship falls back to prospector",
			in:   MiningLoadout{Ship: "ORION"},
			check: func(t *testing.T, out MiningLoadout) {
				assert.Equal(t, catalog.ShipProspector, out.Ship)
				assert.Len(t, out.ActiveLasers, 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.in.Clone()
			out := Sanitize(cat, tt.in)
			tt.check(t, out)
			if diff := cmp.Diff(before, tt.in); diff != "" {
				t.Fatalf("input mutated:\n%s", diff)
			}
			assert.Equal(t, out, Sanitize(cat, out), "sanitize is idempotent")
		})
	}
}

func TestSanitizeInventoryAndGadgetIndex(t *testing.T) {
	cat := catalog.Default()
	idx := 2
	l := prospector("ArborMH1", nil, nil)
	l.InventoryLasers = []catalog.LaserCode{"HofstedeS1", "", "Retired"}
	l.InventoryModules = []catalog.ModuleCode{"Ghost", "Rime"}
	l.InventoryGadgets = []catalog.GadgetCode{"Ghost", "Sabir", "BoreMax"}
	l.ActiveGadgetIndex = &idx

	out := Sanitize(cat, l)
	assert.Equal(t, []catalog.LaserCode{"HofstedeS1"}, out.InventoryLasers)
	assert.Equal(t, []catalog.ModuleCode{"Rime"}, out.InventoryModules)
	assert.Equal(t, []catalog.GadgetCode{"Sabir", "BoreMax"}, out.InventoryGadgets)
	require.NotNil(t, out.ActiveGadgetIndex)
	assert.Equal(t, 1, *out.ActiveGadgetIndex)
	g, ok := out.ActiveGadget()
	require.True(t, ok)
	assert.Equal(t, catalog.GadgetCode("BoreMax"), g)

	// Selecting a retired gadget clears the selection.
	zero := 0
	l.ActiveGadgetIndex = &zero
	assert.Nil(t, Sanitize(cat, l).ActiveGadgetIndex)

	bad := -1
	l.ActiveGadgetIndex = &bad
	assert.Nil(t, Sanitize(cat, l).ActiveGadgetIndex)
}

func TestCloneIsDeep(t *testing.T) {
	idx := 0
	l := prospector("HelixI", []catalog.ModuleCode{"Rime", ""}, []bool{true, false})
	l.InventoryGadgets = []catalog.GadgetCode{"Sabir"}
	l.ActiveGadgetIndex = &idx

	c := l.Clone()
	c.ActiveLasers[0].Modules[0] = "Surge"
	c.ActiveLasers[0].ModulesActive[1] = true
	c.InventoryGadgets[0] = "OptiMax"
	*c.ActiveGadgetIndex = 3

	assert.Equal(t, catalog.ModuleCode("Rime"), l.ActiveLasers[0].Modules[0])
	assert.False(t, l.ActiveLasers[0].ModulesActive[1])
	assert.Equal(t, catalog.GadgetCode("Sabir"), l.InventoryGadgets[0])
	assert.Equal(t, 0, *l.ActiveGadgetIndex)
}
