package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkOrder(t *testing.T) {
	defaults := Destructured{
		WorkOrderDefaults: WorkOrderGroup{
			IsRefined:    ptr(true),
			Refinery:     ptr(Refinery("ARCL1")),
			Method:       ptr(MethodDinyx),
			LockedFields: NewFieldSet(FieldRefinery, FieldShipOres),
		},
		CrewSharesDefaults: []CrewShareTemplate{{PayeeScName: "org", ShareType: SharePercent, Share: 0.1}},
		ShipOreDefaults:    []ShipOre{OreQuantanium},
	}
	draft := WorkOrderDraft{
		IsRefined: ptr(false),
		Refinery:  ptr(Refinery("HURL1")),
		ShipOres:  []ShipOre{OreGold},
	}

	t.Run("crew member", func(t *testing.T) {
		got, rejected := ResolveWorkOrder(defaults, draft, false)
		assert.Equal(t, []LockableField{FieldRefinery, FieldShipOres}, rejected)
		assert.False(t, *got.IsRefined, "unlocked edits apply")
		assert.Equal(t, Refinery("ARCL1"), *got.Refinery)
		assert.Equal(t, []ShipOre{OreQuantanium}, got.ShipOres)
		assert.Equal(t, MethodDinyx, *got.Method, "absent fields take the default")
		require.Len(t, got.CrewShares, 1)
	})

	t.Run("owner", func(t *testing.T) {
		got, rejected := ResolveWorkOrder(defaults, draft, true)
		assert.Empty(t, rejected)
		assert.Equal(t, Refinery("HURL1"), *got.Refinery)
		assert.Equal(t, []ShipOre{OreGold}, got.ShipOres)
	})

	t.Run("no aliasing", func(t *testing.T) {
		got, _ := ResolveWorkOrder(defaults, WorkOrderDraft{}, false)
		got.CrewShares[0].Share = 0.9
		*got.Method = MethodFerron
		assert.Equal(t, 0.1, defaults.CrewSharesDefaults[0].Share)
		assert.Equal(t, MethodDinyx, *defaults.WorkOrderDefaults.Method)
	})
}
