/*
Package loadout
File: models.go
Description:
    Mining loadout shapes and the derived stat record computed from them.
    Loadouts arrive from API requests, YAML files or the store; they are
    treated as immutable snapshots by every function in this package.
*/

package loadout

import "github.com/everforgeworks/regolith/internal/catalog"

// ActiveLaser is one turret position.
//
// Invariants (enforced by Sanitize, tolerated by Calculate):
//   - len(Modules) == len(ModulesActive) == the laser's slot count
//   - a module is only active while its laser is active
//   - passive modules are never flagged active
type ActiveLaser struct {
	Laser         catalog.LaserCode    `json:"laser,omitempty" yaml:"laser,omitempty"` // Empty = no head mounted
	LaserActive   bool                 `json:"laserActive" yaml:"laser_active"`
	Modules       []catalog.ModuleCode `json:"modules" yaml:"modules"` // Empty code = unfilled slot
	ModulesActive []bool               `json:"modulesActive" yaml:"modules_active"`
}

// MiningLoadout is a ship's turret configuration plus spare inventory.
type MiningLoadout struct {
	ID                string               `json:"id,omitempty" yaml:"id,omitempty"`
	Owner             string               `json:"owner,omitempty" yaml:"owner,omitempty"`
	Name              string               `json:"name" yaml:"name"`
	Ship              catalog.ShipType     `json:"ship" yaml:"ship"`
	ActiveLasers      []ActiveLaser        `json:"activeLasers" yaml:"active_lasers"`
	InventoryLasers   []catalog.LaserCode  `json:"inventoryLasers" yaml:"inventory_lasers"`
	InventoryModules  []catalog.ModuleCode `json:"inventoryModules" yaml:"inventory_modules"`
	InventoryGadgets  []catalog.GadgetCode `json:"inventoryGadgets" yaml:"inventory_gadgets"`
	ActiveGadgetIndex *int                 `json:"activeGadgetIndex,omitempty" yaml:"active_gadget_index,omitempty"` // Index into InventoryGadgets
}

// Clone returns a deep copy that shares no slices with l.
func (l MiningLoadout) Clone() MiningLoadout {
	out := l
	if l.ActiveLasers != nil {
		out.ActiveLasers = make([]ActiveLaser, len(l.ActiveLasers))
		for i, al := range l.ActiveLasers {
			al.Modules = cloneSlice(al.Modules)
			al.ModulesActive = cloneSlice(al.ModulesActive)
			out.ActiveLasers[i] = al
		}
	}
	out.InventoryLasers = cloneSlice(l.InventoryLasers)
	out.InventoryModules = cloneSlice(l.InventoryModules)
	out.InventoryGadgets = cloneSlice(l.InventoryGadgets)
	if l.ActiveGadgetIndex != nil {
		idx := *l.ActiveGadgetIndex
		out.ActiveGadgetIndex = &idx
	}
	return out
}

// ActiveGadget returns the selected inventory gadget, if the index points at one.
func (l MiningLoadout) ActiveGadget() (catalog.GadgetCode, bool) {
	if l.ActiveGadgetIndex == nil {
		return "", false
	}
	idx := *l.ActiveGadgetIndex
	if idx < 0 || idx >= len(l.InventoryGadgets) || l.InventoryGadgets[idx] == "" {
		return "", false
	}
	return l.InventoryGadgets[idx], true
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// AllStats is the derived stat record for a loadout. Never persisted.
type AllStats struct {
	MinPower            float64 `json:"minPower" yaml:"min_power"`
	MaxPower            float64 `json:"maxPower" yaml:"max_power"`
	ExtrPower           float64 `json:"extrPower" yaml:"extr_power"`
	OptimumRange        float64 `json:"optimumRange" yaml:"optimum_range"`
	MaxRange            float64 `json:"maxRange" yaml:"max_range"`
	Resistance          float64 `json:"resistance" yaml:"resistance"`
	Instability         float64 `json:"instability" yaml:"instability"`
	OverchargeRate      float64 `json:"overchargeRate" yaml:"overcharge_rate"`
	ClusterMod          float64 `json:"clusterMod" yaml:"cluster_mod"`
	InertMaterials      float64 `json:"inertMaterials" yaml:"inert_materials"`
	OptimalChargeRate   float64 `json:"optimalChargeRate" yaml:"optimal_charge_rate"`
	OptimalChargeWindow float64 `json:"optimalChargeWindow" yaml:"optimal_charge_window"`
	ShatterDamage       float64 `json:"shatterDamage" yaml:"shatter_damage"`
	PowerMod            float64 `json:"powerMod" yaml:"power_mod"`         // Effective power multiplier, 1 = unmodified
	ExtrPowerMod        float64 `json:"extrPowerMod" yaml:"extr_power_mod"` // Effective extraction multiplier, 1 = unmodified
	Price               float64 `json:"price" yaml:"price"`
	PriceNoStock        float64 `json:"priceNoStock" yaml:"price_no_stock"`
}

// field returns a pointer to the struct field backing key, or nil for unknown keys.
func (s *AllStats) field(key catalog.StatKey) *float64 {
	switch key {
	case catalog.StatMinPower:
		return &s.MinPower
	case catalog.StatMaxPower:
		return &s.MaxPower
	case catalog.StatExtrPower:
		return &s.ExtrPower
	case catalog.StatOptimumRange:
		return &s.OptimumRange
	case catalog.StatMaxRange:
		return &s.MaxRange
	case catalog.StatResistance:
		return &s.Resistance
	case catalog.StatInstability:
		return &s.Instability
	case catalog.StatOverchargeRate:
		return &s.OverchargeRate
	case catalog.StatClusterMod:
		return &s.ClusterMod
	case catalog.StatInertMaterials:
		return &s.InertMaterials
	case catalog.StatOptimalChargeRate:
		return &s.OptimalChargeRate
	case catalog.StatOptimalChargeWindow:
		return &s.OptimalChargeWindow
	case catalog.StatShatterDamage:
		return &s.ShatterDamage
	case catalog.StatPowerMod:
		return &s.PowerMod
	case catalog.StatExtrPowerMod:
		return &s.ExtrPowerMod
	case catalog.StatPrice:
		return &s.Price
	case catalog.StatPriceNoStock:
		return &s.PriceNoStock
	}
	return nil
}

// Get returns the value for key; unknown keys read as 0.
func (s AllStats) Get(key catalog.StatKey) float64 {
	if f := s.field(key); f != nil {
		return *f
	}
	return 0
}
