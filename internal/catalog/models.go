/*
Package catalog
File: models.go
Description:
    Defines the equipment reference data used by the loadout planner.
    This file serves as the "schema" for the catalog, mapping directly to the
    YAML catalog files and the JSON API responses.

    No logic is performed here beyond trivial accessors; catalog entries are
    immutable once loaded.
*/

package catalog

// LaserCode identifies a mining laser head (e.g., "ArborMH1").
type LaserCode string

// ModuleCode identifies a laser module (e.g., "Brandt").
type ModuleCode string

// GadgetCode identifies a handheld mining gadget (e.g., "Sabir").
type GadgetCode string

// ShipType identifies a mining ship hull.
type ShipType string

const (
	ShipProspector ShipType = "PROSPECTOR"
	ShipMole       ShipType = "MOLE"
)

// Category tags an entry by how it participates in a loadout.
type Category string

const (
	CategoryActive  Category = "A" // Active module: only applies while toggled on
	CategoryPassive Category = "P" // Passive module: always applies while its laser is on
	CategoryGadget  Category = "G" // Gadget: applies while it is the selected gadget
	CategoryLaser   Category = "L" // Laser head
)

// Togglable reports whether the active flag means anything for this category.
func (c Category) Togglable() bool {
	return c == CategoryActive || c == CategoryGadget
}

// StatKey names one field of the derived stat record.
type StatKey string

const (
	StatMinPower            StatKey = "minPower"
	StatMaxPower            StatKey = "maxPower"
	StatExtrPower           StatKey = "extrPower"
	StatOptimumRange        StatKey = "optimumRange"
	StatMaxRange            StatKey = "maxRange"
	StatResistance          StatKey = "resistance"
	StatInstability         StatKey = "instability"
	StatOverchargeRate      StatKey = "overchargeRate"
	StatClusterMod          StatKey = "clusterMod"
	StatInertMaterials      StatKey = "inertMaterials"
	StatOptimalChargeRate   StatKey = "optimalChargeRate"
	StatOptimalChargeWindow StatKey = "optimalChargeWindow"
	StatShatterDamage       StatKey = "shatterDamage"
	StatPowerMod            StatKey = "powerMod"
	StatExtrPowerMod        StatKey = "extrPowerMod"
	StatPrice               StatKey = "price"
	StatPriceNoStock        StatKey = "priceNoStock"
)

// Stats is a modifier table keyed by stat. Missing keys contribute nothing.
type Stats map[StatKey]float64

// Get returns the value for key, or fallback when the table does not carry it.
func (s Stats) Get(key StatKey, fallback float64) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Prices maps a vendor key (e.g., "area18") to the listed price in aUEC.
type Prices map[string]float64

// Min returns the cheapest nonzero listing, or 0 when nobody sells the item.
func (p Prices) Min() float64 {
	lowest := 0.0
	for _, v := range p {
		if v <= 0 {
			continue
		}
		if lowest == 0 || v < lowest {
			lowest = v
		}
	}
	return lowest
}

// Laser is a mining head mounted on a turret.
type Laser struct {
	Code   LaserCode `yaml:"code" json:"code"`     // Unique ID (e.g., "ArborMH1")
	Name   string    `yaml:"name" json:"name"`     // Display name
	Size   int       `yaml:"size" json:"size"`     // Turret size class; must match the ship
	Slots  int       `yaml:"slots" json:"slots"`   // Module slots (0-3)
	Prices Prices    `yaml:"prices" json:"prices"` // Vendor listings
	Stats  Stats     `yaml:"stats" json:"stats"`   // Base power/range and percentage modifiers
}

// Module is an attachment that slots into a laser head.
type Module struct {
	Code     ModuleCode `yaml:"code" json:"code"`
	Name     string     `yaml:"name" json:"name"`
	Category Category   `yaml:"category" json:"category"` // A or P
	Prices   Prices     `yaml:"prices" json:"prices"`
	Stats    Stats      `yaml:"stats" json:"stats"` // powerMod/extrPowerMod are multipliers, the rest fractions
}

// Gadget is a consumable placed on the rock; at most one is active per loadout.
type Gadget struct {
	Code   GadgetCode `yaml:"code" json:"code"`
	Name   string     `yaml:"name" json:"name"`
	Prices Prices     `yaml:"prices" json:"prices"`
	Stats  Stats      `yaml:"stats" json:"stats"`
}

// Ship describes the turret layout of a mining hull.
type Ship struct {
	Type       ShipType  `yaml:"type" json:"type"`
	Name       string    `yaml:"name" json:"name"`
	Turrets    int       `yaml:"turrets" json:"turrets"`         // 1 for Prospector, 3 for Mole
	LaserSize  int       `yaml:"laser_size" json:"laser_size"`   // Size class every turret accepts
	StockLaser LaserCode `yaml:"stock_laser" json:"stock_laser"` // Ship-default head, excluded from priceNoStock
}

// File is the root structure of a catalog YAML document.
type File struct {
	Version string   `yaml:"version" json:"version"`
	Ships   []Ship   `yaml:"ships" json:"ships"`
	Lasers  []Laser  `yaml:"lasers" json:"lasers"`
	Modules []Module `yaml:"modules" json:"modules"`
	Gadgets []Gadget `yaml:"gadgets" json:"gadgets"`
}
