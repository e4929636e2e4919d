/*
Package catalog
File: catalog.go
Description:
    Builds the immutable lookup tables from a parsed catalog file and exposes
    one typed accessor per equipment category. Lookups of unknown codes report
    ok=false; callers treat that as "no item".
*/

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Catalog is a read-only snapshot of the equipment tables.
type Catalog struct {
	version string
	ships   map[ShipType]Ship
	lasers  map[LaserCode]Laser
	modules map[ModuleCode]Module
	gadgets map[GadgetCode]Gadget
}

// Version returns the data version string from the source file.
func (c *Catalog) Version() string { return c.version }

// Ship looks up a hull by type.
func (c *Catalog) Ship(t ShipType) (Ship, bool) {
	s, ok := c.ships[t]
	return s, ok
}

// Laser looks up a laser head by code.
func (c *Catalog) Laser(code LaserCode) (Laser, bool) {
	l, ok := c.lasers[code]
	return l, ok
}

// Module looks up a laser module by code.
func (c *Catalog) Module(code ModuleCode) (Module, bool) {
	m, ok := c.modules[code]
	return m, ok
}

// Gadget looks up a gadget by code.
func (c *Catalog) Gadget(code GadgetCode) (Gadget, bool) {
	g, ok := c.gadgets[code]
	return g, ok
}

// LasersForShip returns the lasers that fit the ship's turrets, sorted by code.
// An unknown ship yields no lasers.
func (c *Catalog) LasersForShip(t ShipType) []Laser {
	ship, ok := c.ships[t]
	if !ok {
		return nil
	}
	out := []Laser{}
	for _, l := range c.lasers {
		if l.Size == ship.LaserSize {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// File rebuilds the serializable form of the snapshot with entries sorted by code.
func (c *Catalog) File() File {
	f := File{Version: c.version}
	for _, s := range c.ships {
		f.Ships = append(f.Ships, s)
	}
	for _, l := range c.lasers {
		f.Lasers = append(f.Lasers, l)
	}
	for _, m := range c.modules {
		f.Modules = append(f.Modules, m)
	}
	for _, g := range c.gadgets {
		f.Gadgets = append(f.Gadgets, g)
	}
	sort.Slice(f.Ships, func(i, j int) bool { return f.Ships[i].Type < f.Ships[j].Type })
	sort.Slice(f.Lasers, func(i, j int) bool { return f.Lasers[i].Code < f.Lasers[j].Code })
	sort.Slice(f.Modules, func(i, j int) bool { return f.Modules[i].Code < f.Modules[j].Code })
	sort.Slice(f.Gadgets, func(i, j int) bool { return f.Gadgets[i].Code < f.Gadgets[j].Code })
	return f
}

// New validates a catalog file and indexes it.
func New(f File) (*Catalog, error) {
	c := &Catalog{
		version: f.Version,
		ships:   make(map[ShipType]Ship, len(f.Ships)),
		lasers:  make(map[LaserCode]Laser, len(f.Lasers)),
		modules: make(map[ModuleCode]Module, len(f.Modules)),
		gadgets: make(map[GadgetCode]Gadget, len(f.Gadgets)),
	}

	// 1. Lasers first, ships reference them as stock heads
	for _, l := range f.Lasers {
		if l.Code == "" {
			return nil, fmt.Errorf("laser %q: empty code", l.Name)
		}
		if l.Slots < 0 || l.Slots > 3 {
			return nil, fmt.Errorf("laser %s: slots %d out of range 0-3", l.Code, l.Slots)
		}
		if _, dup := c.lasers[l.Code]; dup {
			return nil, fmt.Errorf("laser %s: duplicate code", l.Code)
		}
		c.lasers[l.Code] = l
	}

	// 2. Modules must be active or passive
	for _, m := range f.Modules {
		if m.Code == "" {
			return nil, fmt.Errorf("module %q: empty code", m.Name)
		}
		if m.Category != CategoryActive && m.Category != CategoryPassive {
			return nil, fmt.Errorf("module %s: category %q is not A or P", m.Code, m.Category)
		}
		if _, dup := c.modules[m.Code]; dup {
			return nil, fmt.Errorf("module %s: duplicate code", m.Code)
		}
		c.modules[m.Code] = m
	}

	for _, g := range f.Gadgets {
		if g.Code == "" {
			return nil, fmt.Errorf("gadget %q: empty code", g.Name)
		}
		if _, dup := c.gadgets[g.Code]; dup {
			return nil, fmt.Errorf("gadget %s: duplicate code", g.Code)
		}
		c.gadgets[g.Code] = g
	}

	// 3. Ships
	for _, s := range f.Ships {
		if s.Type == "" {
			return nil, fmt.Errorf("ship %q: empty type", s.Name)
		}
		if s.Turrets < 1 || s.Turrets > 3 {
			return nil, fmt.Errorf("ship %s: turrets %d out of range 1-3", s.Type, s.Turrets)
		}
		if s.StockLaser != "" {
			if _, ok := c.lasers[s.StockLaser]; !ok {
				return nil, fmt.Errorf("ship %s: unknown stock laser %s", s.Type, s.StockLaser)
			}
		}
		c.ships[s.Type] = s
	}

	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f)
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded catalog. It panics only if the embedded data is broken.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}
