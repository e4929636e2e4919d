/*
Package loadout
File: calculator.go
Description:
    Binds the pure loadout functions to a catalog store. Every method
    reports ok=false instead of blocking when no catalog is loaded.
*/

package loadout

import "github.com/everforgeworks/regolith/internal/catalog"

// Calculator binds the pure functions of this package to a catalog store.
// Every method reports ok=false instead of blocking when the catalog is not loaded.
type Calculator struct {
	catalog *catalog.Store
}

// NewCalculator returns a Calculator reading from store.
func NewCalculator(store *catalog.Store) *Calculator {
	return &Calculator{catalog: store}
}

// Ready reports whether the backing catalog is loaded.
func (c *Calculator) Ready() bool {
	return c.catalog.Ready()
}

// Stats computes AllStats for l.
func (c *Calculator) Stats(l MiningLoadout) (AllStats, bool) {
	cat, ok := c.catalog.Snapshot()
	if !ok {
		return AllStats{}, false
	}
	return Calculate(cat, l), true
}

// Compare computes a hover preview comparison.
func (c *Calculator) Compare(current, hover MiningLoadout) (Comparison, bool) {
	cat, ok := c.catalog.Snapshot()
	if !ok {
		return Comparison{Deltas: []StatDelta{}}, false
	}
	return Compare(cat, current, hover), true
}

// Sanitize normalizes l against the current catalog.
func (c *Calculator) Sanitize(l MiningLoadout) (MiningLoadout, bool) {
	cat, ok := c.catalog.Snapshot()
	if !ok {
		return l.Clone(), false
	}
	return Sanitize(cat, l), true
}

// New returns a stock loadout for ship.
func (c *Calculator) New(ship catalog.ShipType, name string) (MiningLoadout, bool) {
	cat, ok := c.catalog.Snapshot()
	if !ok {
		return MiningLoadout{Name: name, Ship: ship}, false
	}
	return New(cat, ship, name), true
}
