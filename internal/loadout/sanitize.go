/*
Package loadout
File: sanitize.go
Description:
    Builds stock loadouts and repairs loadouts that break the slot,
    size or toggle rules of the current catalog.
*/

package loadout

import "github.com/everforgeworks/regolith/internal/catalog"

// New returns a stock loadout for ship: every turret carries the ship's default
// head, switched on, with empty module slots. Unknown ships fall back to the Prospector.
func New(cat *catalog.Catalog, ship catalog.ShipType, name string) MiningLoadout {
	l := MiningLoadout{
		Name:             name,
		Ship:             ship,
		InventoryLasers:  []catalog.LaserCode{},
		InventoryModules: []catalog.ModuleCode{},
		InventoryGadgets: []catalog.GadgetCode{},
	}
	if cat == nil {
		return l
	}
	s, ok := cat.Ship(ship)
	if !ok {
		s, ok = cat.Ship(catalog.ShipProspector)
		if !ok {
			return l
		}
		l.Ship = s.Type
	}
	for i := 0; i < s.Turrets; i++ {
		l.ActiveLasers = append(l.ActiveLasers, ActiveLaser{Laser: s.StockLaser, LaserActive: true})
	}
	return Sanitize(cat, l)
}

// Sanitize returns a copy of l that satisfies the loadout invariants:
//   - one ActiveLaser per ship turret
//   - heads that are unknown or the wrong size are removed
//   - module and module-active lists match the head's slot count
//   - only active-category modules on active heads keep their toggle
//   - inventory holds known codes only and the gadget selection follows its gadget
//
// The input is never modified.
func Sanitize(cat *catalog.Catalog, l MiningLoadout) MiningLoadout {
	out := l.Clone()
	if cat == nil {
		return out
	}

	ship, ok := cat.Ship(out.Ship)
	if !ok {
		ship, ok = cat.Ship(catalog.ShipProspector)
		if !ok {
			return out
		}
		out.Ship = ship.Type
	}

	// 1. Turret count follows the hull
	lasers := make([]ActiveLaser, ship.Turrets)
	for i := range lasers {
		if i < len(out.ActiveLasers) {
			lasers[i] = sanitizeTurret(cat, ship, out.ActiveLasers[i])
		} else {
			lasers[i] = ActiveLaser{LaserActive: true, Modules: []catalog.ModuleCode{}, ModulesActive: []bool{}}
		}
	}
	out.ActiveLasers = lasers

	// 2. Inventory keeps only codes the catalog still knows
	selected, hasGadget := out.ActiveGadget()
	out.InventoryLasers = keepKnown(out.InventoryLasers, func(c catalog.LaserCode) bool {
		_, ok := cat.Laser(c)
		return ok
	})
	out.InventoryModules = keepKnown(out.InventoryModules, func(c catalog.ModuleCode) bool {
		_, ok := cat.Module(c)
		return ok
	})
	out.InventoryGadgets = keepKnown(out.InventoryGadgets, func(c catalog.GadgetCode) bool {
		_, ok := cat.Gadget(c)
		return ok
	})

	// 3. Re-point the gadget selection after filtering shifted the indices
	out.ActiveGadgetIndex = nil
	if hasGadget {
		origIdx := *l.ActiveGadgetIndex
		// count surviving entries before the original index to find the new position
		newIdx := 0
		for i := 0; i < origIdx; i++ {
			if _, ok := cat.Gadget(l.InventoryGadgets[i]); ok {
				newIdx++
			}
		}
		if newIdx < len(out.InventoryGadgets) && out.InventoryGadgets[newIdx] == selected {
			if _, ok := cat.Gadget(selected); ok {
				out.ActiveGadgetIndex = &newIdx
			}
		}
	}
	return out
}

func sanitizeTurret(cat *catalog.Catalog, ship catalog.Ship, al ActiveLaser) ActiveLaser {
	laser, ok := cat.Laser(al.Laser)
	if !ok || laser.Size != ship.LaserSize {
		return ActiveLaser{LaserActive: al.LaserActive, Modules: []catalog.ModuleCode{}, ModulesActive: []bool{}}
	}

	out := ActiveLaser{
		Laser:         laser.Code,
		LaserActive:   al.LaserActive,
		Modules:       make([]catalog.ModuleCode, laser.Slots),
		ModulesActive: make([]bool, laser.Slots),
	}
	for j := 0; j < laser.Slots; j++ {
		if j >= len(al.Modules) {
			continue
		}
		mod, ok := cat.Module(al.Modules[j])
		if !ok {
			continue
		}
		out.Modules[j] = mod.Code
		wantActive := j < len(al.ModulesActive) && al.ModulesActive[j]
		out.ModulesActive[j] = wantActive && al.LaserActive && mod.Category.Togglable()
	}
	return out
}

func keepKnown[T ~string](in []T, known func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, c := range in {
		if c != "" && known(c) {
			out = append(out, c)
		}
	}
	return out
}
