/*
Package loadout
File: stats.go
Description:
    The stat aggregator. Composes catalog modifier tables for a loadout into
    a single AllStats record. Pure: no I/O, no shared state, the input
    loadout is never modified.
*/

package loadout

import (
	"math"

	"github.com/everforgeworks/regolith/internal/catalog"
)

// maxTurrets caps iteration when the ship is unknown to the catalog.
const maxTurrets = 3

// Calculate derives AllStats for l. Unknown codes contribute nothing and a
// nil catalog yields the zero record.
func Calculate(cat *catalog.Catalog, l MiningLoadout) AllStats {
	var stats AllStats
	if cat == nil {
		return stats
	}

	turrets := maxTurrets
	var stock catalog.LaserCode
	if ship, ok := cat.Ship(l.Ship); ok {
		turrets = ship.Turrets
		stock = ship.StockLaser
	}

	// Running products of (1 + x) for every fraction stat
	fractions := make(map[catalog.StatKey]float64, len(fractionKeys))
	for _, k := range fractionKeys {
		fractions[k] = 1
	}
	compose := func(mods catalog.Stats) {
		for _, k := range fractionKeys {
			if v, ok := mods[k]; ok {
				fractions[k] *= 1 + v
			}
		}
	}

	var (
		mounted            int
		optimumSum, maxSum float64
		baseMaxPower       float64
		baseExtrPower      float64
	)

	for i, al := range l.ActiveLasers {
		if i >= turrets {
			break
		}

		// 1. Resolve the head; an unknown code leaves the turret empty
		laser, ok := cat.Laser(al.Laser)
		if !ok {
			continue
		}
		mounted++
		optimumSum += laser.Stats.Get(catalog.StatOptimumRange, 0)
		maxSum += laser.Stats.Get(catalog.StatMaxRange, 0)

		laserPrice := laser.Prices.Min()
		stats.Price += laserPrice
		if laser.Code != stock {
			stats.PriceNoStock += laserPrice
		}

		// 2. Walk the module slots the head actually has
		powerMult, extrMult := 1.0, 1.0
		for j, code := range al.Modules {
			if j >= laser.Slots {
				break
			}
			mod, ok := cat.Module(code)
			if !ok {
				continue
			}
			modPrice := mod.Prices.Min()
			stats.Price += modPrice
			stats.PriceNoStock += modPrice

			if !moduleApplies(mod, al, j) {
				continue
			}
			powerMult *= mod.Stats.Get(catalog.StatPowerMod, 1)
			extrMult *= mod.Stats.Get(catalog.StatExtrPowerMod, 1)
			compose(mod.Stats)
		}

		if !al.LaserActive {
			continue
		}

		// 3. Active heads add their power and their own modifiers
		stats.MinPower += laser.Stats.Get(catalog.StatMinPower, 0) * powerMult
		stats.MaxPower += laser.Stats.Get(catalog.StatMaxPower, 0) * powerMult
		stats.ExtrPower += laser.Stats.Get(catalog.StatExtrPower, 0) * extrMult
		baseMaxPower += laser.Stats.Get(catalog.StatMaxPower, 0)
		baseExtrPower += laser.Stats.Get(catalog.StatExtrPower, 0)
		compose(laser.Stats)
	}

	// 4. The selected gadget modifies the rock, independent of turrets
	if code, ok := l.ActiveGadget(); ok {
		if g, ok := cat.Gadget(code); ok {
			compose(g.Stats)
		}
	}

	// 5. Inventory gadgets are owned items and count toward price
	for _, code := range l.InventoryGadgets {
		if g, ok := cat.Gadget(code); ok {
			p := g.Prices.Min()
			stats.Price += p
			stats.PriceNoStock += p
		}
	}

	stats.OptimumRange = safeDiv(optimumSum, float64(mounted), 0)
	stats.MaxRange = safeDiv(maxSum, float64(mounted), 0)
	stats.PowerMod = safeDiv(stats.MaxPower, baseMaxPower, 1)
	stats.ExtrPowerMod = safeDiv(stats.ExtrPower, baseExtrPower, 1)

	for _, k := range fractionKeys {
		if f := stats.field(k); f != nil {
			*f = finite(fractions[k] - 1)
		}
	}
	return stats
}

// moduleApplies reports whether the module in slot j contributes.
// Passive modules follow their laser; active ones also need their own toggle.
func moduleApplies(mod catalog.Module, al ActiveLaser, j int) bool {
	if !al.LaserActive {
		return false
	}
	if !mod.Category.Togglable() {
		return true
	}
	return j < len(al.ModulesActive) && al.ModulesActive[j]
}

// safeDiv returns num/den, or fallback when den is zero or the result is not finite.
func safeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
