/*
Package loadout
File: compare.go
Description:
    Hover preview: computes the current and the hovered loadout and
    reports the stats that changed.
*/

package loadout

import (
	"math"

	"github.com/everforgeworks/regolith/internal/catalog"
)

// deltaEpsilon hides float noise when two stats are effectively equal.
const deltaEpsilon = 1e-9

// StatDelta is the change of one stat between the current loadout and a preview.
type StatDelta struct {
	Key      catalog.StatKey `json:"key"`
	Before   float64         `json:"before"`
	After    float64         `json:"after"`
	Delta    float64         `json:"delta"`
	Backward bool            `json:"backward"` // Increase is a penalty
	Better   bool            `json:"better"`
}

// Comparison pairs the stats of a loadout with those of a speculative variant.
type Comparison struct {
	Current AllStats    `json:"current"`
	Hover   AllStats    `json:"hover"`
	Deltas  []StatDelta `json:"deltas"` // Only stats that changed, in display order
}

// Compare computes stats for the current loadout and a hover variant of it.
// Neither loadout is modified, so it is safe to call on every hover event.
func Compare(cat *catalog.Catalog, current, hover MiningLoadout) Comparison {
	cmp := Comparison{
		Current: Calculate(cat, current),
		Hover:   Calculate(cat, hover),
		Deltas:  []StatDelta{},
	}
	for _, r := range Rules {
		before, after := cmp.Current.Get(r.Key), cmp.Hover.Get(r.Key)
		d := after - before
		if math.Abs(d) < deltaEpsilon {
			continue
		}
		backward := IsBackward(r.Key)
		cmp.Deltas = append(cmp.Deltas, StatDelta{
			Key:      r.Key,
			Before:   before,
			After:    after,
			Delta:    d,
			Backward: backward,
			Better:   (d > 0) != backward,
		})
	}
	return cmp
}
