/*
Package loadout
File: rules.go
Description:
    The per-stat composition table and the set of backward stats
    (stats where an increase is a penalty).
*/

package loadout

import "github.com/everforgeworks/regolith/internal/catalog"

// Rule says how contributions to a stat combine across a loadout.
type Rule int8

const (
	RuleSum        Rule = iota // Laser base x slot multipliers, summed over active lasers
	RuleAverage                // Laser base, averaged over mounted lasers
	RuleMultiplier             // Module multipliers; reported as the effective factor
	RuleFraction               // Signed fractions composed as prod(1+x) - 1
	RulePrice                  // Cheapest vendor price, summed over owned items
)

// Rules is the composition table for every stat key, in display order.
var Rules = []struct {
	Key  catalog.StatKey
	Rule Rule
}{
	{catalog.StatMinPower, RuleSum},
	{catalog.StatMaxPower, RuleSum},
	{catalog.StatExtrPower, RuleSum},
	{catalog.StatOptimumRange, RuleAverage},
	{catalog.StatMaxRange, RuleAverage},
	{catalog.StatResistance, RuleFraction},
	{catalog.StatInstability, RuleFraction},
	{catalog.StatOverchargeRate, RuleFraction},
	{catalog.StatClusterMod, RuleFraction},
	{catalog.StatInertMaterials, RuleFraction},
	{catalog.StatOptimalChargeRate, RuleFraction},
	{catalog.StatOptimalChargeWindow, RuleFraction},
	{catalog.StatShatterDamage, RuleFraction},
	{catalog.StatPowerMod, RuleMultiplier},
	{catalog.StatExtrPowerMod, RuleMultiplier},
	{catalog.StatPrice, RulePrice},
	{catalog.StatPriceNoStock, RulePrice},
}

// fractionKeys lists the stats composed as signed fractions.
var fractionKeys = func() []catalog.StatKey {
	var keys []catalog.StatKey
	for _, r := range Rules {
		if r.Rule == RuleFraction {
			keys = append(keys, r.Key)
		}
	}
	return keys
}()

// BackwardStats are stats where an increase is a penalty.
var BackwardStats = map[catalog.StatKey]bool{
	catalog.StatResistance:     true,
	catalog.StatInstability:    true,
	catalog.StatOverchargeRate: true,
	catalog.StatInertMaterials: true,
	catalog.StatShatterDamage:  true,
	catalog.StatPrice:          true,
	catalog.StatPriceNoStock:   true,
}

// IsBackward reports whether a positive change to key is bad.
func IsBackward(key catalog.StatKey) bool {
	return BackwardStats[key]
}
