package kernel

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Grievance is a signed-severity record of past wrongs between two
// factions, or between a person and a faction. Both the Conflict and the
// Politics subsystems need the same shape, so it lives here as a shared
// ledger rather than duplicated decay logic in each subsystem.

// grievanceMinThreshold is the severity below which an entry is dropped
// from the ledger entirely.
const grievanceMinThreshold = 0.05

// AddFactionGrievance increases the grievance a faction holds against
// another, clamping at 0: grievances are non-negative severities, with
// no forgiveness credit below zero.
func AddFactionGrievance(f *FactionAttrs, against uint64, amount float64) {
	if f.Grievances == nil {
		f.Grievances = make(map[uint64]float64)
	}
	f.Grievances[against] += amount
	if f.Grievances[against] < 0 {
		f.Grievances[against] = 0
	}
}

// ReduceFactionGrievance lowers a grievance ("satisfaction" after a won
// war or a capture), dropping the entry once it falls below the ledger
// threshold.
func ReduceFactionGrievance(f *FactionAttrs, against uint64, amount float64) {
	v, ok := f.Grievances[against]
	if !ok {
		return
	}
	v -= amount
	if v < grievanceMinThreshold {
		delete(f.Grievances, against)
		return
	}
	f.Grievances[against] = v
}

// MaxFactionGrievance returns the largest grievance faction f holds
// against any of the given opponents, or 0 if none recorded. Iterates
// opponents in the order given, which callers must keep stable.
func MaxFactionGrievance(f *FactionAttrs, opponents ...uint64) float64 {
	max := 0.0
	for _, o := range opponents {
		if v, ok := f.Grievances[o]; ok && v > max {
			max = v
		}
	}
	return max
}

// DecayFactionGrievances decays every grievance a faction holds by rate
// per year, dropping entries that fall below the ledger threshold. Keys
// are visited in sorted order so float accumulation is reproducible.
func DecayFactionGrievances(f *FactionAttrs, rate float64) {
	if len(f.Grievances) == 0 {
		return
	}
	keys := maps.Keys(f.Grievances)
	slices.Sort(keys)
	for _, k := range keys {
		v := f.Grievances[k] - rate
		if v < grievanceMinThreshold {
			delete(f.Grievances, k)
			continue
		}
		f.Grievances[k] = v
	}
}

// DecayPersonGrievances decays a person's faction grievances at a
// trait-modulated rate, removing entries below the ledger threshold.
func DecayPersonGrievances(p *PersonAttrs, baseRate float64) {
	if len(p.Grievances) == 0 {
		return
	}
	rate := baseRate
	if p.HasTrait(TraitRuthless) {
		rate *= 0.5
	}
	if p.HasTrait(TraitAggressive) {
		rate *= 0.7
	}
	if p.HasTrait(TraitContent) {
		rate *= 1.5
	}
	if p.HasTrait(TraitHonorable) {
		rate *= 1.3
	}

	keys := maps.Keys(p.Grievances)
	slices.Sort(keys)
	for _, k := range keys {
		v := p.Grievances[k] - rate
		if v < grievanceMinThreshold {
			delete(p.Grievances, k)
			continue
		}
		p.Grievances[k] = v
	}
}

// DecayClaims decays every claim strength by rate per year, removing
// entries below 0.1.
func DecayClaims(p *PersonAttrs, rate float64) {
	if len(p.Claims) == 0 {
		return
	}
	keys := maps.Keys(p.Claims)
	slices.Sort(keys)
	for _, k := range keys {
		c := p.Claims[k]
		c.Strength -= rate
		if c.Strength < 0.1 {
			delete(p.Claims, k)
			continue
		}
		p.Claims[k] = c
	}
}

// ReduceClaim lowers a person's claim on a faction by penalty, removing
// it below 0.1. Used when a succession-claim war fails to seat the
// claimant.
func ReduceClaim(p *PersonAttrs, factionID uint64, penalty float64) {
	c, ok := p.Claims[factionID]
	if !ok {
		return
	}
	c.Strength -= penalty
	if c.Strength < 0.1 {
		delete(p.Claims, factionID)
		return
	}
	p.Claims[factionID] = c
}
