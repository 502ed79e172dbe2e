// Package conflict implements the war/muster/supply/movement/battle/
// retreat/siege/peace subsystem. Every function here only reads
// *kernel.World and enqueues kernel.Command values; the kernel
// applicator is the only thing that ever mutates the world. Each
// function is a deterministic per-entity decision pass that stages
// changes rather than applying them inline.
package conflict

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	warDeclarationBaseChance = 0.04
	religiousFervorFactor    = 0.05
	religiousFervorCap       = 0.10
	allyTurnsEnemyChance     = 0.30
	economicGoalThreshold    = 0.3
	punitiveGrievanceFloor   = 0.5
	punitiveConquestWindow   = 20 // years
	claimGoalStrengthFloor   = 0.5
)

// enemyPair is an unordered faction pair eligible for a declaration roll.
type enemyPair struct {
	a, b                 uint64
	avgStability         float64
	prestigeA, prestigeB float64
}

// DeclareWars enumerates unordered pairs of living non-bandit factions
// with an active Enemy edge, no war yet, and bordering settlements, rolls
// each pair's declaration chance, and stages the declaration — treaty
// breakage included — for the winners. Runs yearly.
func DeclareWars(w *kernel.World) {
	for _, pair := range collectWarCandidates(w) {
		chance := warChance(w, pair)
		if !w.RNG.Bool(chance) {
			continue
		}
		executeDeclaration(w, pair)
	}
}

func collectWarCandidates(w *kernel.World) []enemyPair {
	type factionInfo struct {
		id                  uint64
		stability, prestige float64
	}
	var factions []factionInfo
	for _, id := range w.LivingFactionIDs() {
		_, fa := w.Faction(id)
		if fa == nil || fa.IsBandit {
			continue
		}
		factions = append(factions, factionInfo{id, fa.Stability, fa.Prestige})
	}

	var pairs []enemyPair
	for i := 0; i < len(factions); i++ {
		for j := i + 1; j < len(factions); j++ {
			a, b := factions[i], factions[j]
			if !w.Graph.HasActive(a.id, b.id, kernel.Enemy) {
				continue
			}
			if w.AtWar(a.id, b.id) {
				continue
			}
			if !factionsAreAdjacent(w, a.id, b.id) {
				continue
			}
			pairs = append(pairs, enemyPair{
				a: a.id, b: b.id,
				avgStability: (a.stability + b.stability) / 2,
				prestigeA:    a.prestige, prestigeB: b.prestige,
			})
		}
	}
	return pairs
}

// factionsAreAdjacent reports whether the two factions hold settlements
// in the same or adjacent regions.
func factionsAreAdjacent(w *kernel.World, a, b uint64) bool {
	regionsB := make(map[uint64]bool)
	for _, r := range w.FactionRegions(b) {
		regionsB[r] = true
	}
	for _, ra := range w.FactionRegions(a) {
		if regionsB[ra] {
			return true
		}
		found := false
		w.Graph.OutgoingActive(ra, kernel.AdjacentTo, func(r *kernel.Relationship) bool {
			if regionsB[r.Target] {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

func warChance(w *kernel.World, pair enemyPair) float64 {
	// A declaration already staged between this pair this tick wins.
	for _, cmd := range w.Queue.Pending() {
		if in, ok := cmd.Intent.(kernel.IntentDeclareWar); ok {
			if (in.Attacker == pair.a && in.Defender == pair.b) ||
				(in.Attacker == pair.b && in.Defender == pair.a) {
				return 0
			}
		}
	}

	instability := (1 - pair.avgStability) * 2
	if instability < 0.5 {
		instability = 0.5
	}
	if instability > 2.0 {
		instability = 2.0
	}
	chance := warDeclarationBaseChance * instability

	for _, fid := range []uint64{pair.a, pair.b} {
		if _, fa := w.Faction(fid); fa != nil {
			chance *= 1 + fa.EconomicWarMotivation
		}
	}

	chance += religiousFervorBonus(w, pair.a, pair.b)

	_, fa := w.Faction(pair.a)
	_, fb := w.Faction(pair.b)
	maxGrievance := 0.0
	if fa != nil {
		maxGrievance = kernel.MaxFactionGrievance(fa, pair.b)
	}
	if fb != nil {
		if g := kernel.MaxFactionGrievance(fb, pair.a); g > maxGrievance {
			maxGrievance = g
		}
	}
	chance *= 1 + maxGrievance

	for _, fid := range []uint64{pair.a, pair.b} {
		if leader := w.FactionLeader(fid); leader != 0 {
			if _, pa := w.Person(leader); pa != nil {
				if pa.HasTrait(kernel.TraitAggressive) {
					chance *= 1.5
				} else if pa.HasTrait(kernel.TraitCautious) {
					chance *= 0.5
				}
			}
		}
	}

	prestigeGap := pair.prestigeA - pair.prestigeB
	if prestigeGap < 0 {
		prestigeGap = -prestigeGap
	}
	if prestigeGap > 0.3 {
		prestigeGap = 0.3
	}
	chance *= 1 + prestigeGap

	return chance
}

// religiousFervorBonus adds up to 0.10 when the two factions follow
// different faiths, scaled by average fervor.
func religiousFervorBonus(w *kernel.World, a, b uint64) float64 {
	_, fa := w.Faction(a)
	_, fb := w.Faction(b)
	if fa == nil || fb == nil || fa.PrimaryReligion == 0 || fb.PrimaryReligion == 0 {
		return 0
	}
	if fa.PrimaryReligion == fb.PrimaryReligion {
		return 0
	}
	fervor := 0.0
	if _, ra := w.Religion(fa.PrimaryReligion); ra != nil {
		fervor += ra.Fervor
	}
	if _, rb := w.Religion(fb.PrimaryReligion); rb != nil {
		fervor += rb.Fervor
	}
	bonus := religiousFervorFactor * fervor / 2
	if bonus > religiousFervorCap {
		bonus = religiousFervorCap
	}
	return bonus
}

func executeDeclaration(w *kernel.World, pair enemyPair) {
	// The more unstable side attacks.
	attacker, defender := pair.a, pair.b
	_, fa := w.Faction(pair.a)
	_, fb := w.Faction(pair.b)
	if fa != nil && fb != nil && fa.Stability > fb.Stability {
		attacker, defender = pair.b, pair.a
	}

	treatyBroken := w.Graph.HasActive(attacker, defender, kernel.Custom("treaty_with"))
	var turnedAllies []uint64
	if treatyBroken {
		w.Graph.OutgoingActive(defender, kernel.Ally, func(r *kernel.Relationship) bool {
			if r.Target != attacker && w.RNG.Bool(allyTurnsEnemyChance) {
				turnedAllies = append(turnedAllies, r.Target)
			}
			return true
		})
	}

	record := pickWarGoal(w, attacker, defender)

	w.Queue.Push(kernel.Command{
		Intent: kernel.IntentDeclareWar{
			Attacker: attacker, Defender: defender,
			Record:            record,
			TreatyBroken:      treatyBroken,
			AlliesTurnedEnemy: turnedAllies,
		},
		EventKind:   kernel.EK.WarDeclared,
		Description: "a faction declares war on a bordering rival",
		Participants: []kernel.ParticipantSpec{
			{Entity: attacker, Role: kernel.RoleAttacker},
			{Entity: defender, Role: kernel.RoleDefender},
		},
	})
}

// pickWarGoal chooses the attacker's objective: a pressed succession
// claim first, then economics, then settling scores, and territorial
// expansion by default.
func pickWarGoal(w *kernel.World, attacker, defender uint64) kernel.WarRecord {
	if claimant := strongestClaimantOn(w, attacker, defender); claimant != 0 {
		return kernel.WarRecord{Goal: kernel.WarGoalSuccessionClaim, Claimant: &claimant}
	}

	_, fa := w.Faction(attacker)
	_, fd := w.Faction(defender)
	if fa != nil && fa.EconomicWarMotivation > economicGoalThreshold {
		demand := 10.0
		if fd != nil && fd.Treasury*0.5 > demand {
			demand = fd.Treasury * 0.5
		}
		return kernel.WarRecord{Goal: kernel.WarGoalEconomic, ReparationDemand: demand}
	}

	if fa != nil && kernel.MaxFactionGrievance(fa, defender) > punitiveGrievanceFloor {
		return kernel.WarRecord{Goal: kernel.WarGoalPunitive}
	}
	if recentlyConqueredBy(w, attacker, defender) {
		return kernel.WarRecord{Goal: kernel.WarGoalPunitive}
	}

	return kernel.WarRecord{
		Goal:              kernel.WarGoalTerritorial,
		TargetSettlements: adjacentDefenderSettlements(w, attacker, defender),
	}
}

// strongestClaimantOn finds the attacker member with the strongest claim
// on the defender's throne, if any claim clears the war-goal floor.
func strongestClaimantOn(w *kernel.World, attacker, defender uint64) uint64 {
	var best uint64
	bestStrength := claimGoalStrengthFloor
	for _, pid := range w.FactionMembers(attacker) {
		if _, pa := w.Person(pid); pa != nil {
			if c, ok := pa.Claims[defender]; ok && c.Strength > bestStrength {
				best, bestStrength = pid, c.Strength
			}
		}
	}
	return best
}

// recentlyConqueredBy reports whether the defender took a settlement from
// the attacker by conquest within the punitive window.
func recentlyConqueredBy(w *kernel.World, attacker, defender uint64) bool {
	now := w.Clock.Now()
	for _, ev := range w.Log.Events() {
		if !ev.Kind.Equal(kernel.EK.Conquest) {
			continue
		}
		if now.YearsSince(ev.Timestamp) > punitiveConquestWindow {
			continue
		}
		var defenderAttacked, attackerDefended bool
		for _, p := range w.Log.Participants() {
			if p.EventID != ev.ID {
				continue
			}
			if p.EntityID == defender && p.Role == kernel.RoleAttacker {
				defenderAttacked = true
			}
			if p.EntityID == attacker && p.Role == kernel.RoleDefender {
				attackerDefended = true
			}
		}
		if defenderAttacked && attackerDefended {
			return true
		}
	}
	return false
}

// adjacentDefenderSettlements lists defender settlements whose regions
// border (or share) the attacker's, id-ordered — the territorial war's
// target list.
func adjacentDefenderSettlements(w *kernel.World, attacker, defender uint64) []uint64 {
	attackerRegions := make(map[uint64]bool)
	for _, r := range w.FactionRegions(attacker) {
		attackerRegions[r] = true
	}
	var targets []uint64
	for _, sid := range w.FactionSettlements(defender) {
		_, sa := w.Settlement(sid)
		if sa == nil {
			continue
		}
		if attackerRegions[sa.RegionID] {
			targets = append(targets, sid)
			continue
		}
		adjacent := false
		w.Graph.OutgoingActive(sa.RegionID, kernel.AdjacentTo, func(r *kernel.Relationship) bool {
			if attackerRegions[r.Target] {
				adjacent = true
				return false
			}
			return true
		})
		if adjacent {
			targets = append(targets, sid)
		}
	}
	return targets
}
