package conflict

import (
	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

const (
	warExhaustionStartYear = 5
	peaceChancePerYear     = 0.15
	peaceChanceCap         = 0.8

	settlementIncomeEstimate = 5.0
	claimIndecisiveInstall   = 0.5
	claimReparationsFactor   = 0.5
)

// peaceTerms is the settlement the winner extracts, shaped by how the war
// ended and what it was fought over.
type peaceTerms struct {
	territoryCeded []uint64
	reparations    float64
	tributePerYear float64
	tributeYears   int
}

// Peace ends wars whose outcome has become clear: one side's army
// destroyed is a decisive victory, both destroyed a draw, and long wars
// grind toward an exhaustion peace whose chance grows each year past the
// fifth. Runs yearly, after the monthly combat cycle.
func Peace(w *kernel.World) {
	for _, pair := range collectWarPairs(w) {
		a, b := pair[0], pair[1]
		winner, loser, decisive, ok := evaluatePeace(w, a, b)
		if !ok {
			continue
		}
		pushPeace(w, winner, loser, decisive)
	}
}

// collectWarPairs returns every warring unordered pair, lower id first,
// sorted.
func collectWarPairs(w *kernel.World) [][2]uint64 {
	seen := make(map[[2]uint64]bool)
	var pairs [][2]uint64
	for _, factionID := range w.LivingFactionIDs() {
		w.Graph.OutgoingActive(factionID, kernel.AtWar, func(r *kernel.Relationship) bool {
			pair := [2]uint64{factionID, r.Target}
			if pair[0] > pair[1] {
				pair[0], pair[1] = pair[1], pair[0]
			}
			if !seen[pair] {
				seen[pair] = true
				pairs = append(pairs, pair)
			}
			return true
		})
	}
	return pairs
}

func evaluatePeace(w *kernel.World, a, b uint64) (winner, loser uint64, decisive, ok bool) {
	armyA := w.FindFactionArmy(a)
	armyB := w.FindFactionArmy(b)

	switch {
	case armyA == 0 && armyB != 0:
		return b, a, true, true
	case armyA != 0 && armyB == 0:
		return a, b, true, true
	case armyA == 0 && armyB == 0:
		return a, b, false, true
	}

	duration := warDuration(w, a, b)
	if duration < warExhaustionStartYear {
		return 0, 0, false, false
	}
	chance := peaceChancePerYear * float64(duration-warExhaustionStartYear+1)
	if chance > peaceChanceCap {
		chance = peaceChanceCap
	}
	if !w.RNG.Bool(chance) {
		return 0, 0, false, false
	}
	_, aa := w.Army(armyA)
	_, ab := w.Army(armyB)
	if aa.Strength >= ab.Strength {
		return a, b, false, true
	}
	return b, a, false, true
}

func warDuration(w *kernel.World, a, b uint64) int {
	_, fa := w.Faction(a)
	if fa == nil {
		return 0
	}
	record, ok := fa.WarStarted[b]
	if !ok {
		return 0
	}
	return int(w.Clock.Now().YearsSince(clock.New(record.StartedYear, 0)))
}

func pushPeace(w *kernel.World, winner, loser uint64, decisive bool) {
	record := warRecordFor(w, winner, loser)
	terms := determinePeaceTerms(w, winner, loser, decisive, record)

	intent := kernel.IntentPeaceTreaty{
		Winner: winner, Loser: loser, Decisive: decisive, Goal: record.Goal,
		TerritoryTransfer: terms.territoryCeded,
		Reparations:       terms.reparations,
		TributePerYear:    terms.tributePerYear,
		TributeYears:      terms.tributeYears,
	}

	if record.Goal == kernel.WarGoalSuccessionClaim && record.Claimant != nil {
		claimant := *record.Claimant
		// The claim targets the faction whose throne was pressed — the war's
		// defender, which is whichever side the claimant does not belong to.
		target := loser
		if w.PersonFaction(claimant) == loser {
			target = winner
		}
		intent.ClaimTarget = target
		attackerWon := winner != target
		_, pa := w.Person(claimant)
		install := attackerWon && pa != nil &&
			(decisive || w.RNG.Bool(claimIndecisiveInstall))
		if install {
			intent.InstallClaimant = &claimant
		} else {
			intent.ReduceClaim = &claimant
		}
	}

	w.Queue.Push(kernel.Command{
		Intent:      intent,
		EventKind:   kernel.EK.PeaceTreaty,
		Description: "two factions negotiate an end to their war",
		Participants: []kernel.ParticipantSpec{
			{Entity: winner, Role: kernel.RoleSubject},
			{Entity: loser, Role: kernel.RoleObject},
		},
	})
}

// warRecordFor reads the war's goal bookkeeping, checking the winner's
// ledger first — the original attacker may have lost.
func warRecordFor(w *kernel.World, winner, loser uint64) kernel.WarRecord {
	if _, fa := w.Faction(winner); fa != nil {
		if r, ok := fa.WarStarted[loser]; ok {
			return r
		}
	}
	if _, fa := w.Faction(loser); fa != nil {
		if r, ok := fa.WarStarted[winner]; ok {
			return r
		}
	}
	return kernel.WarRecord{Goal: kernel.WarGoalTerritorial}
}

// determinePeaceTerms maps (decisive, war goal) to the settlement.
// Prestigious winners extract harsher terms; a winner still nursing a
// grievance demands half again as much and an extra year of tribute.
func determinePeaceTerms(w *kernel.World, winner, loser uint64, decisive bool, record kernel.WarRecord) peaceTerms {
	estimatedIncome := float64(len(w.FactionSettlements(loser))) * settlementIncomeEstimate

	prestigeBonus := 0.0
	if _, fa := w.Faction(winner); fa != nil && fa.Prestige > 0.5 {
		prestigeBonus = (fa.Prestige - 0.5) * 2
	}

	grievanceMult, grievanceTributeBonus := 1.0, 0
	if _, fa := w.Faction(winner); fa != nil && kernel.MaxFactionGrievance(fa, loser) > 0.4 {
		grievanceMult = 1.5
		grievanceTributeBonus = 1
	}

	switch {
	case decisive && record.Goal == kernel.WarGoalTerritorial:
		return peaceTerms{territoryCeded: record.TargetSettlements}

	case decisive && record.Goal == kernel.WarGoalEconomic:
		years := 5 + w.RNG.Intn(6) + int(prestigeBonus*2+0.5) + grievanceTributeBonus
		return peaceTerms{
			reparations:    record.ReparationDemand * (1 + prestigeBonus*0.2) * grievanceMult,
			tributePerYear: estimatedIncome * 0.15 * (1 + prestigeBonus*0.1),
			tributeYears:   years,
		}

	case decisive && record.Goal == kernel.WarGoalPunitive:
		return peaceTerms{
			reparations: estimatedIncome * 2 * (1 + prestigeBonus*0.2) * grievanceMult,
		}

	case !decisive && record.Goal == kernel.WarGoalEconomic:
		years := 3 + w.RNG.Intn(3) + int(prestigeBonus*2+0.5) + grievanceTributeBonus
		return peaceTerms{
			reparations:    record.ReparationDemand * 0.5 * (1 + prestigeBonus*0.2) * grievanceMult,
			tributePerYear: estimatedIncome * 0.10 * (1 + prestigeBonus*0.1),
			tributeYears:   years,
		}

	case !decisive && record.Goal == kernel.WarGoalSuccessionClaim:
		return peaceTerms{
			reparations: float64(len(w.FactionSettlements(loser))) * claimReparationsFactor,
		}

	default:
		// Indecisive territorial wars end status quo; a decisive succession
		// claim's prize is the throne itself.
		return peaceTerms{}
	}
}
