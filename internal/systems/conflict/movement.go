package conflict

import "github.com/kaelhaven/chronicle/internal/kernel"

// Movement advances every non-besieging army one region per month toward
// the nearest hostile army, or failing that the nearest hostile
// settlement, by breadth-first search over AdjacentTo edges. Two hostile
// armies marching through each other cancel the second move so they meet
// instead of swapping regions. Runs monthly.
func Movement(w *kernel.World) {
	type intendedMove struct {
		army, faction, from, to uint64
	}
	var moves []intendedMove

	for _, armyID := range w.LivingArmyIDs() {
		_, aa := w.Army(armyID)
		if aa == nil || aa.Besieging != nil {
			continue
		}
		enemies := w.EnemyFactions(aa.FactionID)
		if len(enemies) == 0 {
			continue
		}
		current := w.ArmyRegion(armyID)
		if current == 0 {
			continue
		}

		target, ok := nearestHostileArmyRegion(w, current, enemies)
		if !ok {
			target, ok = nearestHostileSettlementRegion(w, current, enemies)
		}
		if !ok || target == current {
			continue
		}
		_, hops, firstStep, found := w.Graph.BFS(current, kernel.AdjacentTo, func(n uint64) bool {
			return n == target
		})
		if !found || hops == 0 || firstStep == 0 {
			continue
		}
		moves = append(moves, intendedMove{army: armyID, faction: aa.FactionID, from: current, to: firstStep})
	}

	// Cross-move cancellation: A: R1->R2 and B: R2->R1 with A, B at war
	// drops the second move.
	cancelled := make(map[int]bool)
	for i := 0; i < len(moves); i++ {
		if cancelled[i] {
			continue
		}
		for j := i + 1; j < len(moves); j++ {
			if cancelled[j] {
				continue
			}
			if moves[i].from == moves[j].to && moves[i].to == moves[j].from &&
				w.AtWar(moves[i].faction, moves[j].faction) {
				cancelled[j] = true
			}
		}
	}

	for i, mv := range moves {
		if cancelled[i] {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentMoveArmy{Army: mv.army, FromRegion: mv.from, ToRegion: mv.to},
			EventKind:   kernel.CustomEvent("army_moved"),
			Description: "an army advances toward enemy territory",
			Participants: []kernel.ParticipantSpec{
				{Entity: mv.army, Role: kernel.RoleSubject},
				{Entity: mv.from, Role: kernel.RoleOrigin},
				{Entity: mv.to, Role: kernel.RoleDestination},
			},
		})
	}
}

// nearestHostileArmyRegion finds the closest region holding an army of
// any enemy faction.
func nearestHostileArmyRegion(w *kernel.World, start uint64, enemies []uint64) (uint64, bool) {
	hostile := make(map[uint64]bool)
	for _, e := range enemies {
		hostile[e] = true
	}
	found, _, _, ok := w.Graph.BFS(start, kernel.AdjacentTo, func(region uint64) bool {
		for _, armyID := range w.ArmiesInRegion(region) {
			if _, aa := w.Army(armyID); aa != nil && hostile[aa.FactionID] {
				return true
			}
		}
		return false
	})
	return found, ok
}

// nearestHostileSettlementRegion finds the closest region holding an
// enemy-owned settlement.
func nearestHostileSettlementRegion(w *kernel.World, start uint64, enemies []uint64) (uint64, bool) {
	hostile := make(map[uint64]bool)
	for _, e := range enemies {
		hostile[e] = true
	}
	found, _, _, ok := w.Graph.BFS(start, kernel.AdjacentTo, func(region uint64) bool {
		for _, sid := range w.SettlementsInRegion(region) {
			if _, sa := w.Settlement(sid); sa != nil && hostile[sa.FactionID] {
				return true
			}
		}
		return false
	})
	return found, ok
}
