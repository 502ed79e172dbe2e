package conflict

import "github.com/kaelhaven/chronicle/internal/kernel"

// retreatMoraleFloor and retreatStrengthRatio are the break points: an
// army falls back once morale collapses or losses pass three quarters of
// its mustered strength.
const (
	retreatMoraleFloor   = 0.2
	retreatStrengthRatio = 0.25
)

// Retreat pulls any broken army one region toward home, found by
// breadth-first search over AdjacentTo edges. A retreating army abandons
// whatever siege it was conducting. Runs monthly.
func Retreat(w *kernel.World) {
	for _, armyID := range w.LivingArmyIDs() {
		_, aa := w.Army(armyID)
		if aa == nil {
			continue
		}
		starting := aa.StartingStrength
		if starting < 1 {
			starting = 1
		}
		broken := aa.Morale < retreatMoraleFloor ||
			float64(aa.Strength)/float64(starting) < retreatStrengthRatio
		if !broken {
			continue
		}
		current := w.ArmyRegion(armyID)
		if current == 0 || aa.HomeRegionID == 0 || current == aa.HomeRegionID {
			continue
		}
		_, hops, firstStep, ok := w.Graph.BFS(current, kernel.AdjacentTo, func(n uint64) bool {
			return n == aa.HomeRegionID
		})
		if !ok || hops == 0 || firstStep == 0 {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentRetreat{Army: armyID, ToRegion: firstStep},
			EventKind:   kernel.EK.Retreat,
			Description: "a broken army retreats toward home",
			Participants: []kernel.ParticipantSpec{
				{Entity: armyID, Role: kernel.RoleSubject},
				{Entity: current, Role: kernel.RoleOrigin},
				{Entity: firstStep, Role: kernel.RoleDestination},
			},
		})
	}
}
