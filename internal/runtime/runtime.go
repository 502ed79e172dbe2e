// Package runtime wires every domain system into a single scheduler in a
// fixed, deterministic order: politics' steps run in their stated
// sequence, and conflict's yearly sub-steps are registered with the
// scheduler's Yearly cadence. This is the one place that owns system registration
// order.
package runtime

import (
	"github.com/kaelhaven/chronicle/internal/kernel"
	"github.com/kaelhaven/chronicle/internal/playeraction"
	"github.com/kaelhaven/chronicle/internal/scheduler"
	"github.com/kaelhaven/chronicle/internal/systems/conflict"
	"github.com/kaelhaven/chronicle/internal/systems/crime"
	"github.com/kaelhaven/chronicle/internal/systems/culture"
	"github.com/kaelhaven/chronicle/internal/systems/demographics"
	"github.com/kaelhaven/chronicle/internal/systems/politics"
	"github.com/kaelhaven/chronicle/internal/systems/religion"
)

// Build assembles a Scheduler bound to w with every system registered in
// the fixed order a deterministic run requires. The PlayerAction queue
// is returned so a CLI or test can submit actions between ticks.
func Build(w *kernel.World) (*scheduler.Scheduler, *playeraction.Queue) {
	s := scheduler.New(w)
	paq := playeraction.NewQueue()

	s.Inputs = append(s.Inputs, playeraction.NewSystem(paq))

	s.Updates = append(s.Updates,
		// Conflict: yearly declarations/muster/war-ending run only at a
		// year start via the Yearly cadence; monthly attrition/movement/
		// battle/retreat/siege run every tick.
		scheduler.UpdateSystem{Name: "conflict.declare_wars", Cadence: scheduler.Yearly, Run: conflict.DeclareWars},
		scheduler.UpdateSystem{Name: "conflict.muster", Cadence: scheduler.Yearly, Run: conflict.Muster},
		scheduler.UpdateSystem{Name: "conflict.supply", Cadence: scheduler.Monthly, Run: conflict.SupplyAndAttrition},
		scheduler.UpdateSystem{Name: "conflict.movement", Cadence: scheduler.Monthly, Run: conflict.Movement},
		scheduler.UpdateSystem{Name: "conflict.battle", Cadence: scheduler.Monthly, Run: conflict.Battle},
		scheduler.UpdateSystem{Name: "conflict.retreat", Cadence: scheduler.Monthly, Run: conflict.Retreat},
		scheduler.UpdateSystem{Name: "conflict.siege", Cadence: scheduler.Monthly, Run: conflict.Siege},
		scheduler.UpdateSystem{Name: "conflict.peace", Cadence: scheduler.Yearly, Run: conflict.Peace},

		// Politics: steps 1-6, 9-10 run yearly in order; coups (step 7)
		// and diplomacy (step 8) are their own modules registered in the
		// same sequence.
		scheduler.UpdateSystem{Name: "politics.succession", Cadence: scheduler.Yearly, Run: politics.Succession},
		scheduler.UpdateSystem{Name: "politics.decay_claims", Cadence: scheduler.Yearly, Run: politics.DecayClaims},
		scheduler.UpdateSystem{Name: "politics.decay_grievances", Cadence: scheduler.Yearly, Run: politics.DecayGrievances},
		scheduler.UpdateSystem{Name: "politics.sentiment", Cadence: scheduler.Yearly, Run: politics.Sentiment},
		scheduler.UpdateSystem{Name: "politics.coup", Cadence: scheduler.Yearly, Run: politics.Coup},
		scheduler.UpdateSystem{Name: "politics.diplomacy", Cadence: scheduler.Yearly, Run: politics.Diplomacy},
		scheduler.UpdateSystem{Name: "politics.split", Cadence: scheduler.Yearly, Run: politics.Split},
		scheduler.UpdateSystem{Name: "politics.dissolve_empty_factions", Cadence: scheduler.Yearly, Run: politics.DissolveEmptyFactions},

		// Other domain subsystems.
		scheduler.UpdateSystem{Name: "demographics.age", Cadence: scheduler.Yearly, Run: demographics.Age},
		scheduler.UpdateSystem{Name: "demographics.births", Cadence: scheduler.Yearly, Run: demographics.Births},
		scheduler.UpdateSystem{Name: "demographics.marriage", Cadence: scheduler.Yearly, Run: demographics.Marriage},
		scheduler.UpdateSystem{Name: "demographics.abandonment", Cadence: scheduler.Yearly, Run: demographics.Abandonment},
		scheduler.UpdateSystem{Name: "culture.drift", Cadence: scheduler.Yearly, Run: culture.Drift},
		scheduler.UpdateSystem{Name: "culture.rebellion", Cadence: scheduler.Yearly, Run: culture.Rebellion},
		scheduler.UpdateSystem{Name: "religion.drift", Cadence: scheduler.Yearly, Run: religion.Drift},
		scheduler.UpdateSystem{Name: "religion.temples", Cadence: scheduler.Yearly, Run: religion.BuildTemples},
		scheduler.UpdateSystem{Name: "religion.schism", Cadence: scheduler.Yearly, Run: religion.Schism},
		scheduler.UpdateSystem{Name: "crime.form_gangs", Cadence: scheduler.Yearly, Run: crime.FormGangs},
		scheduler.UpdateSystem{Name: "crime.raid", Cadence: scheduler.Monthly, Run: crime.Raid},
		scheduler.UpdateSystem{Name: "crime.disband", Cadence: scheduler.Yearly, Run: crime.Disband},
	)

	// Reactions: politics is the only subsystem with cross-system signal
	// handlers registered today; new subsystems append their own React function here.
	s.Reacts = append(s.Reacts,
		scheduler.ReactionSystem{Name: "politics.react", Run: politics.React},
	)

	return s, paq
}
