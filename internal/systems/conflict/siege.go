package conflict

import (
	"math"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

const (
	// Civilian starvation inside besieged walls: prosperous settlements
	// have deeper stores, so their monthly loss rate falls with prosperity.
	siegeStarvationBase = 0.02

	// Assaults begin after the third month. Success odds scale with the
	// attacker's strength against the walls' defense score; a failed
	// assault bleeds the attacker in proportion to that same score.
	siegeAssaultMinMonths    = 3
	siegeAssaultAttemptOdds  = 0.5
	siegeAssaultFailLossMin  = 0.10
	siegeAssaultFailLossMax  = 0.20
	siegeSurrenderPopulation = 10
)

// Siege opens a siege wherever an army shares a region with an enemy
// settlement — or takes the settlement outright when it has no walls —
// then advances every siege in progress: starvation, the month counter,
// and assault attempts once the engines are built. Runs monthly.
func Siege(w *kernel.World) {
	startSieges(w)
	progressSieges(w)
}

func startSieges(w *kernel.World) {
	for _, armyID := range w.LivingArmyIDs() {
		_, aa := w.Army(armyID)
		if aa == nil || aa.Besieging != nil {
			continue
		}
		region := w.ArmyRegion(armyID)
		if region == 0 {
			continue
		}
		for _, settlementID := range w.SettlementsInRegion(region) {
			_, sa := w.Settlement(settlementID)
			if sa == nil || sa.FactionID == aa.FactionID || sa.ActiveSiege != nil {
				continue
			}
			if !w.AtWar(aa.FactionID, sa.FactionID) {
				continue
			}
			if sa.FortificationLevel == 0 {
				// No walls, no siege: the settlement falls at once.
				w.Queue.Push(kernel.Command{
					Intent: kernel.IntentConquest{
						Settlement: settlementID, AttackerFaction: aa.FactionID,
						DefenderFaction: sa.FactionID,
					},
					EventKind:   kernel.EK.Conquest,
					Description: "an unfortified settlement falls to an invading army",
					Participants: []kernel.ParticipantSpec{
						{Entity: aa.FactionID, Role: kernel.RoleAttacker},
						{Entity: sa.FactionID, Role: kernel.RoleDefender},
						{Entity: settlementID, Role: kernel.RoleLocation},
					},
				})
				break
			}
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentStartSiege{Settlement: settlementID, AttackerArmy: armyID},
				EventKind:   kernel.EK.SiegeStarted,
				Description: "an army lays siege to a settlement",
				Participants: []kernel.ParticipantSpec{
					{Entity: armyID, Role: kernel.RoleAttacker},
					{Entity: settlementID, Role: kernel.RoleLocation},
				},
			})
			break
		}
	}
}

func progressSieges(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.ActiveSiege == nil {
			continue
		}
		siege := sa.ActiveSiege
		_, attacker := w.Army(siege.AttackerArmyID)
		if attacker == nil {
			// Attacker destroyed or disbanded: the defenders breathe again.
			w.Queue.Push(endSiegeCmd(settlementID, "Lifted", nil))
			continue
		}

		if sa.Population <= siegeSurrenderPopulation {
			faction := siege.AttackerFaction
			w.Queue.Push(endSiegeCmd(settlementID, "Surrendered", &faction))
			continue
		}

		// Assault once the siege has matured.
		if siege.Months >= siegeAssaultMinMonths && w.RNG.Bool(siegeAssaultAttemptOdds) {
			defense := float64(sa.FortificationLevel) * float64(sa.Population) * 0.05
			if defense < 1 {
				defense = 1
			}
			ratio := float64(attacker.Strength) / defense
			successChance := ratio / (ratio + 1)
			if w.RNG.Bool(successChance) {
				faction := siege.AttackerFaction
				w.Queue.Push(endSiegeCmd(settlementID, "Captured", &faction))
				continue
			}
			// Failed assault: the walls take their due from the attacker.
			casualties := int(math.Round(defense * w.RNG.Range(siegeAssaultFailLossMin, siegeAssaultFailLossMax)))
			starvation := siegeStarvationLoss(sa)
			w.Queue.Push(kernel.Command{
				Intent: kernel.IntentSiegeProgress{
					Settlement: settlementID, PopulationLoss: starvation,
					AttackerCasualties: casualties,
				},
				EventKind:   kernel.CustomEvent("siege_assault_repelled"),
				Description: "a settlement's walls throw back an assault",
				Participants: []kernel.ParticipantSpec{
					{Entity: siege.AttackerArmyID, Role: kernel.RoleAttacker},
					{Entity: settlementID, Role: kernel.RoleLocation},
				},
			})
			continue
		}

		w.Queue.Push(kernel.Command{
			Intent: kernel.IntentSiegeProgress{
				Settlement: settlementID, PopulationLoss: siegeStarvationLoss(sa),
			},
			EventKind:   kernel.CustomEvent("siege_progress"),
			Description: "a siege grinds on",
			Participants: []kernel.ParticipantSpec{
				{Entity: settlementID, Role: kernel.RoleLocation},
			},
		})
	}
}

// siegeStarvationLoss is the month's civilian toll, easing with the
// settlement's prosperity.
func siegeStarvationLoss(sa *kernel.SettlementAttrs) int {
	rate := siegeStarvationBase * (1 - 0.5*sa.Prosperity)
	return int(math.Round(float64(sa.Population) * rate))
}

func endSiegeCmd(settlementID uint64, outcome string, newFaction *uint64) kernel.Command {
	return kernel.Command{
		Intent:      kernel.IntentEndSiege{Settlement: settlementID, Outcome: outcome, NewFaction: newFaction},
		EventKind:   kernel.EK.SiegeEnded,
		Description: "a siege ends",
		Participants: []kernel.ParticipantSpec{
			{Entity: settlementID, Role: kernel.RoleLocation},
		},
	}
}
