package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	splitStabilityThreshold = 0.3
	splitHappinessThreshold = 0.35
	splitBaseChance         = 0.01
	splitPrestigeResistance = 0.3
	splitGovInheritChance   = 0.5
	splitPostEnemyChance    = 0.7
)

// splitGovPool is what a breakaway picks from when it does not inherit
// its parent's government.
var splitGovPool = []kernel.GovernmentType{
	kernel.GovHereditary, kernel.GovElective, kernel.GovChieftain,
}

// Split rolls a secession chance for every settlement of a faction whose
// stability and happiness have both collapsed. Misery drives the odds;
// faction prestige resists them. Runs yearly.
func Split(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || fa.IsBandit {
			continue
		}
		if fa.Stability >= splitStabilityThreshold || fa.Happiness >= splitHappinessThreshold {
			continue
		}
		misery := (1 - fa.Happiness) * (1 - fa.Stability)
		chance := splitBaseChance * misery * (1 - fa.Prestige*splitPrestigeResistance)

		for _, settlementID := range w.FactionSettlements(factionID) {
			if !w.RNG.Bool(chance) {
				continue
			}
			gov := fa.GovernmentType
			if !w.RNG.Bool(splitGovInheritChance) {
				gov = splitGovPool[w.RNG.Pick(len(splitGovPool))]
			}
			becomeEnemy := w.RNG.Bool(splitPostEnemyChance)
			w.Queue.Push(kernel.Command{
				Intent: kernel.IntentFactionSplit{
					Settlement: settlementID, ParentFaction: factionID,
					GovernmentType: gov, BecomeEnemy: becomeEnemy,
				},
				EventKind:   kernel.EK.FactionSplit,
				Description: "a discontented settlement breaks away to form its own faction",
				Participants: []kernel.ParticipantSpec{
					{Entity: settlementID, Role: kernel.RoleSubject},
					{Entity: factionID, Role: kernel.RoleOrigin},
				},
			})
		}
	}
}

// DissolveEmptyFactions ends any faction left with zero living
// settlements, closing its diplomatic edges. Runs yearly, after every
// other politics step has had a chance to repopulate or empty a faction.
func DissolveEmptyFactions(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		// Bandit clans hold no settlements by nature; the crime subsystem
		// owns their lifecycle.
		if _, fa := w.Faction(factionID); fa == nil || fa.IsBandit {
			continue
		}
		if len(w.FactionSettlements(factionID)) > 0 {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentDissolveFaction{Faction: factionID},
			EventKind:   kernel.EK.FactionDissolved,
			Description: "a faction with no lands left quietly ceases to exist",
			Participants: []kernel.ParticipantSpec{
				{Entity: factionID, Role: kernel.RoleSubject},
			},
		})
	}
}
