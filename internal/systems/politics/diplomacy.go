package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	betrayalTrustFloor    = 0.25
	betrayalChance        = 0.2
	normalizationChance   = 0.15
	enemyGrievanceFloor   = 0.4
	newEnemyChance        = 0.25
	sharedEnemyAllyChance = 0.1
)

// Diplomacy runs the yearly pairwise relationship pass: alliances fray
// when a faithless leader's trust bottoms out, old enmities cool once the
// grievances behind them fade, fresh grievances harden into enmity, and
// factions sharing an enemy find each other. Alliance strength is
// recomputed from the surviving edges. Runs yearly.
func Diplomacy(w *kernel.World) {
	breakBetrayedAlliances(w)
	normalizeCooledEnmities(w)
	hardenGrievancesIntoEnmity(w)
	proposeSharedEnemyAlliances(w)
	recomputeAllianceStrength(w)
}

// breakBetrayedAlliances has leaders without honor abandon allies once
// their faction's diplomatic trust collapses.
func breakBetrayedAlliances(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || fa.DiplomaticTrust >= betrayalTrustFloor {
			continue
		}
		leader := w.FactionLeader(factionID)
		if leader != 0 {
			if _, pa := w.Person(leader); pa != nil && pa.HasTrait(kernel.TraitHonorable) {
				continue
			}
		}
		var ally uint64
		w.Graph.OutgoingActive(factionID, kernel.Ally, func(r *kernel.Relationship) bool {
			ally = r.Target
			return false
		})
		if ally == 0 || !w.RNG.Bool(betrayalChance) {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentDiplomaticShift{A: factionID, B: ally, Kind: kernel.Enemy, Betrayal: true},
			EventKind:   kernel.EK.AllianceBetrayed,
			Description: "an ally breaks its treaty to pursue its own interests",
			Participants: []kernel.ParticipantSpec{
				{Entity: factionID, Role: kernel.RoleInstigator},
				{Entity: ally, Role: kernel.RoleObject},
			},
		})
		return
	}
}

// normalizeCooledEnmities lets an Enemy pair drift back to neutral once
// neither side still carries a meaningful grievance and no war is on.
func normalizeCooledEnmities(w *kernel.World) {
	for _, a := range w.LivingFactionIDs() {
		_, fa := w.Faction(a)
		if fa == nil {
			continue
		}
		done := false
		w.Graph.OutgoingActive(a, kernel.Enemy, func(r *kernel.Relationship) bool {
			b := r.Target
			if b <= a || w.AtWar(a, b) {
				return true
			}
			_, fb := w.Faction(b)
			if fb == nil {
				return true
			}
			if kernel.MaxFactionGrievance(fa, b) > 0 || kernel.MaxFactionGrievance(fb, a) > 0 {
				return true
			}
			if !w.RNG.Bool(normalizationChance) {
				return true
			}
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentDiplomaticShift{A: a, B: b, Neutral: true},
				EventKind:   kernel.CustomEvent("enmity_cooled"),
				Description: "two old rivals let their enmity lapse",
				Participants: []kernel.ParticipantSpec{
					{Entity: a, Role: kernel.RoleSubject},
					{Entity: b, Role: kernel.RoleSubject},
				},
			})
			done = true
			return false
		})
		if done {
			return
		}
	}
}

// hardenGrievancesIntoEnmity turns a heavy unanswered grievance into an
// open Enemy edge.
func hardenGrievancesIntoEnmity(w *kernel.World) {
	factions := w.LivingFactionIDs()
	for _, a := range factions {
		_, fa := w.Faction(a)
		if fa == nil {
			continue
		}
		for _, b := range factions {
			if b == a {
				continue
			}
			if kernel.MaxFactionGrievance(fa, b) < enemyGrievanceFloor {
				continue
			}
			if w.Graph.HasActive(a, b, kernel.Enemy) || w.Graph.HasActive(a, b, kernel.Ally) || w.AtWar(a, b) {
				continue
			}
			if !w.RNG.Bool(newEnemyChance) {
				continue
			}
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentDiplomaticShift{A: a, B: b, Kind: kernel.Enemy},
				EventKind:   kernel.CustomEvent("enmity_declared"),
				Description: "a nursed grievance hardens into open enmity",
				Participants: []kernel.ParticipantSpec{
					{Entity: a, Role: kernel.RoleSubject},
					{Entity: b, Role: kernel.RoleObject},
				},
			})
			return
		}
	}
}

func proposeSharedEnemyAlliances(w *kernel.World) {
	factions := w.LivingFactionIDs()
	for _, a := range factions {
		enemiesOfA := w.EnemyFactions(a)
		if len(enemiesOfA) == 0 {
			continue
		}
		for _, b := range factions {
			if b <= a {
				continue
			}
			if w.Graph.HasActive(a, b, kernel.Ally) || w.AtWar(a, b) || w.Graph.HasActive(a, b, kernel.Enemy) {
				continue
			}
			if !sharesEnemy(w, b, enemiesOfA) {
				continue
			}
			if !w.RNG.Bool(sharedEnemyAllyChance) {
				continue
			}
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentFormAlliance{A: a, B: b},
				EventKind:   kernel.EK.AllianceFormed,
				Description: "two factions ally against a shared enemy",
				Participants: []kernel.ParticipantSpec{
					{Entity: a, Role: kernel.RoleSubject},
					{Entity: b, Role: kernel.RoleSubject},
				},
			})
			return
		}
	}
}

func sharesEnemy(w *kernel.World, factionID uint64, enemies []uint64) bool {
	for _, e := range enemies {
		if w.AtWar(factionID, e) {
			return true
		}
	}
	return false
}

// recomputeAllianceStrength rewrites each faction's alliance strength
// from its live Ally edges, weighted by both sides' diplomatic trust.
// Direct bookkeeping, no event: it is a derived score, not a happening.
func recomputeAllianceStrength(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil {
			continue
		}
		total, count := 0.0, 0
		w.Graph.OutgoingActive(factionID, kernel.Ally, func(r *kernel.Relationship) bool {
			if _, other := w.Faction(r.Target); other != nil {
				trust := fa.DiplomaticTrust
				if other.DiplomaticTrust < trust {
					trust = other.DiplomaticTrust
				}
				total += 0.5 + 0.5*trust
				count++
			}
			return true
		})
		if count > 0 {
			fa.AllianceStrength = total / float64(count)
		} else {
			fa.AllianceStrength = 0
		}
	}
}
