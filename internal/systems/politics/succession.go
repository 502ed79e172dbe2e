// Package politics implements the succession/claims/grievance/sentiment/
// coup/diplomacy/split subsystem. Systems here read *kernel.World and
// enqueue kernel.Command values; three steps change state in place
// without an event: the decay helpers kernel already exposes, the
// alliance-strength recompute in Diplomacy, and the Temple
// religion-share bump in React.
package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

// Succession seats a new leader for any faction without a living one,
// following the rule for its GovernmentType: bloodline for Hereditary,
// a weighted vote for Elective, the oldest warrior for Chieftain clans,
// the oldest priest for Theocracies. Runs yearly.
func Succession(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil {
			continue
		}
		if w.FactionLeader(factionID) != 0 {
			continue
		}
		members := w.FactionMembers(factionID)
		if len(members) == 0 {
			continue
		}
		prevLeader := w.PreviousLeader(factionID)
		successor := SelectSuccessor(w, fa.GovernmentType, members, prevLeader)
		if successor == 0 {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentInstallLeader{Faction: factionID, Person: successor, PrevLeader: prevLeader},
			EventKind:   kernel.EK.Succession,
			Description: "a faction seats a new leader",
			Participants: []kernel.ParticipantSpec{
				{Entity: successor, Role: kernel.RoleSubject},
				{Entity: factionID, Role: kernel.RoleObject},
			},
		})
	}
}

// SelectSuccessor picks a successor per GovernmentType. Exported because
// the reaction handler invokes the same path when a LeaderVacancy signal
// lands mid-tick.
func SelectSuccessor(w *kernel.World, gov kernel.GovernmentType, members []uint64, prevLeader uint64) uint64 {
	if len(members) == 0 {
		return 0
	}
	switch gov {
	case kernel.GovHereditary:
		memberSet := make(map[uint64]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
		}
		if prevLeader != 0 {
			var children []uint64
			for _, c := range w.Children(prevLeader) {
				if memberSet[c] {
					if _, pa := w.Person(c); pa != nil {
						children = append(children, c)
					}
				}
			}
			if id := oldest(w, children); id != 0 {
				return id
			}
			var siblings []uint64
			for _, s := range w.Siblings(prevLeader) {
				if memberSet[s] {
					if _, pa := w.Person(s); pa != nil {
						siblings = append(siblings, s)
					}
				}
			}
			if id := oldest(w, siblings); id != 0 {
				return id
			}
		}
		return oldest(w, members)

	case kernel.GovElective:
		// Elders and scholars carry triple weight; charisma doubles it.
		weights := make([]float64, len(members))
		for i, pid := range members {
			weight := 1.0
			if _, pa := w.Person(pid); pa != nil {
				if pa.Role == kernel.PersonElder || pa.Role == kernel.PersonScholar {
					weight = 3.0
				}
				if pa.HasTrait(kernel.TraitCharismatic) {
					weight *= 2
				}
			}
			weights[i] = weight
		}
		return members[w.RNG.WeightedPick(weights)]

	case kernel.GovChieftain, kernel.GovBanditClan:
		var warriors []uint64
		for _, pid := range members {
			if _, pa := w.Person(pid); pa != nil && pa.Role == kernel.PersonWarrior {
				warriors = append(warriors, pid)
			}
		}
		if id := oldest(w, warriors); id != 0 {
			return id
		}
		return oldest(w, members)

	case kernel.GovTheocracy:
		var priests []uint64
		for _, pid := range members {
			if _, pa := w.Person(pid); pa != nil && pa.Role == kernel.PersonPriest {
				priests = append(priests, pid)
			}
		}
		if id := oldest(w, priests); id != 0 {
			return id
		}
		var pious []uint64
		for _, pid := range members {
			if _, pa := w.Person(pid); pa != nil && pa.HasTrait(kernel.TraitPious) {
				pious = append(pious, pid)
			}
		}
		if id := oldest(w, pious); id != 0 {
			return id
		}
		return oldest(w, members)

	default:
		return oldest(w, members)
	}
}

// oldest returns the highest-age living person in ids, ties broken by the
// lower id (ids arrive sorted).
func oldest(w *kernel.World, ids []uint64) uint64 {
	var best uint64
	bestAge := -1
	for _, pid := range ids {
		if _, pa := w.Person(pid); pa != nil && int(pa.Age) > bestAge {
			best, bestAge = pid, int(pa.Age)
		}
	}
	return best
}
