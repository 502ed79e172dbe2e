// Package demographics implements the shape-level demographic subsystem:
// aging, mortality, notable births, and marriage — the handful of rules
// needed to keep the notable-person population alive and connected
// across centuries of simulated time.
package demographics

import "github.com/kaelhaven/chronicle/internal/kernel"

const adultAge = 16

// mortalityRate is an age-bracket mortality curve.
func mortalityRate(age uint16) float64 {
	switch {
	case age < 2:
		return 0.03
	case age < 16:
		return 0.005
	case age < 40:
		return 0.008
	case age < 60:
		return 0.015
	case age < 75:
		return 0.04
	case age < 90:
		return 0.10
	default:
		return 0.25
	}
}

// Age increments every living person's age by one year and stages
// mortality rolls for anyone the dice find. Runs yearly.
func Age(w *kernel.World) {
	w.Store.OfKind(kernel.KindPerson, func(e *kernel.Entity) bool {
		pa := e.Attrs.(*kernel.PersonAttrs)
		pa.Age++
		if w.RNG.Bool(mortalityRate(pa.Age)) {
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentPersonDied{Person: e.ID},
				EventKind:   kernel.EK.Death,
				Description: "a notable dies of age or illness",
				Participants: []kernel.ParticipantSpec{
					{Entity: e.ID, Role: kernel.RoleSubject},
				},
			})
		}
		return true
	})
}

// Births has married couples past adulthood occasionally bring a new
// notable into the world. Runs yearly.
func Births(w *kernel.World) {
	var couples [][2]uint64
	w.Store.OfKind(kernel.KindPerson, func(e *kernel.Entity) bool {
		pa := e.Attrs.(*kernel.PersonAttrs)
		if pa.Age < adultAge || pa.Age > 45 {
			return true
		}
		var spouse uint64
		w.Graph.OutgoingActive(e.ID, kernel.Spouse, func(r *kernel.Relationship) bool {
			spouse = r.Target
			return false
		})
		if spouse != 0 && spouse > e.ID {
			couples = append(couples, [2]uint64{e.ID, spouse})
		}
		return true
	})
	for _, pair := range couples {
		if !w.RNG.Bool(0.2) {
			continue
		}
		a, b := pair[0], pair[1]
		_, pa := w.Person(a)
		if pa == nil {
			continue
		}
		factionID, settlementID := personHome(w, a)
		if factionID == 0 || settlementID == 0 {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent: kernel.IntentPersonBorn{
				Name: "a newborn", Age: 0,
				FactionID: factionID, SettlementID: settlementID,
				ParentIDs: []uint64{a, b},
			},
			EventKind:   kernel.EK.Birth,
			Description: "a notable family welcomes a child",
			Participants: []kernel.ParticipantSpec{
				{Entity: a, Role: kernel.RoleSubject},
				{Entity: b, Role: kernel.RoleSubject},
			},
		})
	}
}

func personHome(w *kernel.World, person uint64) (factionID, settlementID uint64) {
	w.Graph.OutgoingActive(person, kernel.MemberOf, func(r *kernel.Relationship) bool {
		factionID = r.Target
		return false
	})
	w.Graph.OutgoingActive(person, kernel.LocatedIn, func(r *kernel.Relationship) bool {
		settlementID = r.Target
		return false
	})
	return
}

// abandonmentFloor is the population below which a settlement can no
// longer sustain itself.
const abandonmentFloor = 10

// Abandonment empties any settlement whose population has collapsed: the
// last inhabitants flee to the faction's largest remaining settlement as
// refugees, then the site is abandoned. Runs yearly.
func Abandonment(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.Population >= abandonmentFloor {
			continue
		}
		if dest := refugeeDestination(w, sa.FactionID, settlementID); dest != 0 && sa.Population > 0 {
			w.Queue.Push(kernel.Command{
				Intent: kernel.IntentRefugeeFlow{
					Source: settlementID, Destination: dest,
					Count: sa.Population, Culture: sa.DominantCulture,
				},
				EventKind:   kernel.EK.RefugeesArrived,
				Description: "the last inhabitants of a dying settlement flee",
				Participants: []kernel.ParticipantSpec{
					{Entity: settlementID, Role: kernel.RoleOrigin},
					{Entity: dest, Role: kernel.RoleDestination},
				},
			})
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentAbandonSettlement{Settlement: settlementID},
			EventKind:   kernel.EK.SettlementAbandoned,
			Description: "an emptied settlement is abandoned to the wild",
			Participants: []kernel.ParticipantSpec{
				{Entity: settlementID, Role: kernel.RoleSubject},
			},
		})
	}
}

// refugeeDestination picks the faction's largest other living settlement.
func refugeeDestination(w *kernel.World, factionID, exclude uint64) uint64 {
	var best uint64
	bestPop := -1
	for _, sid := range w.FactionSettlements(factionID) {
		if sid == exclude {
			continue
		}
		if _, sa := w.Settlement(sid); sa != nil && sa.Population > bestPop {
			best, bestPop = sid, sa.Population
		}
	}
	return best
}

// Marriage pairs up unmarried adults within the same faction. Runs
// yearly.
func Marriage(w *kernel.World) {
	var bachelors []uint64
	w.Store.OfKind(kernel.KindPerson, func(e *kernel.Entity) bool {
		pa := e.Attrs.(*kernel.PersonAttrs)
		if pa.Age < adultAge {
			return true
		}
		hasSpouse := false
		w.Graph.OutgoingActive(e.ID, kernel.Spouse, func(r *kernel.Relationship) bool {
			hasSpouse = true
			return false
		})
		if !hasSpouse {
			bachelors = append(bachelors, e.ID)
		}
		return true
	})
	for i := 0; i < len(bachelors); i++ {
		for j := i + 1; j < len(bachelors); j++ {
			a, b := bachelors[i], bachelors[j]
			fa, _ := personHome(w, a)
			fb, _ := personHome(w, b)
			if fa == 0 || fa != fb {
				continue
			}
			if !w.RNG.Bool(0.1) {
				continue
			}
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentMarriage{A: a, B: b},
				EventKind:   kernel.CustomEvent("marriage"),
				Description: "two notables marry",
				Participants: []kernel.ParticipantSpec{
					{Entity: a, Role: kernel.RoleSubject},
					{Entity: b, Role: kernel.RoleSubject},
				},
			})
		}
	}
}
