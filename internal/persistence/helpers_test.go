package persistence

import (
	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

// newTestWorld builds a small World with one of each core entity kind,
// an active relationship, an event with a participant, and a recorded
// change, so the persistence writers have something non-trivial to
// walk.
func newTestWorld() *kernel.World {
	w := kernel.NewWorld(1, 1)
	origin := clock.New(1, 1)

	factionID := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: factionID, Kind: kernel.KindFaction, Name: "Testland", Origin: origin,
		Attrs: &kernel.FactionAttrs{Treasury: 100},
	})

	personID := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: personID, Kind: kernel.KindPerson, Name: "A Notable", Origin: origin,
		Attrs: &kernel.PersonAttrs{Age: 30, Claims: map[uint64]kernel.Claim{}, Grievances: map[uint64]float64{}},
	})

	w.Graph.Open(personID, factionID, kernel.MemberOf, origin, 0)

	ev := w.Log.Append(kernel.EK.Birth, origin, "A Notable was born", nil, nil)
	w.Log.AddParticipant(ev.ID, personID, kernel.RoleSubject)
	w.Log.RecordChange(factionID, ev.ID, "Treasury", 90, 100)

	return w
}
