package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

func newTestWorld() *kernel.World {
	return kernel.NewWorld(1, 1)
}

func insertFaction(w *kernel.World, gov kernel.GovernmentType) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindFaction, Name: "Faction", Origin: w.Clock.Now(),
		Attrs: &kernel.FactionAttrs{
			GovernmentType: gov,
			Grievances:     make(map[uint64]float64),
			WarStarted:     make(map[uint64]kernel.WarRecord),
		},
	})
	return id
}

func insertSettlement(w *kernel.World, factionID uint64, population int) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindSettlement, Name: "Settlement", Origin: w.Clock.Now(),
		Attrs: &kernel.SettlementAttrs{FactionID: factionID, Population: population},
	})
	w.Graph.Open(id, factionID, kernel.MemberOf, w.Clock.Now(), 0)
	return id
}

func insertPerson(w *kernel.World, factionID uint64, attrs kernel.PersonAttrs) uint64 {
	if attrs.Claims == nil {
		attrs.Claims = make(map[uint64]kernel.Claim)
	}
	if attrs.Grievances == nil {
		attrs.Grievances = make(map[uint64]float64)
	}
	id := w.Ids.Next()
	a := attrs
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindPerson, Name: "Person", Origin: w.Clock.Now(),
		Attrs: &a,
	})
	w.Graph.Open(id, factionID, kernel.MemberOf, w.Clock.Now(), 0)
	return id
}
