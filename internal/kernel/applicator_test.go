package kernel

// Test helpers shared by the applicator test suite: small world builders
// that insert bare-bones entities directly into the store, bypassing
// worldgen, so each test only sets up the fields its command touches.

func newTestWorld() *World {
	return NewWorld(1, 1)
}

func insertFaction(w *World, name string) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindFaction, Name: name, Origin: w.Clock.Now(),
		Attrs: &FactionAttrs{
			Grievances: make(map[uint64]float64),
			WarStarted: make(map[uint64]WarRecord),
		},
	})
	return id
}

func insertSettlement(w *World, name string, factionID uint64, population int) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindSettlement, Name: name, Origin: w.Clock.Now(),
		Attrs: &SettlementAttrs{
			FactionID:  factionID,
			Population: population,
			Treasury:   100,
		},
	})
	w.Graph.Open(id, factionID, MemberOf, w.Clock.Now(), 0)
	return id
}

func insertPerson(w *World, name string, factionID, settlementID uint64) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindPerson, Name: name, Origin: w.Clock.Now(),
		Attrs: &PersonAttrs{
			Traits: make(map[Trait]bool),
			Claims: make(map[uint64]Claim),
		},
	})
	w.Graph.Open(id, factionID, MemberOf, w.Clock.Now(), 0)
	w.Graph.Open(id, settlementID, LocatedIn, w.Clock.Now(), 0)
	return id
}
