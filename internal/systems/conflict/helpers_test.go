package conflict

import "github.com/kaelhaven/chronicle/internal/kernel"

// Shared test-world builders, mirroring the minimal entity construction the
// kernel package's own applicator tests use.

func newTestWorld() *kernel.World {
	return kernel.NewWorld(1, 1)
}

func insertFaction(w *kernel.World) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindFaction, Name: "Faction", Origin: w.Clock.Now(),
		Attrs: &kernel.FactionAttrs{
			Grievances: make(map[uint64]float64),
			WarStarted: make(map[uint64]kernel.WarRecord),
		},
	})
	return id
}

func insertRegion(w *kernel.World, terrain kernel.Terrain) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindRegion, Name: "Region", Origin: w.Clock.Now(),
		Attrs: &kernel.RegionAttrs{Terrain: terrain},
	})
	return id
}

func insertSettlement(w *kernel.World, factionID, regionID uint64, population int) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindSettlement, Name: "Settlement", Origin: w.Clock.Now(),
		Attrs: &kernel.SettlementAttrs{
			FactionID:  factionID,
			RegionID:   regionID,
			Population: population,
		},
	})
	w.Graph.Open(id, factionID, kernel.MemberOf, w.Clock.Now(), 0)
	w.Graph.Open(id, regionID, kernel.LocatedIn, w.Clock.Now(), 0)
	return id
}

func insertArmy(w *kernel.World, factionID, regionID uint64, strength int, morale, supply float64) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindArmy, Name: "Army", Origin: w.Clock.Now(),
		Attrs: &kernel.ArmyAttrs{
			FactionID: factionID, Strength: strength, StartingStrength: strength,
			Morale: morale, Supply: supply, HomeRegionID: regionID,
		},
	})
	w.Graph.Open(id, regionID, kernel.LocatedIn, w.Clock.Now(), 0)
	return id
}
