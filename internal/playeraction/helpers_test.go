package playeraction

import (
	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

func newTestWorld() *kernel.World {
	return kernel.NewWorld(1, 1)
}

func insertFaction(w *kernel.World) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindFaction, Name: "Faction", Origin: clock.New(1, 1),
		Attrs: &kernel.FactionAttrs{Stability: 0.5, Happiness: 0.5, Legitimacy: 0.5},
	})
	return id
}

func insertPerson(w *kernel.World) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindPerson, Name: "Person", Origin: clock.New(1, 1),
		Attrs: &kernel.PersonAttrs{Age: 30, Claims: map[uint64]kernel.Claim{}, Grievances: map[uint64]float64{}},
	})
	return id
}

func commandsOf(w *kernel.World) []kernel.Command {
	return w.Queue.Drain()
}
