package conflict

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestMusterSkipsFactionsNotAtWar(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	region := insertRegion(w, kernel.TerrainPlains)
	s := insertSettlement(w, f, region, 1000)
	_, sa := w.Settlement(s)
	sa.PopulationBreakdown[kernel.BracketYoungAdultMale] = 200
	sa.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 200

	Muster(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no muster for a faction not at war")
	}
}

func TestMusterRaisesArmyAboveThreshold(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	enemy := insertFaction(w)
	w.Graph.OpenSymmetric(f, enemy, kernel.AtWar, w.Clock.Now(), 0)
	region := insertRegion(w, kernel.TerrainPlains)
	s := insertSettlement(w, f, region, 1000)
	_, sa := w.Settlement(s)
	sa.PopulationBreakdown[kernel.BracketYoungAdultMale] = 100
	sa.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 100
	// able-bodied = 200, draft = floor(200*0.15) = 30, above the 20 floor.

	Muster(w)
	if w.Queue.Len() != 1 {
		t.Fatalf("expected exactly one muster command, got %d", w.Queue.Len())
	}
	cmd := w.Queue.Drain()[0]
	in, ok := cmd.Intent.(kernel.IntentMusterArmy)
	if !ok {
		t.Fatalf("expected an IntentMusterArmy, got %T", cmd.Intent)
	}
	if in.Strength != 30 {
		t.Errorf("expected draft strength 30, got %d", in.Strength)
	}
}

func TestMusterSkipsBelowMinimumThreshold(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	enemy := insertFaction(w)
	w.Graph.OpenSymmetric(f, enemy, kernel.AtWar, w.Clock.Now(), 0)
	region := insertRegion(w, kernel.TerrainPlains)
	s := insertSettlement(w, f, region, 100)
	_, sa := w.Settlement(s)
	sa.PopulationBreakdown[kernel.BracketYoungAdultMale] = 50
	sa.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 50
	// able-bodied = 100, draft = floor(100*0.15) = 15, below the 20 floor.

	Muster(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no army mustered below the minimum strength floor")
	}
}

func TestMusterSkipsFactionWithActiveArmy(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	enemy := insertFaction(w)
	w.Graph.OpenSymmetric(f, enemy, kernel.AtWar, w.Clock.Now(), 0)
	region := insertRegion(w, kernel.TerrainPlains)
	s := insertSettlement(w, f, region, 1000)
	_, sa := w.Settlement(s)
	sa.PopulationBreakdown[kernel.BracketYoungAdultMale] = 200
	sa.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 200

	armyID := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: armyID, Kind: kernel.KindArmy, Name: "Army", Origin: w.Clock.Now(),
		Attrs: &kernel.ArmyAttrs{FactionID: f, Strength: 50},
	})

	Muster(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no second muster while an army already campaigns")
	}
}

func TestMusterCarriesProportionalDraws(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	enemy := insertFaction(w)
	w.Graph.OpenSymmetric(f, enemy, kernel.AtWar, w.Clock.Now(), 0)
	region := insertRegion(w, kernel.TerrainPlains)
	big := insertSettlement(w, f, region, 1000)
	small := insertSettlement(w, f, region, 500)
	_, ba := w.Settlement(big)
	ba.PopulationBreakdown[kernel.BracketYoungAdultMale] = 150
	ba.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 150
	_, sa := w.Settlement(small)
	sa.PopulationBreakdown[kernel.BracketYoungAdultMale] = 50
	sa.PopulationBreakdown[kernel.BracketMiddleAgeMale] = 50

	Muster(w)
	cmds := w.Queue.Drain()
	if len(cmds) != 1 {
		t.Fatalf("expected one muster command, got %d", len(cmds))
	}
	in := cmds[0].Intent.(kernel.IntentMusterArmy)
	// able = 400, draft = 60: 45 from the big settlement, 15 from the small.
	if in.Strength != 60 {
		t.Fatalf("expected draft of 60, got %d", in.Strength)
	}
	if len(in.Draws) != 2 {
		t.Fatalf("expected two settlement draws, got %d", len(in.Draws))
	}
	for _, d := range in.Draws {
		switch d.Settlement {
		case big:
			if d.Count != 45 {
				t.Errorf("expected 45 drawn from the larger settlement, got %d", d.Count)
			}
		case small:
			if d.Count != 15 {
				t.Errorf("expected 15 drawn from the smaller settlement, got %d", d.Count)
			}
		}
	}
	if in.HomeRegionID != region {
		t.Errorf("expected home region %d, got %d", region, in.HomeRegionID)
	}
}

func TestLargestSettlementPicksHighestPopulation(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w)
	region := insertRegion(w, kernel.TerrainPlains)
	small := insertSettlement(w, f, region, 100)
	big := insertSettlement(w, f, region, 900)

	if got := largestSettlement(w, []uint64{small, big}); got != big {
		t.Errorf("expected the larger settlement %d, got %d", big, got)
	}
}
