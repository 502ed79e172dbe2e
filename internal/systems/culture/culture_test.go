package culture

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func newTestWorld() *kernel.World {
	return kernel.NewWorld(1, 1)
}

func insertSettlement(w *kernel.World) uint64 {
	id := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: id, Kind: kernel.KindSettlement, Name: "Settlement", Origin: w.Clock.Now(),
		Attrs: &kernel.SettlementAttrs{CultureMakeup: make(map[uint64]float64)},
	})
	return id
}

func TestFragmentationIsZeroForSingleCulture(t *testing.T) {
	if got := fragmentation(map[uint64]float64{1: 1.0}); got != 0 {
		t.Errorf("expected zero fragmentation for a monocultural settlement, got %f", got)
	}
}

func TestFragmentationIsHighForSplitCultures(t *testing.T) {
	if got := fragmentation(map[uint64]float64{1: 0.5, 2: 0.5}); got != 0.5 {
		t.Errorf("expected 0.5 fragmentation for an even split, got %f", got)
	}
}

func TestFragmentationIsZeroForEmptyMakeup(t *testing.T) {
	if got := fragmentation(nil); got != 0 {
		t.Errorf("expected zero fragmentation for an empty makeup, got %f", got)
	}
}

func TestDriftNudgesTensionTowardFragmentation(t *testing.T) {
	w := newTestWorld()
	s := insertSettlement(w)
	_, sa := w.Settlement(s)
	sa.DominantCulture = 1
	sa.CultureMakeup[1] = 0.6
	sa.CultureMakeup[2] = 0.4
	sa.CulturalTension = 0

	Drift(w)
	if sa.CulturalTension <= 0 {
		t.Errorf("expected tension to drift upward toward the fragmentation target, got %f", sa.CulturalTension)
	}
}

func TestDecayMinorityCulturesRemovesVanishingShares(t *testing.T) {
	sa := &kernel.SettlementAttrs{
		DominantCulture: 1,
		CultureMakeup:   map[uint64]float64{1: 0.99, 2: 0.002},
	}
	decayMinorityCultures(sa)
	if _, ok := sa.CultureMakeup[2]; ok {
		t.Error("expected a near-zero minority share to be removed entirely")
	}
	if sa.CultureMakeup[1] != 0.99 {
		t.Errorf("expected the dominant culture's share untouched, got %f", sa.CultureMakeup[1])
	}
}

func TestRebellionSkipsSettlementBelowTensionThreshold(t *testing.T) {
	w := newTestWorld()
	s := insertSettlement(w)
	_, sa := w.Settlement(s)
	sa.CulturalTension = 0.1

	Rebellion(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no rebellion below the tension threshold")
	}
}
