package kernel

import "testing"

func TestBusDrainReturnsInEmissionOrderAndEmpties(t *testing.T) {
	b := NewBus()
	b.Emit(NewWarStarted(1, 10, 20))
	b.Emit(NewLeaderVacancy(1, 30, 0))

	if b.Len() != 2 {
		t.Fatalf("expected 2 queued signals, got %d", b.Len())
	}

	drained := b.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained signals, got %d", len(drained))
	}
	if SignalKindOf(drained[0]) != "WarStarted" || SignalKindOf(drained[1]) != "LeaderVacancy" {
		t.Errorf("expected emission order preserved, got %s then %s", SignalKindOf(drained[0]), SignalKindOf(drained[1]))
	}
	if b.Len() != 0 {
		t.Errorf("expected bus empty after drain, got %d remaining", b.Len())
	}
}

func TestBusDrainOnEmptyReturnsNil(t *testing.T) {
	b := NewBus()
	if got := b.Drain(); got != nil {
		t.Errorf("expected nil from draining an empty bus, got %v", got)
	}
}

func TestBusClearDropsQueuedSignalsRegardless(t *testing.T) {
	b := NewBus()
	b.Emit(NewPlagueStarted(1, 5))
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("expected Clear to empty the bus, got %d remaining", b.Len())
	}
}

func TestSignalAccessorsRoundTrip(t *testing.T) {
	s := NewWarStarted(7, 1, 2)
	a, bEntity, ok := AsWarStarted(s)
	if !ok || a != 1 || bEntity != 2 {
		t.Errorf("expected AsWarStarted to recover (1, 2), got (%d, %d, %v)", a, bEntity, ok)
	}

	if _, _, ok := AsWarStarted(NewLeaderVacancy(1, 3, 0)); ok {
		t.Error("expected AsWarStarted to fail against a different payload type")
	}
}
