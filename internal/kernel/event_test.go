package kernel

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/clock"
)

func TestLogAppendAssignsMonotonicIDs(t *testing.T) {
	l := NewLog()
	e1 := l.Append(EK.WarDeclared, clock.New(0, 0), "a", nil, nil)
	e2 := l.Append(EK.WarEnded, clock.New(1, 0), "b", nil, nil)
	if e2.ID <= e1.ID {
		t.Fatalf("expected monotonically increasing ids, got %d then %d", e1.ID, e2.ID)
	}
}

func TestLogGetFindsAppendedEvent(t *testing.T) {
	l := NewLog()
	e := l.Append(EK.Battle, clock.New(0, 0), "battle", nil, nil)
	if got := l.Get(e.ID); got != e {
		t.Fatalf("expected Get to return the same event, got %v", got)
	}
	if got := l.Get(e.ID + 999); got != nil {
		t.Errorf("expected Get on unknown id to return nil, got %v", got)
	}
}

func TestLogParticipantsAndChangesAccumulate(t *testing.T) {
	l := NewLog()
	e := l.Append(EK.Marriage, clock.New(0, 0), "marriage", nil, nil)
	l.AddParticipant(e.ID, 1, RoleSubject)
	l.AddParticipant(e.ID, 2, RoleObject)
	l.RecordChange(1, e.ID, "spouse", nil, uint64(2))

	if len(l.Participants()) != 2 {
		t.Errorf("expected 2 participants, got %d", len(l.Participants()))
	}
	if len(l.Changes()) != 1 {
		t.Errorf("expected 1 change, got %d", len(l.Changes()))
	}
	if l.Changes()[0].NewValue != uint64(2) {
		t.Errorf("expected recorded new value 2, got %v", l.Changes()[0].NewValue)
	}
}

func TestEventKindCustomRoundTrips(t *testing.T) {
	k := CustomEvent("treaty_with")
	if k.String() != "Custom(treaty_with)" {
		t.Errorf("expected Custom(treaty_with), got %s", k.String())
	}
}

func TestRelKindCustomEquality(t *testing.T) {
	a := Custom("treaty_with")
	b := Custom("treaty_with")
	c := Custom("other")
	if !a.Equal(b) {
		t.Error("expected identical custom labels to be equal")
	}
	if a.Equal(c) {
		t.Error("expected different custom labels to be unequal")
	}
	if a.Equal(MemberOf) {
		t.Error("expected a custom kind to never equal a builtin kind")
	}
}
