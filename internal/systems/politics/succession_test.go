package politics

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestSuccessionSkipsFactionWithLivingLeader(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	leader := insertPerson(w, f, kernel.PersonAttrs{Age: 50})
	w.Graph.Open(leader, f, kernel.LeaderOf, w.Clock.Now(), 0)

	Succession(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no succession for a faction with a living leader")
	}
}

func TestSuccessionSkipsFactionWithNoMembers(t *testing.T) {
	w := newTestWorld()
	insertFaction(w, kernel.GovHereditary)

	Succession(w)
	if w.Queue.Len() != 0 {
		t.Error("expected no succession for a faction with no living members")
	}
}

func TestSuccessionHereditaryPrefersOldestChildOfPreviousLeader(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	prev := insertPerson(w, f, kernel.PersonAttrs{Age: 80})
	elder := insertPerson(w, f, kernel.PersonAttrs{Age: 60})
	youngChild := insertPerson(w, f, kernel.PersonAttrs{Age: 25})
	oldChild := insertPerson(w, f, kernel.PersonAttrs{Age: 30})
	for _, child := range []uint64{youngChild, oldChild} {
		w.Graph.Open(prev, child, kernel.Child, w.Clock.Now(), 0)
		w.Graph.Open(child, prev, kernel.Parent, w.Clock.Now(), 0)
	}
	_ = elder

	// The previous leader reigns, then dies.
	w.Graph.Open(prev, f, kernel.LeaderOf, w.Clock.Now(), 0)
	w.Clock.AdvanceMonth()
	now := w.Clock.Now()
	e := w.Store.Get(prev)
	e.End = &now
	w.Graph.EndEntityCascade(prev, now)

	Succession(w)
	if w.Queue.Len() != 1 {
		t.Fatalf("expected exactly one succession command, got %d", w.Queue.Len())
	}
	in := w.Queue.Drain()[0].Intent.(kernel.IntentInstallLeader)
	if in.Person != oldChild {
		t.Errorf("expected the oldest child %d to succeed, got %d", oldChild, in.Person)
	}
	if in.PrevLeader != prev {
		t.Errorf("expected the previous leader %d carried on the intent, got %d", prev, in.PrevLeader)
	}
}

func TestSuccessionHereditaryFallsBackToSiblingThenOldest(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	parent := insertPerson(w, f, kernel.PersonAttrs{Age: 99})
	prev := insertPerson(w, f, kernel.PersonAttrs{Age: 70})
	sibling := insertPerson(w, f, kernel.PersonAttrs{Age: 65})
	for _, child := range []uint64{prev, sibling} {
		w.Graph.Open(parent, child, kernel.Child, w.Clock.Now(), 0)
		w.Graph.Open(child, parent, kernel.Parent, w.Clock.Now(), 0)
	}
	// The parent is dead and cannot succeed.
	now := w.Clock.Now()
	pe := w.Store.Get(parent)
	pe.End = &now
	w.Graph.EndEntityCascade(parent, now)

	w.Graph.Open(prev, f, kernel.LeaderOf, w.Clock.Now(), 0)
	w.Clock.AdvanceMonth()
	died := w.Clock.Now()
	e := w.Store.Get(prev)
	e.End = &died
	w.Graph.EndEntityCascade(prev, died)

	Succession(w)
	in := w.Queue.Drain()[0].Intent.(kernel.IntentInstallLeader)
	if in.Person != sibling {
		t.Errorf("expected the sibling %d to succeed a childless leader, got %d", sibling, in.Person)
	}
}

func TestSuccessionElectiveWeightsEldersAndScholars(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovElective)
	common := insertPerson(w, f, kernel.PersonAttrs{Age: 40})
	elder := insertPerson(w, f, kernel.PersonAttrs{Age: 60, Role: kernel.PersonElder})

	counts := map[uint64]int{}
	for i := 0; i < 200; i++ {
		winner := SelectSuccessor(w, kernel.GovElective, []uint64{common, elder}, 0)
		counts[winner]++
	}
	if counts[elder] <= counts[common] {
		t.Errorf("expected the triple-weighted elder to win more often: elder=%d common=%d", counts[elder], counts[common])
	}
}

func TestSuccessionChieftainPrefersOldestWarrior(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovChieftain)
	insertPerson(w, f, kernel.PersonAttrs{Age: 70})
	youngWarrior := insertPerson(w, f, kernel.PersonAttrs{Age: 30, Role: kernel.PersonWarrior})
	oldWarrior := insertPerson(w, f, kernel.PersonAttrs{Age: 45, Role: kernel.PersonWarrior})
	_ = youngWarrior

	Succession(w)
	in := w.Queue.Drain()[0].Intent.(kernel.IntentInstallLeader)
	if in.Person != oldWarrior {
		t.Errorf("expected the oldest warrior %d to lead the clan, got %d", oldWarrior, in.Person)
	}
}

func TestSuccessionTheocracyPrefersPriestThenPious(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovTheocracy)
	pious := insertPerson(w, f, kernel.PersonAttrs{
		Age: 60, Traits: map[kernel.Trait]bool{kernel.TraitPious: true},
	})
	priest := insertPerson(w, f, kernel.PersonAttrs{Age: 40, Role: kernel.PersonPriest})

	Succession(w)
	in := w.Queue.Drain()[0].Intent.(kernel.IntentInstallLeader)
	if in.Person != priest {
		t.Errorf("expected the priest %d over the merely pious, got %d", priest, in.Person)
	}

	// Without a priest, piety carries the day over plain age.
	older := insertPerson(w, f, kernel.PersonAttrs{Age: 80})
	got := SelectSuccessor(w, kernel.GovTheocracy, []uint64{pious, older}, 0)
	if got != pious {
		t.Errorf("expected the pious member %d without a priest available, got %d", pious, got)
	}
}
