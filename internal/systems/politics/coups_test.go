package politics

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestCoupNeverFiresWithFullContentment(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Stability, fa.Happiness, fa.Legitimacy = 1, 1, 1
	leader := insertPerson(w, f, kernel.PersonAttrs{Prestige: 0.9})
	w.Graph.Open(leader, f, kernel.LeaderOf, w.Clock.Now(), 0)
	insertPerson(w, f, kernel.PersonAttrs{
		Prestige: 0.9,
		Traits:   map[kernel.Trait]bool{kernel.TraitRuthless: true},
	})

	for i := 0; i < 100; i++ {
		Coup(w)
	}
	if w.Queue.Len() != 0 {
		t.Error("expected a fully content faction to never attempt a coup")
	}
}

func TestCoupSkipsBanditFactions(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovBanditClan)
	_, fa := w.Faction(f)
	fa.IsBandit = true
	fa.Stability, fa.Happiness, fa.Legitimacy = 0, 0, 0
	leader := insertPerson(w, f, kernel.PersonAttrs{Prestige: 0.9})
	w.Graph.Open(leader, f, kernel.LeaderOf, w.Clock.Now(), 0)
	insertPerson(w, f, kernel.PersonAttrs{
		Prestige: 0.9,
		Traits:   map[kernel.Trait]bool{kernel.TraitRuthless: true},
	})

	for i := 0; i < 100; i++ {
		Coup(w)
	}
	if w.Queue.Len() != 0 {
		t.Error("expected bandit factions to never attempt a coup")
	}
}

func TestCoupSkipsLeaderlessFactions(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Stability, fa.Happiness, fa.Legitimacy = 0, 0, 0
	insertPerson(w, f, kernel.PersonAttrs{
		Prestige: 0.9,
		Traits:   map[kernel.Trait]bool{kernel.TraitRuthless: true},
	})

	for i := 0; i < 100; i++ {
		Coup(w)
	}
	if w.Queue.Len() != 0 {
		t.Error("expected no coup with no leader to depose")
	}
}

func TestCoupEventuallyFiresInMiserableFaction(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Stability, fa.Happiness, fa.Legitimacy = 0.1, 0.1, 0.1
	leader := insertPerson(w, f, kernel.PersonAttrs{Prestige: 0.2})
	w.Graph.Open(leader, f, kernel.LeaderOf, w.Clock.Now(), 0)
	schemer := insertPerson(w, f, kernel.PersonAttrs{
		Prestige: 0.8,
		Traits:   map[kernel.Trait]bool{kernel.TraitRuthless: true, kernel.TraitAggressive: true},
	})

	for i := 0; i < 500; i++ {
		Coup(w)
		for _, cmd := range w.Queue.Drain() {
			in, ok := cmd.Intent.(kernel.IntentCoupAttempt)
			if !ok {
				continue
			}
			if in.Faction != f || in.Instigator != schemer {
				t.Errorf("expected the scheming member %d to move against faction %d, got %+v", schemer, f, in)
			}
			return
		}
	}
	t.Fatal("expected a coup attempt to fire within 500 rolls of a miserable faction")
}

func TestTraitAmbitionMultiplierOrdersTemperaments(t *testing.T) {
	ruthless := &kernel.PersonAttrs{Traits: map[kernel.Trait]bool{kernel.TraitRuthless: true}}
	honorable := &kernel.PersonAttrs{Traits: map[kernel.Trait]bool{kernel.TraitHonorable: true}}
	plain := &kernel.PersonAttrs{}

	if traitAmbitionMultiplier(ruthless) <= traitAmbitionMultiplier(plain) {
		t.Error("expected ruthlessness to raise coup ambition")
	}
	if traitAmbitionMultiplier(honorable) >= traitAmbitionMultiplier(plain) {
		t.Error("expected honor to suppress coup ambition")
	}
}

func TestCoupSuccessChanceIsAPrestigeDuel(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	weakLeader := insertPerson(w, f, kernel.PersonAttrs{Prestige: 0.1})
	strongLeader := insertPerson(w, f, kernel.PersonAttrs{Prestige: 0.9})
	instigator := &kernel.PersonAttrs{Prestige: 0.5}

	vsWeak := coupSuccessChance(w, weakLeader, instigator)
	vsStrong := coupSuccessChance(w, strongLeader, instigator)
	if vsWeak <= vsStrong {
		t.Errorf("expected better odds against a low-prestige leader: %f vs %f", vsWeak, vsStrong)
	}
}
