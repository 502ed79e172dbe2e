package politics

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestAggregateSettlementsAveragesAcrossFactionHoldings(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	s1 := insertSettlement(w, f, 100)
	s2 := insertSettlement(w, f, 100)
	_, sa1 := w.Settlement(s1)
	_, sa2 := w.Settlement(s2)
	sa1.Prosperity, sa1.CulturalTension = 0.8, 0.2
	sa2.Prosperity, sa2.CulturalTension = 0.4, 0.0

	agg := aggregateSettlements(w, f)
	// Summed at run time like the code, (0.8+0.4)/2 is 0.6000000000000001.
	if want := (sa1.Prosperity + sa2.Prosperity) / 2; agg.prosperity != want {
		t.Errorf("expected averaged prosperity %v, got %f", want, agg.prosperity)
	}
	if agg.culturalTension != 0.1 {
		t.Errorf("expected averaged tension 0.1, got %f", agg.culturalTension)
	}
}

func TestAggregateSettlementsDefaultsWithNoHoldings(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	agg := aggregateSettlements(w, f)
	if agg.prosperity != defaultProsperity {
		t.Errorf("expected the default prosperity %f for a landless faction, got %f", defaultProsperity, agg.prosperity)
	}
}

func TestSentimentEmitsOneCommandPerFaction(t *testing.T) {
	w := newTestWorld()
	insertFaction(w, kernel.GovHereditary)
	insertFaction(w, kernel.GovElective)

	Sentiment(w)
	if w.Queue.Len() != 2 {
		t.Fatalf("expected one sentiment command per faction, got %d", w.Queue.Len())
	}
	for _, cmd := range w.Queue.Drain() {
		if _, ok := cmd.Intent.(kernel.IntentSetSentiment); !ok {
			t.Fatalf("expected IntentSetSentiment, got %T", cmd.Intent)
		}
	}
}

func TestSentimentDriftsHappinessDownWithoutALeader(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Happiness = 0.9
	fa.Stability = 0.5
	fa.Legitimacy = 0.9

	Sentiment(w)
	in := w.Queue.Drain()[0].Intent.(kernel.IntentSetSentiment)
	// Leaderless target: 0.6 + prosperity/stability terms - 0.1 sits well
	// below 0.9; drift plus at most 0.02 noise keeps the new value lower.
	if in.Happiness >= fa.Happiness {
		t.Errorf("expected happiness to drift downward for a leaderless, overjoyed faction, got %f", in.Happiness)
	}
}

func TestSentimentLeaderlessFactionBleedsStability(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Happiness = 0.5
	fa.Stability = 0.5
	fa.Legitimacy = 0.5

	w2 := newTestWorld()
	f2 := insertFaction(w2, kernel.GovHereditary)
	_, fa2 := w2.Faction(f2)
	fa2.Happiness = 0.5
	fa2.Stability = 0.5
	fa2.Legitimacy = 0.5
	leader := insertPerson(w2, f2, kernel.PersonAttrs{Age: 40})
	w2.Graph.Open(leader, f2, kernel.LeaderOf, w2.Clock.Now(), 0)

	Sentiment(w)
	Sentiment(w2)
	leaderless := w.Queue.Drain()[0].Intent.(kernel.IntentSetSentiment)
	led := w2.Queue.Drain()[0].Intent.(kernel.IntentSetSentiment)
	// The leaderless faction takes a -0.15 target penalty, a -0.04 drag,
	// and forfeits the +0.05 leader bonus — far outside the noise band.
	if leaderless.Stability >= led.Stability {
		t.Errorf("expected the leaderless faction's stability below the led one's: %f vs %f", leaderless.Stability, led.Stability)
	}
}

func TestSentimentHappinessFloorPullsMiseryUpward(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Happiness = 0.0
	fa.Stability = 0.0
	fa.Legitimacy = 0.0
	// A barren, fully tense settlement and an enemy bring the raw target to
	// 0.6 - 0.1 (stability) - 0.1 (enemy) - 0.1 (no leader) - 0.15 - 0.10
	// (tensions) = 0.05, below the floor.
	s := insertSettlement(w, f, 100)
	_, sa := w.Settlement(s)
	sa.CulturalTension, sa.ReligiousTension = 1, 1
	rival := insertFaction(w, kernel.GovHereditary)
	w.Graph.OpenSymmetric(f, rival, kernel.Enemy, w.Clock.Now(), 0)

	Sentiment(w)
	in := w.Queue.Drain()[0].Intent.(kernel.IntentSetSentiment)
	// The target clamps at 0.1, so one year's drift from 0.0 lands at
	// 0.1*0.15 give or take 0.02 noise, clamped at zero from below.
	if in.Happiness < 0 || in.Happiness > 0.035 {
		t.Errorf("expected one clamped-floor drift step from zero, got %f", in.Happiness)
	}
}
