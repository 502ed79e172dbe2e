package kernel

import "testing"

func TestApplyInstallLeaderDropsCommandWhenSeatIsTaken(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	town := insertSettlement(w, "Town", f, 100)
	first := insertPerson(w, "First", f, town)
	second := insertPerson(w, "Second", f, town)

	if !Apply(w, Command{Intent: IntentInstallLeader{Faction: f, Person: first}, EventKind: EK.Succession}) {
		t.Fatal("expected the first installation to apply")
	}
	if w.FactionLeader(f) != first {
		t.Fatalf("expected first leader installed, got %d", w.FactionLeader(f))
	}

	// The yearly sweep and a same-tick LeaderVacancy reaction can both
	// stage an installation; the second must be silently dropped.
	if Apply(w, Command{Intent: IntentInstallLeader{Faction: f, Person: second}, EventKind: EK.Succession}) {
		t.Error("expected a second installation against a filled seat to be dropped")
	}
	if w.FactionLeader(f) != first {
		t.Errorf("expected the first leader still seated, got %d", w.FactionLeader(f))
	}
}

func TestApplyInstallLeaderStabilityHitSoftenedByPrestige(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	town := insertSettlement(w, "Town", f, 100)
	leader := insertPerson(w, "Leader", f, town)
	_, pa := w.Person(leader)
	pa.Prestige = 0.5
	_, fa := w.Faction(f)
	fa.Stability = 0.5

	Apply(w, Command{Intent: IntentInstallLeader{Faction: f, Person: leader}, EventKind: EK.Succession})
	// Hit = 0.12 * (1 - 0.5*0.5) = 0.09.
	if !approx(fa.Stability, 0.5-0.12*(1-0.5*0.5)) {
		t.Errorf("expected a prestige-softened succession hit, got stability %f", fa.Stability)
	}
}

func TestApplyInstallLeaderHereditaryCreatesClaimsAndCrisis(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	other := insertFaction(w, "Other")
	town := insertSettlement(w, "Town", f, 100)
	otherTown := insertSettlement(w, "Other Town", other, 100)
	_, fa := w.Faction(f)
	fa.GovernmentType = GovHereditary
	fa.Stability = 0.8
	fa.Legitimacy = 0.8

	prev := insertPerson(w, "Old King", f, town)
	exiledChild := insertPerson(w, "Exiled Child", other, otherTown)
	w.Graph.Open(prev, exiledChild, Child, w.Clock.Now(), 0)
	w.Graph.Open(exiledChild, prev, Parent, w.Clock.Now(), 0)
	heir := insertPerson(w, "Heir", f, town)

	// The old king dies; the heir takes the seat.
	now := w.Clock.Now()
	pe := w.Store.Get(prev)
	pe.End = &now
	w.Graph.EndEntityCascade(prev, now)

	Apply(w, Command{Intent: IntentInstallLeader{Faction: f, Person: heir, PrevLeader: prev}, EventKind: EK.Succession})

	_, ca := w.Person(exiledChild)
	claim, ok := ca.Claims[f]
	if !ok {
		t.Fatal("expected the passed-over child in another faction to receive a claim")
	}
	if claim.Strength != 0.9 || claim.Source != "bloodline" {
		t.Errorf("expected a 0.9 bloodline claim, got %+v", claim)
	}

	sawCrisis := false
	for _, sig := range w.Bus.Drain() {
		if SignalKindOf(sig) == "SuccessionCrisis" {
			sawCrisis = true
		}
	}
	if !sawCrisis {
		t.Error("expected a SuccessionCrisis signal for a strong passed-over claimant")
	}
	if fa.SuccessionCrisisAt == nil {
		t.Error("expected the crisis timestamp recorded on the faction")
	}
}

func TestApplySetSentimentWritesComputedValues(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	_, fa := w.Faction(f)
	fa.Stability, fa.Happiness, fa.Legitimacy = 0.5, 0.5, 0.5

	Apply(w, Command{
		Intent:    IntentSetSentiment{Faction: f, Stability: 0.6, Happiness: 0.4, Legitimacy: 0.7},
		EventKind: CustomEvent("sentiment_drift"),
	})
	if fa.Stability != 0.6 || fa.Happiness != 0.4 || fa.Legitimacy != 0.7 {
		t.Errorf("expected the computed sentiment written verbatim, got %f/%f/%f", fa.Stability, fa.Happiness, fa.Legitimacy)
	}
}

func TestApplyAdjustSentimentClamps(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	_, fa := w.Faction(f)
	fa.Stability = 0.25

	Apply(w, Command{Intent: IntentAdjustSentiment{Faction: f, StabilityDelta: -0.5}, EventKind: CustomEvent("sentiment_reaction")})
	if fa.Stability != 0 {
		t.Errorf("expected stability clamped to 0, got %f", fa.Stability)
	}
}

func TestApplyAddGrievanceNegativeAmountSatisfies(t *testing.T) {
	w := newTestWorld()
	a := insertFaction(w, "A")
	b := insertFaction(w, "B")
	_, fa := w.Faction(a)
	AddFactionGrievance(fa, b, 0.5)

	Apply(w, Command{Intent: IntentAddGrievance{From: a, Against: b, Amount: -0.2}, EventKind: CustomEvent("grievance_shift")})
	if !approx(fa.Grievances[b], 0.3) {
		t.Errorf("expected the grievance reduced to 0.3, got %f", fa.Grievances[b])
	}

	Apply(w, Command{Intent: IntentAddGrievance{From: a, Against: b, Amount: -0.28}, EventKind: CustomEvent("grievance_shift")})
	if _, ok := fa.Grievances[b]; ok {
		t.Error("expected the grievance dropped once satisfied below the ledger threshold")
	}
}

func TestApplyCoupAttemptSuccessInstallsInstigatorAndSeedsClaims(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	town := insertSettlement(w, "Town", f, 100)
	leader := insertPerson(w, "Leader", f, town)
	child := insertPerson(w, "Child", f, town)
	w.Graph.Open(leader, child, Child, w.Clock.Now(), 0)
	w.Graph.Open(child, leader, Parent, w.Clock.Now(), 0)
	instigator := insertPerson(w, "Instigator", f, town)
	w.Graph.Open(leader, f, LeaderOf, w.Clock.Now(), 0)

	Apply(w, Command{Intent: IntentCoupAttempt{Faction: f, Instigator: instigator, Success: true}, EventKind: EK.Coup})
	if w.FactionLeader(f) != instigator {
		t.Errorf("expected instigator installed as leader, got %d", w.FactionLeader(f))
	}
	if !w.Store.Get(leader).Alive() {
		t.Error("a successful coup deposes the leader without ending the entity")
	}
	_, ca := w.Person(child)
	if claim, ok := ca.Claims[f]; !ok || claim.Strength != 0.7 {
		t.Errorf("expected the deposed leader's child to carry a 0.7 claim, got %+v", ca.Claims[f])
	}
}

func TestApplyCoupAttemptFailureKillsInstigator(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Faction")
	town := insertSettlement(w, "Town", f, 100)
	instigator := insertPerson(w, "Instigator", f, town)

	Apply(w, Command{Intent: IntentCoupAttempt{Faction: f, Instigator: instigator, Success: false}, EventKind: EK.Coup})
	if w.Store.Get(instigator).Alive() {
		t.Error("expected a failed coup to end the instigator")
	}
}

func TestApplyFactionSplitMovesSettlementAndResidents(t *testing.T) {
	w := newTestWorld()
	parent := insertFaction(w, "Parent")
	_, pa := w.Faction(parent)
	pa.Happiness = 0.3
	pa.Prestige = 0.4
	town := insertSettlement(w, "Town", parent, 200)
	_, sa := w.Settlement(town)
	sa.DominantCulture = 77
	sa.ReligionMakeup = map[uint64]float64{5: 1.0}
	resident := insertPerson(w, "Resident", parent, town)

	ok := Apply(w, Command{
		Intent:    IntentFactionSplit{Settlement: town, ParentFaction: parent, GovernmentType: GovElective, BecomeEnemy: true},
		EventKind: EK.FactionSplit,
	})
	if !ok {
		t.Fatal("expected faction split to apply")
	}

	breakaway := sa.FactionID
	if breakaway == parent {
		t.Fatal("expected the settlement to move to a newly created faction")
	}
	_, ba := w.Faction(breakaway)
	if ba.GovernmentType != GovElective {
		t.Error("expected the breakaway to carry the rolled government type")
	}
	if ba.Legitimacy != 0.6 {
		t.Errorf("expected the breakaway's legitimacy at 0.6, got %f", ba.Legitimacy)
	}
	if ba.PrimaryCulture != 77 || ba.PrimaryReligion != 5 {
		t.Error("expected the breakaway to inherit the settlement's dominant culture and religion")
	}
	if !approx(ba.Happiness, 0.4) {
		t.Errorf("expected the breakaway slightly happier than its parent, got %f", ba.Happiness)
	}
	if !approx(ba.Prestige, 0.1) {
		t.Errorf("expected a quarter of the parent's prestige inherited, got %f", ba.Prestige)
	}
	if !w.Graph.HasActive(resident, breakaway, MemberOf) {
		t.Error("expected the resident to follow the settlement to the breakaway faction")
	}
	if !w.Graph.HasActive(breakaway, parent, Enemy) || !w.Graph.HasActive(parent, breakaway, Enemy) {
		t.Error("expected a symmetric Enemy edge between parent and breakaway")
	}

	sawSplit := false
	for _, sig := range w.Bus.Drain() {
		if SignalKindOf(sig) == "FactionSplit" {
			sawSplit = true
		}
	}
	if !sawSplit {
		t.Error("expected a FactionSplit signal")
	}
}

func TestApplyDissolveFactionClosesDiplomaticEdges(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, "Empty Faction")
	rival := insertFaction(w, "Rival")
	w.Graph.OpenSymmetric(f, rival, Enemy, w.Clock.Now(), 0)
	if !Apply(w, Command{Intent: IntentDissolveFaction{Faction: f}, EventKind: EK.FactionDissolved}) {
		t.Fatal("expected dissolve to apply")
	}
	if w.Store.Get(f).Alive() {
		t.Error("expected dissolved faction to be ended")
	}
	if w.Graph.HasActive(f, rival, Enemy) || w.Graph.HasActive(rival, f, Enemy) {
		t.Error("expected the enemy edges closed with the faction")
	}
}
