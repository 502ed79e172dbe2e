package kernel

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Succession and claim constants. The politics system selects successors
// and rolls coups; the applicator owns the fixed consequences.
const (
	successionStabilityHit       = 0.12
	successionPrestigeSoftening  = 0.5
	claimChildStrength           = 0.9
	claimSiblingStrength         = 0.6
	claimGrandchildStrength      = 0.4
	claimSpouseFactor            = 0.5
	claimDeposedStrength         = 0.7
	claimSplitStrength           = 0.5
	crisisClaimThreshold         = 0.5
	crisisStabilityHit           = 0.15
	crisisLegitimacyHit          = 0.20
	coupFailureStabilityHit      = 0.1
	coupSuccessLegitimacyHit     = 0.25
	splitNewFactionStability     = 0.5
	splitNewFactionHappinessGain = 0.1
	splitNewFactionLegitimacy    = 0.6
	splitPrestigeInheritance     = 0.25
)

// applySuccessionStabilityHit applies the regime-change hit, softened by
// the new leader's prestige.
func (w *World) applySuccessionStabilityHit(factionID uint64, eventID uint64) {
	fe, fa := w.Faction(factionID)
	if fa == nil {
		return
	}
	prestige := 0.0
	if leader := w.FactionLeader(factionID); leader != 0 {
		if _, pa := w.Person(leader); pa != nil {
			prestige = pa.Prestige
		}
	}
	hit := successionStabilityHit * (1 - prestige*successionPrestigeSoftening)
	old := fa.Stability
	fa.Stability = Clamp01(fa.Stability - hit)
	w.Log.RecordChange(fe.ID, eventID, "stability", old, fa.Stability)
}

// applyInstallLeader seats a new leader. A faction that already has a
// living leader drops the command — both the yearly vacancy sweep and an
// immediate LeaderVacancy reaction can race in the same tick, and only
// the first may install.
func (w *World) applyInstallLeader(cmd Command, in IntentInstallLeader) bool {
	_, fa := w.Faction(in.Faction)
	_, pa := w.Person(in.Person)
	if fa == nil || pa == nil {
		return false
	}
	if w.FactionLeader(in.Faction) != 0 {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	w.Graph.Open(in.Person, in.Faction, LeaderOf, w.Clock.Now(), ev.ID)
	w.applySuccessionStabilityHit(in.Faction, ev.ID)

	if fa.GovernmentType == GovHereditary && in.PrevLeader != 0 {
		w.createSuccessionClaims(in.Faction, in.PrevLeader, ev.ID)
	}
	return true
}

// createSuccessionClaims grants claims to the previous leader's passed-over
// blood relatives living in other factions: children strongest, then
// siblings, then grandchildren, with spouses of blood claimants at half
// strength. Any single claimant at strength 0.5 or more makes it a
// succession crisis.
func (w *World) createSuccessionClaims(factionID, prevLeader uint64, causeEvent uint64) {
	type candidate struct {
		person   uint64
		strength float64
		source   string
	}
	var candidates []candidate
	seen := map[uint64]bool{}

	add := func(person uint64, strength float64, source string) {
		if seen[person] || !w.livingInOtherFaction(person, factionID) {
			return
		}
		seen[person] = true
		candidates = append(candidates, candidate{person, strength, source})
	}

	children := w.Children(prevLeader)
	for _, child := range children {
		add(child, claimChildStrength, "bloodline")
		for _, gc := range w.Children(child) {
			add(gc, claimGrandchildStrength, "bloodline")
		}
	}
	for _, sib := range w.Siblings(prevLeader) {
		add(sib, claimSiblingStrength, "bloodline")
	}

	// Spouses of blood claimants inherit a weakened claim by marriage.
	blood := append([]candidate(nil), candidates...)
	for _, c := range blood {
		w.Graph.OutgoingActive(c.person, Spouse, func(r *Relationship) bool {
			if !seen[r.Target] && w.livingInOtherFaction(r.Target, factionID) {
				seen[r.Target] = true
				candidates = append(candidates, candidate{r.Target, c.strength * claimSpouseFactor, "marriage"})
			}
			return true
		})
	}

	var claimants []uint64
	year := w.Clock.Year()
	for _, c := range candidates {
		_, pa := w.Person(c.person)
		if pa == nil {
			continue
		}
		if _, exists := pa.Claims[factionID]; exists {
			continue
		}
		if pa.Claims == nil {
			pa.Claims = make(map[uint64]Claim)
		}
		pa.Claims[factionID] = Claim{
			FactionID:     factionID,
			Strength:      c.strength,
			Source:        c.source,
			EstablishedYr: year,
		}
		claimants = append(claimants, c.person)
	}

	w.detectSuccessionCrisis(factionID, claimants, causeEvent)
}

// detectSuccessionCrisis fires when any fresh claimant holds a claim at
// or above the crisis threshold.
func (w *World) detectSuccessionCrisis(factionID uint64, claimants []uint64, causeEvent uint64) {
	var strong []uint64
	for _, cid := range claimants {
		if _, pa := w.Person(cid); pa != nil {
			if c, ok := pa.Claims[factionID]; ok && c.Strength >= crisisClaimThreshold {
				strong = append(strong, cid)
			}
		}
	}
	if len(strong) == 0 {
		return
	}
	fe, fa := w.Faction(factionID)
	if fa == nil {
		return
	}
	now := w.Clock.Now()
	cause := causeEvent
	ev := w.Log.Append(CustomEvent("succession_crisis"), now, "claimants contest the throne of "+fe.Name, &cause, nil)
	w.Log.AddParticipant(ev.ID, factionID, RoleSubject)
	for _, cid := range strong {
		w.Log.AddParticipant(ev.ID, cid, RoleInstigator)
	}

	oldStability := fa.Stability
	fa.Stability = Clamp01(fa.Stability - crisisStabilityHit)
	w.Log.RecordChange(fe.ID, ev.ID, "stability", oldStability, fa.Stability)
	oldLegitimacy := fa.Legitimacy
	fa.Legitimacy = Clamp01(fa.Legitimacy - crisisLegitimacyHit)
	w.Log.RecordChange(fe.ID, ev.ID, "legitimacy", oldLegitimacy, fa.Legitimacy)
	yr := now.Year()
	fa.SuccessionCrisisAt = &yr

	w.Bus.Emit(NewSuccessionCrisis(ev.ID, factionID))
}

// livingInOtherFaction reports whether a person is alive and a member of
// some faction other than the one given.
func (w *World) livingInOtherFaction(personID, excludedFaction uint64) bool {
	if _, pa := w.Person(personID); pa == nil {
		return false
	}
	faction := w.PersonFaction(personID)
	return faction != 0 && faction != excludedFaction
}

// applyAdjustSentiment nudges a faction's stability/happiness/legitimacy
// by the signed deltas a reaction handler computed.
func (w *World) applyAdjustSentiment(cmd Command, in IntentAdjustSentiment) bool {
	fe, fa := w.Faction(in.Faction)
	if fa == nil {
		return false
	}
	oldStability, oldHappiness, oldLegitimacy := fa.Stability, fa.Happiness, fa.Legitimacy
	fa.Stability = Clamp01(fa.Stability + in.StabilityDelta)
	fa.Happiness = Clamp01(fa.Happiness + in.HappinessDelta)
	fa.Legitimacy = Clamp01(fa.Legitimacy + in.LegitimacyDelta)

	ev := w.emitEvent(cmd, nil)
	if oldStability != fa.Stability {
		w.Log.RecordChange(fe.ID, ev.ID, "stability", oldStability, fa.Stability)
	}
	if oldHappiness != fa.Happiness {
		w.Log.RecordChange(fe.ID, ev.ID, "happiness", oldHappiness, fa.Happiness)
	}
	if oldLegitimacy != fa.Legitimacy {
		w.Log.RecordChange(fe.ID, ev.ID, "legitimacy", oldLegitimacy, fa.Legitimacy)
	}
	return true
}

// applySetSentiment writes the yearly drift's computed values. The
// sentiment system already clamped and noised them.
func (w *World) applySetSentiment(cmd Command, in IntentSetSentiment) bool {
	fe, fa := w.Faction(in.Faction)
	if fa == nil {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	if fa.Happiness != in.Happiness {
		w.Log.RecordChange(fe.ID, ev.ID, "happiness", fa.Happiness, in.Happiness)
		fa.Happiness = in.Happiness
	}
	if fa.Legitimacy != in.Legitimacy {
		w.Log.RecordChange(fe.ID, ev.ID, "legitimacy", fa.Legitimacy, in.Legitimacy)
		fa.Legitimacy = in.Legitimacy
	}
	if fa.Stability != in.Stability {
		w.Log.RecordChange(fe.ID, ev.ID, "stability", fa.Stability, in.Stability)
		fa.Stability = in.Stability
	}
	return true
}

// applyAddGrievance adds to (or, with a negative amount, satisfies) the
// ledger between two factions.
func (w *World) applyAddGrievance(cmd Command, in IntentAddGrievance) bool {
	_, from := w.Faction(in.From)
	if from == nil {
		return false
	}
	if _, against := w.Faction(in.Against); against == nil {
		return false
	}
	if in.Amount >= 0 {
		AddFactionGrievance(from, in.Against, in.Amount)
	} else {
		ReduceFactionGrievance(from, in.Against, -in.Amount)
	}
	w.emitEvent(cmd, nil)
	return true
}

// applyCoupAttempt resolves an attempted seizure of power. Success
// deposes the sitting leader and seats the instigator; the deposed
// leader's blood relatives carry the grudge as claims. Failure costs the
// instigator their life.
func (w *World) applyCoupAttempt(cmd Command, in IntentCoupAttempt) bool {
	fe, fa := w.Faction(in.Faction)
	_, instigator := w.Person(in.Instigator)
	if fa == nil || instigator == nil {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	now := w.Clock.Now()
	if in.Success {
		deposed := w.FactionLeader(in.Faction)
		if deposed != 0 {
			w.Graph.Close(deposed, in.Faction, LeaderOf, now)
		}
		w.Graph.Open(in.Instigator, in.Faction, LeaderOf, now, ev.ID)
		old := fa.Legitimacy
		fa.Legitimacy = Clamp01(fa.Legitimacy - coupSuccessLegitimacyHit)
		w.Log.RecordChange(fe.ID, ev.ID, "legitimacy", old, fa.Legitimacy)
		if deposed != 0 {
			w.createDeposedClaims(deposed, in.Faction)
		}
	} else {
		w.endEntity(in.Instigator)
		old := fa.Stability
		fa.Stability = Clamp01(fa.Stability - coupFailureStabilityHit)
		w.Log.RecordChange(fe.ID, ev.ID, "stability", old, fa.Stability)
		w.Bus.Emit(NewEntityDied(ev.ID, in.Instigator, nil))
	}
	return true
}

// createDeposedClaims grants the deposed leader's living children and
// siblings a claim on the faction that cast their kin out.
func (w *World) createDeposedClaims(deposedLeader, factionID uint64) {
	year := w.Clock.Year()
	relatives := w.Children(deposedLeader)
	relatives = append(relatives, w.Siblings(deposedLeader)...)
	for _, rid := range relatives {
		_, pa := w.Person(rid)
		if pa == nil {
			continue
		}
		if _, exists := pa.Claims[factionID]; exists {
			continue
		}
		if pa.Claims == nil {
			pa.Claims = make(map[uint64]Claim)
		}
		pa.Claims[factionID] = Claim{
			FactionID:     factionID,
			Strength:      claimDeposedStrength,
			Source:        "bloodline",
			EstablishedYr: year,
		}
	}
}

// applyFactionSplit carves a breakaway faction out of a single settlement
// and its residents. The new faction inherits the settlement's dominant
// culture and religion, not the parent's.
func (w *World) applyFactionSplit(cmd Command, in IntentFactionSplit) bool {
	se, sa := w.Settlement(in.Settlement)
	_, parent := w.Faction(in.ParentFaction)
	if sa == nil || parent == nil || sa.FactionID != in.ParentFaction {
		return false
	}
	now := w.Clock.Now()
	id := w.Ids.Next()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindFaction, Name: "Free " + se.Name, Origin: now,
		Attrs: &FactionAttrs{
			GovernmentType:  in.GovernmentType,
			Stability:       splitNewFactionStability,
			Happiness:       Clamp01(parent.Happiness + splitNewFactionHappinessGain),
			Legitimacy:      splitNewFactionLegitimacy,
			Prestige:        parent.Prestige * splitPrestigeInheritance,
			PrimaryCulture:  sa.DominantCulture,
			PrimaryReligion: dominantReligion(sa),
			DiplomaticTrust: 1.0,
			Grievances:      make(map[uint64]float64),
			WarStarted:      make(map[uint64]WarRecord),
		},
	})

	ev := w.emitEvent(cmd, nil)
	w.Graph.Close(in.Settlement, in.ParentFaction, MemberOf, now)
	w.Graph.Open(in.Settlement, id, MemberOf, now, ev.ID)
	sa.FactionID = id
	w.transferSettlementNotables(in.Settlement, in.ParentFaction, id, ev.ID)

	if in.BecomeEnemy {
		w.Graph.OpenSymmetric(id, in.ParentFaction, Enemy, now, ev.ID)
	}

	w.Log.RecordChange(se.ID, ev.ID, "faction_id", in.ParentFaction, id)
	w.Bus.Emit(NewFactionSplit(ev.ID, in.ParentFaction, id))

	// Blood relatives of the old faction's leader who walked out with the
	// settlement carry a claim back to the throne they left.
	if oldLeader := w.FactionLeader(in.ParentFaction); oldLeader != 0 {
		w.createSplitClaims(oldLeader, in.ParentFaction, id)
	}
	return true
}

func dominantReligion(sa *SettlementAttrs) uint64 {
	keys := maps.Keys(sa.ReligionMakeup)
	slices.Sort(keys)
	var best uint64
	bestShare := 0.0
	for _, rid := range keys {
		if share := sa.ReligionMakeup[rid]; share > bestShare {
			best, bestShare = rid, share
		}
	}
	return best
}

// createSplitClaims grants a claim on the old faction to the old leader's
// children and siblings who now belong to the breakaway.
func (w *World) createSplitClaims(oldLeader, oldFaction, newFaction uint64) {
	year := w.Clock.Year()
	relatives := w.Children(oldLeader)
	relatives = append(relatives, w.Siblings(oldLeader)...)
	for _, rid := range relatives {
		_, pa := w.Person(rid)
		if pa == nil || w.PersonFaction(rid) != newFaction {
			continue
		}
		if _, exists := pa.Claims[oldFaction]; exists {
			continue
		}
		if pa.Claims == nil {
			pa.Claims = make(map[uint64]Claim)
		}
		pa.Claims[oldFaction] = Claim{
			FactionID:     oldFaction,
			Strength:      claimSplitStrength,
			Source:        "bloodline",
			EstablishedYr: year,
		}
	}
}

// applyDissolveFaction ends a landless faction, closing its leadership
// and diplomatic edges.
func (w *World) applyDissolveFaction(cmd Command, in IntentDissolveFaction) bool {
	_, fa := w.Faction(in.Faction)
	if fa == nil {
		return false
	}
	now := w.Clock.Now()
	w.emitEvent(cmd, nil)
	if leader := w.FactionLeader(in.Faction); leader != 0 {
		w.Graph.Close(leader, in.Faction, LeaderOf, now)
	}
	for _, kind := range []RelKind{Ally, Enemy, AtWar} {
		var others []uint64
		w.Graph.OutgoingActive(in.Faction, kind, func(r *Relationship) bool {
			others = append(others, r.Target)
			return true
		})
		for _, other := range others {
			w.Graph.CloseSymmetric(in.Faction, other, kind, now)
			if kind.Equal(AtWar) {
				if _, oa := w.Faction(other); oa != nil {
					delete(oa.WarStarted, in.Faction)
				}
			}
		}
	}
	w.endEntity(in.Faction)
	return true
}
