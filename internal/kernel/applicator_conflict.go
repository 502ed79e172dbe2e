package kernel

// Treaty-breaking and peace-term constants shared by the conflict
// intents. Systems roll the dice; these are the fixed consequences the
// applicator writes into the world.
const (
	grievanceTreatyBroken   = 0.30
	grievanceTerritoryCeded = 0.25
	treatyBreakStabilityHit = 0.15
	treatyBreakTrustHit     = 0.15
	claimWarStabilityHit    = 0.15
	claimLossPenalty        = 0.3
)

// applyDeclareWar opens the symmetric AtWar edge, records both factions'
// war bookkeeping, and — when the attacker tears up an existing treaty —
// applies the full cost of the betrayal first.
func (w *World) applyDeclareWar(cmd Command, in IntentDeclareWar) bool {
	ae, attacker := w.Faction(in.Attacker)
	_, defender := w.Faction(in.Defender)
	if attacker == nil || defender == nil {
		return false
	}
	if w.AtWar(in.Attacker, in.Defender) {
		return false
	}
	now := w.Clock.Now()

	if in.TreatyBroken {
		treatyEv := w.Log.Append(CustomEvent("treaty_broken"), now, ae.Name+" broke their treaty", nil, nil)
		w.Log.AddParticipant(treatyEv.ID, in.Attacker, RoleSubject)
		w.Log.AddParticipant(treatyEv.ID, in.Defender, RoleObject)

		w.Graph.Close(in.Attacker, in.Defender, Custom("treaty_with"), now)
		w.Graph.Close(in.Defender, in.Attacker, Custom("treaty_with"), now)
		w.Graph.Close(in.Attacker, in.Defender, Custom("tribute_to"), now)
		w.Graph.Close(in.Defender, in.Attacker, Custom("tribute_to"), now)
		removeTributesTo(attacker, in.Defender)
		removeTributesTo(defender, in.Attacker)

		oldStability := attacker.Stability
		attacker.Stability = Clamp01(attacker.Stability - treatyBreakStabilityHit)
		w.Log.RecordChange(ae.ID, treatyEv.ID, "stability", oldStability, attacker.Stability)

		AddFactionGrievance(defender, in.Attacker, grievanceTreatyBroken)

		oldTrust := attacker.DiplomaticTrust
		attacker.DiplomaticTrust = Clamp01(attacker.DiplomaticTrust - treatyBreakTrustHit)
		w.Log.RecordChange(ae.ID, treatyEv.ID, "diplomatic_trust", oldTrust, attacker.DiplomaticTrust)

		yr := now.Year()
		attacker.LastBetrayalYear = &yr

		for _, ally := range in.AlliesTurnedEnemy {
			if _, fa := w.Faction(ally); fa == nil {
				continue
			}
			if !w.Graph.HasActive(ally, in.Attacker, Enemy) {
				w.Graph.OpenSymmetric(ally, in.Attacker, Enemy, now, treatyEv.ID)
			}
		}
	}

	ev := w.emitEvent(cmd, nil)
	w.Graph.CloseSymmetric(in.Attacker, in.Defender, Ally, now)
	w.Graph.OpenSymmetric(in.Attacker, in.Defender, AtWar, now, ev.ID)

	record := in.Record
	record.OpponentFaction = in.Defender
	record.StartedYear = now.Year()
	if attacker.WarStarted == nil {
		attacker.WarStarted = make(map[uint64]WarRecord)
	}
	attacker.WarStarted[in.Defender] = record
	if defender.WarStarted == nil {
		defender.WarStarted = make(map[uint64]WarRecord)
	}
	defRecord := record
	defRecord.OpponentFaction = in.Attacker
	defender.WarStarted[in.Attacker] = defRecord

	w.Bus.Emit(NewWarStarted(ev.ID, in.Attacker, in.Defender))
	return true
}

func removeTributesTo(f *FactionAttrs, payee uint64) {
	kept := f.Tributes[:0]
	for _, t := range f.Tributes {
		if t.ToFaction != payee {
			kept = append(kept, t)
		}
	}
	f.Tributes = kept
}

// applyBreakTreaty closes an alliance outside of a war declaration — the
// diplomacy subsystem's betrayal path.
func (w *World) applyBreakTreaty(cmd Command, in IntentBreakTreaty) bool {
	be, betrayer := w.Faction(in.Betrayer)
	_, victim := w.Faction(in.Victim)
	if betrayer == nil || victim == nil {
		return false
	}
	if !w.Graph.HasActive(in.Betrayer, in.Victim, Ally) {
		return false
	}
	now := w.Clock.Now()
	w.Graph.CloseSymmetric(in.Betrayer, in.Victim, Ally, now)
	yr := now.Year()
	betrayer.LastBetrayalYear = &yr

	ev := w.emitEvent(cmd, nil)
	oldTrust := betrayer.DiplomaticTrust
	betrayer.DiplomaticTrust = Clamp01(betrayer.DiplomaticTrust - treatyBreakTrustHit)
	w.Log.RecordChange(be.ID, ev.ID, "diplomatic_trust", oldTrust, betrayer.DiplomaticTrust)

	for _, ally := range in.AlliesTurnedEnemy {
		if _, fa := w.Faction(ally); fa == nil {
			continue
		}
		if !w.Graph.HasActive(ally, in.Betrayer, Enemy) {
			w.Graph.OpenSymmetric(ally, in.Betrayer, Enemy, now, ev.ID)
		}
	}

	w.Bus.Emit(NewAllianceBetrayed(ev.ID, in.Betrayer, in.Victim))
	return true
}

// applyMusterArmy creates an Army entity and draws the drafted men down
// from each settlement's male young-adult and middle-age brackets.
func (w *World) applyMusterArmy(cmd Command, in IntentMusterArmy) bool {
	fe, fa := w.Faction(in.Faction)
	if fa == nil || in.Strength <= 0 {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindArmy, Name: "Army of " + fe.Name, Origin: now,
		Attrs: &ArmyAttrs{
			FactionID:        in.Faction,
			Strength:         in.Strength,
			StartingStrength: in.Strength,
			Morale:           1.0,
			Supply:           3.0,
			HomeRegionID:     in.HomeRegionID,
		},
	})
	ev := w.emitEvent(cmd, nil)
	w.Graph.Open(id, in.Faction, MemberOf, now, ev.ID)
	if in.HomeRegionID != 0 {
		w.Graph.Open(id, in.HomeRegionID, LocatedIn, now, ev.ID)
	}
	w.Log.AddParticipant(ev.ID, id, RoleSubject)

	for _, draw := range in.Draws {
		se, sa := w.Settlement(draw.Settlement)
		if sa == nil || draw.Count <= 0 {
			continue
		}
		oldPop := sa.Population
		drawDownAbleBodiedMen(sa, draw.Count)
		w.Log.RecordChange(se.ID, ev.ID, "population", oldPop, sa.Population)
	}
	return true
}

// drawDownAbleBodiedMen removes n men from a settlement's male young-adult
// and middle-age brackets, in proportion to their relative sizes.
func drawDownAbleBodiedMen(sa *SettlementAttrs, n int) {
	young := sa.PopulationBreakdown[BracketYoungAdultMale]
	middle := sa.PopulationBreakdown[BracketMiddleAgeMale]
	able := young + middle
	if able <= 0 {
		return
	}
	if n > able {
		n = able
	}
	youngLoss := n * young / able
	middleLoss := n - youngLoss
	if middleLoss > middle {
		youngLoss += middleLoss - middle
		middleLoss = middle
	}
	sa.PopulationBreakdown[BracketYoungAdultMale] -= youngLoss
	sa.PopulationBreakdown[BracketMiddleAgeMale] -= middleLoss
	sa.Population -= n
}

// applyArmyAttrition writes the supply/morale/strength values the supply
// system already rolled. An army ground down to zero strength ends.
func (w *World) applyArmyAttrition(cmd Command, in IntentArmyAttrition) bool {
	ae, army := w.Army(in.Army)
	if army == nil {
		return false
	}
	ev := w.emitEvent(cmd, nil)

	oldStrength := army.Strength
	army.Strength -= in.Loss
	if army.Strength < 0 {
		army.Strength = 0
	}
	if oldStrength != army.Strength {
		w.Log.RecordChange(ae.ID, ev.ID, "strength", oldStrength, army.Strength)
	}
	if army.Supply != in.NewSupply {
		w.Log.RecordChange(ae.ID, ev.ID, "supply", army.Supply, in.NewSupply)
		army.Supply = in.NewSupply
	}
	if army.Morale != in.NewMorale {
		w.Log.RecordChange(ae.ID, ev.ID, "morale", army.Morale, in.NewMorale)
		army.Morale = in.NewMorale
	}
	army.MonthsCampaigning++

	if army.Strength == 0 {
		w.endEntity(in.Army)
	}
	return true
}

// applyMoveArmy relocates an army one region along the path the movement
// system computed via BFS.
func (w *World) applyMoveArmy(cmd Command, in IntentMoveArmy) bool {
	_, army := w.Army(in.Army)
	if army == nil {
		return false
	}
	if !w.Graph.HasActive(in.Army, in.FromRegion, LocatedIn) {
		return false
	}
	now := w.Clock.Now()
	ev := w.emitEvent(cmd, nil)
	w.Graph.Close(in.Army, in.FromRegion, LocatedIn, now)
	w.Graph.Open(in.Army, in.ToRegion, LocatedIn, now, ev.ID)
	return true
}

// applyBattle applies the casualties and morale swing the battle system
// scored, creates a Death event for every notable killed, and signals
// leader vacancies so politics can react within the same tick.
func (w *World) applyBattle(cmd Command, in IntentBattle) bool {
	we, winner := w.Army(in.Winner)
	le, loser := w.Army(in.Loser)
	if winner == nil || loser == nil {
		return false
	}

	ev := w.emitEvent(cmd, nil)

	winOld, loseOld := winner.Strength, loser.Strength
	winner.Strength -= in.WinnerCasualties
	if winner.Strength < 0 {
		winner.Strength = 0
	}
	loser.Strength -= in.LoserCasualties
	if loser.Strength < 0 {
		loser.Strength = 0
	}
	winOldMorale, loseOldMorale := winner.Morale, loser.Morale
	winner.Morale = Clamp01(winner.Morale * 1.1)
	loser.Morale = Clamp01(loser.Morale * 0.7)

	w.Log.RecordChange(we.ID, ev.ID, "strength", winOld, winner.Strength)
	w.Log.RecordChange(we.ID, ev.ID, "morale", winOldMorale, winner.Morale)
	w.Log.RecordChange(le.ID, ev.ID, "strength", loseOld, loser.Strength)
	w.Log.RecordChange(le.ID, ev.ID, "morale", loseOldMorale, loser.Morale)

	for _, person := range in.NotableDeaths {
		pe, pa := w.Person(person)
		if pa == nil {
			continue
		}
		var wasLeaderOf *uint64
		w.Graph.OutgoingActive(person, LeaderOf, func(r *Relationship) bool {
			t := r.Target
			wasLeaderOf = &t
			return false
		})
		cause := ev.ID
		deathEv := w.Log.Append(EK.Death, w.Clock.Now(), pe.Name+" was killed in battle", &cause, nil)
		w.Log.AddParticipant(deathEv.ID, person, RoleSubject)
		w.endEntity(person)
		w.Bus.Emit(NewEntityDied(deathEv.ID, person, wasLeaderOf))
		if wasLeaderOf != nil {
			w.Bus.Emit(NewLeaderVacancy(deathEv.ID, *wasLeaderOf, person))
		}
	}

	if loser.Strength == 0 {
		w.endEntity(in.Loser)
	}
	if winner.Strength == 0 {
		w.endEntity(in.Winner)
	}
	return true
}

// applyRetreat pulls a broken army one region toward home, abandoning any
// siege it was conducting. Retreating restores a sliver of morale.
func (w *World) applyRetreat(cmd Command, in IntentRetreat) bool {
	ae, army := w.Army(in.Army)
	if army == nil {
		return false
	}
	region := w.ArmyRegion(in.Army)
	if region == 0 {
		return false
	}
	now := w.Clock.Now()
	ev := w.emitEvent(cmd, nil)

	if army.Besieging != nil {
		w.endSiege(*army.Besieging, "Abandoned", nil, ev.ID)
	}

	w.Graph.Close(in.Army, region, LocatedIn, now)
	w.Graph.Open(in.Army, in.ToRegion, LocatedIn, now, ev.ID)
	oldMorale := army.Morale
	army.Morale = Clamp01(army.Morale + 0.05)
	w.Log.RecordChange(ae.ID, ev.ID, "morale", oldMorale, army.Morale)
	return true
}

// applyStartSiege marks a settlement as besieged by an attacking army.
func (w *World) applyStartSiege(cmd Command, in IntentStartSiege) bool {
	se, sa := w.Settlement(in.Settlement)
	_, army := w.Army(in.AttackerArmy)
	if sa == nil || army == nil || sa.ActiveSiege != nil {
		return false
	}
	sa.ActiveSiege = &ActiveSiege{
		AttackerArmyID:  in.AttackerArmy,
		AttackerFaction: army.FactionID,
	}
	army.Besieging = &se.ID
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewSiegeStarted(ev.ID, in.Settlement, in.AttackerArmy))
	return true
}

// applySiegeProgress advances a siege one month: civilian starvation
// inside the walls, the month counter, and the attrition of a failed
// assault on the attacker's side.
func (w *World) applySiegeProgress(cmd Command, in IntentSiegeProgress) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil || sa.ActiveSiege == nil {
		return false
	}
	ev := w.emitEvent(cmd, nil)

	if in.PopulationLoss > 0 {
		oldPop := sa.Population
		sa.Population -= in.PopulationLoss
		if sa.Population < 0 {
			sa.Population = 0
		}
		w.Log.RecordChange(se.ID, ev.ID, "population", oldPop, sa.Population)
	}
	sa.ActiveSiege.Months++

	if in.AttackerCasualties > 0 {
		if ae, army := w.Army(sa.ActiveSiege.AttackerArmyID); army != nil {
			oldStrength := army.Strength
			army.Strength -= in.AttackerCasualties
			if army.Strength < 0 {
				army.Strength = 0
			}
			w.Log.RecordChange(ae.ID, ev.ID, "strength", oldStrength, army.Strength)
			if army.Strength == 0 {
				w.endEntity(ae.ID)
			}
		}
	}
	return true
}

// applyEndSiege resolves a siege to one of its four outcomes. Captured
// transfers the settlement, mirroring applyConquest.
func (w *World) applyEndSiege(cmd Command, in IntentEndSiege) bool {
	_, sa := w.Settlement(in.Settlement)
	if sa == nil || sa.ActiveSiege == nil {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	w.endSiege(in.Settlement, in.Outcome, in.NewFaction, ev.ID)
	return true
}

// endSiege clears siege state on both the settlement and the attacking
// army, transfers ownership on capture, and emits SiegeEnded (and
// SettlementCaptured when ownership changed). causeEvent is the event the
// outcome hangs off.
func (w *World) endSiege(settlementID uint64, outcome string, newFaction *uint64, causeEvent uint64) {
	se, sa := w.Settlement(settlementID)
	if sa == nil || sa.ActiveSiege == nil {
		return
	}
	siege := sa.ActiveSiege
	if army := w.Store.Get(siege.AttackerArmyID); army != nil {
		if aa, ok := army.Attrs.(*ArmyAttrs); ok {
			aa.Besieging = nil
		}
	}
	oldFaction := sa.FactionID
	sa.ActiveSiege = nil

	if outcome == "Captured" || outcome == "Surrendered" {
		if newFaction != nil && *newFaction != oldFaction {
			now := w.Clock.Now()
			w.Graph.Close(settlementID, oldFaction, MemberOf, now)
			w.Graph.Open(settlementID, *newFaction, MemberOf, now, causeEvent)
			sa.FactionID = *newFaction
			w.Log.RecordChange(se.ID, causeEvent, "faction_id", oldFaction, *newFaction)
			w.transferSettlementNotables(settlementID, oldFaction, *newFaction, causeEvent)
			w.Bus.Emit(NewSettlementCaptured(causeEvent, settlementID, oldFaction, *newFaction))
		}
	}
	w.Bus.Emit(NewSiegeEnded(causeEvent, settlementID, outcome))
}

// transferSettlementNotables moves every notable located in a settlement
// from one faction to another, the reassignment every ownership change
// cascades.
func (w *World) transferSettlementNotables(settlementID, oldFaction, newFaction uint64, causeEvent uint64) {
	now := w.Clock.Now()
	for _, pid := range w.FactionMembers(oldFaction) {
		if !w.Graph.HasActive(pid, settlementID, LocatedIn) {
			continue
		}
		w.Graph.Close(pid, oldFaction, MemberOf, now)
		w.Graph.Open(pid, newFaction, MemberOf, now, causeEvent)
	}
}

// applyPeaceTreaty ends a war: territory, reparations, tribute, treaty
// edges, claimant installation, army disbandment, and the WarEnded signal,
// in that order.
func (w *World) applyPeaceTreaty(cmd Command, in IntentPeaceTreaty) bool {
	_, winner := w.Faction(in.Winner)
	le, loser := w.Faction(in.Loser)
	if winner == nil || loser == nil {
		return false
	}
	if !w.AtWar(in.Winner, in.Loser) {
		return false
	}
	now := w.Clock.Now()
	ev := w.emitEvent(cmd, nil)

	w.Graph.CloseSymmetric(in.Winner, in.Loser, AtWar, now)
	delete(winner.WarStarted, in.Loser)
	delete(loser.WarStarted, in.Winner)

	// Territory: transfer whatever the loser still holds of the ceded list.
	for _, settlementID := range in.TerritoryTransfer {
		se, sa := w.Settlement(settlementID)
		if sa == nil || sa.FactionID != in.Loser {
			continue
		}
		w.Graph.Close(settlementID, in.Loser, MemberOf, now)
		w.Graph.Open(settlementID, in.Winner, MemberOf, now, ev.ID)
		sa.FactionID = in.Winner
		w.Log.RecordChange(se.ID, ev.ID, "faction_id", in.Loser, in.Winner)
		w.transferSettlementNotables(settlementID, in.Loser, in.Winner, ev.ID)
		w.Bus.Emit(NewSettlementCaptured(ev.ID, settlementID, in.Loser, in.Winner))
		AddFactionGrievance(loser, in.Winner, grievanceTerritoryCeded)
	}

	// Reparations, capped at whatever the loser can actually pay.
	if in.Reparations > 0 {
		paid := in.Reparations
		if paid > loser.Treasury {
			paid = loser.Treasury
		}
		if paid > 0 {
			w.Log.RecordChange(le.ID, ev.ID, "treasury", loser.Treasury, loser.Treasury-paid)
			loser.Treasury -= paid
			winner.Treasury += paid
		}
	}

	if in.TributeYears > 0 && in.TributePerYear > 0 {
		loser.Tributes = append(loser.Tributes, Tribute{
			ToFaction:   in.Winner,
			AmountPerYr: in.TributePerYear,
			YearsLeft:   in.TributeYears,
		})
		w.Graph.Open(in.Loser, in.Winner, Custom("tribute_to"), now, ev.ID)
	}

	// Every peace opens bidirectional treaty edges.
	w.Graph.Open(in.Winner, in.Loser, Custom("treaty_with"), now, ev.ID)
	w.Graph.Open(in.Loser, in.Winner, Custom("treaty_with"), now, ev.ID)

	if in.InstallClaimant != nil {
		w.installClaimant(*in.InstallClaimant, in.ClaimTarget, ev.ID)
	} else if in.ReduceClaim != nil {
		if _, pa := w.Person(*in.ReduceClaim); pa != nil {
			ReduceClaim(pa, in.ClaimTarget, claimLossPenalty)
		}
	}

	// Disband both armies; survivors march home and rejoin the population.
	for _, fid := range []uint64{in.Winner, in.Loser} {
		armyID := w.FindFactionArmy(fid)
		if armyID == 0 {
			continue
		}
		_, aa := w.Army(armyID)
		remaining := aa.Strength
		w.endEntity(armyID)
		if remaining > 0 {
			w.returnSoldiers(fid, remaining, ev.ID)
		}
	}

	w.Bus.Emit(NewWarEnded(ev.ID, in.Winner, in.Loser, in.Decisive))
	return true
}

// installClaimant seats a succession-claim war's claimant on the target
// faction's throne, recording a Succession event caused by the treaty.
func (w *World) installClaimant(claimant, target uint64, treatyEvent uint64) {
	ce, pa := w.Person(claimant)
	te, ta := w.Faction(target)
	if pa == nil || ta == nil {
		return
	}
	now := w.Clock.Now()
	claimStrength := 0.5
	if c, ok := pa.Claims[target]; ok {
		claimStrength = c.Strength
	}

	if oldFaction := w.PersonFaction(claimant); oldFaction != 0 {
		w.Graph.Close(claimant, oldFaction, LeaderOf, now)
		w.Graph.Close(claimant, oldFaction, MemberOf, now)
	}
	if current := w.FactionLeader(target); current != 0 {
		w.Graph.Close(current, target, LeaderOf, now)
	}
	w.Graph.Open(claimant, target, MemberOf, now, treatyEvent)
	w.Graph.Open(claimant, target, LeaderOf, now, treatyEvent)

	cause := treatyEvent
	succEv := w.Log.Append(EK.Succession, now, ce.Name+" claimed the throne of "+te.Name, &cause, nil)
	w.Log.AddParticipant(succEv.ID, claimant, RoleSubject)
	w.Log.AddParticipant(succEv.ID, target, RoleObject)

	delete(pa.Claims, target)

	oldStability := ta.Stability
	ta.Stability = Clamp01(ta.Stability - claimWarStabilityHit)
	w.Log.RecordChange(te.ID, succEv.ID, "stability", oldStability, ta.Stability)

	legitimacy := claimStrength * 0.8
	if legitimacy < 0.2 {
		legitimacy = 0.2
	}
	if legitimacy > 0.9 {
		legitimacy = 0.9
	}
	w.Log.RecordChange(te.ID, succEv.ID, "legitimacy", ta.Legitimacy, legitimacy)
	ta.Legitimacy = legitimacy
}

// returnSoldiers folds a disbanded army's survivors back into the
// faction's settlements, split evenly with the remainder on the earliest
// ids.
func (w *World) returnSoldiers(factionID uint64, soldiers int, causeEvent uint64) {
	settlements := w.FactionSettlements(factionID)
	if len(settlements) == 0 {
		return
	}
	per := soldiers / len(settlements)
	rem := soldiers % len(settlements)
	for i, sid := range settlements {
		n := per
		if i < rem {
			n++
		}
		if n == 0 {
			continue
		}
		se, sa := w.Settlement(sid)
		if sa == nil {
			continue
		}
		oldPop := sa.Population
		half := n / 2
		sa.PopulationBreakdown[BracketYoungAdultMale] += half
		sa.PopulationBreakdown[BracketMiddleAgeMale] += n - half
		sa.Population += n
		w.Log.RecordChange(se.ID, causeEvent, "population", oldPop, sa.Population)
	}
}
