package kernel

// Apply drains no queue itself — that is the scheduler's job (spec
// Section 4.7) — it applies exactly one command. Preconditions unmet
// make Apply
// return false: no event, no signal, no change, command silently
// dropped. This is the only place in the kernel that mutates the entity
// store or the relationship graph outside of worldgen.
func Apply(w *World, cmd Command) bool {
	switch intent := cmd.Intent.(type) {
	case IntentEndEntity:
		return w.applyEndEntity(cmd, intent)
	case IntentPersonBorn:
		return w.applyPersonBorn(cmd, intent)
	case IntentPersonDied:
		return w.applyPersonDied(cmd, intent)
	case IntentMarriage:
		return w.applyMarriage(cmd, intent)
	case IntentFormAlliance:
		return w.applyFormAlliance(cmd, intent)
	case IntentConquest:
		return w.applyConquest(cmd, intent)
	case IntentCreateKnowledge:
		return w.applyCreateKnowledge(cmd, intent)
	case IntentCreateManifestation:
		return w.applyCreateManifestation(cmd, intent)
	case IntentDestroyManifestation:
		return w.applyDestroyManifestation(cmd, intent)
	case IntentRevealSecret:
		return w.applyRevealSecret(cmd, intent)
	case IntentFormBanditGang:
		return w.applyFormBanditGang(cmd, intent)
	case IntentBanditRaid:
		return w.applyBanditRaid(cmd, intent)
	case IntentRaidTradeRoute:
		return w.applyRaidTradeRoute(cmd, intent)
	case IntentDisbandBanditGang:
		return w.applyDisbandBanditGang(cmd, intent)
	case IntentAbandonSettlement:
		return w.applyAbandonSettlement(cmd, intent)
	case IntentRefugeeFlow:
		return w.applyRefugeeFlow(cmd, intent)
	case IntentConstructBuilding:
		return w.applyConstructBuilding(cmd, intent)
	case IntentReligionSchism:
		return w.applyReligionSchism(cmd, intent)
	case IntentDiplomaticShift:
		return w.applyDiplomaticShift(cmd, intent)
	case IntentCulturalRebellion:
		return w.applyCulturalRebellion(cmd, intent)

	case IntentDeclareWar:
		return w.applyDeclareWar(cmd, intent)
	case IntentBreakTreaty:
		return w.applyBreakTreaty(cmd, intent)
	case IntentMusterArmy:
		return w.applyMusterArmy(cmd, intent)
	case IntentArmyAttrition:
		return w.applyArmyAttrition(cmd, intent)
	case IntentMoveArmy:
		return w.applyMoveArmy(cmd, intent)
	case IntentBattle:
		return w.applyBattle(cmd, intent)
	case IntentRetreat:
		return w.applyRetreat(cmd, intent)
	case IntentStartSiege:
		return w.applyStartSiege(cmd, intent)
	case IntentSiegeProgress:
		return w.applySiegeProgress(cmd, intent)
	case IntentEndSiege:
		return w.applyEndSiege(cmd, intent)
	case IntentPeaceTreaty:
		return w.applyPeaceTreaty(cmd, intent)

	case IntentInstallLeader:
		return w.applyInstallLeader(cmd, intent)
	case IntentAdjustSentiment:
		return w.applyAdjustSentiment(cmd, intent)
	case IntentSetSentiment:
		return w.applySetSentiment(cmd, intent)
	case IntentAddGrievance:
		return w.applyAddGrievance(cmd, intent)
	case IntentCoupAttempt:
		return w.applyCoupAttempt(cmd, intent)
	case IntentFactionSplit:
		return w.applyFactionSplit(cmd, intent)
	case IntentDissolveFaction:
		return w.applyDissolveFaction(cmd, intent)

	default:
		return false
	}
}

// DrainAndApply drains the command queue in FIFO order and applies each
// command in turn.
func DrainAndApply(w *World) {
	for _, cmd := range w.Queue.Drain() {
		Apply(w, cmd)
	}
}

// emitEvent creates the event for a successful command and attaches its
// participants. Handlers call this only once preconditions are confirmed
// met, then record changes against the returned event id and emit any
// reactive signals.
func (w *World) emitEvent(cmd Command, payload map[string]any) *Event {
	ev := w.Log.Append(cmd.EventKind, w.Clock.Now(), cmd.Description, cmd.CausedBy, payload)
	for _, p := range cmd.Participants {
		w.Log.AddParticipant(ev.ID, p.Entity, p.Role)
	}
	return ev
}

// endEntity ends an entity (idempotent) and cascades lifecycle-coupled
// relationship closes.
func (w *World) endEntity(id uint64) bool {
	e := w.Store.Get(id)
	if e == nil || !e.Alive() {
		return false
	}
	now := w.Clock.Now()
	e.End = &now
	w.Graph.EndEntityCascade(id, now)
	return true
}

func (w *World) applyEndEntity(cmd Command, in IntentEndEntity) bool {
	if !w.endEntity(in.Entity) {
		return false
	}
	w.emitEvent(cmd, nil)
	return true
}

func (w *World) applyPersonBorn(cmd Command, in IntentPersonBorn) bool {
	if _, fa := w.Faction(in.FactionID); fa == nil {
		return false
	}
	if _, sa := w.Settlement(in.SettlementID); sa == nil {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	e := &Entity{
		ID:     id,
		Kind:   KindPerson,
		Name:   in.Name,
		Origin: now,
		Attrs: &PersonAttrs{
			Age:    in.Age,
			Traits: make(map[Trait]bool),
			Claims: make(map[uint64]Claim),
		},
	}
	w.Store.Insert(e)
	w.Graph.Open(id, in.FactionID, MemberOf, now, 0)
	w.Graph.Open(id, in.SettlementID, LocatedIn, now, 0)
	for _, parent := range in.ParentIDs {
		if pe := w.Store.Get(parent); pe != nil {
			w.Graph.Open(id, parent, Parent, now, 0)
			w.Graph.Open(parent, id, Child, now, 0)
		}
	}
	ev := w.emitEvent(cmd, nil)
	w.Log.AddParticipant(ev.ID, id, RoleSubject)
	return true
}

func (w *World) applyPersonDied(cmd Command, in IntentPersonDied) bool {
	_, pa := w.Person(in.Person)
	if pa == nil {
		return false
	}
	var wasLeaderOf *uint64
	w.Graph.OutgoingActive(in.Person, LeaderOf, func(r *Relationship) bool {
		t := r.Target
		wasLeaderOf = &t
		return false
	})
	w.endEntity(in.Person)
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewEntityDied(ev.ID, in.Person, wasLeaderOf))
	if wasLeaderOf != nil {
		w.Bus.Emit(NewLeaderVacancy(ev.ID, *wasLeaderOf, in.Person))
	}
	return true
}

func (w *World) applyMarriage(cmd Command, in IntentMarriage) bool {
	_, a := w.Person(in.A)
	_, b := w.Person(in.B)
	if a == nil || b == nil {
		return false
	}
	if w.Graph.HasActive(in.A, in.B, Spouse) {
		return false
	}
	now := w.Clock.Now()
	w.Graph.OpenSymmetric(in.A, in.B, Spouse, now, 0)
	w.emitEvent(cmd, nil)
	return true
}

func (w *World) applyFormAlliance(cmd Command, in IntentFormAlliance) bool {
	_, fa := w.Faction(in.A)
	_, fb := w.Faction(in.B)
	if fa == nil || fb == nil {
		return false
	}
	if w.Graph.HasActive(in.A, in.B, Ally) || w.AtWar(in.A, in.B) {
		return false
	}
	now := w.Clock.Now()
	ev := w.emitEvent(cmd, nil)
	w.Graph.CloseSymmetric(in.A, in.B, Enemy, now)
	w.Graph.OpenSymmetric(in.A, in.B, Ally, now, ev.ID)
	return true
}

// applyConquest transfers a settlement's faction membership, reassigning
// every notable inside it.
func (w *World) applyConquest(cmd Command, in IntentConquest) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil || sa.FactionID != in.DefenderFaction {
		return false
	}
	if _, fa := w.Faction(in.AttackerFaction); fa == nil {
		return false
	}
	now := w.Clock.Now()
	w.Graph.Close(in.Settlement, in.DefenderFaction, MemberOf, now)
	w.Graph.Open(in.Settlement, in.AttackerFaction, MemberOf, now, 0)
	oldFaction := sa.FactionID
	sa.FactionID = in.AttackerFaction
	sa.Prestige = Clamp01(sa.Prestige - 0.1)

	for _, pid := range w.FactionMembers(oldFaction) {
		if !w.Graph.HasActive(pid, in.Settlement, LocatedIn) {
			continue
		}
		w.Graph.Close(pid, oldFaction, MemberOf, now)
		w.Graph.Open(pid, in.AttackerFaction, MemberOf, now, 0)
	}

	ev := w.emitEvent(cmd, nil)
	w.Log.RecordChange(se.ID, ev.ID, "faction_id", oldFaction, in.AttackerFaction)
	w.Bus.Emit(NewSettlementCaptured(ev.ID, in.Settlement, oldFaction, in.AttackerFaction))
	return true
}

func (w *World) applyCreateKnowledge(cmd Command, in IntentCreateKnowledge) bool {
	if _, pa := w.Person(in.Originator); pa == nil {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindKnowledge, Name: in.Domain, Origin: now,
		Attrs: &KnowledgeAttrs{Domain: in.Domain, OriginatorID: in.Originator},
	})
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewKnowledgeCreated(ev.ID, id, in.Originator))
	return true
}

func (w *World) applyCreateManifestation(cmd Command, in IntentCreateManifestation) bool {
	e := w.Store.Get(in.Religion)
	if e == nil || e.Kind != KindReligion || !e.Alive() {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindManifestation, Name: in.Kind, Origin: now,
		Attrs: &ManifestationAttrs{ReligionID: in.Religion, Type: in.Kind},
	})
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewManifestationCreated(ev.ID, id, in.Religion))
	return true
}

func (w *World) applyDestroyManifestation(cmd Command, in IntentDestroyManifestation) bool {
	if !w.endEntity(in.Manifestation) {
		return false
	}
	w.emitEvent(cmd, nil)
	return true
}

func (w *World) applyRevealSecret(cmd Command, in IntentRevealSecret) bool {
	e := w.Store.Get(in.Entity)
	if e == nil || !e.Alive() {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewSecretRevealed(ev.ID, in.Entity))
	return true
}

func (w *World) applyFormBanditGang(cmd Command, in IntentFormBanditGang) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindFaction, Name: "Bandit gang of " + se.Name, Origin: now,
		Attrs: &FactionAttrs{
			GovernmentType: GovBanditClan,
			Stability:      0.5,
			Happiness:      0.5,
			Legitimacy:     0.2,
			IsBandit:       true,
			Grievances:     make(map[uint64]float64),
			WarStarted:     make(map[uint64]WarRecord),
		},
	})
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewBanditGangFormed(ev.ID, id, in.Settlement))
	return true
}

func (w *World) applyBanditRaid(cmd Command, in IntentBanditRaid) bool {
	_, gang := w.Faction(in.Gang)
	te, ta := w.Settlement(in.Target)
	if gang == nil || ta == nil {
		return false
	}
	loot := ta.Treasury * 0.1
	ta.Treasury -= loot
	gang.Treasury += loot
	ta.CrimeRate = Clamp01(ta.CrimeRate + 0.05)
	ev := w.emitEvent(cmd, nil)
	w.Log.RecordChange(te.ID, ev.ID, "treasury", ta.Treasury+loot, ta.Treasury)
	w.Bus.Emit(NewBanditRaid(ev.ID, in.Gang, in.Target))
	return true
}

func (w *World) applyRaidTradeRoute(cmd Command, in IntentRaidTradeRoute) bool {
	_, sa := w.Settlement(in.Source)
	if sa == nil {
		return false
	}
	found := false
	for i, t := range sa.TradeRoutes {
		if t == in.Target {
			sa.TradeRoutes = append(sa.TradeRoutes[:i], sa.TradeRoutes[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewTradeRouteRaided(ev.ID, in.Source, in.Target))
	return true
}

func (w *World) applyDisbandBanditGang(cmd Command, in IntentDisbandBanditGang) bool {
	if !w.endEntity(in.Faction) {
		return false
	}
	w.emitEvent(cmd, nil)
	return true
}

func (w *World) applyAbandonSettlement(cmd Command, in IntentAbandonSettlement) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil {
		return false
	}
	for _, pid := range w.FactionMembers(sa.FactionID) {
		if w.Graph.HasActive(pid, in.Settlement, LocatedIn) {
			w.endEntity(pid)
		}
	}
	w.endEntity(in.Settlement)
	ev := w.emitEvent(cmd, nil)
	w.Log.AddParticipant(ev.ID, se.ID, RoleSubject)
	return true
}

func (w *World) applyRefugeeFlow(cmd Command, in IntentRefugeeFlow) bool {
	se, src := w.Settlement(in.Source)
	_, dst := w.Settlement(in.Destination)
	if src == nil || dst == nil || in.Count <= 0 {
		return false
	}
	moved := in.Count
	if moved > src.Population {
		moved = src.Population
	}
	share := 0.0
	if dst.Population > 0 {
		share = float64(moved) / float64(dst.Population)
	}
	if share > 0.20 {
		share = 0.20
	}
	src.Population -= moved
	dst.Population += moved

	if dst.CultureMakeup == nil {
		dst.CultureMakeup = make(map[uint64]float64)
	}
	rescale := 1 - share
	for c, v := range dst.CultureMakeup {
		dst.CultureMakeup[c] = v * rescale
	}
	dst.CultureMakeup[in.Culture] += share

	ev := w.emitEvent(cmd, nil)
	w.Log.RecordChange(se.ID, ev.ID, "population", src.Population+moved, src.Population)
	w.Bus.Emit(NewRefugeesArrived(ev.ID, in.Source, in.Destination, moved, in.Culture))
	return true
}

func (w *World) applyConstructBuilding(cmd Command, in IntentConstructBuilding) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil {
		return false
	}
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindBuilding, Name: in.Building, Origin: now,
		Attrs: &BuildingAttrs{SettlementID: in.Settlement, Type: in.Building, Level: 1},
	})
	if sa.BuildingBonuses == nil {
		sa.BuildingBonuses = make(map[string]float64)
	}
	sa.BuildingBonuses[in.Building] += 0.05
	ev := w.emitEvent(cmd, nil)
	w.Log.AddParticipant(ev.ID, se.ID, RoleLocation)
	w.Bus.Emit(NewBuildingConstructed(ev.ID, in.Settlement, in.Building))
	return true
}

// applyCulturalRebellion relieves the cultural tension a rebellion
// discharges and dents the settlement's guard strength.
func (w *World) applyCulturalRebellion(cmd Command, in IntentCulturalRebellion) bool {
	se, sa := w.Settlement(in.Settlement)
	if sa == nil {
		return false
	}
	oldTension := sa.CulturalTension
	sa.CulturalTension = Clamp01(sa.CulturalTension - 0.3)
	sa.GuardStrength = Clamp01(sa.GuardStrength - 0.1)
	ev := w.emitEvent(cmd, nil)
	w.Log.RecordChange(se.ID, ev.ID, "cultural_tension", oldTension, sa.CulturalTension)
	w.Bus.Emit(NewCulturalRebellion(ev.ID, in.Settlement))
	return true
}

func (w *World) applyReligionSchism(cmd Command, in IntentReligionSchism) bool {
	e := w.Store.Get(in.Religion)
	if e == nil || e.Kind != KindReligion || !e.Alive() {
		return false
	}
	parent := e.Attrs.(*ReligionAttrs)
	id := w.Ids.Next()
	now := w.Clock.Now()
	w.Store.Insert(&Entity{
		ID: id, Kind: KindReligion, Name: in.Label, Origin: now,
		Attrs: &ReligionAttrs{Fervor: parent.Fervor, Adherents: 0},
	})
	ev := w.emitEvent(cmd, nil)
	w.Bus.Emit(NewReligionSchism(ev.ID, in.Religion, id))
	return true
}

// applyDiplomaticShift moves a faction pair between Ally, Enemy, and
// Neutral. A betrayal — breaking a live alliance — costs the instigator
// trust and hands the victim a grievance via the AllianceBetrayed signal.
func (w *World) applyDiplomaticShift(cmd Command, in IntentDiplomaticShift) bool {
	ae, fa := w.Faction(in.A)
	_, fb := w.Faction(in.B)
	if fa == nil || fb == nil {
		return false
	}
	wasAllied := w.Graph.HasActive(in.A, in.B, Ally)
	now := w.Clock.Now()
	ev := w.emitEvent(cmd, nil)
	w.Graph.CloseSymmetric(in.A, in.B, Ally, now)
	w.Graph.CloseSymmetric(in.A, in.B, Enemy, now)
	if !in.Neutral {
		w.Graph.OpenSymmetric(in.A, in.B, in.Kind, now, ev.ID)
	}
	if in.Betrayal && wasAllied {
		yr := now.Year()
		fa.LastBetrayalYear = &yr
		oldTrust := fa.DiplomaticTrust
		fa.DiplomaticTrust = Clamp01(fa.DiplomaticTrust - treatyBreakTrustHit)
		w.Log.RecordChange(ae.ID, ev.ID, "diplomatic_trust", oldTrust, fa.DiplomaticTrust)
		w.Bus.Emit(NewAllianceBetrayed(ev.ID, in.A, in.B))
	}
	return true
}
