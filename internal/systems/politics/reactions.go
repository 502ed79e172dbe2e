package politics

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// Signal delta table. These exact values are the cross-system contract:
// other subsystems cause, politics prices the consequence.
const (
	warStartedHappinessHit = -0.15

	warWonDecisiveHappiness    = 0.15
	warWonDecisiveStability    = 0.10
	warLostDecisiveHappiness   = -0.15
	warLostDecisiveStability   = -0.15
	warWonIndecisiveHappiness  = 0.05
	warWonIndecisiveStability  = 0.03
	warLostIndecisiveHappiness = -0.05
	warLostIndecisiveStability = -0.05

	grievanceWarDefeatDecisive      = 0.35
	grievanceWarDefeatIndecisive    = 0.10
	grievanceSatisfactionDecisive   = 0.40
	grievanceSatisfactionIndecisive = 0.15
	grievanceConquest               = 0.40
	grievanceSatisfactionCapture    = 0.15
	grievanceBetrayal               = 0.50
	grievanceRaid                   = 0.15

	settlementCapturedStability = -0.15

	refugeeThresholdRatio = 0.20
	refugeeHappinessHit   = -0.1

	culturalRebellionStability = -0.15
	culturalRebellionHappiness = -0.10

	plagueStabilityHit = -0.10
	plagueHappinessHit = -0.15

	siegeStartedHappiness = -0.10
	siegeStartedStability = -0.05
	siegeLiftedHappiness  = 0.10

	disasterHappinessBase     = -0.05
	disasterHappinessSeverity = -0.10
	disasterStabilityHit      = -0.05

	betrayalVictimHappinessRally = 0.05
	betrayalVictimStabilityRally = 0.05

	banditGangStabilityHit = -0.05
	banditRaidHappinessHit = -0.08
	banditRaidStabilityHit = -0.05
	tradeRaidHappinessHit  = -0.03

	templeReligionShareBump = 0.02
)

// React is the politics subsystem's reaction handler table. It drains
// whatever signals are pending — from this tick's Apply phase, or from
// an earlier reaction system in the same tick — and prices each one into
// faction sentiment, grievances, and successions. Runs every tick.
func React(w *kernel.World) {
	for _, sig := range w.Bus.Drain() {
		switch kernel.SignalKindOf(sig) {
		case "WarStarted":
			reactWarStarted(w, sig)
		case "WarEnded":
			reactWarEnded(w, sig)
		case "SettlementCaptured":
			reactSettlementCaptured(w, sig)
		case "LeaderVacancy":
			reactLeaderVacancy(w, sig)
		case "RefugeesArrived":
			reactRefugeesArrived(w, sig)
		case "CulturalRebellion":
			reactCulturalRebellion(w, sig)
		case "PlagueStarted":
			reactPlagueStarted(w, sig)
		case "SiegeStarted":
			reactSiegeStarted(w, sig)
		case "SiegeEnded":
			reactSiegeEnded(w, sig)
		case "DisasterStruck":
			reactDisasterStruck(w, sig)
		case "AllianceBetrayed":
			reactAllianceBetrayed(w, sig)
		case "BanditGangFormed":
			reactBanditGangFormed(w, sig)
		case "BanditRaid":
			reactBanditRaid(w, sig)
		case "TradeRouteRaided":
			reactTradeRouteRaided(w, sig)
		case "BuildingConstructed":
			reactBuildingConstructed(w, sig)
		}
	}
}

func adjust(w *kernel.World, sig kernel.Signal, faction uint64, stability, happiness, legitimacy float64, why string) {
	cause := sig.EventID
	w.Queue.Push(kernel.Command{
		Intent: kernel.IntentAdjustSentiment{
			Faction:         faction,
			StabilityDelta:  stability,
			HappinessDelta:  happiness,
			LegitimacyDelta: legitimacy,
		},
		EventKind:    kernel.CustomEvent("sentiment_reaction"),
		Description:  why,
		Participants: []kernel.ParticipantSpec{{Entity: faction, Role: kernel.RoleSubject}},
		CausedBy:     &cause,
	})
}

func addGrievance(w *kernel.World, sig kernel.Signal, from, against uint64, amount float64, why string) {
	cause := sig.EventID
	w.Queue.Push(kernel.Command{
		Intent:      kernel.IntentAddGrievance{From: from, Against: against, Amount: amount},
		EventKind:   kernel.CustomEvent("grievance_shift"),
		Description: why,
		Participants: []kernel.ParticipantSpec{
			{Entity: from, Role: kernel.RoleSubject},
			{Entity: against, Role: kernel.RoleObject},
		},
		CausedBy: &cause,
	})
}

func reactWarStarted(w *kernel.World, sig kernel.Signal) {
	attacker, defender, ok := kernel.AsWarStarted(sig)
	if !ok {
		return
	}
	adjust(w, sig, attacker, 0, warStartedHappinessHit, 0, "the outbreak of war unsettles a faction")
	adjust(w, sig, defender, 0, warStartedHappinessHit, 0, "the outbreak of war unsettles a faction")
}

func reactWarEnded(w *kernel.World, sig kernel.Signal) {
	winner, loser, decisive, ok := kernel.AsWarEnded(sig)
	if !ok {
		return
	}
	if decisive {
		adjust(w, sig, winner, warWonDecisiveStability, warWonDecisiveHappiness, 0, "a decisive victory lifts a faction's spirits")
		adjust(w, sig, loser, warLostDecisiveStability, warLostDecisiveHappiness, 0, "a decisive defeat shakes a faction's standing")
	} else {
		adjust(w, sig, winner, warWonIndecisiveStability, warWonIndecisiveHappiness, 0, "an exhaustion peace brings thin relief")
		adjust(w, sig, loser, warLostIndecisiveStability, warLostIndecisiveHappiness, 0, "an exhaustion peace leaves a bitter taste")
	}
	defeat := grievanceWarDefeatIndecisive
	satisfaction := grievanceSatisfactionIndecisive
	if decisive {
		defeat = grievanceWarDefeatDecisive
		satisfaction = grievanceSatisfactionDecisive
	}
	addGrievance(w, sig, loser, winner, defeat, "defeat leaves a grudge")
	addGrievance(w, sig, winner, loser, -satisfaction, "victory settles an old score")
}

func reactSettlementCaptured(w *kernel.World, sig kernel.Signal) {
	_, oldFaction, newFaction, ok := kernel.AsSettlementCaptured(sig)
	if !ok {
		return
	}
	adjust(w, sig, oldFaction, settlementCapturedStability, 0, 0, "losing a settlement destabilizes a faction")
	addGrievance(w, sig, oldFaction, newFaction, grievanceConquest, "a conquest is not forgotten")
	addGrievance(w, sig, newFaction, oldFaction, -grievanceSatisfactionCapture, "a capture settles an old score")
}

// reactLeaderVacancy invokes the same succession path as the yearly
// sweep, in the same tick the throne emptied. The applicator re-checks
// for a sitting leader, so racing with the yearly sweep is harmless.
func reactLeaderVacancy(w *kernel.World, sig kernel.Signal) {
	faction, prevLeader, ok := kernel.AsLeaderVacancy(sig)
	if !ok {
		return
	}
	_, fa := w.Faction(faction)
	if fa == nil {
		return
	}
	if w.FactionLeader(faction) != 0 {
		return
	}
	members := w.FactionMembers(faction)
	successor := SelectSuccessor(w, fa.GovernmentType, members, prevLeader)
	if successor == 0 {
		return
	}
	cause := sig.EventID
	w.Queue.Push(kernel.Command{
		Intent:      kernel.IntentInstallLeader{Faction: faction, Person: successor, PrevLeader: prevLeader},
		EventKind:   kernel.EK.Succession,
		Description: "a successor steps into a suddenly empty seat",
		Participants: []kernel.ParticipantSpec{
			{Entity: successor, Role: kernel.RoleSubject},
			{Entity: faction, Role: kernel.RoleObject},
		},
		CausedBy: &cause,
	})
}

func reactRefugeesArrived(w *kernel.World, sig kernel.Signal) {
	_, destination, count, _, ok := kernel.AsRefugeesArrived(sig)
	if !ok || count == 0 {
		return
	}
	_, sa := w.Settlement(destination)
	if sa == nil || sa.Population == 0 {
		return
	}
	if float64(count)/float64(sa.Population) <= refugeeThresholdRatio {
		return
	}
	adjust(w, sig, sa.FactionID, 0, refugeeHappinessHit, 0, "a flood of refugees strains a faction's hospitality")
}

func reactCulturalRebellion(w *kernel.World, sig kernel.Signal) {
	settlement, ok := kernel.AsCulturalRebellion(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		adjust(w, sig, faction, culturalRebellionStability, culturalRebellionHappiness, 0, "an uprising shakes a faction's grip")
	}
}

func reactPlagueStarted(w *kernel.World, sig kernel.Signal) {
	settlement, ok := kernel.AsPlagueStarted(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		adjust(w, sig, faction, plagueStabilityHit, plagueHappinessHit, 0, "a plague sows dread through a faction's lands")
	}
}

func reactSiegeStarted(w *kernel.World, sig kernel.Signal) {
	settlement, _, ok := kernel.AsSiegeStarted(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		adjust(w, sig, faction, siegeStartedStability, siegeStartedHappiness, 0, "a siege of its walls alarms a faction")
	}
}

func reactSiegeEnded(w *kernel.World, sig kernel.Signal) {
	settlement, outcome, ok := kernel.AsSiegeEnded(sig)
	if !ok || outcome != "Lifted" {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		adjust(w, sig, faction, 0, siegeLiftedHappiness, 0, "a lifted siege brings relief")
	}
}

func reactDisasterStruck(w *kernel.World, sig kernel.Signal) {
	settlement, severity, ok := kernel.AsDisasterStruck(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		happiness := disasterHappinessBase + severity*disasterHappinessSeverity
		adjust(w, sig, faction, disasterStabilityHit, happiness, 0, "disaster tests a faction's resolve")
	}
}

func reactAllianceBetrayed(w *kernel.World, sig kernel.Signal) {
	betrayer, victim, ok := kernel.AsAllianceBetrayed(sig)
	if !ok {
		return
	}
	adjust(w, sig, victim, betrayalVictimStabilityRally, betrayalVictimHappinessRally, 0, "a betrayed faction closes ranks")
	addGrievance(w, sig, victim, betrayer, grievanceBetrayal, "a betrayal is remembered")
}

func reactBanditGangFormed(w *kernel.World, sig kernel.Signal) {
	_, settlement, ok := kernel.AsBanditGangFormed(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(settlement); faction != 0 {
		adjust(w, sig, faction, banditGangStabilityHit, 0, 0, "lawless bands erode a faction's order")
	}
}

func reactBanditRaid(w *kernel.World, sig kernel.Signal) {
	gang, target, ok := kernel.AsBanditRaid(sig)
	if !ok {
		return
	}
	faction := w.SettlementFaction(target)
	if faction == 0 {
		return
	}
	adjust(w, sig, faction, banditRaidStabilityHit, banditRaidHappinessHit, 0, "a raid leaves a faction rattled")
	if _, ga := w.Faction(gang); ga != nil {
		addGrievance(w, sig, faction, gang, grievanceRaid, "a raid is not forgiven")
	}
}

func reactTradeRouteRaided(w *kernel.World, sig kernel.Signal) {
	source, target, ok := kernel.AsTradeRouteRaided(sig)
	if !ok {
		return
	}
	if faction := w.SettlementFaction(source); faction != 0 {
		adjust(w, sig, faction, 0, tradeRaidHappinessHit, 0, "a severed trade route pinches a faction")
	}
	if faction := w.SettlementFaction(target); faction != 0 {
		adjust(w, sig, faction, 0, tradeRaidHappinessHit, 0, "a severed trade route pinches a faction")
	}
}

// reactBuildingConstructed bumps the dominant religion's share in a
// settlement that raises a temple. The shift is direct bookkeeping on the
// settlement's makeup map.
func reactBuildingConstructed(w *kernel.World, sig kernel.Signal) {
	settlement, building, ok := kernel.AsBuildingConstructed(sig)
	if !ok || building != "Temple" {
		return
	}
	_, sa := w.Settlement(settlement)
	if sa == nil || len(sa.ReligionMakeup) == 0 {
		return
	}
	var dominant uint64
	bestShare := 0.0
	for _, rid := range sortedReligionKeys(sa) {
		if share := sa.ReligionMakeup[rid]; share > bestShare {
			dominant, bestShare = rid, share
		}
	}
	if dominant == 0 {
		return
	}
	sa.ReligionMakeup[dominant] = bestShare + templeReligionShareBump
	normalizeShares(sa.ReligionMakeup)
}

func sortedReligionKeys(sa *kernel.SettlementAttrs) []uint64 {
	keys := maps.Keys(sa.ReligionMakeup)
	slices.Sort(keys)
	return keys
}

func normalizeShares(m map[uint64]float64) {
	total := 0.0
	for _, v := range m {
		total += v
	}
	if total <= 0 {
		return
	}
	for k, v := range m {
		m[k] = v / total
	}
}
