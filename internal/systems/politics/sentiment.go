package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

// Happiness target weights.
const (
	happinessBaseTarget       = 0.6
	happinessProsperityWeight = 0.15
	happinessStabilityNeutral = 0.5
	happinessStabilityWeight  = 0.2
	happinessEnemiesPenalty   = -0.1
	happinessAlliesBonus      = 0.05
	happinessLeaderBonus      = 0.05
	happinessLeaderPenalty    = -0.1
	happinessTensionWeight    = 0.15
	happinessReligiousWeight  = 0.10
	happinessBuildingCap      = 0.15
	happinessMinTarget        = 0.1
	happinessMaxTarget        = 0.95
	happinessNoiseRange       = 0.02
	happinessDriftRate        = 0.15
	defaultProsperity         = 0.3
)

// Legitimacy target weights.
const (
	legitimacyBaseTarget      = 0.5
	legitimacyHappinessWeight = 0.4
	legitimacyPrestigeWeight  = 0.1
	legitimacyDriftRate       = 0.1
)

// Stability target weights.
const (
	stabilityBaseTarget       = 0.5
	stabilityHappinessWeight  = 0.2
	stabilityLegitimacyWeight = 0.15
	stabilityLeaderBonus      = 0.05
	stabilityLeaderPenalty    = -0.15
	stabilityTensionWeight    = 0.10
	stabilityTheocracyFervor  = 0.02
	stabilityMinTarget        = 0.15
	stabilityMaxTarget        = 0.95
	stabilityNoiseRange       = 0.05
	stabilityDriftRate        = 0.12
	stabilityLeaderlessDrag   = 0.04
)

// Sentiment drifts each faction's happiness, then legitimacy, then
// stability toward targets computed from its settlements, its diplomatic
// posture, and its leader — each pass feeding the values the previous one
// just computed, so a good year compounds. Runs yearly.
func Sentiment(w *kernel.World) {
	factions := w.LivingFactionIDs()
	newHappiness := make(map[uint64]float64, len(factions))
	newLegitimacy := make(map[uint64]float64, len(factions))

	for _, factionID := range factions {
		_, fa := w.Faction(factionID)
		if fa == nil {
			continue
		}
		agg := aggregateSettlements(w, factionID)
		hasLeader := w.FactionLeader(factionID) != 0
		hasEnemies := hasActiveEdge(w, factionID, kernel.Enemy)
		hasAllies := hasActiveEdge(w, factionID, kernel.Ally)

		target := happinessBaseTarget +
			agg.prosperity*happinessProsperityWeight +
			(fa.Stability-happinessStabilityNeutral)*happinessStabilityWeight
		switch {
		case hasEnemies:
			target += happinessEnemiesPenalty
		case hasAllies:
			target += happinessAlliesBonus
		}
		if hasLeader {
			target += happinessLeaderBonus
		} else {
			target += happinessLeaderPenalty
		}
		target += agg.tradeBonus
		target -= agg.culturalTension * happinessTensionWeight
		target -= agg.religiousTension * happinessReligiousWeight
		building := agg.buildingHappiness
		if building > happinessBuildingCap {
			building = happinessBuildingCap
		}
		target += building
		if target < happinessMinTarget {
			target = happinessMinTarget
		}
		if target > happinessMaxTarget {
			target = happinessMaxTarget
		}
		noise := w.RNG.Range(-happinessNoiseRange, happinessNoiseRange)
		newHappiness[factionID] = kernel.Clamp01(fa.Happiness + (target-fa.Happiness)*happinessDriftRate + noise)
	}

	for _, factionID := range factions {
		_, fa := w.Faction(factionID)
		if fa == nil {
			continue
		}
		leaderPrestige := 0.0
		if leader := w.FactionLeader(factionID); leader != 0 {
			if _, pa := w.Person(leader); pa != nil {
				leaderPrestige = pa.Prestige
			}
		}
		target := legitimacyBaseTarget +
			legitimacyHappinessWeight*newHappiness[factionID] +
			legitimacyPrestigeWeight*leaderPrestige
		newLegitimacy[factionID] = kernel.Clamp01(fa.Legitimacy + (target-fa.Legitimacy)*legitimacyDriftRate)
	}

	for _, factionID := range factions {
		_, fa := w.Faction(factionID)
		if fa == nil {
			continue
		}
		agg := aggregateSettlements(w, factionID)
		hasLeader := w.FactionLeader(factionID) != 0

		target := stabilityBaseTarget +
			stabilityHappinessWeight*newHappiness[factionID] +
			stabilityLegitimacyWeight*newLegitimacy[factionID]
		if hasLeader {
			target += stabilityLeaderBonus
		} else {
			target += stabilityLeaderPenalty
		}
		target -= agg.culturalTension * stabilityTensionWeight
		if fa.GovernmentType == kernel.GovTheocracy {
			if _, ra := w.Religion(fa.PrimaryReligion); ra != nil {
				target += ra.Fervor * stabilityTheocracyFervor
			}
		}
		if target < stabilityMinTarget {
			target = stabilityMinTarget
		}
		if target > stabilityMaxTarget {
			target = stabilityMaxTarget
		}
		noise := w.RNG.Range(-stabilityNoiseRange, stabilityNoiseRange)
		drift := (target-fa.Stability)*stabilityDriftRate + noise
		if !hasLeader {
			drift -= stabilityLeaderlessDrag
		}
		stability := kernel.Clamp01(fa.Stability + drift)

		w.Queue.Push(kernel.Command{
			Intent: kernel.IntentSetSentiment{
				Faction:    factionID,
				Happiness:  newHappiness[factionID],
				Legitimacy: newLegitimacy[factionID],
				Stability:  stability,
			},
			EventKind:   kernel.CustomEvent("sentiment_drift"),
			Description: "a faction's sentiment drifts toward its circumstances",
			Participants: []kernel.ParticipantSpec{
				{Entity: factionID, Role: kernel.RoleSubject},
			},
		})
	}
}

type settlementAggregate struct {
	prosperity        float64
	culturalTension   float64
	religiousTension  float64
	buildingHappiness float64
	tradeBonus        float64
}

func aggregateSettlements(w *kernel.World, factionID uint64) settlementAggregate {
	agg := settlementAggregate{prosperity: defaultProsperity}
	count := 0
	var prosperity, cultural, religious float64
	for _, s := range w.FactionSettlements(factionID) {
		_, sa := w.Settlement(s)
		if sa == nil {
			continue
		}
		prosperity += sa.Prosperity
		cultural += sa.CulturalTension
		religious += sa.ReligiousTension
		agg.buildingHappiness += sa.BuildingHappiness()
		agg.tradeBonus += sa.TradeHappinessBonus
		count++
	}
	if count > 0 {
		agg.prosperity = prosperity / float64(count)
		agg.culturalTension = cultural / float64(count)
		agg.religiousTension = religious / float64(count)
	}
	return agg
}

func hasActiveEdge(w *kernel.World, source uint64, kind kernel.RelKind) bool {
	found := false
	w.Graph.OutgoingActive(source, kind, func(*kernel.Relationship) bool {
		found = true
		return false
	})
	return found
}
