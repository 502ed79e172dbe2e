package conflict

import (
	"math"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

const (
	terrainBonusHighGround = 1.3  // mountains, hills
	terrainBonusCover      = 1.15 // forest, jungle
	loserCasualtyMin       = 0.25
	loserCasualtyMax       = 0.40
	winnerCasualtyMin      = 0.10
	winnerCasualtyMax      = 0.20
	warriorDeathChance     = 0.15
	nonWarriorDeathChance  = 0.05
)

// Battle resolves every engagement between pairs of living armies sharing
// a region whose factions are at war. The army farther from home attacks;
// combat power weighs strength, morale, faction prestige, and the
// defender's terrain. Runs monthly.
func Battle(w *kernel.World) {
	type armyInfo struct {
		army, faction, region uint64
	}
	var infos []armyInfo
	for _, armyID := range w.LivingArmyIDs() {
		_, aa := w.Army(armyID)
		if aa == nil {
			continue
		}
		if region := w.ArmyRegion(armyID); region != 0 {
			infos = append(infos, armyInfo{armyID, aa.FactionID, region})
		}
	}

	spent := make(map[uint64]bool) // armies already committed this tick
	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			a, b := infos[i], infos[j]
			if a.region != b.region || spent[a.army] || spent[b.army] {
				continue
			}
			if !w.AtWar(a.faction, b.faction) {
				continue
			}
			resolveBattle(w, a.region, a.army, b.army)
			spent[a.army], spent[b.army] = true, true
		}
	}
}

func resolveBattle(w *kernel.World, region, armyA, armyB uint64) {
	_, aa := w.Army(armyA)
	_, ab := w.Army(armyB)
	if aa == nil || ab == nil || aa.Strength == 0 || ab.Strength == 0 {
		return
	}

	terrainBonus := terrainDefenseBonus(w, region)

	// The army farther from its home region (in AdjacentTo hops) attacks;
	// an army that cannot reach its home counts as farthest. On a tie the
	// pair order stands and the first army attacks.
	homeHops := func(home uint64) int {
		_, hops, _, ok := w.Graph.BFS(region, kernel.AdjacentTo, func(n uint64) bool { return n == home })
		if !ok {
			return math.MaxInt
		}
		return hops
	}
	attacker, attackerAttrs := armyA, aa
	defender, defenderAttrs := armyB, ab
	if homeHops(aa.HomeRegionID) < homeHops(ab.HomeRegionID) {
		attacker, attackerAttrs = armyB, ab
		defender, defenderAttrs = armyA, aa
	}

	attackerPower := float64(attackerAttrs.Strength) * attackerAttrs.Morale *
		(1 + factionPrestige(w, attackerAttrs.FactionID)*0.1)
	defenderPower := float64(defenderAttrs.Strength) * defenderAttrs.Morale * terrainBonus *
		(1 + factionPrestige(w, defenderAttrs.FactionID)*0.1)

	winner, winnerAttrs := attacker, attackerAttrs
	loser, loserAttrs := defender, defenderAttrs
	if attackerPower < defenderPower {
		winner, winnerAttrs = defender, defenderAttrs
		loser, loserAttrs = attacker, attackerAttrs
	}

	loserCasualties := int(math.Round(float64(loserAttrs.Strength) * w.RNG.Range(loserCasualtyMin, loserCasualtyMax)))
	winnerCasualties := int(math.Round(float64(winnerAttrs.Strength) * w.RNG.Range(winnerCasualtyMin, winnerCasualtyMax)))

	deaths := rollNotableDeaths(w, loserAttrs.FactionID, false)
	deaths = append(deaths, rollNotableDeaths(w, winnerAttrs.FactionID, true)...)

	w.Queue.Push(kernel.Command{
		Intent: kernel.IntentBattle{
			Winner: winner, Loser: loser,
			WinnerFaction: winnerAttrs.FactionID, LoserFaction: loserAttrs.FactionID,
			Region:           region,
			WinnerCasualties: winnerCasualties,
			LoserCasualties:  loserCasualties,
			NotableDeaths:    deaths,
		},
		EventKind:   kernel.EK.Battle,
		Description: "two armies clash",
		Participants: []kernel.ParticipantSpec{
			{Entity: winnerAttrs.FactionID, Role: kernel.RoleAttacker},
			{Entity: loserAttrs.FactionID, Role: kernel.RoleDefender},
			{Entity: region, Role: kernel.RoleLocation},
		},
	})
}

// rollNotableDeaths rolls each faction member's chance of dying in the
// battle: warriors face the worst of it, and fighting on the winning side
// halves the odds.
func rollNotableDeaths(w *kernel.World, factionID uint64, isWinner bool) []uint64 {
	var deaths []uint64
	for _, pid := range w.FactionMembers(factionID) {
		_, pa := w.Person(pid)
		if pa == nil {
			continue
		}
		chance := nonWarriorDeathChance
		if pa.Role == kernel.PersonWarrior {
			chance = warriorDeathChance
		}
		if isWinner {
			chance *= 0.5
		}
		if w.RNG.Bool(chance) {
			deaths = append(deaths, pid)
		}
	}
	return deaths
}

func terrainDefenseBonus(w *kernel.World, regionID uint64) float64 {
	_, ra := w.Region(regionID)
	if ra == nil {
		return 1.0
	}
	switch ra.Terrain {
	case kernel.TerrainMountains, kernel.TerrainHills:
		return terrainBonusHighGround
	case kernel.TerrainForest, kernel.TerrainJungle:
		return terrainBonusCover
	default:
		return 1.0
	}
}

func factionPrestige(w *kernel.World, factionID uint64) float64 {
	if _, fa := w.Faction(factionID); fa != nil {
		return fa.Prestige
	}
	return 0
}
