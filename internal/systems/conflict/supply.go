package conflict

import (
	"math"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

const (
	startingSupplyMonths  = 3.0
	siegeSupplyMultiplier = 1.2

	forageFriendly = 0.8
	forageNeutral  = 0.4
	forageEnemy    = 0.15
	forageDefault  = 0.5

	diseaseBase = 0.005

	starvationRate = 0.15

	moraleDecayPerMonth     = 0.02
	homeTerritoryMoraleGain = 0.05
	starvationMoralePenalty = 0.10
)

// forageTerrainMod is how much living off the land yields per terrain.
var forageTerrainMod = map[kernel.Terrain]float64{
	kernel.TerrainPlains:    1.3,
	kernel.TerrainForest:    1.0,
	kernel.TerrainHills:     0.8,
	kernel.TerrainMountains: 0.4,
	kernel.TerrainDesert:    0.1,
	kernel.TerrainSwamp:     0.6,
	kernel.TerrainTundra:    0.2,
	kernel.TerrainJungle:    0.7,
	kernel.TerrainCoast:     1.3,
}

// diseaseRate is the monthly fraction of strength lost to camp disease
// per terrain.
var diseaseRate = map[kernel.Terrain]float64{
	kernel.TerrainSwamp:     0.03,
	kernel.TerrainJungle:    0.025,
	kernel.TerrainDesert:    0.015,
	kernel.TerrainTundra:    0.02,
	kernel.TerrainMountains: 0.01,
}

type territoryStatus int

const (
	territoryFriendly territoryStatus = iota
	territoryNeutral
	territoryEnemy
)

// SupplyAndAttrition runs the monthly logistics pass for every living
// army: supply consumption and foraging, terrain disease, starvation once
// the stores run dry, and the morale swing of campaigning far from home.
// Runs monthly.
func SupplyAndAttrition(w *kernel.World) {
	for _, armyID := range w.LivingArmyIDs() {
		_, aa := w.Army(armyID)
		if aa == nil || aa.Strength == 0 {
			continue
		}
		region := w.ArmyRegion(armyID)
		if region == 0 {
			continue
		}
		terrain, hasTerrain := regionTerrain(w, region)
		territory := territoryStatusOf(w, region, aa.FactionID)
		seasonMod := regionSeasonArmyModifier(w, region)

		supply := aa.Supply
		if aa.Besieging != nil {
			supply -= siegeSupplyMultiplier
		} else {
			supply -= 1.0
		}

		forageBase := forageNeutral
		switch territory {
		case territoryFriendly:
			forageBase = forageFriendly
		case territoryEnemy:
			forageBase = forageEnemy
		}
		terrainMod := forageDefault
		if hasTerrain {
			if m, ok := forageTerrainMod[terrain]; ok {
				terrainMod = m
			}
		}
		supply += forageBase * terrainMod * seasonMod
		if supply > startingSupplyMonths {
			supply = startingSupplyMonths
		}

		rate := diseaseBase
		if hasTerrain {
			if r, ok := diseaseRate[terrain]; ok {
				rate = r
			}
		}
		seasonAttrition := 1.0
		if seasonMod < 1.0 {
			seasonAttrition = 1 + (1-seasonMod)*0.5
		}
		diseaseLoss := int(math.Round(float64(aa.Strength) * rate * seasonAttrition * w.RNG.Range(0.5, 1.5)))

		starvationLoss := 0
		if supply <= 0 {
			starvationLoss = int(math.Round(float64(aa.Strength) * starvationRate * w.RNG.Range(0.7, 1.3)))
		}

		morale := aa.Morale
		if aa.HomeRegionID != 0 && aa.HomeRegionID == region {
			morale += homeTerritoryMoraleGain
		} else {
			morale -= moraleDecayPerMonth
		}
		if supply <= 0 {
			morale -= starvationMoralePenalty
		}
		morale = kernel.Clamp01(morale)

		loss := diseaseLoss + starvationLoss
		eventKind := kernel.CustomEvent("army_status_update")
		description := "an army marches on"
		if loss > 0 {
			eventKind = kernel.CustomEvent("army_attrition")
			description = "an army bleeds troops to hunger and disease"
		} else if supply == aa.Supply && morale == aa.Morale {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent: kernel.IntentArmyAttrition{
				Army: armyID, Loss: loss,
				NewSupply: supply, NewMorale: morale,
			},
			EventKind:   eventKind,
			Description: description,
			Participants: []kernel.ParticipantSpec{
				{Entity: armyID, Role: kernel.RoleSubject},
			},
		})
	}
}

func regionTerrain(w *kernel.World, regionID uint64) (kernel.Terrain, bool) {
	if _, ra := w.Region(regionID); ra != nil {
		return ra.Terrain, true
	}
	return 0, false
}

// regionSeasonArmyModifier reads the seasonal army modifier off any
// settlement in the region, defaulting to 1.0.
func regionSeasonArmyModifier(w *kernel.World, regionID uint64) float64 {
	for _, sid := range w.SettlementsInRegion(regionID) {
		if _, sa := w.Settlement(sid); sa != nil {
			return sa.SeasonArmyModifier()
		}
	}
	return 1.0
}

// territoryStatusOf classifies a region for foraging: friendly if the
// army's faction holds a settlement there, enemy if someone else does,
// neutral when empty.
func territoryStatusOf(w *kernel.World, regionID, factionID uint64) territoryStatus {
	hasFriendly, hasEnemy := false, false
	for _, sid := range w.SettlementsInRegion(regionID) {
		_, sa := w.Settlement(sid)
		if sa == nil {
			continue
		}
		if sa.FactionID == factionID {
			hasFriendly = true
		} else {
			hasEnemy = true
		}
	}
	switch {
	case hasFriendly:
		return territoryFriendly
	case hasEnemy:
		return territoryEnemy
	default:
		return territoryNeutral
	}
}
