// Package worldgen builds a valid initial World: it generates the hex/noise
// geography (geography.go) directly in terms of kernel entities and
// relationships so the generate/replay CLI commands have something to
// run the scheduler over.
//
// Determinism here matters for the same reason it matters everywhere else
// in the kernel: two Generate calls with the same seed must produce
// byte-identical initial worlds, since the simulation's own determinism
// floor is only as strong as its starting point.
package worldgen

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/config"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

var governmentTypes = []kernel.GovernmentType{
	kernel.GovHereditary,
	kernel.GovElective,
	kernel.GovChieftain,
	kernel.GovTheocracy,
}

var personRolePool = []kernel.PersonRole{
	kernel.PersonCommon, kernel.PersonCommon, kernel.PersonCommon,
	kernel.PersonWarrior, kernel.PersonWarrior,
	kernel.PersonPriest, kernel.PersonScholar, kernel.PersonElder,
}

var personTraitPool = []kernel.Trait{
	kernel.TraitPious, kernel.TraitCharismatic, kernel.TraitRuthless,
	kernel.TraitAggressive, kernel.TraitContent, kernel.TraitHonorable,
	kernel.TraitCautious,
}

// factionRec carries a freshly created faction through the rest of the
// build: settlement assignment by nearest center, leader installation,
// and rivalry seeding.
type factionRec struct {
	id       uint64
	center   HexCoord
	culture  uint64
	religion uint64
}

func settlementScale(size SettlementSize) (population, capacity, fortLevel int) {
	switch size {
	case SizeCity:
		return 4000, 10000, 2
	case SizeTown:
		return 800, 3000, 1
	default:
		return 100, 500, 0
	}
}

// Generate builds a complete initial World: regions with AdjacentTo edges,
// settlements placed and staffed, factions with a government type and a
// leader, cultures and religions, and a sample of notable persons.
func Generate(cfg config.Config) *kernel.World {
	wcfg := DefaultGenConfig()
	wcfg.Radius = cfg.MapRadius
	wcfg.Seed = cfg.Seed
	wcfg.BiomeCenters = cfg.BiomeCenters
	wcfg.RiverCount = cfg.RiverCount
	geoMap := generateMap(wcfg)
	seeds := PlaceSettlements(geoMap, cfg.Seed)
	slog.Debug("geography generated", "hexes", geoMap.HexCount(), "settlements", len(seeds))

	w := kernel.NewWorld(cfg.Seed, cfg.ProceduralIDBase)
	origin := clock.New(0, 0)

	cultures := makeCultures(w, origin)
	religions := makeReligions(w, origin)

	type regionRec struct {
		id    uint64
		coord HexCoord
	}
	regions := make([]regionRec, 0, len(seeds))
	regionOf := make(map[HexCoord]uint64, len(seeds))

	for _, seed := range seeds {
		hex := geoMap.Get(seed.Coord)
		if hex == nil {
			continue
		}
		id := w.Ids.Next()
		region := &kernel.Entity{
			ID:     id,
			Kind:   kernel.KindRegion,
			Name:   seed.Name + " region",
			Origin: origin,
			Attrs: &kernel.RegionAttrs{
				X:       seed.Coord.Q,
				Y:       seed.Coord.R,
				Terrain: hex.Terrain,
			},
		}
		w.Store.Insert(region)
		regions = append(regions, regionRec{id: id, coord: seed.Coord})
		regionOf[seed.Coord] = id
	}

	// AdjacentTo: k-nearest region centers by hex distance, symmetric.
	k := cfg.AdjacencyK
	for _, a := range regions {
		type cand struct {
			id   uint64
			dist int
		}
		var cands []cand
		for _, b := range regions {
			if a.id == b.id {
				continue
			}
			cands = append(cands, cand{b.id, Distance(a.coord, b.coord)})
		}
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].dist != cands[j].dist {
				return cands[i].dist < cands[j].dist
			}
			return cands[i].id < cands[j].id
		})
		limit := k
		if limit > len(cands) {
			limit = len(cands)
		}
		for _, c := range cands[:limit] {
			if !w.Graph.HasActive(a.id, c.id, kernel.AdjacentTo) {
				w.Graph.OpenSymmetric(a.id, c.id, kernel.AdjacentTo, origin, 0)
			}
		}
	}

	// Factions: one per city-sized settlement seed; towns/villages join
	// whichever city-faction's region center is nearest.
	var factions []factionRec
	for i, seed := range seeds {
		if seed.Size != SizeCity {
			continue
		}
		id := w.Ids.Next()
		culture := cultures[i%len(cultures)]
		religion := religions[i%len(religions)]
		gov := governmentTypes[w.RNG.Intn(len(governmentTypes))]
		faction := &kernel.Entity{
			ID:     id,
			Kind:   kernel.KindFaction,
			Name:   seed.Name + " Dominion",
			Origin: origin,
			Attrs: &kernel.FactionAttrs{
				GovernmentType:  gov,
				Stability:       0.55 + w.RNG.Range(0, 0.2),
				Happiness:       0.55 + w.RNG.Range(0, 0.2),
				Legitimacy:      0.6,
				Treasury:        500 + w.RNG.Range(0, 500),
				Prestige:        0.3 + w.RNG.Range(0, 0.3),
				PrimaryCulture:  culture,
				PrimaryReligion: religion,
				Grievances:      map[uint64]float64{},
				WarStarted:      map[uint64]kernel.WarRecord{},
				DiplomaticTrust: 0.5,
			},
		}
		w.Store.Insert(faction)
		factions = append(factions, factionRec{id: id, center: seed.Coord, culture: culture, religion: religion})
	}
	if len(factions) == 0 {
		panic("worldgen: no city-sized settlements placed, cannot seed factions")
	}

	nearestFaction := func(coord HexCoord) factionRec {
		best := factions[0]
		bestDist := Distance(coord, best.center)
		for _, f := range factions[1:] {
			d := Distance(coord, f.center)
			if d < bestDist {
				bestDist, best = d, f
			}
		}
		return best
	}

	for _, seed := range seeds {
		hex := geoMap.Get(seed.Coord)
		if hex == nil {
			continue
		}
		regionID, ok := regionOf[seed.Coord]
		if !ok {
			continue
		}
		fac := nearestFaction(seed.Coord)
		population, capacity, fortLevel := settlementScale(seed.Size)

		var breakdown [5]int
		breakdown[kernel.BracketChild] = population * 25 / 100
		breakdown[kernel.BracketYoungAdultFemale] = population * 20 / 100
		breakdown[kernel.BracketYoungAdultMale] = population * 20 / 100
		breakdown[kernel.BracketMiddleAgeMale] = population * 20 / 100
		breakdown[kernel.BracketElder] = population - breakdown[0] - breakdown[1] - breakdown[2] - breakdown[3]

		resources := make(map[string]float64, len(hex.Resources))
		for rt, qty := range hex.Resources {
			resources[resourceName(rt)] = qty
		}

		settlementID := w.Ids.Next()
		settlement := &kernel.Entity{
			ID:     settlementID,
			Kind:   kernel.KindSettlement,
			Name:   seed.Name,
			Origin: origin,
			Attrs: &kernel.SettlementAttrs{
				X:                   seed.Coord.Q,
				Y:                   seed.Coord.R,
				RegionID:            regionID,
				Terrain:             hex.Terrain,
				Population:          population,
				PopulationBreakdown: breakdown,
				Prosperity:          0.4 + w.RNG.Range(0, 0.3),
				Treasury:            float64(population) * 0.2,
				Capacity:            capacity,
				Resources:           resources,
				Prestige:            0.2 + w.RNG.Range(0, 0.2),
				DominantCulture:     fac.culture,
				CultureMakeup:       map[uint64]float64{fac.culture: 1.0},
				ReligionMakeup:      map[uint64]float64{fac.religion: 1.0},
				GuardStrength:       0.3,
				FortificationLevel:  fortLevel,
				SeasonalModifiers:   map[string]float64{},
				BuildingBonuses:     map[string]float64{},
				FactionID:           fac.id,
			},
		}
		w.Store.Insert(settlement)
		w.Graph.Open(settlementID, fac.id, kernel.MemberOf, origin, 0)
		w.Graph.Open(settlementID, regionID, kernel.LocatedIn, origin, 0)

		spawnNotables(w, origin, settlementID, fac.id, population, cfg.InhabitantSample)
	}

	for _, fac := range factions {
		installInitialLeader(w, origin, fac.id)
	}

	seedInitialRivalries(w, origin, factions)

	return w
}

// seedInitialRivalries opens Enemy edges between neighboring faction
// pairs so the generated world carries live fault lines into its first
// years. Pairs divided by faith or culture are likelier rivals.
func seedInitialRivalries(w *kernel.World, origin clock.Timestamp, factions []factionRec) {
	const (
		baseRivalryChance    = 0.25
		dividedRivalryChance = 0.5
	)
	for i := 0; i < len(factions); i++ {
		for j := i + 1; j < len(factions); j++ {
			a, b := factions[i], factions[j]
			chance := baseRivalryChance
			if a.culture != b.culture || a.religion != b.religion {
				chance = dividedRivalryChance
			}
			if !w.RNG.Bool(chance) {
				continue
			}
			w.Graph.OpenSymmetric(a.id, b.id, kernel.Enemy, origin, 0)
		}
	}
}

func resourceName(rt ResourceType) string {
	switch rt {
	case ResourceGrain:
		return "grain"
	case ResourceTimber:
		return "timber"
	case ResourceIronOre:
		return "iron_ore"
	case ResourceStone:
		return "stone"
	case ResourceFish:
		return "fish"
	case ResourceHerbs:
		return "herbs"
	case ResourceGems:
		return "gems"
	case ResourceFurs:
		return "furs"
	case ResourceCoal:
		return "coal"
	default:
		return "exotics"
	}
}

func makeCultures(w *kernel.World, origin clock.Timestamp) []uint64 {
	names := []string{"Highland", "Riverfolk", "Steppe", "Coastal"}
	ids := make([]uint64, 0, len(names))
	for i, name := range names {
		id := w.Ids.Next()
		w.Store.Insert(&kernel.Entity{
			ID:     id,
			Kind:   kernel.KindCulture,
			Name:   name + " culture",
			Origin: origin,
			Attrs: &kernel.CultureAttrs{
				Openness:   0.3 + 0.15*float64(i%3),
				Militarism: 0.3 + 0.2*float64((i+1)%3),
				Tradition:  0.4 + 0.1*float64((i+2)%3),
			},
		})
		ids = append(ids, id)
	}
	return ids
}

func makeReligions(w *kernel.World, origin clock.Timestamp) []uint64 {
	names := []string{"Sun Cult", "Ancestor Rite", "Deep Faith"}
	ids := make([]uint64, 0, len(names))
	for i, name := range names {
		id := w.Ids.Next()
		w.Store.Insert(&kernel.Entity{
			ID:     id,
			Kind:   kernel.KindReligion,
			Name:   name,
			Origin: origin,
			Attrs: &kernel.ReligionAttrs{
				Fervor:    0.4 + 0.15*float64(i%3),
				Adherents: 0,
			},
		})
		ids = append(ids, id)
	}
	return ids
}

// spawnNotables samples a fraction of a settlement's population as
// notable Person entities (glossary: Notable person) and joins them to
// the owning faction.
func spawnNotables(w *kernel.World, origin clock.Timestamp, settlementID, factionID uint64, population int, sampleRate float64) {
	count := int(float64(population) * sampleRate)
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		role := personRolePool[w.RNG.Intn(len(personRolePool))]
		traits := map[kernel.Trait]bool{}
		numTraits := 1 + w.RNG.Intn(3)
		for t := 0; t < numTraits; t++ {
			traits[personTraitPool[w.RNG.Intn(len(personTraitPool))]] = true
		}
		age := uint16(18 + w.RNG.Intn(52))

		id := w.Ids.Next()
		entity := &kernel.Entity{
			ID:     id,
			Kind:   kernel.KindPerson,
			Name:   fmt.Sprintf("Notable-%d", id),
			Origin: origin,
			Attrs: &kernel.PersonAttrs{
				Age:        age,
				Role:       role,
				Traits:     traits,
				Prestige:   w.RNG.Range(0, 0.5),
				Claims:     map[uint64]kernel.Claim{},
				Grievances: map[uint64]float64{},
			},
		}
		entity.ExtraSet("home_settlement", settlementID)
		w.Store.Insert(entity)
		w.Graph.Open(id, factionID, kernel.MemberOf, origin, 0)
		w.Graph.Open(id, settlementID, kernel.LocatedIn, origin, 0)
	}
}

// installInitialLeader picks the oldest member as the founding leader,
// matching the succession subsystem's "oldest faction member" fallback
// rule so a freshly generated world never
// starts with a leaderless faction.
func installInitialLeader(w *kernel.World, origin clock.Timestamp, factionID uint64) {
	members := w.FactionMembers(factionID)
	if len(members) == 0 {
		return
	}
	var best uint64
	var bestAge uint16
	for _, id := range members {
		_, pa := w.Person(id)
		if pa == nil {
			continue
		}
		if best == 0 || pa.Age > bestAge {
			best, bestAge = id, pa.Age
		}
	}
	if best == 0 {
		return
	}
	w.Graph.Open(best, factionID, kernel.LeaderOf, origin, 0)
}
