// Geography layer: hex grid, biome-patch terrain generation, and
// settlement placement. This is the external-collaborator "initial world
// generator" the simulation core treats as out of scope, but Generate
// (generate.go) still needs something that produces a valid World to run
// the scheduler over, so it lives here rather than as a foreign package:
// hexes carry the kernel's own Terrain directly instead of translating
// through a second terrain enum.
//
// The generator works in patches, not per-hex thresholds: one elevation
// field shaped by a continental dome decides ocean, highlands, and
// coast; everything between is claimed by the nearest of a handful of
// climate-banded biome centers, with a jitter field roughing up the
// borders. Rivers rise in the highlands and run for the nearest shore.
package worldgen

import (
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int
	R int
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial
// coordinates, clockwise from the north-east.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: -1},
	{Q: 1, R: 0},
	{Q: 0, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: 0},
	{Q: 0, R: -1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates: half the
// L1 length of the cube-coordinate delta.
func Distance(a, b HexCoord) int {
	d := intAbs(a.Q-b.Q) + intAbs(a.R-b.R) + intAbs(a.S()-b.S())
	return d / 2
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// center returns the hex's cartesian midpoint (pointy-top layout).
func (h HexCoord) center() (x, y float64) {
	return float64(h.Q) + float64(h.R)/2, float64(h.R) * math.Sqrt(3) / 2
}

// ResourceType enumerates primary resources harvestable from terrain.
type ResourceType uint8

const (
	ResourceGrain ResourceType = iota
	ResourceTimber
	ResourceIronOre
	ResourceStone
	ResourceFish
	ResourceHerbs
	ResourceGems
	ResourceFurs
	ResourceCoal
	ResourceExotics
)

// Hex represents a single tile on the world map. Terrain is the kernel's
// own Terrain kind; Ocean and River are geography-only flags that never
// reach the kernel — oceans never host a region or settlement, and a
// river shows up downstream only as richer yields and a better
// settlement site.
type Hex struct {
	Coord   HexCoord
	Terrain kernel.Terrain
	Ocean   bool
	River   bool

	Resources map[ResourceType]float64

	Elevation float64
	Fertility float64
	Warmth    float64
}

// Map holds the complete hex grid world state.
type Map struct {
	Hexes  map[HexCoord]*Hex
	Radius int
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return Distance(coord, HexCoord{}) <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// allCoords returns every in-bounds coordinate in row-major (r, then q)
// order — the one iteration order every pass over the grid uses, so the
// generator never ranges over the hex map directly.
func (m *Map) allCoords() []HexCoord {
	coords := make([]HexCoord, 0, m.HexCount())
	for r := -m.Radius; r <= m.Radius; r++ {
		for q := -m.Radius; q <= m.Radius; q++ {
			c := HexCoord{Q: q, R: r}
			if m.InBounds(c) {
				coords = append(coords, c)
			}
		}
	}
	return coords
}

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius       int
	Seed         int64
	SeaLevel     float64 // dome-shaped elevation below which a hex is ocean
	PeakLevel    float64 // elevation above which a hex is mountains
	BiomeCenters int     // lowland climate patches scattered over the map
	RiverCount   int
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:       20,
		Seed:         1,
		SeaLevel:     0.30,
		PeakLevel:    0.78,
		BiomeCenters: 6,
		RiverCount:   4,
	}
}

// smallGenConfig returns a tiny world for rapid iteration in tests.
func smallGenConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Radius = 6
	cfg.Seed = 42
	cfg.BiomeCenters = 4
	cfg.RiverCount = 2
	return cfg
}

// biomeCenter is one climate patch seed: lowland hexes belong to
// whichever center is nearest after border jitter.
type biomeCenter struct {
	x, y    float64
	terrain kernel.Terrain
}

// generateMap creates a complete hex map with terrain and resources.
func generateMap(cfg GenConfig) *Map {
	relief := opensimplex.NewNormalized(cfg.Seed)
	soil := opensimplex.NewNormalized(cfg.Seed ^ 0x5eed)
	jitter := opensimplex.NewNormalized(cfg.Seed ^ 0x0b10)

	m := NewMap(cfg.Radius)
	radius := float64(cfg.Radius)

	for _, coord := range m.allCoords() {
		x, y := coord.center()

		// One relief field shaped by a cosine continental dome: the dome
		// scales the whole field, so the rim always drowns and the high
		// ground gathers toward the middle.
		dist := math.Sqrt(x*x+y*y) / radius
		if dist > 1 {
			dist = 1
		}
		dome := math.Cos(dist * math.Pi / 2)
		elev := dome * (0.4 + 0.6*fractalNoise(relief, x, y, radius))

		// Warmth follows latitude, cooled a little by altitude.
		latitude := math.Abs(y) / radius
		warmth := clampUnit(0.9 - 0.7*latitude - 0.25*elev)

		m.Set(&Hex{
			Coord:     coord,
			Ocean:     elev < cfg.SeaLevel,
			Elevation: elev,
			Fertility: fractalNoise(soil, x+37, y-11, radius),
			Warmth:    warmth,
		})
	}

	centers := scatterBiomeCenters(m, cfg)
	for _, coord := range m.allCoords() {
		hex := m.Get(coord)
		hex.Terrain = classifyHex(m, hex, centers, jitter, cfg)
	}
	carveRivers(m, cfg)
	for _, coord := range m.allCoords() {
		hex := m.Get(coord)
		hex.Resources = resourceYields(hex)
	}
	return m
}

// fractalNoise layers three octaves of simplex noise, coarse to fine,
// scaled so a full octave spans roughly a third of the map.
func fractalNoise(noise opensimplex.Noise, x, y, radius float64) float64 {
	base := 1.5 / radius
	return 0.60*noise.Eval2(x*base, y*base) +
		0.28*noise.Eval2(x*base*3, y*base*3) +
		0.12*noise.Eval2(x*base*7, y*base*7)
}

// scatterBiomeCenters drops cfg.BiomeCenters climate patches on a ring
// around the map's middle third, each assigned a lowland terrain by its
// latitude and a seeded humidity coin.
func scatterBiomeCenters(m *Map, cfg GenConfig) []biomeCenter {
	rng := rand.New(rand.NewSource(cfg.Seed ^ 0xb10e))
	radius := float64(cfg.Radius)

	n := cfg.BiomeCenters
	if n < 2 {
		n = 2
	}
	centers := make([]biomeCenter, 0, n)
	for i := 0; i < n; i++ {
		// Even angular spread with a jittered ring distance keeps patches
		// from clumping while staying seed-driven.
		angle := (float64(i)+rng.Float64()*0.6)*2*math.Pi/float64(n) + rng.Float64()*0.3
		ring := radius * (0.25 + 0.45*rng.Float64())
		x := math.Cos(angle) * ring
		y := math.Sin(angle) * ring

		humid := rng.Float64() < 0.5
		latitude := math.Abs(y) / radius
		var terrain kernel.Terrain
		switch {
		case latitude > 0.62:
			terrain = kernel.TerrainTundra
		case latitude < 0.22 && humid:
			terrain = kernel.TerrainJungle
		case latitude < 0.22:
			terrain = kernel.TerrainDesert
		case humid:
			terrain = kernel.TerrainForest
		default:
			terrain = kernel.TerrainPlains
		}
		centers = append(centers, biomeCenter{x: x, y: y, terrain: terrain})
	}
	return centers
}

// classifyHex assigns terrain in order of precedence: ocean, highlands
// (mountains ringed by hills), shoreline, wetland basins, then the
// nearest biome patch.
func classifyHex(m *Map, hex *Hex, centers []biomeCenter, jitter opensimplex.Noise, cfg GenConfig) kernel.Terrain {
	if hex.Ocean {
		return kernel.TerrainOther
	}
	if hex.Elevation > cfg.PeakLevel {
		return kernel.TerrainMountains
	}
	if hex.Elevation > cfg.PeakLevel-0.09 {
		return kernel.TerrainHills
	}
	if bordersOcean(m, hex.Coord) {
		return kernel.TerrainCoast
	}
	// Low wet basins pool into swamp regardless of the nearest patch.
	if hex.Elevation < cfg.SeaLevel+0.07 && hex.Fertility > 0.72 {
		return kernel.TerrainSwamp
	}

	// Displace the hex's sample point before measuring patch distances:
	// straight Voronoi borders come out ragged instead of ruler-drawn.
	x, y := hex.Coord.center()
	amp := float64(cfg.Radius) * 0.2
	jx := x + (jitter.Eval2(x*0.35, y*0.35)-0.5)*amp
	jy := y + (jitter.Eval2(x*0.35+61, y*0.35-23)-0.5)*amp
	best := centers[0].terrain
	bestDist := math.Inf(1)
	for _, c := range centers {
		d := math.Hypot(jx-c.x, jy-c.y)
		if d < bestDist {
			bestDist = d
			best = c.terrain
		}
	}
	// A tundra patch cannot reach into genuinely hot ground, nor desert
	// into the cold.
	if best == kernel.TerrainTundra && hex.Warmth > 0.6 {
		return kernel.TerrainPlains
	}
	if (best == kernel.TerrainDesert || best == kernel.TerrainJungle) && hex.Warmth < 0.35 {
		return kernel.TerrainPlains
	}
	return best
}

func bordersOcean(m *Map, coord HexCoord) bool {
	for _, nc := range coord.Neighbors() {
		if nh := m.Get(nc); nh != nil && nh.Ocean {
			return true
		}
	}
	return false
}

// carveRivers runs cfg.RiverCount rivers from the highest ground of
// evenly split angular sectors down to the nearest shore. Each river
// steps toward its mouth rather than chasing the local gradient, so a
// river never strands itself in an inland pit.
func carveRivers(m *Map, cfg GenConfig) {
	if cfg.RiverCount <= 0 {
		return
	}
	coords := m.allCoords()

	mouths := make([]HexCoord, 0)
	for _, c := range coords {
		if !m.Get(c).Ocean && bordersOcean(m, c) {
			mouths = append(mouths, c)
		}
	}
	if len(mouths) == 0 {
		return
	}

	for sector := 0; sector < cfg.RiverCount; sector++ {
		lo := -math.Pi + float64(sector)*2*math.Pi/float64(cfg.RiverCount)
		hi := lo + 2*math.Pi/float64(cfg.RiverCount)

		// Source: the highest non-ocean hex whose bearing falls in this
		// sector.
		var source HexCoord
		sourceElev := -1.0
		for _, c := range coords {
			hex := m.Get(c)
			if hex.Ocean {
				continue
			}
			x, y := c.center()
			bearing := math.Atan2(y, x)
			if bearing < lo || bearing >= hi {
				continue
			}
			if hex.Elevation > sourceElev {
				source, sourceElev = c, hex.Elevation
			}
		}
		if sourceElev < 0 {
			continue
		}

		mouth := nearestCoord(mouths, source)
		for current := source; ; {
			hex := m.Get(current)
			if hex == nil || hex.Ocean {
				break
			}
			if hex.Terrain != kernel.TerrainMountains && hex.Terrain != kernel.TerrainCoast {
				hex.River = true
			}
			if current == mouth {
				break
			}
			// Step to the neighbor closest to the mouth; lower ground breaks
			// ties so the channel hugs valleys where it can. Every step
			// either closes distance or drops elevation at equal distance,
			// so the walk cannot cycle.
			next := current
			bestDist, bestElev := Distance(current, mouth), hex.Elevation
			for _, nc := range current.Neighbors() {
				nh := m.Get(nc)
				if nh == nil {
					continue
				}
				d := Distance(nc, mouth)
				if d < bestDist || (d == bestDist && nh.Elevation < bestElev) {
					next, bestDist, bestElev = nc, d, nh.Elevation
				}
			}
			if next == current {
				break
			}
			current = next
		}
	}
}

func nearestCoord(candidates []HexCoord, from HexCoord) HexCoord {
	best := candidates[0]
	bestDist := Distance(from, best)
	for _, c := range candidates[1:] {
		if d := Distance(from, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// terrainYields is the base resource affinity of each terrain; actual
// yields scale with the hex's soil fertility, and a river sweetens both
// food yields.
var terrainYields = map[kernel.Terrain]map[ResourceType]float64{
	kernel.TerrainPlains:    {ResourceGrain: 70},
	kernel.TerrainCoast:     {ResourceFish: 65, ResourceGrain: 25},
	kernel.TerrainForest:    {ResourceTimber: 75, ResourceFurs: 25, ResourceHerbs: 20},
	kernel.TerrainJungle:    {ResourceTimber: 55, ResourceHerbs: 45, ResourceExotics: 15},
	kernel.TerrainHills:     {ResourceStone: 55, ResourceIronOre: 35, ResourceGrain: 20},
	kernel.TerrainMountains: {ResourceStone: 70, ResourceIronOre: 45, ResourceCoal: 30, ResourceGems: 12},
	kernel.TerrainSwamp:     {ResourceHerbs: 50, ResourceExotics: 10},
	kernel.TerrainTundra:    {ResourceFurs: 45},
	kernel.TerrainDesert:    {ResourceStone: 25, ResourceGems: 10},
}

func resourceYields(hex *Hex) map[ResourceType]float64 {
	res := make(map[ResourceType]float64)
	if hex.Ocean {
		return res
	}
	scale := 0.6 + 0.8*hex.Fertility
	for rt, base := range terrainYields[hex.Terrain] {
		res[rt] = base * scale
	}
	if hex.River {
		res[ResourceFish] += 35
		res[ResourceGrain] += 25 * scale
	}
	return res
}

// SettlementSeed holds the parameters for an initial settlement placement.
type SettlementSeed struct {
	Coord HexCoord
	Size  SettlementSize
	Score float64
	Name  string
}

// SettlementSize categorizes settlement scale.
type SettlementSize uint8

const (
	SizeVillage SettlementSize = iota
	SizeTown
	SizeCity
)

// Settlement density and spacing: counts grow with habitable area
// instead of being rolled, and a site's size follows how its
// habitability compares to the best site found.
const (
	hexesPerCity    = 90
	hexesPerTown    = 26
	hexesPerVillage = 9
	minCities       = 2

	citySpacing    = 7
	townSpacing    = 3
	villageSpacing = 2

	cityScoreShare = 0.8
	townScoreShare = 0.55
)

// PlaceSettlements chooses settlement sites by habitability: every land
// hex is scored, the best site anchors the scale, and sites are taken
// greedily best-first with a spacing that shrinks as the prospective
// settlement does. Returns seeds in placement (best-first) order.
func PlaceSettlements(m *Map, seed int64) []SettlementSeed {
	type site struct {
		coord HexCoord
		score float64
	}
	var sites []site
	land := 0
	for _, coord := range m.allCoords() {
		hex := m.Get(coord)
		if hex.Ocean {
			continue
		}
		land++
		if s := habitability(m, hex); s > 0 {
			sites = append(sites, site{coord, s})
		}
	}
	if len(sites) == 0 {
		return nil
	}
	// Score-descending, coordinate-ascending on ties: the sort alone
	// decides placement, so candidate collection order never matters.
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].score != sites[j].score {
			return sites[i].score > sites[j].score
		}
		if sites[i].coord.R != sites[j].coord.R {
			return sites[i].coord.R < sites[j].coord.R
		}
		return sites[i].coord.Q < sites[j].coord.Q
	})

	cityBudget := land / hexesPerCity
	if cityBudget < minCities {
		cityBudget = minCities
	}
	townBudget := land / hexesPerTown
	villageBudget := land / hexesPerVillage
	bestScore := sites[0].score

	var seeds []SettlementSeed
	cities := 0
	for _, s := range sites {
		// Try the largest charter the site's score and the budgets allow,
		// stepping down when the neighborhood is already claimed — a site
		// crowded out of a city ring can still seat a town or village.
		for _, size := range []SettlementSize{SizeCity, SizeTown, SizeVillage} {
			switch size {
			case SizeCity:
				// The first minCities spaced sites seat cities whatever
				// their share — a world needs capitals even when one site
				// towers over the rest.
				if cityBudget == 0 || (cities >= minCities && s.score < bestScore*cityScoreShare) {
					continue
				}
			case SizeTown:
				if townBudget == 0 || s.score < bestScore*townScoreShare {
					continue
				}
			default:
				if villageBudget == 0 {
					continue
				}
			}
			if crowded(s.coord, size, seeds) {
				continue
			}
			seeds = append(seeds, SettlementSeed{Coord: s.coord, Size: size, Score: s.score})
			switch size {
			case SizeCity:
				cities++
				cityBudget--
			case SizeTown:
				townBudget--
			default:
				villageBudget--
			}
			break
		}
		if cityBudget == 0 && townBudget == 0 && villageBudget == 0 {
			break
		}
	}

	namer := newNamer(seed)
	for i := range seeds {
		seeds[i].Name = namer.next()
	}
	return seeds
}

// habitability scores a hex as a place to live: food on the ground,
// water within reach, comfortable warmth, and defensible but workable
// terrain.
func habitability(m *Map, hex *Hex) float64 {
	if hex.Ocean || hex.Terrain == kernel.TerrainMountains {
		return 0
	}

	food := hex.Resources[ResourceGrain] + hex.Resources[ResourceFish]
	score := food / 40

	switch hex.Terrain {
	case kernel.TerrainCoast:
		score += 2.5
	case kernel.TerrainPlains:
		score += 2.0
	case kernel.TerrainHills:
		score += 1.2
	case kernel.TerrainForest, kernel.TerrainJungle:
		score += 1.0
	case kernel.TerrainSwamp, kernel.TerrainTundra, kernel.TerrainDesert:
		score += 0.2
	}

	if hex.River {
		score += 2.0
	} else {
		for _, nc := range hex.Coord.Neighbors() {
			if nh := m.Get(nc); nh != nil && (nh.River || nh.Ocean) {
				score += 0.8
				break
			}
		}
	}

	// Comfort peaks in a temperate band and falls off toward either
	// extreme.
	score += 1.5 * (1 - math.Abs(hex.Warmth-0.55)*2)

	return score
}

// crowded reports whether an existing seed sits inside the spacing ring
// a settlement of this size demands.
func crowded(coord HexCoord, size SettlementSize, seeds []SettlementSeed) bool {
	spacing := villageSpacing
	switch size {
	case SizeCity:
		spacing = citySpacing
	case SizeTown:
		spacing = townSpacing
	}
	for _, s := range seeds {
		if Distance(coord, s.Coord) < spacing {
			return true
		}
	}
	return false
}

// namer builds settlement names from syllables: a root, an optional
// bridge vowel, and a closing sound, deduplicated across the run.
type namer struct {
	rng  *rand.Rand
	used map[string]bool
}

var (
	nameRoots = []string{
		"Kael", "Vorn", "Ashe", "Bren", "Cind", "Druv", "Ethr", "Fenn",
		"Gorl", "Hask", "Ivar", "Jos", "Lorn", "Morv", "Nys", "Orth",
		"Pell", "Quil", "Rhov", "Sarn", "Tev", "Ulth", "Wyn", "Yor",
	}
	nameBridges = []string{"", "", "a", "e", "o", "i"}
	nameCodas   = []string{
		"mark", "strand", "garde", "lund", "spire", "hearth", "barrow",
		"run", "fen", "tor", "combe", "shaw", "holt", "mere", "gill",
		"thwaite", "scar", "ness", "firth", "rath", "dun", "cairn",
	}
)

func newNamer(seed int64) *namer {
	return &namer{
		rng:  rand.New(rand.NewSource(seed ^ 0x7a3e)),
		used: make(map[string]bool),
	}
}

func (n *namer) next() string {
	for {
		name := nameRoots[n.rng.Intn(len(nameRoots))] +
			nameBridges[n.rng.Intn(len(nameBridges))] +
			nameCodas[n.rng.Intn(len(nameCodas))]
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
