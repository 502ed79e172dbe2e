package worldgen

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestHexCoordSDerivesFromQAndR(t *testing.T) {
	h := HexCoord{Q: 2, R: -3}
	if got := h.S(); got != 1 {
		t.Errorf("expected S() = -q-r = 1, got %d", got)
	}
}

func TestNeighborsReturnsSixAdjacentCoords(t *testing.T) {
	h := HexCoord{Q: 0, R: 0}
	neighbors := h.Neighbors()
	if len(neighbors) != 6 {
		t.Fatalf("expected 6 neighbors, got %d", len(neighbors))
	}
	for _, n := range neighbors {
		if Distance(h, n) != 1 {
			t.Errorf("expected every neighbor at distance 1, got %d for %+v", Distance(h, n), n)
		}
	}
}

func TestDistanceIsZeroForSameCoord(t *testing.T) {
	h := HexCoord{Q: 5, R: -2}
	if Distance(h, h) != 0 {
		t.Error("expected zero distance between identical coordinates")
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := HexCoord{Q: 3, R: -1}
	b := HexCoord{Q: -2, R: 4}
	if Distance(a, b) != Distance(b, a) {
		t.Error("expected hex distance to be symmetric")
	}
}

func TestDistanceMatchesKnownCase(t *testing.T) {
	a := HexCoord{Q: 0, R: 0}
	b := HexCoord{Q: 3, R: -3}
	if got := Distance(a, b); got != 3 {
		t.Errorf("expected distance 3 along a single axis, got %d", got)
	}
}

func TestNewMapStartsEmpty(t *testing.T) {
	m := NewMap(3)
	if m.HexCount() != 0 {
		t.Errorf("expected a new map to start empty, got %d hexes", m.HexCount())
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	m := NewMap(3)
	coord := HexCoord{Q: 1, R: 1}
	hex := &Hex{Coord: coord, Terrain: kernel.TerrainForest}
	m.Set(hex)

	if got := m.Get(coord); got != hex {
		t.Errorf("expected Get to return the hex just Set, got %+v", got)
	}
	if m.HexCount() != 1 {
		t.Errorf("expected one hex counted, got %d", m.HexCount())
	}
}

func TestGetReturnsNilForMissingHex(t *testing.T) {
	m := NewMap(3)
	if got := m.Get(HexCoord{Q: 9, R: 9}); got != nil {
		t.Errorf("expected nil for an unset coordinate, got %+v", got)
	}
}

func TestInBoundsRespectsRadius(t *testing.T) {
	m := NewMap(2)
	if !m.InBounds(HexCoord{Q: 2, R: 0}) {
		t.Error("expected a coordinate exactly at the radius to be in bounds")
	}
	if m.InBounds(HexCoord{Q: 3, R: 0}) {
		t.Error("expected a coordinate beyond the radius to be out of bounds")
	}
	if !m.InBounds(HexCoord{Q: 0, R: 0}) {
		t.Error("expected the origin to always be in bounds")
	}
}

func TestAllCoordsCoversTheGridOnce(t *testing.T) {
	m := NewMap(2)
	coords := m.allCoords()
	// Radius R holds 3R^2 + 3R + 1 hexes.
	if len(coords) != 19 {
		t.Fatalf("expected 19 coordinates at radius 2, got %d", len(coords))
	}
	seen := make(map[HexCoord]bool)
	for _, c := range coords {
		if !m.InBounds(c) {
			t.Errorf("expected only in-bounds coordinates, got %+v", c)
		}
		if seen[c] {
			t.Errorf("expected each coordinate once, saw %+v twice", c)
		}
		seen[c] = true
	}
}

func TestGenerateMapIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := smallGenConfig()
	a := generateMap(cfg)
	b := generateMap(cfg)

	if a.HexCount() != b.HexCount() {
		t.Fatalf("expected identical hex counts for the same seed, got %d vs %d", a.HexCount(), b.HexCount())
	}
	for coord, hexA := range a.Hexes {
		hexB := b.Get(coord)
		if hexB == nil || hexA.Terrain != hexB.Terrain || hexA.Ocean != hexB.Ocean || hexA.River != hexB.River {
			t.Fatalf("expected identical terrain at %+v for the same seed", coord)
		}
	}
}

func TestGenerateMapProducesOnlyInBoundsHexes(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)
	if m.HexCount() == 0 {
		t.Fatal("expected a populated map")
	}
	for coord := range m.Hexes {
		if !m.InBounds(coord) {
			t.Errorf("expected every generated hex in bounds, got out-of-range %+v", coord)
		}
	}
}

func TestGenerateMapDrownsTheRim(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)
	// The cosine dome pulls the rim under the sea level: the map corners
	// along +q should be water.
	corner := m.Get(HexCoord{Q: cfg.Radius, R: 0})
	if corner == nil || !corner.Ocean {
		t.Error("expected the map rim drowned by the continental dome")
	}
	center := m.Get(HexCoord{})
	if center == nil || center.Ocean {
		t.Error("expected dry land at the map center")
	}
}

func TestClassifyHexPrecedence(t *testing.T) {
	cfg := smallGenConfig()
	m := NewMap(cfg.Radius)
	centers := []biomeCenter{{x: 0, y: 0, terrain: kernel.TerrainForest}}
	jitter := flatNoise{}

	ocean := &Hex{Coord: HexCoord{}, Ocean: true}
	if got := classifyHex(m, ocean, centers, jitter, cfg); got != kernel.TerrainOther {
		t.Errorf("expected ocean hexes left out of the kernel terrain set, got %v", got)
	}

	peak := &Hex{Coord: HexCoord{}, Elevation: cfg.PeakLevel + 0.05}
	if got := classifyHex(m, peak, centers, jitter, cfg); got != kernel.TerrainMountains {
		t.Errorf("expected mountains above the peak level, got %v", got)
	}

	shoulder := &Hex{Coord: HexCoord{}, Elevation: cfg.PeakLevel - 0.05}
	if got := classifyHex(m, shoulder, centers, jitter, cfg); got != kernel.TerrainHills {
		t.Errorf("expected hills on the mountain shoulder, got %v", got)
	}

	basin := &Hex{Coord: HexCoord{}, Elevation: cfg.SeaLevel + 0.02, Fertility: 0.9, Warmth: 0.5}
	if got := classifyHex(m, basin, centers, jitter, cfg); got != kernel.TerrainSwamp {
		t.Errorf("expected a low wet basin to pool into swamp, got %v", got)
	}

	lowland := &Hex{Coord: HexCoord{}, Elevation: 0.5, Fertility: 0.5, Warmth: 0.5}
	if got := classifyHex(m, lowland, centers, jitter, cfg); got != kernel.TerrainForest {
		t.Errorf("expected plain lowland claimed by the nearest biome patch, got %v", got)
	}
}

func TestClassifyHexCoastNeedsAnOceanNeighbor(t *testing.T) {
	cfg := smallGenConfig()
	m := NewMap(cfg.Radius)
	coord := HexCoord{Q: 1, R: 0}
	m.Set(&Hex{Coord: HexCoord{Q: 0, R: 0}, Ocean: true})
	land := &Hex{Coord: coord, Elevation: 0.5, Warmth: 0.5}
	m.Set(land)

	centers := []biomeCenter{{terrain: kernel.TerrainPlains}}
	if got := classifyHex(m, land, centers, flatNoise{}, cfg); got != kernel.TerrainCoast {
		t.Errorf("expected a shore hex classified as coast, got %v", got)
	}
}

func TestClassifyHexClimateGuards(t *testing.T) {
	cfg := smallGenConfig()
	m := NewMap(cfg.Radius)
	tundraPatch := []biomeCenter{{terrain: kernel.TerrainTundra}}
	hot := &Hex{Coord: HexCoord{}, Elevation: 0.5, Warmth: 0.9}
	if got := classifyHex(m, hot, tundraPatch, flatNoise{}, cfg); got != kernel.TerrainPlains {
		t.Errorf("expected hot ground to refuse a tundra patch, got %v", got)
	}

	desertPatch := []biomeCenter{{terrain: kernel.TerrainDesert}}
	cold := &Hex{Coord: HexCoord{}, Elevation: 0.5, Warmth: 0.1}
	if got := classifyHex(m, cold, desertPatch, flatNoise{}, cfg); got != kernel.TerrainPlains {
		t.Errorf("expected cold ground to refuse a desert patch, got %v", got)
	}
}

// flatNoise satisfies opensimplex.Noise with a constant field, removing
// border jitter from classification tests.
type flatNoise struct{}

func (flatNoise) Eval2(x, y float64) float64       { return 0.5 }
func (flatNoise) Eval3(x, y, z float64) float64    { return 0.5 }
func (flatNoise) Eval4(x, y, z, w float64) float64 { return 0.5 }

func TestScatterBiomeCentersHonorsCount(t *testing.T) {
	cfg := smallGenConfig()
	cfg.BiomeCenters = 5
	m := NewMap(cfg.Radius)
	centers := scatterBiomeCenters(m, cfg)
	if len(centers) != 5 {
		t.Fatalf("expected 5 biome centers, got %d", len(centers))
	}
	for _, c := range centers {
		if c.terrain == kernel.TerrainMountains || c.terrain == kernel.TerrainCoast {
			t.Errorf("expected only lowland terrains as biome patches, got %v", c.terrain)
		}
	}
}

func TestCarveRiversEndAtTheShore(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)

	riverHexes := 0
	shoreTouch := false
	for _, coord := range m.allCoords() {
		hex := m.Get(coord)
		if !hex.River {
			continue
		}
		riverHexes++
		// A river's last flagged hex sits against its coast-terrain mouth
		// (coast hexes themselves are never flagged).
		for _, nc := range coord.Neighbors() {
			if nh := m.Get(nc); nh != nil && (nh.Ocean || nh.Terrain == kernel.TerrainCoast) {
				shoreTouch = true
			}
		}
	}
	if riverHexes == 0 {
		t.Fatal("expected at least one river hex on a generated map")
	}
	if !shoreTouch {
		t.Error("expected some river hex to reach the shore")
	}
}

func TestResourceYieldsScaleWithFertility(t *testing.T) {
	poor := &Hex{Terrain: kernel.TerrainPlains, Fertility: 0.0}
	rich := &Hex{Terrain: kernel.TerrainPlains, Fertility: 1.0}
	if resourceYields(poor)[ResourceGrain] >= resourceYields(rich)[ResourceGrain] {
		t.Error("expected richer soil to yield more grain")
	}

	ocean := &Hex{Ocean: true}
	if len(resourceYields(ocean)) != 0 {
		t.Error("expected no yields from open water")
	}

	river := &Hex{Terrain: kernel.TerrainTundra, River: true, Fertility: 0.5}
	if resourceYields(river)[ResourceFish] == 0 {
		t.Error("expected a river hex to yield fish regardless of terrain")
	}
}

func TestHabitabilityZeroOnOceanAndMountains(t *testing.T) {
	m := NewMap(2)
	ocean := &Hex{Coord: HexCoord{}, Ocean: true}
	if got := habitability(m, ocean); got != 0 {
		t.Errorf("expected zero habitability on water, got %f", got)
	}
	peak := &Hex{Coord: HexCoord{}, Terrain: kernel.TerrainMountains}
	if got := habitability(m, peak); got != 0 {
		t.Errorf("expected zero habitability on a peak, got %f", got)
	}
}

func TestHabitabilityPrefersWateredCoastOverDesert(t *testing.T) {
	m := NewMap(2)
	coast := &Hex{
		Coord: HexCoord{Q: 0, R: 0}, Terrain: kernel.TerrainCoast, Warmth: 0.55,
		Resources: map[ResourceType]float64{ResourceFish: 65},
	}
	desert := &Hex{
		Coord: HexCoord{Q: 1, R: 0}, Terrain: kernel.TerrainDesert, Warmth: 0.9,
		Resources: map[ResourceType]float64{},
	}
	m.Set(coast)
	m.Set(desert)

	if habitability(m, coast) <= habitability(m, desert) {
		t.Error("expected a watered coast to outscore open desert")
	}
}

func TestCrowdedUsesSizeSpacing(t *testing.T) {
	seeds := []SettlementSeed{{Coord: HexCoord{Q: 0, R: 0}, Size: SizeCity}}
	near := HexCoord{Q: citySpacing - 1, R: 0}
	if !crowded(near, SizeCity, seeds) {
		t.Error("expected a city inside another city's spacing ring to be crowded")
	}
	if crowded(near, SizeVillage, seeds) {
		t.Error("expected a village to tolerate a nearer neighbor than a city would")
	}
	far := HexCoord{Q: citySpacing, R: 0}
	if crowded(far, SizeCity, seeds) {
		t.Error("expected a coordinate at the spacing ring's edge to be allowed")
	}
}

func TestPlaceSettlementsProducesSpacedUniqueSeeds(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)
	seeds := PlaceSettlements(m, cfg.Seed)
	if len(seeds) == 0 {
		t.Fatal("expected at least one settlement seed")
	}

	seen := make(map[HexCoord]bool)
	names := make(map[string]bool)
	for _, s := range seeds {
		if seen[s.Coord] {
			t.Errorf("expected no duplicate settlement coordinates, saw %+v twice", s.Coord)
		}
		seen[s.Coord] = true
		if s.Name == "" {
			t.Error("expected every seed named")
		}
		if names[s.Name] {
			t.Errorf("expected unique settlement names, saw %q twice", s.Name)
		}
		names[s.Name] = true
		if m.Get(s.Coord).Ocean {
			t.Errorf("expected no settlement on water at %+v", s.Coord)
		}
	}
}

func TestPlaceSettlementsGuaranteesCities(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)
	seeds := PlaceSettlements(m, cfg.Seed)

	cities := 0
	for _, s := range seeds {
		if s.Size == SizeCity {
			cities++
		}
	}
	// Generate panics without a city to seed factions from, so at least
	// one must always survive spacing, whatever the map.
	if cities < 1 {
		t.Error("expected at least one city on any generated map")
	}
}

func TestPlaceSettlementsBestSiteAnchorsTheScale(t *testing.T) {
	cfg := smallGenConfig()
	m := generateMap(cfg)
	seeds := PlaceSettlements(m, cfg.Seed)

	if seeds[0].Size != SizeCity {
		t.Error("expected the best-scoring site to seat a city")
	}
	for i := 1; i < len(seeds); i++ {
		if seeds[i].Score > seeds[i-1].Score {
			t.Fatal("expected seeds in best-first placement order")
		}
	}
}

func TestNamerProducesUniqueNonEmptyNames(t *testing.T) {
	n := newNamer(1)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := n.next()
		if name == "" {
			t.Fatal("expected no empty names")
		}
		if seen[name] {
			t.Fatalf("expected unique names, saw %q twice", name)
		}
		seen[name] = true
	}
}
