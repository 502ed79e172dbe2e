package worldgen

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/config"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

func smallConfig() config.Config {
	c := config.Default()
	c.MapRadius = 6
	c.AdjacencyK = 3
	return c
}

func TestSettlementScaleOrdersByCitySize(t *testing.T) {
	villagePop, villageCap, villageFort := settlementScale(SizeVillage)
	townPop, townCap, townFort := settlementScale(SizeTown)
	cityPop, cityCap, cityFort := settlementScale(SizeCity)

	if !(villagePop < townPop && townPop < cityPop) {
		t.Errorf("expected population to scale village < town < city, got %d, %d, %d", villagePop, townPop, cityPop)
	}
	if !(villageCap < townCap && townCap < cityCap) {
		t.Errorf("expected capacity to scale village < town < city, got %d, %d, %d", villageCap, townCap, cityCap)
	}
	if villageFort > townFort || townFort > cityFort {
		t.Errorf("expected fort level to scale village <= town <= city, got %d, %d, %d", villageFort, townFort, cityFort)
	}
}

func TestResourceNameCoversKnownTypes(t *testing.T) {
	cases := map[ResourceType]string{
		ResourceGrain: "grain",
		ResourceFish:  "fish",
		ResourceGems:  "gems",
	}
	for in, want := range cases {
		if got := resourceName(in); got != want {
			t.Errorf("resourceName(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestResourceNameDefaultsToExotics(t *testing.T) {
	if got := resourceName(ResourceType(999)); got != "exotics" {
		t.Errorf("expected unknown resource type to default to exotics, got %q", got)
	}
}

func TestMakeCulturesCreatesFourDistinctCultures(t *testing.T) {
	w := kernel.NewWorld(1, 1)
	origin := clock.New(0, 0)
	ids := makeCultures(w, origin)

	if len(ids) != 4 {
		t.Fatalf("expected 4 cultures, got %d", len(ids))
	}
	seen := make(map[uint64]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("expected distinct culture ids, saw %d twice", id)
		}
		seen[id] = true

		e := w.Store.Get(id)
		if e == nil || e.Kind != kernel.KindCulture {
			t.Fatalf("expected a Culture entity for id %d, got %+v", id, e)
		}
		attrs, ok := e.Attrs.(*kernel.CultureAttrs)
		if !ok {
			t.Fatalf("expected CultureAttrs for id %d", id)
		}
		if attrs.Openness <= 0 || attrs.Militarism <= 0 || attrs.Tradition <= 0 {
			t.Errorf("expected positive culture attribute values, got %+v", attrs)
		}
	}
}

func TestMakeReligionsCreatesThreeReligionsWithNoAdherentsYet(t *testing.T) {
	w := kernel.NewWorld(1, 1)
	origin := clock.New(0, 0)
	ids := makeReligions(w, origin)

	if len(ids) != 3 {
		t.Fatalf("expected 3 religions, got %d", len(ids))
	}
	for _, id := range ids {
		e := w.Store.Get(id)
		if e == nil || e.Kind != kernel.KindReligion {
			t.Fatalf("expected a Religion entity for id %d, got %+v", id, e)
		}
		attrs, ok := e.Attrs.(*kernel.ReligionAttrs)
		if !ok {
			t.Fatalf("expected ReligionAttrs for id %d", id)
		}
		if attrs.Adherents != 0 {
			t.Errorf("expected a freshly created religion to start with zero adherents, got %d", attrs.Adherents)
		}
		if attrs.Fervor <= 0 {
			t.Errorf("expected positive fervor, got %f", attrs.Fervor)
		}
	}
}

func TestInstallInitialLeaderPicksOldestMember(t *testing.T) {
	w := kernel.NewWorld(1, 1)
	origin := clock.New(0, 0)

	factionID := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID:     factionID,
		Kind:   kernel.KindFaction,
		Name:   "Test Faction",
		Origin: origin,
		Attrs:  &kernel.FactionAttrs{},
	})

	younger := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: younger, Kind: kernel.KindPerson, Name: "Younger", Origin: origin,
		Attrs: &kernel.PersonAttrs{Age: 20, Claims: map[uint64]kernel.Claim{}, Grievances: map[uint64]float64{}},
	})
	w.Graph.Open(younger, factionID, kernel.MemberOf, origin, 0)

	elder := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: elder, Kind: kernel.KindPerson, Name: "Elder", Origin: origin,
		Attrs: &kernel.PersonAttrs{Age: 70, Claims: map[uint64]kernel.Claim{}, Grievances: map[uint64]float64{}},
	})
	w.Graph.Open(elder, factionID, kernel.MemberOf, origin, 0)

	installInitialLeader(w, origin, factionID)

	leader, ok := w.Graph.ActiveEdge(elder, factionID, kernel.LeaderOf)
	if !ok || leader == nil {
		t.Fatal("expected the elder member to be installed as leader")
	}
	if _, ok := w.Graph.ActiveEdge(younger, factionID, kernel.LeaderOf); ok {
		t.Error("expected the younger member to not be installed as leader")
	}
}

func TestInstallInitialLeaderNoopOnEmptyFaction(t *testing.T) {
	w := kernel.NewWorld(1, 1)
	origin := clock.New(0, 0)

	factionID := w.Ids.Next()
	w.Store.Insert(&kernel.Entity{
		ID: factionID, Kind: kernel.KindFaction, Name: "Empty Faction", Origin: origin,
		Attrs: &kernel.FactionAttrs{},
	})

	installInitialLeader(w, origin, factionID)

	w.Graph.IncomingActive(factionID, kernel.LeaderOf, func(r *kernel.Relationship) bool {
		t.Errorf("expected no leader edge for a faction with no members, got %+v", r)
		return true
	})
}

func TestGenerateProducesAtLeastOneFactionWithALeader(t *testing.T) {
	w := Generate(smallConfig())

	factionCount := 0
	w.Store.OfKind(kernel.KindFaction, func(e *kernel.Entity) bool {
		factionCount++
		hasLeader := false
		w.Graph.IncomingActive(e.ID, kernel.LeaderOf, func(r *kernel.Relationship) bool {
			hasLeader = true
			return false
		})
		if !hasLeader {
			t.Errorf("expected faction %d to have an installed leader", e.ID)
		}
		return true
	})

	if factionCount == 0 {
		t.Fatal("expected Generate to produce at least one faction")
	}
}

func TestGenerateEverySettlementHasALocationAndAnOwningFaction(t *testing.T) {
	w := Generate(smallConfig())

	w.Store.OfKind(kernel.KindSettlement, func(e *kernel.Entity) bool {
		hasLocation := false
		w.Graph.OutgoingActive(e.ID, kernel.LocatedIn, func(r *kernel.Relationship) bool {
			hasLocation = true
			return false
		})
		if !hasLocation {
			t.Errorf("expected settlement %d to have a LocatedIn edge", e.ID)
		}

		hasFaction := false
		w.Graph.OutgoingActive(e.ID, kernel.MemberOf, func(r *kernel.Relationship) bool {
			hasFaction = true
			return false
		})
		if !hasFaction {
			t.Errorf("expected settlement %d to belong to a faction", e.ID)
		}
		return true
	})
}

func TestGenerateRegionsHaveSymmetricAdjacency(t *testing.T) {
	w := Generate(smallConfig())

	w.Store.OfKind(kernel.KindRegion, func(a *kernel.Entity) bool {
		w.Graph.OutgoingActive(a.ID, kernel.AdjacentTo, func(r *kernel.Relationship) bool {
			if !w.Graph.HasActive(r.Target, a.ID, kernel.AdjacentTo) {
				t.Errorf("expected adjacency between %d and %d to be symmetric", a.ID, r.Target)
			}
			return true
		})
		return true
	})
}

func TestGenerateIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := smallConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	countKind := func(w *kernel.World, kind kernel.EntityKind) int {
		n := 0
		w.Store.OfKind(kind, func(e *kernel.Entity) bool { n++; return true })
		return n
	}

	for _, kind := range []kernel.EntityKind{kernel.KindRegion, kernel.KindSettlement, kernel.KindFaction, kernel.KindPerson, kernel.KindCulture, kernel.KindReligion} {
		if ca, cb := countKind(a, kind), countKind(b, kind); ca != cb {
			t.Errorf("expected identical entity counts for kind %v across identical seeds, got %d vs %d", kind, ca, cb)
		}
	}
}
