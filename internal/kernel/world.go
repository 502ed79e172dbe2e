package kernel

import (
	"golang.org/x/exp/slices"

	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/idgen"
	"github.com/kaelhaven/chronicle/internal/rng"
)

// World owns every piece of kernel state exclusively during a tick (spec
// Section 5, "Shared resource policy"). Systems receive a *World and a
// read-only view of the signal inbox; they enqueue commands and signals
// rather than mutating it directly.
type World struct {
	Clock *clock.Clock
	Ids   *idgen.IdGen
	RNG   *rng.Stream

	Store *Store
	Graph *Graph
	Log   *Log
	Bus   *Bus
	Queue *Queue
}

// NewWorld creates an empty kernel ready for worldgen to populate.
func NewWorld(seed int64, idBase uint64) *World {
	return &World{
		Clock: clock.NewClock(),
		Ids:   idgen.New(idBase),
		RNG:   rng.New(seed),
		Store: NewStore(),
		Graph: NewGraph(),
		Log:   NewLog(),
		Bus:   NewBus(),
		Queue: NewQueue(),
	}
}

// Faction returns the faction attributes for an id, or nil if the entity
// is absent, not a Faction, or ended.
func (w *World) Faction(id uint64) (*Entity, *FactionAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindFaction || !e.Alive() {
		return nil, nil
	}
	return e, e.Attrs.(*FactionAttrs)
}

// Settlement returns the settlement attributes for an id.
func (w *World) Settlement(id uint64) (*Entity, *SettlementAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindSettlement || !e.Alive() {
		return nil, nil
	}
	return e, e.Attrs.(*SettlementAttrs)
}

// Army returns the army attributes for an id.
func (w *World) Army(id uint64) (*Entity, *ArmyAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindArmy || !e.Alive() {
		return nil, nil
	}
	return e, e.Attrs.(*ArmyAttrs)
}

// Person returns the person attributes for an id.
func (w *World) Person(id uint64) (*Entity, *PersonAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindPerson || !e.Alive() {
		return nil, nil
	}
	return e, e.Attrs.(*PersonAttrs)
}

// Region returns the region attributes for an id.
func (w *World) Region(id uint64) (*Entity, *RegionAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindRegion {
		return nil, nil
	}
	return e, e.Attrs.(*RegionAttrs)
}

// LivingFactionIDs returns every living, id-ordered faction id. Plain
// slice, never a map, so callers iterate deterministically).
func (w *World) LivingFactionIDs() []uint64 {
	var ids []uint64
	w.Store.OfKind(KindFaction, func(e *Entity) bool {
		ids = append(ids, e.ID)
		return true
	})
	return ids
}

// LivingSettlementIDs returns every living, id-ordered settlement id.
func (w *World) LivingSettlementIDs() []uint64 {
	var ids []uint64
	w.Store.OfKind(KindSettlement, func(e *Entity) bool {
		ids = append(ids, e.ID)
		return true
	})
	return ids
}

// LivingArmyIDs returns every living, id-ordered army id.
func (w *World) LivingArmyIDs() []uint64 {
	var ids []uint64
	w.Store.OfKind(KindArmy, func(e *Entity) bool {
		ids = append(ids, e.ID)
		return true
	})
	return ids
}

// FactionSettlements returns the settlements currently belonging to a
// faction, via the MemberOf reverse index, id-ordered.
func (w *World) FactionSettlements(factionID uint64) []uint64 {
	var ids []uint64
	w.Graph.IncomingActive(factionID, MemberOf, func(r *Relationship) bool {
		if e := w.Store.Get(r.Source); e != nil && e.Kind == KindSettlement && e.Alive() {
			ids = append(ids, r.Source)
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// FactionMembers returns every living person whose MemberOf points at
// factionID, id-ordered.
func (w *World) FactionMembers(factionID uint64) []uint64 {
	var ids []uint64
	w.Graph.IncomingActive(factionID, MemberOf, func(r *Relationship) bool {
		if e := w.Store.Get(r.Source); e != nil && e.Kind == KindPerson && e.Alive() {
			ids = append(ids, r.Source)
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// SettlementsInRegion returns settlements with an active LocatedIn edge to
// regionID, id-ordered.
func (w *World) SettlementsInRegion(regionID uint64) []uint64 {
	var ids []uint64
	w.Graph.IncomingActive(regionID, LocatedIn, func(r *Relationship) bool {
		if e := w.Store.Get(r.Source); e != nil && e.Kind == KindSettlement && e.Alive() {
			ids = append(ids, r.Source)
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// ArmiesInRegion returns living armies with an active LocatedIn edge to
// regionID, id-ordered.
func (w *World) ArmiesInRegion(regionID uint64) []uint64 {
	var ids []uint64
	w.Graph.IncomingActive(regionID, LocatedIn, func(r *Relationship) bool {
		if e := w.Store.Get(r.Source); e != nil && e.Kind == KindArmy && e.Alive() {
			ids = append(ids, r.Source)
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// ArmyRegion returns the region id an army is currently LocatedIn, or 0.
func (w *World) ArmyRegion(armyID uint64) uint64 {
	var region uint64
	w.Graph.OutgoingActive(armyID, LocatedIn, func(r *Relationship) bool {
		region = r.Target
		return false
	})
	return region
}

// FactionLeader returns the living person with an active LeaderOf edge
// into factionID, or 0 if the faction currently has no leader.
func (w *World) FactionLeader(factionID uint64) uint64 {
	var leader uint64
	w.Graph.IncomingActive(factionID, LeaderOf, func(r *Relationship) bool {
		if e := w.Store.Get(r.Source); e != nil && e.Alive() {
			leader = r.Source
		}
		return true
	})
	return leader
}

// AtWar reports whether two factions have an active AtWar edge.
func (w *World) AtWar(a, b uint64) bool {
	return w.Graph.HasActive(a, b, AtWar)
}

// PersonFaction returns the faction a person is currently a member of, or
// 0 if none.
func (w *World) PersonFaction(personID uint64) uint64 {
	var faction uint64
	w.Graph.OutgoingActive(personID, MemberOf, func(r *Relationship) bool {
		if e := w.Store.Get(r.Target); e != nil && e.Kind == KindFaction {
			faction = r.Target
			return false
		}
		return true
	})
	return faction
}

// SettlementFaction returns the owning faction of a settlement, or 0.
func (w *World) SettlementFaction(settlementID uint64) uint64 {
	if _, sa := w.Settlement(settlementID); sa != nil {
		return sa.FactionID
	}
	return 0
}

// Children returns a person's children via Child edges, id-ordered.
// Genealogical edges are permanent, so dead children are included —
// callers that need living heirs filter themselves.
func (w *World) Children(personID uint64) []uint64 {
	var ids []uint64
	w.Graph.OutgoingActive(personID, Child, func(r *Relationship) bool {
		ids = append(ids, r.Target)
		return true
	})
	slices.Sort(ids)
	return ids
}

// Siblings returns every other child of a person's parents, id-ordered.
func (w *World) Siblings(personID uint64) []uint64 {
	var ids []uint64
	w.Graph.OutgoingActive(personID, Parent, func(r *Relationship) bool {
		for _, sib := range w.Children(r.Target) {
			if sib != personID && !slices.Contains(ids, sib) {
				ids = append(ids, sib)
			}
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// PreviousLeader returns the person whose LeaderOf edge into factionID
// ended most recently, or 0 if the faction never had a leader. Ties on
// end time break toward the lower relationship id.
func (w *World) PreviousLeader(factionID uint64) uint64 {
	var best uint64
	var bestEnd clock.Timestamp
	found := false
	w.Graph.IncomingAll(factionID, LeaderOf, func(r *Relationship) bool {
		if r.End == nil {
			return true
		}
		if !found || r.End.After(bestEnd) {
			best, bestEnd, found = r.Source, *r.End, true
		}
		return true
	})
	return best
}

// FindFactionArmy returns the faction's living army, or 0. A faction
// fields at most one army at a time; the lowest id wins if state ever
// drifts.
func (w *World) FindFactionArmy(factionID uint64) uint64 {
	for _, armyID := range w.LivingArmyIDs() {
		if _, aa := w.Army(armyID); aa != nil && aa.FactionID == factionID {
			return armyID
		}
	}
	return 0
}

// FactionRegions returns the distinct regions holding the faction's
// settlements, id-ordered.
func (w *World) FactionRegions(factionID uint64) []uint64 {
	var ids []uint64
	for _, s := range w.FactionSettlements(factionID) {
		if _, sa := w.Settlement(s); sa != nil && !slices.Contains(ids, sa.RegionID) {
			ids = append(ids, sa.RegionID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Religion returns the religion attributes for an id.
func (w *World) Religion(id uint64) (*Entity, *ReligionAttrs) {
	e := w.Store.Get(id)
	if e == nil || e.Kind != KindReligion || !e.Alive() {
		return nil, nil
	}
	return e, e.Attrs.(*ReligionAttrs)
}

// EnemyFactions returns every faction with an active AtWar edge from
// factionID, id-ordered.
func (w *World) EnemyFactions(factionID uint64) []uint64 {
	var ids []uint64
	w.Graph.OutgoingActive(factionID, AtWar, func(r *Relationship) bool {
		ids = append(ids, r.Target)
		return true
	})
	slices.Sort(ids)
	return ids
}
