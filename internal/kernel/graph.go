package kernel

import (
	"golang.org/x/exp/slices"

	"github.com/kaelhaven/chronicle/internal/clock"
)

// edgeKey identifies a (source, target, kind) triple for the active-edge
// uniqueness invariant.
type edgeKey struct {
	source uint64
	target uint64
	kind   RelKind
}

// Graph is the time-bounded typed edge store. All mutations go through its
// write API, which keeps forward edges, the reverse index, and the
// symmetry invariant consistent.
type Graph struct {
	byID uint64
	rels map[uint64]*Relationship

	// outOrder preserves insertion order per source entity, so consumers
	// that want "relationships in insertion order, filtered to active"
	// get a stable sequence.
	outOrder map[uint64][]uint64 // source id -> relationship ids, insertion order

	// reverse maps (kind, target) -> relationship ids pointing at target,
	// insertion order, used by the hot-path queries Section 4.3 calls out.
	reverse map[RelKind]map[uint64][]uint64

	active map[edgeKey]uint64 // edgeKey -> relationship id, only while active
}

// NewGraph creates an empty relationship graph.
func NewGraph() *Graph {
	return &Graph{
		rels:     make(map[uint64]*Relationship),
		outOrder: make(map[uint64][]uint64),
		reverse:  make(map[RelKind]map[uint64][]uint64),
		active:   make(map[edgeKey]uint64),
	}
}

// ActiveEdge reports whether an active edge of kind exists between source
// and target, and returns it.
func (g *Graph) ActiveEdge(source, target uint64, kind RelKind) (*Relationship, bool) {
	id, ok := g.active[edgeKey{source, target, kind}]
	if !ok {
		return nil, false
	}
	return g.rels[id], true
}

// HasActive reports whether an active edge of kind exists between source
// and target.
func (g *Graph) HasActive(source, target uint64, kind RelKind) bool {
	_, ok := g.active[edgeKey{source, target, kind}]
	return ok
}

// Open creates a new active edge, enforcing the at-most-one-active
// invariant. It does not handle symmetric mirroring — callers that open a
// symmetric kind must call Open twice (forward and reverse) or use
// OpenSymmetric.
func (g *Graph) Open(source, target uint64, kind RelKind, at clock.Timestamp, causeEvent uint64) *Relationship {
	key := edgeKey{source, target, kind}
	if _, exists := g.active[key]; exists {
		panic("kernel: duplicate active edge opened for " + kind.String())
	}
	g.byID++
	rel := &Relationship{
		ID:         g.byID,
		Source:     source,
		Target:     target,
		Kind:       kind,
		Start:      at,
		CauseEvent: causeEvent,
	}
	g.rels[rel.ID] = rel
	g.outOrder[source] = append(g.outOrder[source], rel.ID)
	if g.reverse[kind] == nil {
		g.reverse[kind] = make(map[uint64][]uint64)
	}
	g.reverse[kind][target] = append(g.reverse[kind][target], rel.ID)
	g.active[key] = rel.ID
	return rel
}

// OpenSymmetric opens both directions of a symmetric kind atomically,
// sharing start and cause. Panics if kind is not
// symmetric.
func (g *Graph) OpenSymmetric(a, b uint64, kind RelKind, at clock.Timestamp, causeEvent uint64) (forward, reverse *Relationship) {
	if !kind.symmetric() {
		panic("kernel: OpenSymmetric called with a non-symmetric kind")
	}
	forward = g.Open(a, b, kind, at, causeEvent)
	reverse = g.Open(b, a, kind, at, causeEvent)
	return
}

// Close ends the active edge of kind between source and target, if one
// exists. Idempotent: closing an edge that is already closed or absent is
// a no-op, matching the applicator's "silently drop" policy.
func (g *Graph) Close(source, target uint64, kind RelKind, at clock.Timestamp) {
	key := edgeKey{source, target, kind}
	id, ok := g.active[key]
	if !ok {
		return
	}
	t := at
	g.rels[id].End = &t
	delete(g.active, key)
}

// CloseSymmetric closes both directions of a symmetric kind.
func (g *Graph) CloseSymmetric(a, b uint64, kind RelKind, at clock.Timestamp) {
	g.Close(a, b, kind, at)
	g.Close(b, a, kind, at)
}

// OutgoingActive iterates source's active outgoing edges of kind, in
// insertion order.
func (g *Graph) OutgoingActive(source uint64, kind RelKind, yield func(*Relationship) bool) {
	for _, id := range g.outOrder[source] {
		r := g.rels[id]
		if r.Kind.Equal(kind) && r.Active() {
			if !yield(r) {
				return
			}
		}
	}
}

// IncomingActive iterates entities with an active edge of kind pointing at
// target, in insertion order.
func (g *Graph) IncomingActive(target uint64, kind RelKind, yield func(*Relationship) bool) {
	for _, id := range g.reverse[kind][target] {
		r := g.rels[id]
		if r.Active() {
			if !yield(r) {
				return
			}
		}
	}
}

// IncomingAll iterates every edge of kind ever pointed at target, active
// or ended, in insertion order. Used for history queries like "who led
// this faction last".
func (g *Graph) IncomingAll(target uint64, kind RelKind, yield func(*Relationship) bool) {
	for _, id := range g.reverse[kind][target] {
		if !yield(g.rels[id]) {
			return
		}
	}
}

// EndEntityCascade ends all of entity's outgoing active edges of the
// lifecycle-coupled kinds (LocatedIn, MemberOf, Spouse, LeaderOf) at `at`,
// mirroring symmetric closes where applicable. Parent
// and Child edges are permanent and are left untouched.
func (g *Graph) EndEntityCascade(entity uint64, at clock.Timestamp) {
	for _, id := range append([]uint64(nil), g.outOrder[entity]...) {
		r := g.rels[id]
		if !r.Active() || !r.Kind.lifecycleCoupled() {
			continue
		}
		if r.Kind.symmetric() {
			g.CloseSymmetric(r.Source, r.Target, r.Kind, at)
		} else {
			g.Close(r.Source, r.Target, r.Kind, at)
		}
	}
}

// Get returns the relationship with the given id, or nil.
func (g *Graph) Get(id uint64) *Relationship {
	return g.rels[id]
}

// All iterates every relationship ever opened, active or ended, in
// ascending relationship-id order — the full timeline the persistence
// dump serializes.
func (g *Graph) All(yield func(*Relationship) bool) {
	for id := uint64(1); id <= g.byID; id++ {
		if r, ok := g.rels[id]; ok {
			if !yield(r) {
				return
			}
		}
	}
}

// AllActive iterates every currently active relationship in ascending
// relationship-id order.
func (g *Graph) AllActive(yield func(*Relationship) bool) {
	ids := make([]uint64, 0, len(g.active))
	for _, id := range g.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if !yield(g.rels[id]) {
			return
		}
	}
}

// BFS walks the graph over a single relationship kind, breadth-first from
// source, invoking goal on each visited node. It stops and returns the
// node the first time goal reports a match, along with the number of hops
// and the first step taken from source toward that node. Used for army
// movement toward enemy regions and retreat toward home.
func (g *Graph) BFS(source uint64, kind RelKind, goal func(uint64) bool) (found uint64, hops int, firstStep uint64, ok bool) {
	type frame struct {
		node  uint64
		hops  int
		first uint64
	}
	visited := map[uint64]bool{source: true}
	queue := []frame{{source, 0, 0}}

	if goal(source) {
		return source, 0, 0, true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbors := make([]uint64, 0)
		g.OutgoingActive(cur.node, kind, func(r *Relationship) bool {
			neighbors = append(neighbors, r.Target)
			return true
		})
		slices.Sort(neighbors)

		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true
			first := cur.first
			if cur.hops == 0 {
				first = n
			}
			if goal(n) {
				return n, cur.hops + 1, first, true
			}
			queue = append(queue, frame{n, cur.hops + 1, first})
		}
	}
	return 0, 0, 0, false
}
