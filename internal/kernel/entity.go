// Package kernel implements the simulation's entity/relationship/event
// data model and the command/signal machinery that drives it.
package kernel

import "github.com/kaelhaven/chronicle/internal/clock"

// EntityKind tags which typed attribute variant an Entity carries. The
// set is closed to exactly these kinds.
type EntityKind uint8

const (
	KindPerson EntityKind = iota
	KindSettlement
	KindFaction
	KindArmy
	KindRegion
	KindBuilding
	KindDeity
	KindCreature
	KindRiver
	KindGeographicFeature
	KindResourceDeposit
	KindCulture
	KindDisease
	KindKnowledge
	KindManifestation
	KindReligion
	KindItem
)

func (k EntityKind) String() string {
	switch k {
	case KindPerson:
		return "Person"
	case KindSettlement:
		return "Settlement"
	case KindFaction:
		return "Faction"
	case KindArmy:
		return "Army"
	case KindRegion:
		return "Region"
	case KindBuilding:
		return "Building"
	case KindDeity:
		return "Deity"
	case KindCreature:
		return "Creature"
	case KindRiver:
		return "River"
	case KindGeographicFeature:
		return "GeographicFeature"
	case KindResourceDeposit:
		return "ResourceDeposit"
	case KindCulture:
		return "Culture"
	case KindDisease:
		return "Disease"
	case KindKnowledge:
		return "Knowledge"
	case KindManifestation:
		return "Manifestation"
	case KindReligion:
		return "Religion"
	case KindItem:
		return "Item"
	default:
		return "Unknown"
	}
}

// ParseEntityKind is String's inverse, used when reloading a persisted
// run.
func ParseEntityKind(s string) (EntityKind, bool) {
	for k := KindPerson; k <= KindItem; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// EmptyAttrs returns a zero-valued typed attribute variant for a kind,
// the target a loader deserializes into.
func EmptyAttrs(kind EntityKind) Attributes {
	switch kind {
	case KindPerson:
		return &PersonAttrs{}
	case KindSettlement:
		return &SettlementAttrs{}
	case KindFaction:
		return &FactionAttrs{}
	case KindArmy:
		return &ArmyAttrs{}
	case KindRegion:
		return &RegionAttrs{}
	case KindBuilding:
		return &BuildingAttrs{}
	case KindDeity:
		return &DeityAttrs{}
	case KindCreature:
		return &CreatureAttrs{}
	case KindRiver:
		return &RiverAttrs{}
	case KindGeographicFeature:
		return &GeographicFeatureAttrs{}
	case KindResourceDeposit:
		return &ResourceDepositAttrs{}
	case KindCulture:
		return &CultureAttrs{}
	case KindDisease:
		return &DiseaseAttrs{}
	case KindKnowledge:
		return &KnowledgeAttrs{}
	case KindManifestation:
		return &ManifestationAttrs{}
	case KindReligion:
		return &ReligionAttrs{}
	case KindItem:
		return &ItemAttrs{}
	default:
		return nil
	}
}

// Attributes is the closed sum type of kind-specific entity data. Each
// variant in attributes.go implements this by reporting its own kind; the
// kernel never needs reflection to tell them apart.
type Attributes interface {
	Kind() EntityKind
}

// Entity is anything simulated: identity, a kind tag, a display name, a
// lifecycle window, typed attribute data, and an auxiliary key/value bag
// for cross-cutting extras.
type Entity struct {
	ID     uint64
	Kind   EntityKind
	Name   string
	Origin clock.Timestamp
	End    *clock.Timestamp

	Attrs Attributes

	// Extra holds truly dynamic, cross-cutting values that don't belong in
	// any typed variant (e.g. "blend_timer", "prophecy_cooldown"). The
	// kernel never interprets these keys itself — only domain systems do.
	Extra map[string]any
}

// Alive reports whether the entity has not ended.
func (e *Entity) Alive() bool { return e.End == nil }

// ExtraGet reads a value from the auxiliary bag.
func (e *Entity) ExtraGet(key string) (any, bool) {
	if e.Extra == nil {
		return nil, false
	}
	v, ok := e.Extra[key]
	return v, ok
}

// ExtraSet writes a value into the auxiliary bag, allocating it on first use.
func (e *Entity) ExtraSet(key string, value any) {
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[key] = value
}

// Store owns all entities by id with deterministic iteration order (spec
// Section 4.3, Section 5(i)). Every system scans entities through this
// store, never through an unordered map directly.
type Store struct {
	entities map[uint64]*Entity
	order    []uint64 // insertion order == id-ascending, since ids are monotone
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	return &Store{entities: make(map[uint64]*Entity)}
}

// Insert adds a new entity. Ids are assigned by the applicator before
// Insert is called; Insert panics on a duplicate id, which would indicate
// an IdGen bug.
func (s *Store) Insert(e *Entity) {
	if _, exists := s.entities[e.ID]; exists {
		panic("kernel: duplicate entity id inserted")
	}
	s.entities[e.ID] = e
	s.order = append(s.order, e.ID)
}

// Get returns the entity with the given id, or nil.
func (s *Store) Get(id uint64) *Entity {
	return s.entities[id]
}

// MustGet returns the entity with the given id, panicking if absent. Used
// only where absence would itself be an invariant violation, never for command preconditions (category 1).
func (s *Store) MustGet(id uint64) *Entity {
	e := s.entities[id]
	if e == nil {
		panic("kernel: MustGet on absent entity")
	}
	return e
}

// All iterates every entity in monotonically increasing id order.
func (s *Store) All(yield func(*Entity) bool) {
	for _, id := range s.order {
		if !yield(s.entities[id]) {
			return
		}
	}
}

// OfKind iterates living entities of the given kind, in id order.
func (s *Store) OfKind(kind EntityKind, yield func(*Entity) bool) {
	for _, id := range s.order {
		e := s.entities[id]
		if e.Kind == kind && e.Alive() {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the total number of entities ever inserted (living or ended).
func (s *Store) Len() int { return len(s.order) }
