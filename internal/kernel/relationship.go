package kernel

import "github.com/kaelhaven/chronicle/internal/clock"

// RelKind is the closed set of relationship kinds plus a Custom escape
//. New code should prefer enumerated variants; Custom
// is a legacy extension point.
type RelKind struct {
	builtin builtinRelKind
	custom  string
}

type builtinRelKind uint8

const (
	relNone builtinRelKind = iota
	relMemberOf
	relLeaderOf
	relLocatedIn
	relAdjacentTo
	relAlly
	relEnemy
	relAtWar
	relSpouse
	relParent
	relChild
	relTradeRoute
	relHeldBy
	relFlowsThrough
	relCustom
)

var (
	MemberOf     = RelKind{builtin: relMemberOf}
	LeaderOf     = RelKind{builtin: relLeaderOf}
	LocatedIn    = RelKind{builtin: relLocatedIn}
	AdjacentTo   = RelKind{builtin: relAdjacentTo}
	Ally         = RelKind{builtin: relAlly}
	Enemy        = RelKind{builtin: relEnemy}
	AtWar        = RelKind{builtin: relAtWar}
	Spouse       = RelKind{builtin: relSpouse}
	Parent       = RelKind{builtin: relParent}
	Child        = RelKind{builtin: relChild}
	TradeRoute   = RelKind{builtin: relTradeRoute}
	HeldBy       = RelKind{builtin: relHeldBy}
	FlowsThrough = RelKind{builtin: relFlowsThrough}
)

// Custom builds the escape-hatch Custom(label) relationship kind.
func Custom(label string) RelKind {
	return RelKind{builtin: relCustom, custom: label}
}

// String renders the kind for logging and persistence.
func (k RelKind) String() string {
	switch k.builtin {
	case relMemberOf:
		return "MemberOf"
	case relLeaderOf:
		return "LeaderOf"
	case relLocatedIn:
		return "LocatedIn"
	case relAdjacentTo:
		return "AdjacentTo"
	case relAlly:
		return "Ally"
	case relEnemy:
		return "Enemy"
	case relAtWar:
		return "AtWar"
	case relSpouse:
		return "Spouse"
	case relParent:
		return "Parent"
	case relChild:
		return "Child"
	case relTradeRoute:
		return "TradeRoute"
	case relHeldBy:
		return "HeldBy"
	case relFlowsThrough:
		return "FlowsThrough"
	case relCustom:
		return "Custom(" + k.custom + ")"
	default:
		return "Unknown"
	}
}

// Equal reports whether two RelKind values denote the same kind, including
// matching Custom labels.
func (k RelKind) Equal(other RelKind) bool {
	return k.builtin == other.builtin && k.custom == other.custom
}

// ParseRelKind is String's inverse, used when reloading a persisted run.
func ParseRelKind(s string) (RelKind, bool) {
	for _, k := range []RelKind{
		MemberOf, LeaderOf, LocatedIn, AdjacentTo, Ally, Enemy, AtWar,
		Spouse, Parent, Child, TradeRoute, HeldBy, FlowsThrough,
	} {
		if k.String() == s {
			return k, true
		}
	}
	if len(s) > len("Custom(") && s[:len("Custom(")] == "Custom(" && s[len(s)-1] == ')' {
		return Custom(s[len("Custom(") : len(s)-1]), true
	}
	return RelKind{}, false
}

// symmetric is the set of kinds whose reverse edge must mirror the
// forward edge's open/close lifecycle exactly.
func (k RelKind) symmetric() bool {
	switch k.builtin {
	case relAlly, relEnemy, relAtWar, relSpouse, relAdjacentTo:
		return true
	default:
		return false
	}
}

// lifecycleCoupled is the set of outgoing edge kinds an entity's death
// ends automatically. Parent/Child survive death.
func (k RelKind) lifecycleCoupled() bool {
	switch k.builtin {
	case relLocatedIn, relMemberOf, relSpouse, relLeaderOf:
		return true
	default:
		return false
	}
}

// Relationship is a directed, typed, time-bounded edge.
type Relationship struct {
	ID         uint64
	Source     uint64
	Target     uint64
	Kind       RelKind
	Start      clock.Timestamp
	End        *clock.Timestamp
	CauseEvent uint64
}

// Active reports whether the relationship has not ended.
func (r *Relationship) Active() bool { return r.End == nil }
