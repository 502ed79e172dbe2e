// Package playeraction lets an operator steer the simulation from outside
// the tick loop: queue an action between ticks, and the scheduler's Input
// phase validates and enqueues it as a regular kernel command.
package playeraction

import (
	"fmt"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// Kind is the closed set of actions a player can take.
type Kind int

const (
	Assassinate Kind = iota
	SupportFaction
	UndermineFaction
	BrokerAlliance
)

// Action is one player-submitted command, queued between ticks.
type Action struct {
	PlayerID uint64
	Kind     Kind

	Target             uint64 // Assassinate target, or the faction for Support/Undermine
	FactionA, FactionB uint64 // BrokerAlliance
}

// Result reports whether an action's preconditions held when the Input
// phase examined it. Success does not carry an event id: the id isn't
// known until the Apply phase runs later in the same tick; callers that
// need it read it back from the event log after the tick completes.
type Result struct {
	Action  Action
	Ok      bool
	Reason  string
}

// Queue buffers actions submitted between ticks, FIFO, consumed once by
// the Input phase and then empty until the next submission.
type Queue struct {
	items []Action
}

// NewQueue creates an empty action queue.
func NewQueue() *Queue { return &Queue{} }

// Submit enqueues an action to be validated on the next tick's Input phase.
func (q *Queue) Submit(a Action) { q.items = append(q.items, a) }

// Drain removes and returns every queued action, in submission order.
func (q *Queue) Drain() []Action {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// System implements scheduler.InputSystem: each tick it drains the action
// queue, validates every action against current world state, and pushes
// the validated ones onto the kernel command queue as regular intents.
type System struct {
	Queue   *Queue
	Results []Result
}

// NewSystem creates a player-action input system bound to a queue.
func NewSystem(q *Queue) *System {
	return &System{Queue: q}
}

func (s *System) Name() string { return "player_actions" }

// RunInput validates and converts every queued action into a kernel
// command. Results accumulate across ticks; callers that want a clean
// slate should read and reset Results between reads.
func (s *System) RunInput(w *kernel.World) {
	for _, a := range s.Queue.Drain() {
		s.Results = append(s.Results, s.process(w, a))
	}
}

func (s *System) process(w *kernel.World, a Action) Result {
	switch a.Kind {
	case Assassinate:
		return s.processAssassinate(w, a)
	case SupportFaction:
		return s.processSentimentShift(w, a, "player_support", 0.08, 0.06, 0)
	case UndermineFaction:
		return s.processSentimentShift(w, a, "player_undermine", -0.10, -0.08, -0.06)
	case BrokerAlliance:
		return s.processBrokerAlliance(w, a)
	default:
		return Result{Action: a, Ok: false, Reason: "unknown action kind"}
	}
}

func (s *System) processAssassinate(w *kernel.World, a Action) Result {
	if _, pa := w.Person(a.Target); pa == nil {
		return Result{Action: a, Ok: false, Reason: fmt.Sprintf("target %d does not exist or is not a living person", a.Target)}
	}
	w.Queue.Push(kernel.Command{
		Intent:      kernel.IntentPersonDied{Person: a.Target},
		EventKind:   kernel.CustomEvent("player_assassination"),
		Description: fmt.Sprintf("a player-directed assassination of entity %d", a.Target),
		Participants: []kernel.ParticipantSpec{
			{Entity: a.PlayerID, Role: kernel.RoleInstigator},
			{Entity: a.Target, Role: kernel.RoleObject},
		},
	})
	return Result{Action: a, Ok: true}
}

func (s *System) processSentimentShift(w *kernel.World, a Action, label string, stabilityDelta, happinessDelta, legitimacyDelta float64) Result {
	_, fa := w.Faction(a.Target)
	if fa == nil {
		return Result{Action: a, Ok: false, Reason: fmt.Sprintf("faction %d does not exist or is not alive", a.Target)}
	}
	w.Queue.Push(kernel.Command{
		Intent: kernel.IntentAdjustSentiment{
			Faction:         a.Target,
			StabilityDelta:  stabilityDelta,
			HappinessDelta:  happinessDelta,
			LegitimacyDelta: legitimacyDelta,
		},
		EventKind:   kernel.CustomEvent(label),
		Description: fmt.Sprintf("player pressure applied to faction %d", a.Target),
		Participants: []kernel.ParticipantSpec{
			{Entity: a.PlayerID, Role: kernel.RoleInstigator},
			{Entity: a.Target, Role: kernel.RoleObject},
		},
	})
	return Result{Action: a, Ok: true}
}

func (s *System) processBrokerAlliance(w *kernel.World, a Action) Result {
	if a.FactionA == a.FactionB {
		return Result{Action: a, Ok: false, Reason: "cannot broker an alliance between a faction and itself"}
	}
	_, fa := w.Faction(a.FactionA)
	_, fb := w.Faction(a.FactionB)
	if fa == nil || fb == nil {
		return Result{Action: a, Ok: false, Reason: "one or both factions do not exist or are not alive"}
	}
	if w.Graph.HasActive(a.FactionA, a.FactionB, kernel.Ally) {
		return Result{Action: a, Ok: false, Reason: "factions are already allied"}
	}
	if w.AtWar(a.FactionA, a.FactionB) || w.Graph.HasActive(a.FactionA, a.FactionB, kernel.Enemy) {
		return Result{Action: a, Ok: false, Reason: "factions are currently enemies"}
	}
	w.Queue.Push(kernel.Command{
		Intent:      kernel.IntentFormAlliance{A: a.FactionA, B: a.FactionB},
		EventKind:   kernel.CustomEvent("player_broker_alliance"),
		Description: fmt.Sprintf("player brokered an alliance between factions %d and %d", a.FactionA, a.FactionB),
		Participants: []kernel.ParticipantSpec{
			{Entity: a.PlayerID, Role: kernel.RoleInstigator},
			{Entity: a.FactionA, Role: kernel.RoleSubject},
			{Entity: a.FactionB, Role: kernel.RoleObject},
		},
	})
	return Result{Action: a, Ok: true}
}
