// Package scheduler drives one kernel tick at a time: Input, Update, Apply,
// and Reactions phases in a fixed, deterministic system order. Cadence
// gating keys each system off a modulo check against the Monthly/Yearly
// cadence this simulation needs.
package scheduler

import (
	"log/slog"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// Cadence selects how often a system runs.
type Cadence int

const (
	Monthly Cadence = iota
	Yearly
)

func (c Cadence) String() string {
	if c == Yearly {
		return "yearly"
	}
	return "monthly"
}

// InputSystem collects external input (player actions) before the rest of
// the tick runs. It enqueues commands the same way Update systems do.
type InputSystem interface {
	Name() string
	RunInput(w *kernel.World)
}

// UpdateSystem reads world state and enqueues commands; it never mutates
// the world directly.
type UpdateSystem struct {
	Name    string
	Cadence Cadence
	Run     func(w *kernel.World)
}

// ReactionSystem drains the signal bus and enqueues follow-up commands in
// response. Scheduled after Apply so every reaction sees the tick's events
//.
type ReactionSystem struct {
	Name string
	Run  func(w *kernel.World)
}

// Scheduler runs the fixed system pipeline every tick. System order
// within each phase is the order systems were registered in — callers
// must register in the required order and never reorder at runtime.
type Scheduler struct {
	World   *kernel.World
	Inputs  []InputSystem
	Updates []UpdateSystem
	Reacts  []ReactionSystem
}

// New creates a scheduler bound to a world. Systems are registered
// afterward via the exported slices, in the exact order they must run.
func New(w *kernel.World) *Scheduler {
	return &Scheduler{World: w}
}

// Tick runs one full tick: Input, Update (gated by cadence), Apply,
// Reactions, then advances the clock and clears whatever the last
// reaction left on the bus.
func (s *Scheduler) Tick() {
	w := s.World
	yearStart := w.Clock.IsYearStart()

	for _, sys := range s.Inputs {
		sys.RunInput(w)
	}

	for _, sys := range s.Updates {
		if sys.Cadence == Yearly && !yearStart {
			continue
		}
		sys.Run(w)
	}

	kernel.DrainAndApply(w)

	for _, r := range s.Reacts {
		r.Run(w)
	}
	// Reactions stage commands of their own; the tick must close with both
	// queues empty. Signals this drain emits die with the bus below.
	kernel.DrainAndApply(w)
	w.Bus.Clear()

	now := w.Clock.AdvanceMonth()
	slog.Debug("tick complete", "time", now.String(), "events", len(w.Log.Events()))
}

// Run advances the scheduler exactly years*12 ticks (one per month), the
// shape the generate/replay CLI commands drive.
func (s *Scheduler) Run(years int) {
	total := years * 12
	for i := 0; i < total; i++ {
		s.Tick()
	}
}
