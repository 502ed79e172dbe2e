package kernel

// Bus is the intra-tick publish/react mailbox between systems (spec
// Section 4.5). It has two phases per tick: emission during systems'
// Update, and delivery during Reactions, in scheduled order. Signals
// emitted during a reaction handler are appended to the inbox and are
// visible to the next-scheduled reaction handler in the same tick only —
// the bus is cleared at tick end regardless of what's left in it.
type Bus struct {
	queue []Signal
}

// NewBus creates an empty signal bus.
func NewBus() *Bus {
	return &Bus{}
}

// Emit appends a signal to the inbox.
func (b *Bus) Emit(s Signal) {
	b.queue = append(b.queue, s)
}

// Drain removes and returns every signal currently queued, in emission
// order. Called once per reactive system during the Reactions phase so
// each handler sees everything emitted so far this tick (by Apply or by
// earlier reaction handlers) and nothing already consumed.
func (b *Bus) Drain() []Signal {
	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// Len reports how many signals are currently queued.
func (b *Bus) Len() int { return len(b.queue) }

// Clear empties the bus unconditionally. Called by the scheduler at tick
// end.
func (b *Bus) Clear() {
	b.queue = nil
}
