package engine

import (
	"slices"
)

// Checkpoint is a position in the attributed variable queue.
type Checkpoint int

// Ledger tracks attributed variables and the goals they produce during a propagation cycle.
// It holds heap indices and addresses only. The cells themselves belong to the heap.
type Ledger struct {
	queue    []int
	goals    []Addr
	bindings []AttrBinding
}

// AttrBinding is a binding of an attributed variable waiting for its attribute hooks to run.
type AttrBinding struct {
	Var   AttrVar
	Value Addr
}

// Mark returns the current length of the queue.
func (l *Ledger) Mark() Checkpoint {
	return Checkpoint(len(l.queue))
}

// Beyond returns an iterator over the attributed variables enqueued after c, in creation order.
func (l *Ledger) Beyond(c Checkpoint) *LedgerIterator {
	return &LedgerIterator{Ledger: l, pos: int(c)}
}

// Reset clears the queue, the pending goals and the pending bindings.
func (l *Ledger) Reset() {
	l.queue = l.queue[:0]
	l.goals = l.goals[:0]
	l.bindings = l.bindings[:0]
}

// EnqueueVar appends an attributed variable at heap index h.
func (l *Ledger) EnqueueVar(h int) {
	l.queue = append(l.queue, h)
}

// EnqueueGoal appends a pending goal.
func (l *Ledger) EnqueueGoal(a Addr) {
	l.goals = append(l.goals, a)
}

// Goals returns the pending goals sorted by cmp with duplicates removed.
func (l *Ledger) Goals(cmp func(a, b Addr) int) []Addr {
	gs := slices.Clone(l.goals)
	slices.SortFunc(gs, cmp)
	return slices.CompactFunc(gs, func(a, b Addr) bool {
		return cmp(a, b) == 0
	})
}

// Bindings returns the attributed variable bindings made since the last reset.
func (l *Ledger) Bindings() []AttrBinding {
	return l.bindings
}

func (l *Ledger) recordBinding(v AttrVar, t Addr) {
	l.bindings = append(l.bindings, AttrBinding{Var: v, Value: t})
}

// truncate forgets the variables enqueued after c and the bindings recorded after the first n.
func (l *Ledger) truncate(c Checkpoint, n int) {
	if int(c) < len(l.queue) {
		l.queue = l.queue[:c]
	}
	if n < len(l.bindings) {
		l.bindings = l.bindings[:n]
	}
}
