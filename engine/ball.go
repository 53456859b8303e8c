package engine

// AttrVarPolicy decides what happens to attributed variables when a term is copied.
type AttrVarPolicy int8

const (
	// DeepCopy copies attributed variables along with their attributes.
	DeepCopy AttrVarPolicy = iota
	// StripAttributes copies attributed variables as plain variables.
	StripAttributes
)

// Ball is a self-contained copy of a term graph. Its cells are addressed as if they were placed at Boundary.
type Ball struct {
	Boundary int
	Stub     Heap

	// open solution lists built by Accumulate, innermost last.
	lists []accumulation
}

type accumulation struct {
	start, head, tail int
}

// Empty reports whether the ball holds nothing.
func (b *Ball) Empty() bool {
	return len(b.Stub) == 0
}

// Reset empties the ball.
func (b *Ball) Reset() {
	*b = Ball{}
}

// CopyAndAlign returns a copy of the cells relocated so that the first one is placed at h.
func (b *Ball) CopyAndAlign(h int) (Heap, error) {
	return b.alignFrom(b.Boundary, h)
}

// alignFrom copies the cells at and above the absolute position offset so that offset lands at h.
func (b *Ball) alignFrom(offset, h int) (Heap, error) {
	src := b.Stub[offset-b.Boundary:]
	cells, err := makeSlice[Cell](len(src))
	if err != nil {
		return nil, err
	}
	delta := h - offset
	for i, c := range src {
		cells[i] = relocate(c, delta)
	}
	return cells, nil
}

// Snapshot copies t into a new ball. The root of the copy is the first cell of the ball.
func (vm *VM) Snapshot(t Addr, policy AttrVarPolicy) *Ball {
	b := Ball{Boundary: len(vm.Heap)}
	c := copier{vm: vm, dst: &b.Stub, base: b.Boundary, policy: policy}
	c.copy(t)
	return &b
}

// Accumulate appends a copy of t as the next element of the solution list starting at start in the ball.
// Earlier elements are not copied again.
func (vm *VM) Accumulate(b *Ball, start int, t Addr) {
	pos := b.Boundary + len(b.Stub)
	c := copier{vm: vm, dst: &b.Stub, base: b.Boundary, policy: DeepCopy}
	cons := b.Stub.push(nil, HeapCell(pos+1))
	c.copyInto(t, cons)

	if n := len(b.lists); n > 0 && b.lists[n-1].start == start {
		l := &b.lists[n-1]
		b.Stub[l.tail-b.Boundary] = ListCell(pos)
		l.tail = pos + 1
		return
	}
	b.lists = append(b.lists, accumulation{start: start, head: pos, tail: pos + 1})
}

// truncate drops cells at or above the absolute position offset.
func (b *Ball) truncate(offset int) {
	if i := offset - b.Boundary; i < len(b.Stub) {
		b.Stub = b.Stub[:max(i, 0)]
	}
	for len(b.lists) > 0 && b.lists[len(b.lists)-1].start >= offset {
		b.lists = b.lists[:len(b.lists)-1]
	}
}

// spliceBall places a copy of the ball at the heap top and returns the address of its root.
func (vm *VM) spliceBall(b *Ball) (Addr, error) {
	h := len(vm.Heap)
	cells, err := b.CopyAndAlign(h)
	if err != nil {
		return nil, vm.ResourceError(ResourceMemory)
	}
	vm.extend(cells)
	return vm.Heap.addr(h), nil
}

// CopyTerm unifies dst with a fresh copy of src on the heap.
func (vm *VM) CopyTerm(src, dst Addr, policy AttrVarPolicy) bool {
	c := copier{vm: vm, dst: &vm.Heap, policy: policy}
	slot := c.copy(src)
	return vm.Unify(dst, vm.Heap.addr(slot))
}

// SetBall captures t as the pending exception.
func (vm *VM) SetBall(t Addr) {
	vm.Ball = *vm.Snapshot(t, DeepCopy)
}

// GetBall unifies v with a copy of the pending exception. It fails if there's none.
func (vm *VM) GetBall(v Addr) error {
	if vm.Ball.Empty() {
		vm.Fail = true
		return nil
	}
	t, err := vm.spliceBall(&vm.Ball)
	if err != nil {
		return err
	}
	vm.Unify(v, t)
	return nil
}

// EraseBall clears the pending exception.
func (vm *VM) EraseBall() {
	vm.Ball.Reset()
}

// Throw makes e the pending exception.
func (vm *VM) Throw(e Exception) {
	vm.Ball = *e.ball
}

// UnwindStack cuts back to the current block and fails so that the nearest catch frame takes over.
func (vm *VM) UnwindStack() {
	vm.B = vm.Block
	vm.Fail = true
}

type copyJob struct {
	src  Addr
	slot int
}

// copier copies term graphs into dst, whose first cell is addressed as base.
// Sharing and cycles are preserved.
type copier struct {
	vm     *VM
	dst    *Heap
	base   int
	policy AttrVarPolicy
	seen   map[Addr]Addr
	work   []copyJob
}

func (c *copier) copy(t Addr) int {
	slot := c.dst.push(nil)
	c.copyInto(t, slot)
	return slot
}

func (c *copier) copyInto(t Addr, slot int) {
	if c.seen == nil {
		c.seen = map[Addr]Addr{}
	}
	c.work = append(c.work, copyJob{src: t, slot: slot})
	for len(c.work) > 0 {
		j := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]
		(*c.dst)[j.slot] = c.copyOne(j.src, j.slot)
	}
}

func (c *copier) copyOne(src Addr, slot int) Cell {
	a := c.vm.Deref(src)
	if r, ok := c.seen[a]; ok {
		return r
	}

	var r Addr
	switch a := a.(type) {
	case HeapCell, StackCell:
		r = HeapCell(c.base + slot)
	case AttrVar:
		if c.policy == StripAttributes {
			r = HeapCell(c.base + slot)
			break
		}
		i := c.dst.push(nil, nil)
		r = AttrVar(c.base + i)
		(*c.dst)[i] = r
		if c.dst == &c.vm.Heap {
			c.vm.Ledger.EnqueueVar(i)
		}
		c.work = append(c.work, copyJob{src: c.vm.Heap.addr(int(a) + 1), slot: i + 1})
	case Structure:
		f := c.vm.Functor(a)
		i := c.dst.push(f)
		for k := 1; k <= f.Arity; k++ {
			c.dst.push(nil)
		}
		for k := f.Arity; k >= 1; k-- {
			c.work = append(c.work, copyJob{src: c.vm.Arg(a, k), slot: i + k})
		}
		r = Structure(c.base + i)
	case ListCell:
		i := c.dst.push(nil, nil)
		c.work = append(c.work,
			copyJob{src: c.vm.Heap.addr(int(a) + 1), slot: i + 1},
			copyJob{src: c.vm.Heap.addr(int(a)), slot: i},
		)
		r = ListCell(c.base + i)
	case PartialString:
		text := c.vm.Heap[a.Block].(TextBlock)[a.Offset:]
		i := c.dst.push(text, nil)
		c.work = append(c.work, copyJob{src: c.vm.Heap.addr(a.Block + 1), slot: i + 1})
		r = PartialString{Block: c.base + i}
	default:
		return a
	}
	c.seen[a] = r
	return r
}
