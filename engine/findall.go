package engine

// The lifted heap is a ball which holds solution lists of findall/3 and friends.
// Each list is identified by the lifted heap length when its collection started.

func liftedOffset(a Addr) (int, bool) {
	switch o := a.(type) {
	case Usize:
		return int(o), true
	case Integer:
		return int(o), o >= 0
	default:
		return 0, false
	}
}

// LiftedHeapLength unifies v with the current length of the lifted heap.
func (vm *VM) LiftedHeapLength(v Addr) {
	vm.Unify(v, Usize(vm.Lifted.Boundary+len(vm.Lifted.Stub)))
}

// CopyToLiftedHeap appends a copy of t to the solution list started at offset.
func (vm *VM) CopyToLiftedHeap(offset, t Addr) {
	off, ok := liftedOffset(vm.Deref(offset))
	if !ok {
		vm.Fail = true
		return
	}
	vm.Accumulate(&vm.Lifted, off, t)
}

// GetLiftedHeapFromOffset moves the solution list started at offset onto the heap and unifies it with solutions.
func (vm *VM) GetLiftedHeapFromOffset(offset, solutions Addr) error {
	return vm.getLiftedHeap(offset, solutions, nil)
}

// GetLiftedHeapFromOffsetDiff is GetLiftedHeapFromOffset which leaves the list open and unifies its tail with diff.
func (vm *VM) GetLiftedHeapFromOffsetDiff(offset, solutions, diff Addr) error {
	return vm.getLiftedHeap(offset, solutions, diff)
}

func (vm *VM) getLiftedHeap(offset, solutions, diff Addr) error {
	off, ok := liftedOffset(vm.Deref(offset))
	if !ok {
		vm.Fail = true
		return nil
	}

	l, ok := vm.Lifted.list(off)
	if !ok {
		if vm.Unify(solutions, EmptyList{}) && diff != nil {
			vm.Unify(diff, EmptyList{})
		}
		return nil
	}

	h := len(vm.Heap)
	cells, err := vm.Lifted.alignFrom(off, h)
	if err != nil {
		return vm.ResourceError(ResourceMemory)
	}
	vm.extend(cells)
	vm.Lifted.truncate(off)

	tail := l.tail - off + h
	if diff == nil {
		vm.Heap[tail] = EmptyList{}
	} else if !vm.Unify(diff, HeapCell(tail)) {
		return nil
	}
	vm.Unify(ListCell(l.head-off+h), solutions)
	return nil
}

// TruncateLiftedHeapTo discards everything collected at and after offset.
func (vm *VM) TruncateLiftedHeapTo(offset Addr) {
	off, ok := liftedOffset(vm.Deref(offset))
	if !ok {
		vm.Fail = true
		return
	}
	vm.Lifted.truncate(off)
}

// TruncateIfNoLiftedHeapGrowth drops the bookkeeping of a collection which found no solutions.
// The list is closed with [] when it is moved back by GetLiftedHeapFromOffset.
func (vm *VM) TruncateIfNoLiftedHeapGrowth(offset Addr) {
	vm.truncateIfNoLiftedHeapGrowth(offset)
}

// TruncateIfNoLiftedHeapGrowthDiff is TruncateIfNoLiftedHeapGrowth for a collection which is moved back
// as a difference list by GetLiftedHeapFromOffsetDiff.
func (vm *VM) TruncateIfNoLiftedHeapGrowthDiff(offset Addr) {
	vm.truncateIfNoLiftedHeapGrowth(offset)
}

func (vm *VM) truncateIfNoLiftedHeapGrowth(offset Addr) {
	off, ok := liftedOffset(vm.Deref(offset))
	if !ok {
		vm.Fail = true
		return
	}
	if _, ok := vm.Lifted.list(off); !ok {
		vm.Lifted.truncate(off)
	}
}

// list returns the open solution list started at start.
func (b *Ball) list(start int) (accumulation, bool) {
	if start >= b.Boundary+len(b.Stub) {
		return accumulation{}, false
	}
	for i := len(b.lists) - 1; i >= 0; i-- {
		if l := b.lists[i]; l.start == start {
			return l, true
		}
	}
	return accumulation{}, false
}
