package engine

// GetAttrVarQueueDelimiter unifies v with the current length of the attributed variable queue.
func (vm *VM) GetAttrVarQueueDelimiter(v Addr) {
	vm.Unify(v, Usize(vm.Ledger.Mark()))
}

// GetAttrVarQueueBeyond unifies list with the attributed variables enqueued after the delimiter b
// which are still unbound.
func (vm *VM) GetAttrVarQueueBeyond(b, list Addr) {
	var c Checkpoint
	switch b := vm.Deref(b).(type) {
	case Usize:
		c = Checkpoint(b)
	case Integer:
		if b < 0 {
			vm.Fail = true
			return
		}
		c = Checkpoint(b)
	default:
		vm.Fail = true
		return
	}

	var vars []Addr
	iter := vm.Ledger.Beyond(c)
	for iter.Next() {
		if v, ok := vm.Deref(iter.Current()).(AttrVar); ok {
			vars = append(vars, v)
		}
	}
	vm.Unify(vm.PutList(vars, EmptyList{}), list)
}

// EnqueueAttributedVar adds v to the queue if it's an unbound attributed variable.
func (vm *VM) EnqueueAttributedVar(v Addr) {
	if v, ok := vm.Deref(v).(AttrVar); ok {
		vm.Ledger.EnqueueVar(int(v))
	}
}

// EnqueueAttributeGoal adds a goal produced by an attribute hook.
func (vm *VM) EnqueueAttributeGoal(goal Addr) {
	vm.Ledger.EnqueueGoal(goal)
}

// FetchAttributeGoals unifies list with the pending goals in standard order and clears them.
func (vm *VM) FetchAttributeGoals(list Addr) {
	vm.CloneAttributeGoals(list)
	vm.ClearAttributeGoals()
}

// CloneAttributeGoals unifies list with the pending goals in standard order.
func (vm *VM) CloneAttributeGoals(list Addr) {
	goals := vm.Ledger.Goals(vm.Compare)
	vm.Unify(vm.PutList(goals, EmptyList{}), list)
}

// ClearAttributeGoals drops the pending goals.
func (vm *VM) ClearAttributeGoals() {
	vm.Ledger.goals = vm.Ledger.goals[:0]
}

// ResetAttrVarState starts a fresh propagation cycle.
func (vm *VM) ResetAttrVarState() {
	vm.Ledger.Reset()
}

// GetAttributedVariableList unifies list with the attribute list of v.
// A plain variable is turned into an attributed variable first.
func (vm *VM) GetAttributedVariableList(v, list Addr) {
	var attrs int
	switch a := vm.Deref(v).(type) {
	case AttrVar:
		attrs = int(a) + 1
	case HeapCell, StackCell:
		av := vm.PutAttrVar()
		vm.bind(a, av)
		attrs = int(av) + 1
	default:
		vm.Fail = true
		return
	}
	vm.Unify(HeapCell(attrs), list)
}

// DeleteAttribute removes the element after the list cell ls0 from an attribute list.
func (vm *VM) DeleteAttribute(ls0 Addr) {
	l1, ok := vm.Deref(ls0).(ListCell)
	if !ok {
		return
	}
	l2, ok := vm.Deref(vm.Heap.addr(int(l1) + 1)).(ListCell)
	if !ok {
		return
	}
	tail := vm.Deref(vm.Heap.addr(int(l2) + 1))
	if isVar(tail) {
		tail = HeapCell(int(l1) + 1)
	}
	vm.relink(TrailAttrVarListLink, int(l1)+1, tail)
}

// DeleteHeadAttribute removes the first element of the attribute list of v.
func (vm *VM) DeleteHeadAttribute(v Addr) {
	av, ok := vm.Deref(v).(AttrVar)
	if !ok {
		vm.Fail = true
		return
	}
	l, ok := vm.Deref(vm.Heap.addr(int(av) + 1)).(ListCell)
	if !ok {
		vm.Fail = true
		return
	}
	tail := vm.Deref(vm.Heap.addr(int(l) + 1))
	if isVar(tail) {
		tail = HeapCell(int(av) + 1)
	}
	vm.relink(TrailAttrVarHeapLink, int(av)+1, tail)
}

// RedoAttrVarBinding binds the attributed variable v to value again after its hooks have run.
// When value is another attributed variable, the attributes of v are appended to its list.
func (vm *VM) RedoAttrVarBinding(v, value Addr) {
	av, ok := vm.Deref(v).(AttrVar)
	if !ok {
		vm.Fail = true
		return
	}
	value = vm.Deref(value)
	vm.Heap[av] = value
	vm.Trail = append(vm.Trail, TrailEntry{Kind: TrailBinding, Var: av})
	if other, ok := value.(AttrVar); ok && other != av {
		vm.appendAttrs(other, av)
	}
}
