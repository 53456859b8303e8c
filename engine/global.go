package engine

// globalVar is the value of a global variable. A nil ball marks a deleted key.
type globalVar struct {
	ball *Ball

	// offset is the heap position of a backtrackable copy if there's one.
	offset    int
	hasOffset bool
}

func (vm *VM) globalKey(key Addr) (Atom, error) {
	switch k := vm.Deref(key).(type) {
	case HeapCell, StackCell, AttrVar:
		return "", vm.InstantiationError()
	case Atom:
		return k, nil
	case Char:
		return Atom(rune(k)), nil
	case EmptyList:
		return "[]", nil
	default:
		return "", vm.TypeError(ValidTypeAtom, k)
	}
}

func (vm *VM) lookupGlobal(key Atom) (globalVar, bool) {
	g, ok := vm.globals.Get(key)
	if !ok || g.ball == nil {
		return globalVar{}, false
	}
	return g, true
}

// StoreGlobalVar associates a copy of value with key. The association survives backtracking.
func (vm *VM) StoreGlobalVar(key, value Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	vm.globals.Set(k, globalVar{ball: vm.Snapshot(value, DeepCopy)})
	return nil
}

// StoreGlobalVarWithOffset associates a copy of value with key and places the copy on the heap.
// Fetches see the heap copy as long as backtracking hasn't removed it.
func (vm *VM) StoreGlobalVarWithOffset(key, value Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	ball := vm.Snapshot(value, DeepCopy)
	h := len(vm.Heap)
	if _, err := vm.spliceBall(ball); err != nil {
		return err
	}
	vm.globals.Set(k, globalVar{ball: ball, offset: h, hasOffset: true})
	vm.Unify(value, HeapCell(h))
	return nil
}

// FetchGlobalVar unifies v with the value of key. It fails if key has no value.
func (vm *VM) FetchGlobalVar(key, v Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	g, ok := vm.lookupGlobal(k)
	if !ok {
		vm.Fail = true
		return nil
	}
	if g.hasOffset && g.offset < len(vm.Heap) {
		vm.Unify(v, HeapCell(g.offset))
		return nil
	}
	t, err := vm.spliceBall(g.ball)
	if err != nil {
		return err
	}
	vm.Unify(v, t)
	return nil
}

// FetchGlobalVarWithOffset unifies v with the value of key and offset with the heap position of its copy.
// A value without a heap copy gets one.
func (vm *VM) FetchGlobalVarWithOffset(key, v, offset Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	g, ok := vm.lookupGlobal(k)
	if !ok {
		vm.Fail = true
		return nil
	}
	if !g.hasOffset || g.offset >= len(vm.Heap) {
		h := len(vm.Heap)
		if _, err := vm.spliceBall(g.ball); err != nil {
			return err
		}
		g.offset, g.hasOffset = h, true
		vm.globals.Set(k, g)
	}
	if vm.Unify(offset, Usize(g.offset)) {
		vm.Unify(v, HeapCell(g.offset))
	}
	return nil
}

// ResetGlobalVarAtKey removes key.
func (vm *VM) ResetGlobalVarAtKey(key Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	if _, ok := vm.globals.Get(k); ok {
		vm.globals.Set(k, globalVar{})
	}
	return nil
}

// ResetGlobalVarAtOffset restores the value of key on backtracking. The offset is kept if it's a Usize.
func (vm *VM) ResetGlobalVarAtOffset(key, value, offset Addr) error {
	k, err := vm.globalKey(key)
	if err != nil {
		return err
	}
	g := globalVar{ball: vm.Snapshot(value, DeepCopy)}
	if o, ok := vm.Deref(offset).(Usize); ok {
		g.offset, g.hasOffset = int(o), true
	}
	vm.globals.Set(k, g)
	return nil
}

// GlobalVars calls f for every global variable in key order until f returns false.
func (vm *VM) GlobalVars(f func(key Atom) bool) {
	vm.globals.Each(func(k Atom, g globalVar) bool {
		if g.ball == nil {
			return true
		}
		return f(k)
	})
}
