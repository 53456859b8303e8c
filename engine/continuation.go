package engine

// codePtr extracts a code pointer which travels on the heap as dir_entry(N).
func (vm *VM) codePtr(a Addr) (CodePtr, bool) {
	switch a := vm.Deref(a).(type) {
	case CodePtr:
		return a, true
	case Structure:
		f := vm.Functor(a)
		if f.Name != "dir_entry" || f.Arity != 1 {
			return 0, false
		}
		n, ok := vm.Deref(vm.Arg(a, 1)).(Integer)
		return CodePtr(n), ok
	default:
		return 0, false
	}
}

// DirEntry returns the heap representation of p.
func (vm *VM) DirEntry(p CodePtr) Addr {
	return vm.PutStructure("dir_entry", Integer(p))
}

// GetContinuationChunk captures the permanent variables of the environment e live at the code pointer p
// as cont_chunk(P, Y1, ..., Yn) and unifies it with chunk.
func (vm *VM) GetContinuationChunk(e, p, chunk Addr) {
	frame, ok := vm.Deref(e).(Usize)
	if !ok {
		vm.Fail = true
		return
	}
	cp, ok := vm.codePtr(p)
	if !ok || vm.Code == nil {
		vm.Fail = true
		return
	}
	n, ok := vm.Code.PermVars(cp)
	if !ok {
		vm.Fail = true
		return
	}

	vars := vm.Stack.Frame(int(frame)).Vars
	args := make([]Addr, 0, n+1)
	args = append(args, vm.Deref(p))
	for i := 1; i <= n; i++ {
		args = append(args, vars[i])
	}
	vm.Unify(chunk, vm.PutStructure("cont_chunk", args...))
}

// CallContinuation restores the chunks of list into fresh environments, innermost last, and jumps into the first one.
// Each chunk returns to the next one and the last one returns to where the call would have returned.
func (vm *VM) CallContinuation(list Addr, lastCall bool) error {
	chunks, err := vm.TryFromList(list)
	if err != nil {
		return err
	}

	returnP := vm.P + 1
	if lastCall {
		returnP = vm.CP
	}
	vm.P = returnP

	for i := len(chunks) - 1; i >= 0; i-- {
		returnP, err = vm.callChunk(chunks[i], returnP)
		if err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) callChunk(chunk Addr, returnP CodePtr) (CodePtr, error) {
	s, ok := vm.Deref(chunk).(Structure)
	if !ok {
		return 0, vm.TypeError(ValidTypeCompound, vm.Deref(chunk))
	}
	f := vm.Functor(s)
	cp, ok := vm.codePtr(vm.Arg(s, 1))
	if !ok {
		return 0, vm.TypeError(ValidTypeCallable, s)
	}

	n := f.Arity - 1
	e := vm.Allocate(n)
	frame := vm.Stack.Frame(e)
	frame.CP = returnP
	for i := 1; i <= n; i++ {
		a := vm.Arg(s, i+1)
		if _, ok := vm.Deref(a).(CutPoint); ok && i == 1 {
			a = CutPoint(vm.B)
		}
		frame.Vars[i] = a
	}

	vm.P = cp + 1
	return vm.P, nil
}

// ResetContinuationMarker sets X3 to none and X4 to a fresh variable, the state a reset starts with
// before anything is shifted.
func (vm *VM) ResetContinuationMarker() {
	for len(vm.Registers) < 4 {
		vm.Registers = append(vm.Registers, nil)
	}
	vm.Registers[2] = Atom("none")
	vm.Registers[3] = vm.PutVar()
}

// PointsToContinuationResetMarker succeeds if the instruction right after the code pointer a is a reset marker.
func (vm *VM) PointsToContinuationResetMarker(a Addr) {
	p, ok := vm.codePtr(a)
	if !ok || vm.Code == nil || !vm.Code.IsResetMarker(p+1) {
		vm.Fail = true
	}
}

// UnwindEnvironments follows the continuation until it reaches a reset marker, drops the environments above
// the one the marker belongs to, and resumes right after the marker. Nothing changes if there's no marker.
func (vm *VM) UnwindEnvironments() {
	if vm.Code == nil {
		return
	}
	e, cp := vm.E, vm.CP
	for e > 0 {
		if vm.Code.IsResetMarker(cp) {
			vm.E = e
			vm.P = cp + 1
			return
		}
		f := vm.Stack.Frame(e)
		e, cp = f.E, f.CP
	}
}
