package engine

// SkipMaxList walks xs0 at most max elements and unifies n with the number of elements walked
// and xs with the rest. A max of -1 means no limit.
func (vm *VM) SkipMaxList(n, max, xs0, xs Addr) error {
	var limit int
	switch m := vm.Deref(max).(type) {
	case HeapCell, StackCell, AttrVar:
		return vm.InstantiationError()
	case Integer:
		if m < -1 {
			vm.Fail = true
			return nil
		}
		limit = int(m)
	default:
		return vm.TypeError(ValidTypeInteger, m)
	}

	// A count already known to be zero leaves the list untouched whatever the budget is.
	if k, ok := vm.Deref(n).(Integer); ok && k == 0 {
		vm.Unify(xs0, xs)
		return nil
	}

	if limit == 0 {
		if vm.Unify(n, Integer(0)) {
			vm.Unify(xs, xs0)
		}
		return nil
	}

	var (
		steps int
		rest  Addr
	)
	switch r := vm.Walk(xs0, limit); r.Kind {
	case WalkPartialString, WalkPartialList:
		steps, rest = r.Steps, r.Addr
	case WalkCompleteString, WalkProperList:
		steps, rest = r.Steps, EmptyList{}
	case WalkUntouchedString, WalkUntouchedList:
		steps, rest = 0, r.Addr
	case WalkEmptyList:
		steps, rest = 0, EmptyList{}
	default:
		steps, rest = 0, xs0
	}

	if vm.Unify(n, Integer(steps)) {
		vm.Unify(xs, rest)
	}
	return nil
}

// TryFromList returns the elements of a proper list.
func (vm *VM) TryFromList(list Addr) ([]Addr, error) {
	var elems []Addr
	iter := ListIterator{VM: vm, List: list}
	for iter.Next() {
		elems = append(elems, iter.Current())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if _, ok := iter.Suffix().(EmptyList); !ok {
		if s, ok := iter.Suffix().(String); !ok || s != "" {
			return nil, vm.TypeError(ValidTypeList, list)
		}
	}
	return elems, nil
}

// Length unifies n with the length of list. A partial list is extended with fresh variables
// if n is a large enough integer.
func (vm *VM) Length(list, n Addr) error {
	var want int
	switch m := vm.Deref(n).(type) {
	case HeapCell, StackCell, AttrVar:
		want = -1
	case Integer:
		if m < 0 {
			return vm.DomainError(ValidDomainNotLessThanZero, m)
		}
		want = int(m)
	default:
		return vm.TypeError(ValidTypeInteger, m)
	}

	r := vm.DetectCycles(list)
	switch r.Kind {
	case WalkEmptyList, WalkProperList, WalkCompleteString:
		vm.Unify(n, Integer(r.Steps))
		return nil
	case WalkPartialList:
		if want < 0 {
			return vm.InstantiationError()
		}
		if want < r.Steps {
			vm.Fail = true
			return nil
		}
		elems := make([]Addr, want-r.Steps)
		for i := range elems {
			elems[i] = vm.PutVar()
		}
		vm.Unify(r.Addr, vm.PutList(elems, EmptyList{}))
		return nil
	default:
		return vm.TypeError(ValidTypeList, list)
	}
}
