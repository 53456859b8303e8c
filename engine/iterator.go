package engine

// ListIterator is an iterator for a list.
type ListIterator struct {
	VM           *VM
	List         Addr
	AllowPartial bool

	current Addr
	err     error

	// Variables for Brent's cycle detection algorithm
	tortoise, hare Addr
	power, lam     int
}

// Next proceeds to the next element of the list and returns true if there's such an element.
func (i *ListIterator) Next() bool {
	if i.hare == nil {
		i.hare = i.VM.Deref(i.List)
		i.tortoise = i.hare
		i.power = 1
	}

	switch h := i.hare.(type) {
	case HeapCell, StackCell, AttrVar:
		if !i.AllowPartial {
			i.err = i.VM.InstantiationError()
		}
		return false
	case EmptyList:
		return false
	case ListCell, PartialString, String:
		head, tail, ok := i.VM.listParts(h)
		if !ok {
			i.err = i.VM.TypeError(ValidTypeList, i.List)
			return false
		}
		i.current = head
		i.hare = i.VM.Deref(tail)
	default:
		i.err = i.VM.TypeError(ValidTypeList, i.List)
		return false
	}

	i.lam++
	if i.hare == i.tortoise {
		if _, ok := i.hare.(String); !ok {
			i.err = i.VM.TypeError(ValidTypeList, i.List)
			return false
		}
	}
	if i.lam == i.power {
		i.tortoise = i.hare
		i.power *= 2
		i.lam = 0
	}
	return true
}

// Current returns the current element.
func (i *ListIterator) Current() Addr {
	return i.current
}

// Err returns an error.
func (i *ListIterator) Err() error {
	return i.err
}

// Suffix returns the rest of the list.
func (i *ListIterator) Suffix() Addr {
	if i.hare == nil {
		return i.List
	}
	return i.hare
}

// LedgerIterator yields attributed variables enqueued after a checkpoint.
type LedgerIterator struct {
	Ledger *Ledger

	pos     int
	current int
}

// Next proceeds to the next attributed variable and returns true if there's such a variable.
func (i *LedgerIterator) Next() bool {
	if i.pos >= len(i.Ledger.queue) {
		return false
	}
	i.current = i.Ledger.queue[i.pos]
	i.pos++
	return true
}

// Current returns the current attributed variable.
func (i *LedgerIterator) Current() AttrVar {
	return AttrVar(i.current)
}
