package engine

import (
	"fmt"
	"unicode/utf8"
)

// WalkKind is the outcome of walking a list-like term.
type WalkKind int8

const (
	// WalkNotList is neither a list nor a string, or a cyclic one.
	WalkNotList WalkKind = iota
	// WalkProperList ends with [].
	WalkProperList
	// WalkCompleteString is a string constant walked to its end.
	WalkCompleteString
	// WalkPartialList ends with an unbound variable, or the budget ran out on a list cell.
	WalkPartialList
	// WalkPartialString is a position inside a string where the budget ran out.
	WalkPartialString
	// WalkUntouchedList is a list which a zero budget didn't let us enter.
	WalkUntouchedList
	// WalkUntouchedString is a string which a zero budget didn't let us enter.
	WalkUntouchedString
	// WalkEmptyList is [].
	WalkEmptyList
)

func (k WalkKind) String() string {
	return [...]string{
		WalkNotList:         "not_list",
		WalkProperList:      "proper_list",
		WalkCompleteString:  "complete_string",
		WalkPartialList:     "partial_list",
		WalkPartialString:   "partial_string",
		WalkUntouchedList:   "untouched_list",
		WalkUntouchedString: "untouched_string",
		WalkEmptyList:       "empty_list",
	}[k]
}

// WalkResult is what Walk found.
type WalkResult struct {
	Kind WalkKind
	// Steps is the number of elements (list cells or characters) walked.
	Steps int
	// Addr is the rest of the term for partial and untouched outcomes.
	Addr Addr
}

func (r WalkResult) String() string {
	if r.Addr == nil {
		return fmt.Sprintf("%s(%d)", r.Kind, r.Steps)
	}
	return fmt.Sprintf("%s(%d, %v)", r.Kind, r.Steps, r.Addr)
}

// DetectCycles walks a list-like term without a budget.
func (vm *VM) DetectCycles(a Addr) WalkResult {
	return vm.Walk(a, -1)
}

// Walk walks a list-like term at most max elements with Brent's cycle detection. A negative max means no budget.
func (vm *VM) Walk(a Addr, max int) WalkResult {
	hare := vm.Deref(a)
	switch h := hare.(type) {
	case EmptyList:
		return WalkResult{Kind: WalkEmptyList}
	case HeapCell, StackCell, AttrVar:
		return WalkResult{Kind: WalkPartialList, Addr: h}
	case String:
		if vm.Flags.DoubleQuotes == DoubleQuotesAtom {
			return WalkResult{Kind: WalkNotList}
		}
		return walkString(h, max)
	case ListCell:
		if max == 0 {
			return WalkResult{Kind: WalkUntouchedList, Addr: h}
		}
	case PartialString:
		if max == 0 {
			return WalkResult{Kind: WalkUntouchedString, Addr: h}
		}
	default:
		return WalkResult{Kind: WalkNotList}
	}

	var (
		tortoise   = hare
		power, lam = 1, 0
		steps      int
	)
	for {
		if max >= 0 && steps == max {
			return vm.stopped(hare, steps)
		}

		switch h := hare.(type) {
		case EmptyList:
			return WalkResult{Kind: WalkProperList, Steps: steps}
		case HeapCell, StackCell, AttrVar:
			return WalkResult{Kind: WalkPartialList, Steps: steps, Addr: h}
		case String:
			// a string constant is finite and can't be part of a cycle.
			if vm.Flags.DoubleQuotes == DoubleQuotesAtom {
				return WalkResult{Kind: WalkNotList}
			}
			rest := -1
			if max >= 0 {
				rest = max - steps
			}
			r := walkString(h, rest)
			r.Steps += steps
			switch r.Kind {
			case WalkCompleteString:
				r.Kind = WalkProperList
			case WalkUntouchedString:
				r.Kind = WalkPartialString
			}
			return r
		case ListCell, PartialString:
			_, tail, _ := vm.listParts(h)
			hare = vm.Deref(tail)
		default:
			return WalkResult{Kind: WalkNotList}
		}
		steps++
		lam++

		if hare == tortoise {
			return WalkResult{Kind: WalkNotList, Steps: steps}
		}
		if lam == power {
			tortoise = hare
			power *= 2
			lam = 0
		}
	}
}

func (vm *VM) stopped(hare Addr, steps int) WalkResult {
	switch h := hare.(type) {
	case EmptyList:
		return WalkResult{Kind: WalkProperList, Steps: steps}
	case HeapCell, StackCell, AttrVar, ListCell:
		return WalkResult{Kind: WalkPartialList, Steps: steps, Addr: h}
	case PartialString, String:
		return WalkResult{Kind: WalkPartialString, Steps: steps, Addr: h}
	default:
		return WalkResult{Kind: WalkNotList}
	}
}

func walkString(s String, max int) WalkResult {
	n := utf8.RuneCountInString(string(s))
	switch {
	case max == 0:
		return WalkResult{Kind: WalkUntouchedString, Addr: s}
	case max < 0 || max >= n:
		return WalkResult{Kind: WalkCompleteString, Steps: n}
	}
	var i, off int
	for off = range string(s) {
		if i == max {
			break
		}
		i++
	}
	return WalkResult{Kind: WalkPartialString, Steps: max, Addr: String(s[off:])}
}
