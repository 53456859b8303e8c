package engine

import (
	"unicode/utf8"

	"github.com/cockroachdb/apd"
)

// Unify makes a and b denote the same term, binding variables as needed.
// On mismatch it sets Fail. Bindings made before the mismatch stay until backtracking.
func (vm *VM) Unify(a, b Addr) bool {
	return vm.unify(a, b, false)
}

// UnifyWithOccursCheck is Unify which refuses to bind a variable to a term containing it.
func (vm *VM) UnifyWithOccursCheck(a, b Addr) bool {
	return vm.unify(a, b, true)
}

type addrPair [2]Addr

func (vm *VM) unify(a, b Addr, occursCheck bool) bool {
	pdl := []Addr{a, b}
	var visited map[addrPair]struct{}
	for len(pdl) > 0 && !vm.Fail {
		a, b := vm.Deref(pdl[len(pdl)-2]), vm.Deref(pdl[len(pdl)-1])
		pdl = pdl[:len(pdl)-2]

		if a == b {
			continue
		}

		switch {
		case isVar(a) && isVar(b):
			vm.bindVars(a, b)
			continue
		case isVar(a):
			vm.bindValue(a, b, occursCheck)
			continue
		case isVar(b):
			vm.bindValue(b, a, occursCheck)
			continue
		}

		switch a := a.(type) {
		case Structure:
			b, ok := b.(Structure)
			if !ok {
				vm.Fail = true
				break
			}
			fa, fb := vm.Functor(a), vm.Functor(b)
			if fa != fb {
				vm.Fail = true
				break
			}
			if visited == nil {
				visited = map[addrPair]struct{}{}
			}
			p := addrPair{a, b}
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			for i := fa.Arity; i >= 1; i-- {
				pdl = append(pdl, vm.Arg(a, i), vm.Arg(b, i))
			}
		case ListCell, PartialString, String:
			ha, ta, okA := vm.listParts(a)
			hb, tb, okB := vm.listParts(b)
			if !okA || !okB {
				vm.Fail = true
				break
			}
			if _, ok := b.(String); !ok {
				if visited == nil {
					visited = map[addrPair]struct{}{}
				}
				p := addrPair{a, b}
				if _, ok := visited[p]; ok {
					continue
				}
				visited[p] = struct{}{}
			}
			pdl = append(pdl, ta, tb, ha, hb)
		default:
			if !equalConst(a, b) {
				vm.Fail = true
			}
		}
	}
	return !vm.Fail
}

// listParts decomposes a list-like value into its head and tail.
func (vm *VM) listParts(a Addr) (Addr, Addr, bool) {
	switch a := a.(type) {
	case ListCell:
		return vm.Heap.addr(int(a)), vm.Heap.addr(int(a) + 1), true
	case PartialString:
		text := string(vm.Heap[a.Block].(TextBlock))
		r, size := utf8.DecodeRuneInString(text[a.Offset:])
		if a.Offset+size < len(text) {
			return vm.textElem(r), PartialString{Block: a.Block, Offset: a.Offset + size}, true
		}
		return vm.textElem(r), vm.Heap.addr(a.Block + 1), true
	case String:
		if len(a) == 0 {
			return nil, nil, false
		}
		r, size := utf8.DecodeRuneInString(string(a))
		return vm.textElem(r), PutString(string(a[size:])), true
	default:
		return nil, nil, false
	}
}

// textElem is a character of a string as a list element: a code in codes mode, a char otherwise.
func (vm *VM) textElem(r rune) Addr {
	if vm.Flags.DoubleQuotes == DoubleQuotesCodes {
		return CharCode(r)
	}
	return Char(r)
}

// bindVars binds one of two distinct unbound variables to the other.
func (vm *VM) bindVars(a, b Addr) {
	switch a := a.(type) {
	case AttrVar:
		switch b := b.(type) {
		case AttrVar:
			older, younger := a, b
			if younger < older {
				older, younger = younger, older
			}
			vm.appendAttrs(older, younger)
			vm.bind(younger, older)
		default:
			vm.bind(b, a)
		}
	case HeapCell:
		switch b := b.(type) {
		case AttrVar:
			vm.bind(a, b)
		case StackCell:
			vm.bind(b, a)
		case HeapCell:
			if a < b {
				vm.bind(b, a)
			} else {
				vm.bind(a, b)
			}
		}
	case StackCell:
		switch b := b.(type) {
		case StackCell:
			if a.Frame < b.Frame || (a.Frame == b.Frame && a.Slot < b.Slot) {
				vm.bind(b, a)
			} else {
				vm.bind(a, b)
			}
		default:
			vm.bind(a, b)
		}
	}
}

// appendAttrs links the attribute list of younger to the open tail of the attribute list of older.
func (vm *VM) appendAttrs(older, younger AttrVar) {
	tail := vm.Deref(vm.Heap.addr(int(older) + 1))
	for {
		l, ok := tail.(ListCell)
		if !ok {
			break
		}
		tail = vm.Deref(vm.Heap.addr(int(l) + 1))
	}
	t, ok := tail.(HeapCell)
	if !ok {
		return
	}
	vm.relink(TrailAttrVarListLink, int(t), vm.Heap.addr(int(younger)+1))
}

func (vm *VM) bindValue(v, t Addr, occursCheck bool) {
	if occursCheck && vm.occurs(v, t) {
		vm.Fail = true
		return
	}
	vm.bind(v, t)
}

// occurs reports whether the variable v appears in t.
func (vm *VM) occurs(v, t Addr) bool {
	stack := []Addr{t}
	visited := map[Addr]struct{}{}
	for len(stack) > 0 {
		t := vm.Deref(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if t == v {
			return true
		}
		switch t := t.(type) {
		case Structure:
			if _, ok := visited[t]; ok {
				continue
			}
			visited[t] = struct{}{}
			for i := vm.Functor(t).Arity; i >= 1; i-- {
				stack = append(stack, vm.Arg(t, i))
			}
		case ListCell:
			if _, ok := visited[t]; ok {
				continue
			}
			visited[t] = struct{}{}
			stack = append(stack, vm.Heap.addr(int(t)+1), vm.Heap.addr(int(t)))
		case PartialString:
			if _, ok := visited[t]; ok {
				continue
			}
			visited[t] = struct{}{}
			stack = append(stack, vm.Heap.addr(t.Block+1))
		}
	}
	return false
}

func equalConst(a, b Addr) bool {
	switch a := a.(type) {
	case Atom:
		switch b := b.(type) {
		case Atom:
			return a == b
		case Char:
			return string(a) == string(rune(b))
		}
	case Char:
		switch b := b.(type) {
		case Char:
			return a == b
		case Atom:
			return string(rune(a)) == string(b)
		}
	case Integer:
		switch b := b.(type) {
		case Integer:
			return a == b
		case CharCode:
			return int64(a) == int64(b)
		case BigInt:
			return apd.New(int64(a), 0).Cmp(b.Value) == 0
		}
	case CharCode:
		switch b := b.(type) {
		case CharCode:
			return a == b
		case Integer:
			return int64(a) == int64(b)
		}
	case BigInt:
		switch b := b.(type) {
		case BigInt:
			return a.Value.Cmp(b.Value) == 0
		case Integer:
			return a.Value.Cmp(apd.New(int64(b), 0)) == 0
		}
	case Float:
		b, ok := b.(Float)
		return ok && a == b
	case Rational:
		b, ok := b.(Rational)
		return ok && a.Value.Cmp(b.Value) == 0
	case EmptyList:
		_, ok := b.(EmptyList)
		return ok
	default:
		return a == b
	}
	return false
}
