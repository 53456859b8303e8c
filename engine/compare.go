package engine

import (
	"cmp"
	"math/big"
	"strings"
)

// Compare compares two terms in the standard order: Var < Number < Atom < other constants < Compound.
// Lists and strings compare as '.'/2 compounds. Cyclic terms compare without looping.
func (vm *VM) Compare(a, b Addr) int {
	pairs := []Addr{a, b}
	var visited map[addrPair]struct{}
	for len(pairs) > 0 {
		a, b := vm.Deref(pairs[len(pairs)-2]), vm.Deref(pairs[len(pairs)-1])
		pairs = pairs[:len(pairs)-2]
		if a == b {
			continue
		}

		if o := cmp.Compare(rank(a), rank(b)); o != 0 {
			return o
		}

		switch a := a.(type) {
		case HeapCell, StackCell, AttrVar:
			if o := compareVars(a, b); o != 0 {
				return o
			}
		case Integer, CharCode, BigInt, Rational, Float:
			if o := compareNumbers(a, b); o != 0 {
				return o
			}
		case Atom, Char, EmptyList:
			if o := strings.Compare(atomText(a), atomText(b)); o != 0 {
				return o
			}
		case Structure, ListCell, PartialString, String:
			fa, argsA := vm.compound(a)
			fb, argsB := vm.compound(b)
			if o := cmp.Compare(fa.Arity, fb.Arity); o != 0 {
				return o
			}
			if o := strings.Compare(string(fa.Name), string(fb.Name)); o != 0 {
				return o
			}
			if visited == nil {
				visited = map[addrPair]struct{}{}
			}
			p := addrPair{a, b}
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			for i := len(argsA) - 1; i >= 0; i-- {
				pairs = append(pairs, argsA[i], argsB[i])
			}
		default:
			if o := strings.Compare(cellString(a), cellString(b)); o != 0 {
				return o
			}
		}
	}
	return 0
}

func rank(a Addr) int {
	switch a.(type) {
	case HeapCell, StackCell, AttrVar:
		return 0
	case Integer, CharCode, BigInt, Rational, Float:
		return 1
	case Atom, Char, EmptyList:
		return 2
	case Structure, ListCell, PartialString, String:
		return 4
	default:
		return 3
	}
}

func compareVars(a, b Addr) int {
	key := func(a Addr) (int, int, int) {
		switch a := a.(type) {
		case HeapCell:
			return 0, int(a), 0
		case AttrVar:
			return 0, int(a), 0
		case StackCell:
			return 1, a.Frame, a.Slot
		default:
			return 2, 0, 0
		}
	}
	ka, ia, sa := key(a)
	kb, ib, sb := key(b)
	if o := cmp.Compare(ka, kb); o != 0 {
		return o
	}
	if o := cmp.Compare(ia, ib); o != 0 {
		return o
	}
	return cmp.Compare(sa, sb)
}

// compareNumbers compares by value. A float precedes an integer of the same value.
func compareNumbers(a, b Addr) int {
	fa, aIsFloat := a.(Float)
	fb, bIsFloat := b.(Float)
	switch {
	case aIsFloat && bIsFloat:
		return cmp.Compare(fa, fb)
	case aIsFloat:
		f, _ := rat(b).Float64()
		if o := cmp.Compare(float64(fa), f); o != 0 {
			return o
		}
		return -1
	case bIsFloat:
		f, _ := rat(a).Float64()
		if o := cmp.Compare(f, float64(fb)); o != 0 {
			return o
		}
		return 1
	default:
		return rat(a).Cmp(rat(b))
	}
}

func rat(a Addr) *big.Rat {
	switch a := a.(type) {
	case Integer:
		return new(big.Rat).SetInt64(int64(a))
	case CharCode:
		return new(big.Rat).SetInt64(int64(a))
	case BigInt:
		r, ok := new(big.Rat).SetString(a.Value.Text('f'))
		if !ok {
			return new(big.Rat)
		}
		return r
	case Rational:
		return a.Value
	default:
		return new(big.Rat)
	}
}

func atomText(a Addr) string {
	switch a := a.(type) {
	case Atom:
		return string(a)
	case Char:
		return string(rune(a))
	case EmptyList:
		return "[]"
	default:
		return ""
	}
}

func cellString(a Addr) string {
	if s, ok := a.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// compound returns the principal functor and the arguments of a compound or list-like term.
func (vm *VM) compound(a Addr) (Functor, []Addr) {
	switch a := a.(type) {
	case Structure:
		f := vm.Functor(a)
		args := make([]Addr, f.Arity)
		for i := range args {
			args[i] = vm.Arg(a, i+1)
		}
		return f, args
	default:
		h, t, _ := vm.listParts(a)
		return Functor{Name: ".", Arity: 2}, []Addr{h, t}
	}
}

// Variant reports whether a and b are equal up to a consistent renaming of variables.
func (vm *VM) Variant(a, b Addr) bool {
	var (
		pairs   = []Addr{a, b}
		ab, ba  = map[Addr]Addr{}, map[Addr]Addr{}
		visited = map[addrPair]struct{}{}
	)
	for len(pairs) > 0 {
		a, b := vm.Deref(pairs[len(pairs)-2]), vm.Deref(pairs[len(pairs)-1])
		pairs = pairs[:len(pairs)-2]

		switch {
		case isVar(a) && isVar(b):
			if x, ok := ab[a]; ok && x != b {
				return false
			}
			if y, ok := ba[b]; ok && y != a {
				return false
			}
			ab[a], ba[b] = b, a
			continue
		case isVar(a) || isVar(b):
			return false
		}

		if rank(a) == 4 && rank(b) == 4 {
			p := addrPair{a, b}
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			fa, argsA := vm.compound(a)
			fb, argsB := vm.compound(b)
			if fa != fb {
				return false
			}
			for i := len(argsA) - 1; i >= 0; i-- {
				pairs = append(pairs, argsA[i], argsB[i])
			}
			continue
		}

		if vm.Compare(a, b) != 0 {
			return false
		}
	}
	return true
}

// TermVariables unifies list with the distinct variables of t in depth-first, left-to-right order.
func (vm *VM) TermVariables(t, list Addr) {
	var (
		vars    []Addr
		seen    = map[Addr]struct{}{}
		visited = map[Addr]struct{}{}
		stack   = []Addr{t}
	)
	for len(stack) > 0 {
		t := vm.Deref(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		switch t := t.(type) {
		case HeapCell, StackCell, AttrVar:
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				vars = append(vars, t)
			}
		case Structure, ListCell, PartialString:
			if _, ok := visited[t]; ok {
				continue
			}
			visited[t] = struct{}{}
			_, args := vm.compound(t)
			for i := len(args) - 1; i >= 0; i-- {
				stack = append(stack, args[i])
			}
		}
	}
	vm.Unify(vm.PutList(vars, EmptyList{}), list)
}
