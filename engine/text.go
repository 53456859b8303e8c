package engine

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ichiban/wam/syntax"
)

// CreatePartialString places the text of atom on the heap as a partial string with a fresh tail
// and unifies pstr and tail with them.
func (vm *VM) CreatePartialString(atom, pstr, tail Addr) error {
	text, err := vm.atomText(atom)
	if err != nil {
		return err
	}
	if text == "" {
		return vm.RepresentationError(FlagCharacter)
	}
	h := len(vm.Heap)
	p := vm.PutPartialString(text, HeapCell(h+1))
	if vm.Unify(pstr, p) {
		vm.Unify(tail, HeapCell(h+1))
	}
	return nil
}

// IsPartialString succeeds if a is a location inside a partial string.
func (vm *VM) IsPartialString(a Addr) {
	if _, ok := vm.Deref(a).(PartialString); !ok {
		vm.Fail = true
	}
}

// PartialStringTail unifies tail with the tail of the partial string pstr.
func (vm *VM) PartialStringTail(pstr, tail Addr) {
	p, ok := vm.Deref(pstr).(PartialString)
	if !ok {
		vm.Fail = true
		return
	}
	vm.Unify(vm.Heap.addr(p.Block+1), tail)
}

func (vm *VM) atomText(a Addr) (string, error) {
	switch a := vm.Deref(a).(type) {
	case HeapCell, StackCell, AttrVar:
		return "", vm.InstantiationError()
	case Atom:
		return string(a), nil
	case Char:
		return string(rune(a)), nil
	case EmptyList:
		return "[]", nil
	default:
		return "", vm.TypeError(ValidTypeAtom, a)
	}
}

// CharCode relates a character and its code.
func (vm *VM) CharCode(char, code Addr) error {
	switch ch := vm.Deref(char).(type) {
	case HeapCell, StackCell, AttrVar:
		switch cd := vm.Deref(code).(type) {
		case HeapCell, StackCell, AttrVar:
			return vm.InstantiationError()
		case Integer, CharCode:
			r, ok := codeOf(cd)
			if !ok {
				return vm.RepresentationError(FlagCharacterCode)
			}
			vm.Unify(ch, Char(r))
			return nil
		default:
			return vm.TypeError(ValidTypeInteger, cd)
		}
	case Atom, Char:
		r, ok := charOf(ch)
		if !ok {
			return vm.TypeError(ValidTypeCharacter, ch)
		}
		vm.Unify(code, Integer(r))
		return nil
	default:
		return vm.TypeError(ValidTypeCharacter, ch)
	}
}

func charOf(a Addr) (rune, bool) {
	switch a := a.(type) {
	case Char:
		return rune(a), true
	case Atom:
		r, size := utf8.DecodeRuneInString(string(a))
		return r, size > 0 && size == len(a)
	default:
		return 0, false
	}
}

func codeOf(a Addr) (rune, bool) {
	var n int64
	switch a := a.(type) {
	case Integer:
		n = int64(a)
	case CharCode:
		n = int64(a)
	default:
		return 0, false
	}
	if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}

// AtomLength unifies length with the number of characters of atom.
func (vm *VM) AtomLength(atom, length Addr) error {
	text, err := vm.atomText(atom)
	if err != nil {
		return err
	}
	switch l := vm.Deref(length).(type) {
	case HeapCell, StackCell, AttrVar:
		break
	case Integer:
		if l < 0 {
			return vm.DomainError(ValidDomainNotLessThanZero, l)
		}
	default:
		return vm.TypeError(ValidTypeInteger, l)
	}
	vm.Unify(length, Integer(utf8.RuneCountInString(text)))
	return nil
}

// AtomChars relates an atom and the list of its characters.
func (vm *VM) AtomChars(atom, chars Addr) error {
	return vm.atomToList(atom, chars, false)
}

// AtomCodes relates an atom and the list of its character codes.
func (vm *VM) AtomCodes(atom, codes Addr) error {
	return vm.atomToList(atom, codes, true)
}

func (vm *VM) atomToList(atom, list Addr, codes bool) error {
	if isVar(vm.Deref(atom)) {
		text, err := vm.listText(list, codes)
		if err != nil {
			return err
		}
		vm.Unify(atom, Atom(text))
		return nil
	}
	text, err := vm.atomText(atom)
	if err != nil {
		return err
	}
	vm.Unify(list, vm.putText(text, codes))
	return nil
}

// putText places text as a list of characters or codes.
// Partial strings read as codes in codes mode, so chars are spelled out there.
func (vm *VM) putText(text string, codes bool) Addr {
	if !codes && vm.Flags.DoubleQuotes != DoubleQuotesCodes {
		return vm.PutPartialString(text, EmptyList{})
	}
	var elems []Addr
	for _, r := range text {
		if codes {
			elems = append(elems, Integer(r))
		} else {
			elems = append(elems, Char(r))
		}
	}
	return vm.PutList(elems, EmptyList{})
}

// listText reads a proper list of characters or codes.
func (vm *VM) listText(list Addr, codes bool) (string, error) {
	var sb strings.Builder
	iter := ListIterator{VM: vm, List: list}
	for iter.Next() {
		e := vm.Deref(iter.Current())
		if isVar(e) {
			return "", vm.InstantiationError()
		}
		if codes {
			r, ok := codeOf(e)
			if !ok {
				return "", vm.RepresentationError(FlagCharacterCode)
			}
			sb.WriteRune(r)
			continue
		}
		r, ok := charOf(e)
		if !ok {
			return "", vm.TypeError(ValidTypeCharacter, e)
		}
		sb.WriteRune(r)
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// CharsToNumber parses a list of characters as a number and unifies n with it.
func (vm *VM) CharsToNumber(chars, n Addr) error {
	return vm.textToNumber(chars, n, false)
}

// CodesToNumber parses a list of character codes as a number and unifies n with it.
func (vm *VM) CodesToNumber(codes, n Addr) error {
	return vm.textToNumber(codes, n, true)
}

func (vm *VM) textToNumber(list, n Addr, codes bool) error {
	text, err := vm.listText(list, codes)
	if err != nil {
		return err
	}
	t, err := syntax.ParseNumber(text)
	if err != nil {
		if errors.Is(err, syntax.ErrNotANumber) {
			return vm.SyntaxError(syntax.ErrNotANumber)
		}
		return vm.SyntaxError(err)
	}
	vm.Unify(n, numberAddr(t))
	return nil
}

func numberAddr(t syntax.Term) Addr {
	switch t := t.(type) {
	case syntax.Integer:
		return Integer(t)
	case syntax.BigInt:
		return BigInt{Value: t.Value}
	case syntax.Float:
		return Float(t)
	default:
		return nil
	}
}

// NumberToChars unifies chars with the characters of the number n.
func (vm *VM) NumberToChars(n, chars Addr) error {
	return vm.numberToText(n, chars, false)
}

// NumberToCodes unifies codes with the character codes of the number n.
func (vm *VM) NumberToCodes(n, codes Addr) error {
	return vm.numberToText(n, codes, true)
}

func (vm *VM) numberToText(n, list Addr, codes bool) error {
	var text string
	switch n := vm.Deref(n).(type) {
	case HeapCell, StackCell, AttrVar:
		return vm.InstantiationError()
	case Integer:
		text = strconv.FormatInt(int64(n), 10)
	case BigInt:
		text = n.Value.Text('f')
	case Float:
		text = formatFloat(float64(n))
	default:
		return vm.TypeError(ValidTypeNumber, n)
	}
	vm.Unify(list, vm.putText(text, codes))
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
