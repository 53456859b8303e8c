package engine

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd"
)

// Cell is a value stored in a slot of a heap.
type Cell interface {
	cell()
}

// Addr is a tagged reference to a term. It is either a location in one of the arenas or a constant.
type Addr interface {
	Cell
	addr()
}

// HeapCell is a heap location. If the slot holds the same HeapCell, it's an unbound variable.
type HeapCell int

// StackCell is a permanent variable slot of an environment frame.
type StackCell struct {
	Frame, Slot int
}

// AttrVar is a variable with an attribute list stored at the next heap slot.
type AttrVar int

// Structure is a compound term whose Functor header lives at the heap slot.
type Structure int

// ListCell is a cons cell. The head lives at the heap slot and the tail at the next one.
type ListCell int

// PartialString is a position inside a TextBlock. Offset is a byte offset.
type PartialString struct {
	Block, Offset int
}

// Atom is an atom constant.
type Atom string

// Integer is a small integer constant.
type Integer int64

// BigInt is an integer constant which doesn't fit in Integer.
type BigInt struct {
	Value *apd.Decimal
}

// Float is a floating-point constant.
type Float float64

// Rational is a rational number constant.
type Rational struct {
	Value *big.Rat
}

// Char is a character constant. It's interchangeable with an atom of one character.
type Char rune

// CharCode is a character code constant. It's interchangeable with the same Integer.
type CharCode rune

// EmptyList is [].
type EmptyList struct{}

// String is a complete string constant. It reads as a list of characters.
type String string

// Usize is an internal counter such as a heap offset or a queue length.
type Usize int

// CutPoint is a choice point captured as a cut barrier.
type CutPoint int

// Stream is an opaque stream handle.
type Stream int

// CodePtr is a position in the compiled code.
type CodePtr int

// DBRefKind distinguishes predicate references from operator references.
type DBRefKind int8

const (
	DBRefPredicate DBRefKind = iota
	DBRefOperator
)

// DBRef is an opaque reference to an entry of the predicate or operator tables.
type DBRef struct {
	Kind     DBRefKind
	Name     Atom
	Arity    int
	Priority int
	Spec     Atom
}

// Functor is the header cell of a Structure.
type Functor struct {
	Name  Atom
	Arity int
}

// TextBlock is the head cell of a partial string. Its tail lives at the next heap slot.
type TextBlock string

func (HeapCell) cell()      {}
func (StackCell) cell()     {}
func (AttrVar) cell()       {}
func (Structure) cell()     {}
func (ListCell) cell()      {}
func (PartialString) cell() {}
func (Atom) cell()          {}
func (Integer) cell()       {}
func (BigInt) cell()        {}
func (Float) cell()         {}
func (Rational) cell()      {}
func (Char) cell()          {}
func (CharCode) cell()      {}
func (EmptyList) cell()     {}
func (String) cell()        {}
func (Usize) cell()         {}
func (CutPoint) cell()      {}
func (Stream) cell()        {}
func (CodePtr) cell()       {}
func (DBRef) cell()         {}
func (Functor) cell()       {}
func (TextBlock) cell()     {}

func (HeapCell) addr()      {}
func (StackCell) addr()     {}
func (AttrVar) addr()       {}
func (Structure) addr()     {}
func (ListCell) addr()      {}
func (PartialString) addr() {}
func (Atom) addr()          {}
func (Integer) addr()       {}
func (BigInt) addr()        {}
func (Float) addr()         {}
func (Rational) addr()      {}
func (Char) addr()          {}
func (CharCode) addr()      {}
func (EmptyList) addr()     {}
func (String) addr()        {}
func (Usize) addr()         {}
func (CutPoint) addr()      {}
func (Stream) addr()        {}
func (CodePtr) addr()       {}
func (DBRef) addr()         {}

func (h HeapCell) String() string  { return fmt.Sprintf("HeapCell(%d)", int(h)) }
func (s StackCell) String() string { return fmt.Sprintf("StackCell(%d, %d)", s.Frame, s.Slot) }
func (a AttrVar) String() string   { return fmt.Sprintf("AttrVar(%d)", int(a)) }
func (s Structure) String() string { return fmt.Sprintf("Structure(%d)", int(s)) }
func (l ListCell) String() string  { return fmt.Sprintf("ListCell(%d)", int(l)) }
func (p PartialString) String() string {
	return fmt.Sprintf("PartialString(%d, %d)", p.Block, p.Offset)
}
func (a Atom) String() string    { return fmt.Sprintf("Atom(%s)", strconv.Quote(string(a))) }
func (i Integer) String() string { return fmt.Sprintf("Integer(%d)", int64(i)) }
func (b BigInt) String() string  { return fmt.Sprintf("BigInt(%s)", b.Value.Text('f')) }
func (f Float) String() string {
	return fmt.Sprintf("Float(%s)", strconv.FormatFloat(float64(f), 'g', -1, 64))
}
func (r Rational) String() string { return fmt.Sprintf("Rational(%s)", r.Value.RatString()) }
func (c Char) String() string     { return fmt.Sprintf("Char(%s)", strconv.QuoteRune(rune(c))) }
func (c CharCode) String() string { return fmt.Sprintf("CharCode(%d)", int32(c)) }
func (EmptyList) String() string  { return "EmptyList" }
func (s String) String() string   { return fmt.Sprintf("String(%s)", strconv.Quote(string(s))) }
func (u Usize) String() string    { return fmt.Sprintf("Usize(%d)", int(u)) }
func (c CutPoint) String() string { return fmt.Sprintf("CutPoint(%d)", int(c)) }
func (s Stream) String() string   { return fmt.Sprintf("Stream(%d)", int(s)) }
func (p CodePtr) String() string  { return fmt.Sprintf("CodePtr(%d)", int(p)) }
func (f Functor) String() string {
	return fmt.Sprintf("Functor(%s/%d)", strconv.Quote(string(f.Name)), f.Arity)
}
func (t TextBlock) String() string { return fmt.Sprintf("TextBlock(%s)", strconv.Quote(string(t))) }

func (r DBRef) String() string {
	switch r.Kind {
	case DBRefOperator:
		return fmt.Sprintf("DBRef(op(%d, %s, %s))", r.Priority, r.Spec, r.Name)
	default:
		return fmt.Sprintf("DBRef(%s/%d)", r.Name, r.Arity)
	}
}

// isVar reports whether the address is a variable location.
func isVar(a Addr) bool {
	switch a.(type) {
	case HeapCell, StackCell, AttrVar:
		return true
	default:
		return false
	}
}

// relocate shifts heap-based locations in a cell by delta.
func relocate(c Cell, delta int) Cell {
	switch c := c.(type) {
	case HeapCell:
		return c + HeapCell(delta)
	case AttrVar:
		return c + AttrVar(delta)
	case Structure:
		return c + Structure(delta)
	case ListCell:
		return c + ListCell(delta)
	case PartialString:
		return PartialString{Block: c.Block + delta, Offset: c.Offset}
	default:
		return c
	}
}
