package syntax

import (
	"github.com/cockroachdb/apd"
)

// Term is a parsed term. It's one of Atom, Variable, Integer, BigInt, Float, String or *Compound.
type Term interface {
	term()
}

// Atom is an atom. [] and {} are atoms too.
type Atom string

// Variable is a named variable. Every occurrence of _ is a distinct variable.
type Variable string

// Integer is an integer which fits in int64.
type Integer int64

// BigInt is an integer which doesn't fit in Integer.
type BigInt struct {
	Value *apd.Decimal
}

// Float is a floating-point number.
type Float float64

// String is a double-quoted text. How it reads depends on the double_quotes flag of the consumer.
type String string

// Compound is a compound term. Lists are compounds of '.'/2.
type Compound struct {
	Functor Atom
	Args    []Term
}

func (Atom) term()      {}
func (Variable) term()  {}
func (Integer) term()   {}
func (BigInt) term()    {}
func (Float) term()     {}
func (String) term()    {}
func (*Compound) term() {}

// List returns a list of elems terminated by tail. A nil tail means [].
func List(elems []Term, tail Term) Term {
	if tail == nil {
		tail = Atom("[]")
	}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = &Compound{Functor: ".", Args: []Term{elems[i], tail}}
	}
	return tail
}
