package wam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ichiban/wam/engine"
	"github.com/ichiban/wam/syntax"
)

// ErrNoGoal is returned when a query text holds no term.
var ErrNoGoal = errors.New("no goal")

// Session runs system calls of the core against goals read from text.
// Global variables and the predicate/operator index survive across queries. Everything else is per query.
type Session struct {
	engine.VM
	Operators syntax.Operators
}

// New creates a session configured by cfg. The index lists the system calls as built-ins and the reader's operators.
func New(cfg engine.Config) *Session {
	s := Session{
		VM:        *engine.New(cfg),
		Operators: syntax.DefaultOperators,
	}
	for c := engine.SystemCall(0); ; c++ {
		if _, ok := engine.ParseSystemCall(c.String()); !ok {
			break
		}
		s.DB.AddPredicate("builtins", engine.Atom(c.String()), c.Arity())
	}
	for _, op := range s.Operators {
		s.DB.AddOperator(op.Priority, engine.Atom(op.Type.String()), engine.Atom(op.Name))
	}
	return &s
}

// Define registers name/arity of module in the predicate index.
func (s *Session) Define(module, name string, arity int) {
	s.DB.AddPredicate(engine.Atom(module), engine.Atom(name), arity)
}

// Binding is a named variable of a query and its value.
type Binding struct {
	Name  string
	Value string
}

// Solution is the outcome of a query.
type Solution struct {
	OK       bool
	Bindings []Binding
}

func (s Solution) String() string {
	if !s.OK {
		return "false."
	}
	if len(s.Bindings) == 0 {
		return "true."
	}
	ls := make([]string, len(s.Bindings))
	for i, b := range s.Bindings {
		ls[i] = fmt.Sprintf("%s = %s", b.Name, b.Value)
	}
	return strings.Join(ls, ",\n") + "."
}

// Query reads a conjunction of system calls from text and runs them from left to right.
// It stops at the first failure. An exception raised by a call is returned as an error.
func (s *Session) Query(text string) (Solution, error) {
	s.Reset()

	p := syntax.NewParser(bufio.NewReader(strings.NewReader(text)))
	p.Operators = s.Operators
	t, err := p.Term()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Solution{}, ErrNoGoal
		}
		return Solution{}, fmt.Errorf("failed to read %q: %w", text, err)
	}

	b := builder{vm: &s.VM, vars: map[syntax.Variable]engine.Addr{}}
	goal := b.put(t)

	for _, g := range conjuncts(&s.VM, goal) {
		if err := s.call(g); err != nil {
			return Solution{}, err
		}
		if s.Fail {
			return Solution{}, nil
		}
	}

	sol := Solution{OK: true}
	for _, n := range b.names {
		v := s.Deref(b.vars[n])
		if v == b.vars[n] {
			continue
		}
		var sb strings.Builder
		if err := s.WriteTerm(&sb, v, engine.WriteOptions{Quoted: true, MaxDepth: s.MaxDepth}); err != nil {
			return Solution{}, err
		}
		sol.Bindings = append(sol.Bindings, Binding{Name: string(n), Value: sb.String()})
	}
	return sol, nil
}

func (s *Session) call(goal engine.Addr) error {
	var (
		name engine.Atom
		args []engine.Addr
	)
	switch g := s.Deref(goal).(type) {
	case engine.Atom:
		name = g
	case engine.Structure:
		f := s.Functor(g)
		name = f.Name
		for i := 1; i <= f.Arity; i++ {
			args = append(args, s.Arg(g, i))
		}
	case engine.HeapCell, engine.AttrVar:
		return s.InstantiationError()
	default:
		return s.TypeError(engine.ValidTypeCallable, g)
	}

	if name == "true" && len(args) == 0 {
		return nil
	}

	c, ok := engine.ParseSystemCall(string(name))
	if !ok || c.Arity() != len(args) {
		return s.ExistenceError(engine.ObjectTypeProcedure, s.PutStructure("/", name, engine.Integer(len(args))))
	}
	s.SetRegisters(args...)
	return s.Call(c)
}

// conjuncts flattens ','/2.
func conjuncts(vm *engine.VM, goal engine.Addr) []engine.Addr {
	var gs []engine.Addr
	for {
		s, ok := vm.Deref(goal).(engine.Structure)
		if !ok || vm.Functor(s) != (engine.Functor{Name: ",", Arity: 2}) {
			return append(gs, goal)
		}
		gs = append(gs, vm.Arg(s, 1))
		goal = vm.Arg(s, 2)
	}
}

// builder writes a parsed term onto the heap.
type builder struct {
	vm    *engine.VM
	vars  map[syntax.Variable]engine.Addr
	names []syntax.Variable
}

func (b *builder) put(t syntax.Term) engine.Addr {
	switch t := t.(type) {
	case syntax.Atom:
		if t == "[]" {
			return engine.EmptyList{}
		}
		return engine.Atom(t)
	case syntax.Variable:
		if t == "_" {
			return b.vm.PutVar()
		}
		if v, ok := b.vars[t]; ok {
			return v
		}
		v := b.vm.PutVar()
		b.vars[t] = v
		if !strings.HasPrefix(string(t), "_") {
			b.names = append(b.names, t)
		}
		return v
	case syntax.Integer:
		return engine.Integer(t)
	case syntax.BigInt:
		return engine.BigInt{Value: t.Value}
	case syntax.Float:
		return engine.Float(t)
	case syntax.String:
		if b.vm.Flags.DoubleQuotes == engine.DoubleQuotesAtom {
			return engine.Atom(t)
		}
		return engine.PutString(string(t))
	case *syntax.Compound:
		if t.Functor == "." && len(t.Args) == 2 {
			return b.list(t)
		}
		args := make([]engine.Addr, len(t.Args))
		for i, a := range t.Args {
			args[i] = b.put(a)
		}
		return b.vm.PutStructure(engine.Atom(t.Functor), args...)
	default:
		panic(fmt.Sprintf("unknown term: %T", t))
	}
}

func (b *builder) list(c *syntax.Compound) engine.Addr {
	var (
		elems []engine.Addr
		tail  syntax.Term = c
	)
	for {
		c, ok := tail.(*syntax.Compound)
		if !ok || c.Functor != "." || len(c.Args) != 2 {
			break
		}
		elems = append(elems, b.put(c.Args[0]))
		tail = c.Args[1]
	}
	return b.vm.PutList(elems, b.put(tail))
}
