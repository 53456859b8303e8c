package engine

import (
	"slices"
	"strings"

	"github.com/ichiban/wam/internal/rbtree"
)

// DB is a read-only view of the predicate and operator tables which database references enumerate.
// The loader populates it. Copies of a DB are snapshots.
type DB struct {
	preds rbtree.Map[Atom, []predEntry]
	ops   rbtree.Map[Atom, []OpDef]
}

type predEntry struct {
	module Atom
	arity  int
}

// OpDef is an operator definition.
type OpDef struct {
	Priority int
	Spec     Atom
}

type fixity int8

const (
	fixityPrefix fixity = iota
	fixityInfix
	fixityPostfix
)

func (o OpDef) fixity() fixity {
	switch o.Spec {
	case "fx", "fy":
		return fixityPrefix
	case "xf", "yf":
		return fixityPostfix
	default:
		return fixityInfix
	}
}

// AddPredicate registers name/arity defined in module.
func (db *DB) AddPredicate(module, name Atom, arity int) {
	es, _ := db.preds.Get(name)
	i, found := slices.BinarySearchFunc(es, arity, func(e predEntry, arity int) int {
		return e.arity - arity
	})
	es = slices.Clone(es)
	if found {
		es[i].module = module
	} else {
		es = slices.Insert(es, i, predEntry{module: module, arity: arity})
	}
	db.preds.Set(name, es)
}

// AddOperator registers an operator. A zero priority removes it.
func (db *DB) AddOperator(priority int, spec, name Atom) {
	op := OpDef{Priority: priority, Spec: spec}
	ds, _ := db.ops.Get(name)
	ds = slices.DeleteFunc(slices.Clone(ds), func(d OpDef) bool {
		return d.fixity() == op.fixity()
	})
	if priority > 0 {
		i, _ := slices.BinarySearchFunc(ds, op.fixity(), func(d OpDef, f fixity) int {
			return int(d.fixity()) - int(f)
		})
		ds = slices.Insert(ds, i, op)
	}
	db.ops.Set(name, ds)
}

// hidden reports whether a predicate is invisible to enumeration.
func (e predEntry) hidden(name Atom) bool {
	return e.module == "builtins" || strings.HasPrefix(string(name), "$")
}

// nextPredicate returns the first visible predicate strictly after name/arity. With ok false, it starts from the beginning.
func (db *DB) nextPredicate(name Atom, arity int, after bool) (DBRef, bool) {
	if db == nil {
		return DBRef{}, false
	}
	var (
		es []predEntry
		ok bool
	)
	if after {
		es, ok = db.preds.Get(name)
	} else {
		name, es, ok = db.preds.Min()
		arity = -1
	}
	for ok {
		for _, e := range es {
			if e.arity <= arity || e.hidden(name) {
				continue
			}
			return DBRef{Kind: DBRefPredicate, Name: name, Arity: e.arity}, true
		}
		name, es, ok = db.preds.Next(name)
		arity = -1
	}
	return DBRef{}, false
}

// nextOperator returns the operator strictly after the one given. With after false, it starts from the beginning.
func (db *DB) nextOperator(name Atom, op OpDef, after bool) (DBRef, bool) {
	if db == nil {
		return DBRef{}, false
	}
	var (
		ds []OpDef
		ok bool
		f  = fixity(-1)
	)
	if after {
		ds, ok = db.ops.Get(name)
		f = op.fixity()
	} else {
		name, ds, ok = db.ops.Min()
	}
	for ok {
		for _, d := range ds {
			if d.fixity() <= f {
				continue
			}
			return DBRef{Kind: DBRefOperator, Name: name, Priority: d.Priority, Spec: d.Spec}, true
		}
		name, ds, ok = db.ops.Next(name)
		f = -1
	}
	return DBRef{}, false
}

// GetNextDBRef binds an unbound ref to the first visible predicate, or binds next to the predicate following ref.
func (vm *VM) GetNextDBRef(ref, next Addr) {
	switch r := vm.Resolve(ref).(type) {
	case HeapCell, StackCell, AttrVar:
		d, ok := vm.DB.nextPredicate("", 0, false)
		if !ok {
			vm.Fail = true
			return
		}
		vm.bind(r, d)
	case DBRef:
		if r.Kind != DBRefPredicate {
			vm.Fail = true
			return
		}
		d, ok := vm.DB.nextPredicate(r.Name, r.Arity, true)
		n := vm.Deref(next)
		if !ok || !isVar(n) {
			vm.Fail = true
			return
		}
		vm.bind(n, d)
	default:
		vm.Fail = true
	}
}

// GetNextOpDBRef binds an unbound ref to the first operator, or binds next to the operator following ref.
func (vm *VM) GetNextOpDBRef(ref, next Addr) {
	switch r := vm.Resolve(ref).(type) {
	case HeapCell, StackCell, AttrVar:
		d, ok := vm.DB.nextOperator("", OpDef{}, false)
		if !ok {
			vm.Fail = true
			return
		}
		vm.bind(r, d)
	case DBRef:
		if r.Kind != DBRefOperator {
			vm.Fail = true
			return
		}
		d, ok := vm.DB.nextOperator(r.Name, OpDef{Priority: r.Priority, Spec: r.Spec}, true)
		n := vm.Deref(next)
		if !ok || !isVar(n) {
			vm.Fail = true
			return
		}
		vm.bind(n, d)
	default:
		vm.Fail = true
	}
}

// LookupDBRef unifies name and arity with the predicate ref points to.
func (vm *VM) LookupDBRef(ref, name, arity Addr) {
	r, ok := vm.Resolve(ref).(DBRef)
	if !ok || r.Kind != DBRefPredicate {
		vm.Fail = true
		return
	}
	if !vm.Unify(name, r.Name) {
		return
	}
	vm.Unify(arity, Integer(r.Arity))
}

// LookupOpDBRef unifies priority, spec, and name with the operator ref points to.
func (vm *VM) LookupOpDBRef(ref, priority, spec, name Addr) {
	r, ok := vm.Resolve(ref).(DBRef)
	if !ok || r.Kind != DBRefOperator {
		vm.Fail = true
		return
	}
	if !vm.Unify(Integer(r.Priority), priority) {
		return
	}
	if !vm.Unify(r.Spec, spec) {
		return
	}
	vm.Unify(r.Name, name)
}
