package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM_GetNextDBRef(t *testing.T) {
	var db DB
	db.AddPredicate("user", "foo", 2)
	db.AddPredicate("user", "foo", 1)
	db.AddPredicate("builtins", "bar", 0)
	db.AddPredicate("user", "$aux", 1)
	db.AddPredicate("user", "baz", 0)

	vm := VM{DB: &db}

	var got []DBRef
	ref := Addr(vm.PutVar())
	vm.GetNextDBRef(ref, vm.PutVar())
	require.False(t, vm.Fail)
	for !vm.Fail {
		r, ok := vm.Deref(ref).(DBRef)
		require.True(t, ok)
		got = append(got, r)

		next := vm.PutVar()
		vm.GetNextDBRef(ref, next)
		ref = next
	}

	assert.Equal(t, []DBRef{
		{Kind: DBRefPredicate, Name: "baz", Arity: 0},
		{Kind: DBRefPredicate, Name: "foo", Arity: 1},
		{Kind: DBRefPredicate, Name: "foo", Arity: 2},
	}, got)
}

func TestVM_GetNextDBRef_fail(t *testing.T) {
	t.Run("no predicates", func(t *testing.T) {
		var vm VM
		vm.GetNextDBRef(vm.PutVar(), vm.PutVar())
		assert.True(t, vm.Fail)
	})

	t.Run("next is bound", func(t *testing.T) {
		var db DB
		db.AddPredicate("user", "a", 0)
		db.AddPredicate("user", "b", 0)
		vm := VM{DB: &db}
		vm.GetNextDBRef(DBRef{Kind: DBRefPredicate, Name: "a"}, Atom("x"))
		assert.True(t, vm.Fail)
	})

	t.Run("operator reference", func(t *testing.T) {
		vm := VM{DB: &DB{}}
		vm.GetNextDBRef(DBRef{Kind: DBRefOperator, Name: "+"}, vm.PutVar())
		assert.True(t, vm.Fail)
	})

	t.Run("not a reference", func(t *testing.T) {
		vm := VM{DB: &DB{}}
		vm.GetNextDBRef(Atom("foo"), vm.PutVar())
		assert.True(t, vm.Fail)
	})
}

func TestVM_GetNextOpDBRef(t *testing.T) {
	var db DB
	db.AddOperator(700, "xfx", "=")
	db.AddOperator(500, "yfx", "-")
	db.AddOperator(200, "fy", "-")
	db.AddOperator(100, "xf", "!")
	db.AddOperator(1200, "xfx", ":-")
	db.AddOperator(0, "xfx", ":-")
	db.AddOperator(400, "yfx", "-")

	vm := VM{DB: &db}

	var got []DBRef
	ref := Addr(vm.PutVar())
	vm.GetNextOpDBRef(ref, vm.PutVar())
	require.False(t, vm.Fail)
	for !vm.Fail {
		r, ok := vm.Deref(ref).(DBRef)
		require.True(t, ok)
		got = append(got, r)

		next := vm.PutVar()
		vm.GetNextOpDBRef(ref, next)
		ref = next
	}

	assert.Equal(t, []DBRef{
		{Kind: DBRefOperator, Name: "!", Priority: 100, Spec: "xf"},
		{Kind: DBRefOperator, Name: "-", Priority: 200, Spec: "fy"},
		{Kind: DBRefOperator, Name: "-", Priority: 400, Spec: "yfx"},
		{Kind: DBRefOperator, Name: "=", Priority: 700, Spec: "xfx"},
	}, got)
}

func TestVM_LookupDBRef(t *testing.T) {
	t.Run("predicate", func(t *testing.T) {
		var vm VM
		name, arity := vm.PutVar(), vm.PutVar()
		vm.LookupDBRef(DBRef{Kind: DBRefPredicate, Name: "foo", Arity: 2}, name, arity)
		assert.False(t, vm.Fail)
		assert.Equal(t, Atom("foo"), vm.Deref(name))
		assert.Equal(t, Integer(2), vm.Deref(arity))
	})

	t.Run("mismatch", func(t *testing.T) {
		var vm VM
		vm.LookupDBRef(DBRef{Kind: DBRefPredicate, Name: "foo", Arity: 2}, Atom("bar"), vm.PutVar())
		assert.True(t, vm.Fail)
	})

	t.Run("operator", func(t *testing.T) {
		var vm VM
		vm.LookupDBRef(DBRef{Kind: DBRefOperator, Name: "+"}, vm.PutVar(), vm.PutVar())
		assert.True(t, vm.Fail)
	})
}

func TestVM_LookupOpDBRef(t *testing.T) {
	t.Run("operator", func(t *testing.T) {
		var vm VM
		priority, spec, name := vm.PutVar(), vm.PutVar(), vm.PutVar()
		vm.LookupOpDBRef(DBRef{Kind: DBRefOperator, Name: "+", Priority: 500, Spec: "yfx"}, priority, spec, name)
		assert.False(t, vm.Fail)
		assert.Equal(t, Integer(500), vm.Deref(priority))
		assert.Equal(t, Atom("yfx"), vm.Deref(spec))
		assert.Equal(t, Atom("+"), vm.Deref(name))
	})

	t.Run("predicate", func(t *testing.T) {
		var vm VM
		vm.LookupOpDBRef(DBRef{Kind: DBRefPredicate, Name: "foo"}, vm.PutVar(), vm.PutVar(), vm.PutVar())
		assert.True(t, vm.Fail)
	})
}

func TestDBRef_String(t *testing.T) {
	assert.Equal(t, "DBRef(foo/1)", DBRef{Kind: DBRefPredicate, Name: "foo", Arity: 1}.String())
	assert.Equal(t, "DBRef(op(200, xfy, ^))", DBRef{Kind: DBRefOperator, Name: "^", Priority: 200, Spec: "xfy"}.String())
}
