package engine

import (
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/stretchr/testify/assert"
)

func TestVM_Unify(t *testing.T) {
	t.Run("bind and backtrack", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		a := vm.PutStructure("f", x, Integer(1))
		y := vm.PutVar()
		b := vm.PutStructure("f", Integer(2), y)
		vm.PushChoicePoint(42)

		assert.True(t, vm.Unify(a, b))
		assert.Equal(t, Integer(2), vm.Deref(x))
		assert.Equal(t, Integer(1), vm.Deref(y))
		assert.Len(t, vm.Trail, 2)

		assert.True(t, vm.Backtrack())
		assert.Equal(t, x, vm.Deref(x))
		assert.Equal(t, y, vm.Deref(y))
		assert.Empty(t, vm.Trail)
		assert.Equal(t, CodePtr(42), vm.P)
	})

	t.Run("younger to older", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		y := vm.PutVar()
		assert.True(t, vm.Unify(x, y))
		assert.Equal(t, x, vm.Heap[y])
		assert.Equal(t, x, vm.Heap[x])

		z := vm.PutVar()
		assert.True(t, vm.Unify(x, z))
		assert.Equal(t, x, vm.Heap[z])
	})

	t.Run("stack variable binds toward the heap", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		e := vm.Allocate(1)
		y := StackCell{Frame: e, Slot: 1}
		assert.True(t, vm.Unify(x, y))
		assert.Equal(t, x, vm.Deref(y))
		assert.Equal(t, x, vm.Heap[x])
	})

	t.Run("identical", func(t *testing.T) {
		var vm VM
		p := vm.PutPartialString("abc", EmptyList{})
		assert.True(t, vm.Unify(p, p))
		assert.Empty(t, vm.Trail)
	})

	t.Run("mismatch", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		a := vm.PutStructure("f", x, Atom("a"))
		b := vm.PutStructure("f", Integer(1), Atom("b"))
		assert.False(t, vm.Unify(a, b))
		assert.True(t, vm.Fail)

		// the binding made before the mismatch stays until backtracking.
		assert.Equal(t, Integer(1), vm.Deref(x))
	})

	t.Run("functor mismatch", func(t *testing.T) {
		var vm VM
		assert.False(t, vm.Unify(vm.PutStructure("f", Atom("a")), vm.PutStructure("g", Atom("a"))))
	})

	t.Run("rational trees", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		assert.True(t, vm.Unify(x, vm.PutStructure("f", x)))
		y := vm.PutVar()
		assert.True(t, vm.Unify(y, vm.PutStructure("f", y)))
		assert.True(t, vm.Unify(x, y))
	})

	t.Run("constants", func(t *testing.T) {
		tests := []struct {
			title string
			a, b  Addr
			ok    bool
		}{
			{title: "char and atom", a: Char('a'), b: Atom("a"), ok: true},
			{title: "char and longer atom", a: Char('a'), b: Atom("ab"), ok: false},
			{title: "code and integer", a: CharCode('a'), b: Integer(97), ok: true},
			{title: "big int and integer", a: BigInt{Value: apd.New(5, 0)}, b: Integer(5), ok: true},
			{title: "integer and float", a: Integer(1), b: Float(1), ok: false},
			{title: "empty list and atom", a: EmptyList{}, b: Atom("a"), ok: false},
			{title: "empty list", a: EmptyList{}, b: EmptyList{}, ok: true},
		}

		for _, tt := range tests {
			t.Run(tt.title, func(t *testing.T) {
				var vm VM
				assert.Equal(t, tt.ok, vm.Unify(tt.a, tt.b))
			})
		}
	})

	t.Run("string and list of chars", func(t *testing.T) {
		var vm VM
		l := vm.PutList([]Addr{Char('a'), Atom("b")}, EmptyList{})
		assert.True(t, vm.Unify(String("ab"), l))
	})

	t.Run("string and list of codes", func(t *testing.T) {
		vm := VM{Flags: Flags{DoubleQuotes: DoubleQuotesCodes}}
		l := vm.PutList([]Addr{Integer('a'), Integer('b')}, EmptyList{})
		assert.True(t, vm.Unify(String("ab"), l))
	})

	t.Run("partial string and string", func(t *testing.T) {
		var vm VM
		tail := vm.PutVar()
		p := vm.PutPartialString("ab", tail)
		assert.True(t, vm.Unify(p, String("abc")))
		assert.Equal(t, String("c"), vm.Deref(tail))
	})

	t.Run("partial string in codes mode", func(t *testing.T) {
		vm := VM{Flags: Flags{DoubleQuotes: DoubleQuotesCodes}}
		p := vm.PutPartialString("ab", EmptyList{})
		assert.True(t, vm.Unify(p, String("ab")))

		p = vm.PutPartialString("ab", EmptyList{})
		assert.True(t, vm.Unify(p, vm.PutList([]Addr{Integer('a'), Integer('b')}, EmptyList{})))

		p = vm.PutPartialString("ab", EmptyList{})
		assert.False(t, vm.Unify(p, vm.PutList([]Addr{Atom("a"), Atom("b")}, EmptyList{})))
	})

	t.Run("partial string too long", func(t *testing.T) {
		var vm VM
		p := vm.PutPartialString("abcd", vm.PutVar())
		assert.False(t, vm.Unify(p, String("abc")))
	})

	t.Run("attributed variables", func(t *testing.T) {
		var vm VM
		older := vm.PutAttrVar()
		younger := vm.PutAttrVar()
		assert.True(t, vm.Unify(younger, older))
		assert.Equal(t, older, vm.Deref(younger))

		// the attribute list of the younger one is appended to the older one's.
		assert.Equal(t, HeapCell(int(younger)+1), vm.Heap[int(older)+1])
		assert.Equal(t, []AttrBinding{{Var: younger, Value: older}}, vm.Ledger.Bindings())

		vm.undoTrail(0)
		assert.Equal(t, HeapCell(int(older)+1), vm.Heap[int(older)+1])
		assert.Equal(t, younger, vm.Deref(younger))
	})

	t.Run("attributed variable and value", func(t *testing.T) {
		var vm VM
		av := vm.PutAttrVar()
		assert.True(t, vm.Unify(av, Atom("a")))
		assert.Equal(t, []AttrBinding{{Var: av, Value: Atom("a")}}, vm.Ledger.Bindings())
	})
}

func TestVM_UnifyWithOccursCheck(t *testing.T) {
	t.Run("rejects", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		s := vm.PutStructure("f", vm.PutStructure("g", x))
		assert.False(t, vm.UnifyWithOccursCheck(x, s))
		assert.True(t, vm.Fail)
		assert.Equal(t, x, vm.Deref(x))
	})

	t.Run("inside a list", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		l := vm.PutList([]Addr{Atom("a"), x}, EmptyList{})
		assert.False(t, vm.UnifyWithOccursCheck(l, x))
	})

	t.Run("accepts", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		y := vm.PutVar()
		s := vm.PutStructure("f", y)
		assert.True(t, vm.UnifyWithOccursCheck(x, s))
		assert.Equal(t, s, vm.Deref(x))
	})

	t.Run("cyclic term", func(t *testing.T) {
		var vm VM
		y := vm.PutVar()
		c := vm.PutStructure("f", y)
		assert.True(t, vm.Unify(y, c))

		x := vm.PutVar()
		assert.True(t, vm.UnifyWithOccursCheck(x, c))
	})
}
