package engine

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestVM_Snapshot(t *testing.T) {
	t.Run("layout", func(t *testing.T) {
		// f(X, [a|X], "s")
		var vm VM
		x := vm.PutVar()
		l := vm.PutList([]Addr{Atom("a")}, x)
		s := vm.PutStructure("f", x, l, String("s"))

		b := vm.Snapshot(s, DeepCopy)
		assert.Equal(t, len(vm.Heap), b.Boundary)

		cells, err := b.CopyAndAlign(0)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, cells.Dump(&buf))
		newGoldie(t).Assert(t, "ball", buf.Bytes())
	})

	t.Run("round trip", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		y := vm.PutVar()
		s := vm.PutStructure("g", x, vm.PutList([]Addr{y, x}, vm.PutPartialString("ab", y)), Float(1.5))

		b := vm.Snapshot(s, DeepCopy)
		c, err := vm.spliceBall(b)
		require.NoError(t, err)

		assert.True(t, vm.Variant(s, c))
		assert.NotEqual(t, s, c)

		// the copy shares no variable with the original.
		assert.True(t, vm.Unify(c, vm.PutStructure("g", Atom("p"), vm.PutVar(), vm.PutVar())))
		assert.Equal(t, x, vm.Deref(x))
	})

	t.Run("cyclic", func(t *testing.T) {
		var vm VM
		x := vm.PutVar()
		s := vm.PutStructure("f", x)
		require.True(t, vm.Unify(x, s))

		b := vm.Snapshot(s, DeepCopy)
		c, err := vm.spliceBall(b)
		require.NoError(t, err)

		cs, ok := c.(Structure)
		require.True(t, ok)
		assert.Equal(t, cs, vm.Deref(vm.Arg(cs, 1)))
	})

	t.Run("attributed variables", func(t *testing.T) {
		var vm VM
		av := vm.PutAttrVar()
		vm.Heap[int(av)+1] = vm.PutList([]Addr{Atom("attr")}, vm.PutVar())

		deep := vm.Snapshot(av, DeepCopy)
		c, err := vm.spliceBall(deep)
		require.NoError(t, err)
		cav, ok := c.(AttrVar)
		require.True(t, ok)
		assert.NotEqual(t, av, cav)
		attrs, ok := vm.Deref(vm.Heap.addr(int(cav) + 1)).(ListCell)
		require.True(t, ok)
		assert.Equal(t, Atom("attr"), vm.Deref(vm.Heap.addr(int(attrs))))

		stripped := vm.Snapshot(av, StripAttributes)
		c, err = vm.spliceBall(stripped)
		require.NoError(t, err)
		_, ok = c.(HeapCell)
		assert.True(t, ok)
	})
}

func TestVM_CopyTerm(t *testing.T) {
	var vm VM
	x := vm.PutVar()
	s := vm.PutStructure("f", x, x)
	y := vm.PutVar()

	assert.True(t, vm.CopyTerm(s, y, DeepCopy))
	c, ok := vm.Deref(y).(Structure)
	require.True(t, ok)
	assert.NotEqual(t, s, c)
	assert.Equal(t, vm.Deref(vm.Arg(c, 1)), vm.Deref(vm.Arg(c, 2)))
	assert.NotEqual(t, x, vm.Deref(vm.Arg(c, 1)))
}

func TestVM_CopyTerm_attributed(t *testing.T) {
	t.Run("deep copy", func(t *testing.T) {
		var vm VM
		v := vm.PutAttrVar()
		mark := vm.Ledger.Mark()

		y := vm.PutVar()
		require.True(t, vm.CopyTerm(v, y, DeepCopy))
		c, ok := vm.Deref(y).(AttrVar)
		require.True(t, ok)
		assert.NotEqual(t, v, c)

		vars := vm.PutVar()
		vm.GetAttrVarQueueBeyond(Usize(mark), vars)
		require.False(t, vm.Fail)
		assert.Equal(t, []Addr{c}, listElems(t, &vm, vars))
	})

	t.Run("strip attributes", func(t *testing.T) {
		var vm VM
		v := vm.PutAttrVar()
		mark := vm.Ledger.Mark()

		require.True(t, vm.CopyTerm(v, vm.PutVar(), StripAttributes))
		assert.Equal(t, mark, vm.Ledger.Mark())
	})
}

func listElems(t *testing.T, vm *VM, l Addr) []Addr {
	t.Helper()
	elems, err := vm.TryFromList(l)
	require.NoError(t, err)
	for i, e := range elems {
		elems[i] = vm.Deref(e)
	}
	return elems
}

func TestVM_Ball(t *testing.T) {
	var vm VM
	assert.NoError(t, vm.GetBall(vm.PutVar()))
	assert.True(t, vm.Fail)
	vm.Fail = false

	vm.SetBall(vm.PutStructure("oops", Integer(1)))
	v := vm.PutVar()
	assert.NoError(t, vm.GetBall(v))
	assert.False(t, vm.Fail)

	var buf bytes.Buffer
	assert.NoError(t, vm.WriteTerm(&buf, v, WriteOptions{}))
	assert.Equal(t, "oops(1)", buf.String())

	vm.EraseBall()
	assert.True(t, vm.Ball.Empty())
}

func TestVM_Throw(t *testing.T) {
	var vm VM
	vm.Block = 2
	vm.B = 5
	vm.Throw(vm.TypeError(ValidTypeInteger, Atom("a")))
	vm.UnwindStack()
	assert.Equal(t, 2, vm.B)
	assert.True(t, vm.Fail)

	vm.Fail = false
	v := vm.PutVar()
	assert.NoError(t, vm.GetBall(v))
	var buf bytes.Buffer
	assert.NoError(t, vm.WriteTerm(&buf, v, WriteOptions{}))
	assert.Regexp(t, `^error\(type_error\(integer,a\),_\d+\)$`, buf.String())
}
