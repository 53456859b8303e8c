package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTerm(t *testing.T, vm *VM, a Addr) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, vm.WriteTerm(&buf, a, WriteOptions{Quoted: true}))
	return buf.String()
}

func TestVM_CopyToLiftedHeap(t *testing.T) {
	var vm VM
	start := vm.PutVar()
	vm.LiftedHeapLength(start)
	assert.Equal(t, Usize(0), vm.Deref(start))

	vm.CopyToLiftedHeap(start, Atom("a"))
	x := vm.PutVar()
	vm.CopyToLiftedHeap(start, vm.PutStructure("f", x))

	var buf bytes.Buffer
	require.NoError(t, vm.Lifted.Stub.Dump(&buf))
	newGoldie(t).Assert(t, "lifted", buf.Bytes())

	sols := vm.PutVar()
	require.NoError(t, vm.GetLiftedHeapFromOffset(start, sols))
	assert.False(t, vm.Fail)
	assert.Regexp(t, `^\[a,f\(_\d+\)\]$`, writeTerm(t, &vm, sols))
	assert.True(t, vm.Lifted.Empty())

	// the solutions don't share variables with the goal.
	assert.Equal(t, x, vm.Deref(x))
}

func TestVM_GetLiftedHeapFromOffset(t *testing.T) {
	t.Run("no solutions", func(t *testing.T) {
		var vm VM
		sols := vm.PutVar()
		require.NoError(t, vm.GetLiftedHeapFromOffset(Usize(0), sols))
		assert.Equal(t, EmptyList{}, vm.Deref(sols))
	})

	t.Run("no solutions with diff", func(t *testing.T) {
		var vm VM
		sols, diff := vm.PutVar(), vm.PutVar()
		require.NoError(t, vm.GetLiftedHeapFromOffsetDiff(Usize(0), sols, diff))
		assert.Equal(t, EmptyList{}, vm.Deref(sols))
		assert.Equal(t, EmptyList{}, vm.Deref(diff))
	})

	t.Run("diff", func(t *testing.T) {
		var vm VM
		vm.CopyToLiftedHeap(Usize(0), Integer(1))
		vm.CopyToLiftedHeap(Usize(0), Integer(2))
		sols, diff := vm.PutVar(), vm.PutVar()
		require.NoError(t, vm.GetLiftedHeapFromOffsetDiff(Usize(0), sols, diff))
		assert.True(t, vm.Unify(diff, vm.PutList([]Addr{Integer(3)}, EmptyList{})))
		assert.Equal(t, "[1,2,3]", writeTerm(t, &vm, sols))
	})

	t.Run("nested", func(t *testing.T) {
		var vm VM
		vm.CopyToLiftedHeap(Usize(0), Atom("outer1"))

		inner := vm.PutVar()
		vm.LiftedHeapLength(inner)
		vm.CopyToLiftedHeap(inner, Atom("inner1"))
		vm.CopyToLiftedHeap(inner, Atom("inner2"))

		sols := vm.PutVar()
		require.NoError(t, vm.GetLiftedHeapFromOffset(inner, sols))
		assert.Equal(t, "[inner1,inner2]", writeTerm(t, &vm, sols))

		vm.CopyToLiftedHeap(Usize(0), sols)
		outer := vm.PutVar()
		require.NoError(t, vm.GetLiftedHeapFromOffset(Usize(0), outer))
		assert.Equal(t, "[outer1,[inner1,inner2]]", writeTerm(t, &vm, outer))
	})

	t.Run("bad offset", func(t *testing.T) {
		var vm VM
		require.NoError(t, vm.GetLiftedHeapFromOffset(Atom("a"), vm.PutVar()))
		assert.True(t, vm.Fail)
	})
}

func TestVM_TruncateLiftedHeapTo(t *testing.T) {
	var vm VM
	vm.CopyToLiftedHeap(Usize(0), Atom("a"))
	n := vm.PutVar()
	vm.LiftedHeapLength(n)
	vm.CopyToLiftedHeap(n, Atom("b"))

	vm.TruncateLiftedHeapTo(n)
	assert.Len(t, vm.Lifted.Stub, 2)

	sols := vm.PutVar()
	require.NoError(t, vm.GetLiftedHeapFromOffset(Usize(0), sols))
	assert.Equal(t, "[a]", writeTerm(t, &vm, sols))
}

func TestVM_TruncateIfNoLiftedHeapGrowth(t *testing.T) {
	t.Run("growth", func(t *testing.T) {
		var vm VM
		vm.CopyToLiftedHeap(Usize(0), Atom("a"))
		vm.TruncateIfNoLiftedHeapGrowth(Usize(0))
		assert.False(t, vm.Fail)
		assert.Len(t, vm.Lifted.Stub, 2)
	})

	t.Run("no growth", func(t *testing.T) {
		var vm VM
		vm.CopyToLiftedHeap(Usize(0), Atom("a"))
		vm.TruncateIfNoLiftedHeapGrowth(Integer(2))
		assert.False(t, vm.Fail)
		assert.Len(t, vm.Lifted.Stub, 2)
	})

	t.Run("not an offset", func(t *testing.T) {
		var vm VM
		vm.TruncateIfNoLiftedHeapGrowth(Integer(-1))
		assert.True(t, vm.Fail)
	})
}

func TestVM_TruncateIfNoLiftedHeapGrowthDiff(t *testing.T) {
	var vm VM
	vm.CopyToLiftedHeap(Usize(0), Atom("a"))
	vm.TruncateIfNoLiftedHeapGrowthDiff(Usize(0))
	require.False(t, vm.Fail)

	sols, tail := vm.PutVar(), vm.PutVar()
	require.NoError(t, vm.GetLiftedHeapFromOffsetDiff(Usize(0), sols, tail))
	require.True(t, vm.Unify(tail, vm.PutList([]Addr{Atom("b")}, EmptyList{})))
	assert.Equal(t, "[a,b]", writeTerm(t, &vm, sols))

	vm.TruncateIfNoLiftedHeapGrowthDiff(Atom("x"))
	assert.True(t, vm.Fail)
}
