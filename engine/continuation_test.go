package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCodeIndex struct {
	mock.Mock
}

func (m *mockCodeIndex) PermVars(p CodePtr) (int, bool) {
	args := m.Called(p)
	return args.Int(0), args.Bool(1)
}

func (m *mockCodeIndex) IsResetMarker(p CodePtr) bool {
	args := m.Called(p)
	return args.Bool(0)
}

func TestVM_GetContinuationChunk(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var code mockCodeIndex
		code.On("PermVars", CodePtr(10)).Return(2, true).Once()
		defer code.AssertExpectations(t)

		vm := VM{Code: &code}
		e := vm.Allocate(3)
		vars := vm.Stack.Frame(e).Vars
		vars[1] = Atom("a")
		vars[2] = Integer(2)

		chunk := vm.PutVar()
		vm.GetContinuationChunk(Usize(e), vm.DirEntry(10), chunk)
		require.False(t, vm.Fail)

		s, ok := vm.Deref(chunk).(Structure)
		require.True(t, ok)
		assert.Equal(t, Functor{Name: "cont_chunk", Arity: 3}, vm.Functor(s))
		p, ok := vm.codePtr(vm.Arg(s, 1))
		assert.True(t, ok)
		assert.Equal(t, CodePtr(10), p)
		assert.Equal(t, Atom("a"), vm.Deref(vm.Arg(s, 2)))
		assert.Equal(t, Integer(2), vm.Deref(vm.Arg(s, 3)))
	})

	t.Run("unknown code pointer", func(t *testing.T) {
		var code mockCodeIndex
		code.On("PermVars", CodePtr(99)).Return(0, false).Once()
		defer code.AssertExpectations(t)

		vm := VM{Code: &code}
		e := vm.Allocate(0)
		vm.GetContinuationChunk(Usize(e), CodePtr(99), vm.PutVar())
		assert.True(t, vm.Fail)
	})

	t.Run("not a code pointer", func(t *testing.T) {
		vm := VM{Code: &mockCodeIndex{}}
		e := vm.Allocate(0)
		vm.GetContinuationChunk(Usize(e), Atom("foo"), vm.PutVar())
		assert.True(t, vm.Fail)
	})
}

func TestVM_CallContinuation(t *testing.T) {
	t.Run("single chunk", func(t *testing.T) {
		var vm VM
		vm.P = 5
		chunk := vm.PutStructure("cont_chunk", vm.DirEntry(10), Atom("a"), Atom("b"))
		list := vm.PutList([]Addr{chunk}, EmptyList{})

		require.NoError(t, vm.CallContinuation(list, false))
		assert.Equal(t, CodePtr(11), vm.P)
		f := vm.Stack.Frame(vm.E)
		assert.Equal(t, CodePtr(6), f.CP)
		assert.Equal(t, Atom("a"), vm.Deref(f.Vars[1]))
		assert.Equal(t, Atom("b"), vm.Deref(f.Vars[2]))
	})

	t.Run("last call", func(t *testing.T) {
		var vm VM
		vm.P, vm.CP = 5, 7
		list := vm.PutList([]Addr{
			vm.PutStructure("cont_chunk", CodePtr(20)),
			vm.PutStructure("cont_chunk", CodePtr(30)),
		}, EmptyList{})

		require.NoError(t, vm.CallContinuation(list, true))
		assert.Equal(t, CodePtr(21), vm.P)
		inner := vm.Stack.Frame(vm.E)
		assert.Equal(t, CodePtr(31), inner.CP)
		outer := vm.Stack.Frame(inner.E)
		assert.Equal(t, CodePtr(7), outer.CP)
	})

	t.Run("cut point is refreshed", func(t *testing.T) {
		var vm VM
		vm.PushChoicePoint(0)
		vm.PushChoicePoint(0)
		chunk := vm.PutStructure("cont_chunk", CodePtr(1), CutPoint(0))
		require.NoError(t, vm.CallContinuation(vm.PutList([]Addr{chunk}, EmptyList{}), false))
		assert.Equal(t, CutPoint(2), vm.Stack.Frame(vm.E).Vars[1])
	})

	t.Run("partial list", func(t *testing.T) {
		var vm VM
		err := vm.CallContinuation(vm.PutVar(), false)
		assert.Error(t, err)
	})

	t.Run("not a chunk", func(t *testing.T) {
		var vm VM
		err := vm.CallContinuation(vm.PutList([]Addr{Atom("foo")}, EmptyList{}), false)
		assert.EqualError(t, err, "error(type_error(compound,foo),_3)")
	})
}

func TestVM_ResetContinuationMarker(t *testing.T) {
	var vm VM
	vm.SetRegisters(Atom("goal"), Atom("ball"))
	vm.ResetContinuationMarker()
	assert.Equal(t, []Addr{Atom("goal"), Atom("ball"), Atom("none"), HeapCell(0)}, vm.Registers)
	assert.Equal(t, HeapCell(0), vm.Deref(vm.X(4)))
}

func TestVM_PointsToContinuationResetMarker(t *testing.T) {
	t.Run("marker", func(t *testing.T) {
		var code mockCodeIndex
		code.On("IsResetMarker", CodePtr(11)).Return(true).Once()
		defer code.AssertExpectations(t)

		vm := VM{Code: &code}
		vm.PointsToContinuationResetMarker(vm.DirEntry(10))
		assert.False(t, vm.Fail)
	})

	t.Run("not a marker", func(t *testing.T) {
		var code mockCodeIndex
		code.On("IsResetMarker", CodePtr(11)).Return(false).Once()
		defer code.AssertExpectations(t)

		vm := VM{Code: &code}
		vm.PointsToContinuationResetMarker(CodePtr(10))
		assert.True(t, vm.Fail)
	})

	t.Run("not a code pointer", func(t *testing.T) {
		vm := VM{Code: &mockCodeIndex{}}
		vm.PointsToContinuationResetMarker(Atom("foo"))
		assert.True(t, vm.Fail)
	})
}

func TestVM_UnwindEnvironments(t *testing.T) {
	t.Run("marker", func(t *testing.T) {
		var code mockCodeIndex
		code.On("IsResetMarker", CodePtr(40)).Return(false).Once()
		code.On("IsResetMarker", CodePtr(30)).Return(false).Once()
		code.On("IsResetMarker", CodePtr(20)).Return(true).Once()
		defer code.AssertExpectations(t)

		vm := VM{Code: &code}
		vm.CP = 10
		outer := vm.Allocate(0)
		vm.CP = 20
		vm.Allocate(0)
		vm.CP = 30
		vm.Allocate(0)
		vm.CP = 40

		vm.UnwindEnvironments()
		assert.Equal(t, outer, vm.E)
		assert.Equal(t, CodePtr(21), vm.P)
	})

	t.Run("no marker", func(t *testing.T) {
		var code mockCodeIndex
		code.On("IsResetMarker", mock.Anything).Return(false)

		vm := VM{Code: &code}
		vm.CP = 10
		vm.Allocate(0)
		vm.CP = 20
		e := vm.Allocate(0)
		vm.P, vm.CP = 5, 30

		vm.UnwindEnvironments()
		assert.Equal(t, e, vm.E)
		assert.Equal(t, CodePtr(5), vm.P)
	})
}
