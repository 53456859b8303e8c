package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestException_Error(t *testing.T) {
	var vm VM
	e := vm.NewException(KindUser, vm.PutStructure("foo", Atom("bar"), Atom("Baz")))
	assert.Equal(t, "foo(bar,'Baz')", e.Error())
	assert.Equal(t, KindUser, e.Kind)
}

func TestVM_errorTerms(t *testing.T) {
	tests := []struct {
		title string
		err   func(vm *VM) Exception
		kind  ErrorKind
		msg   string
	}{
		{
			title: "instantiation",
			err:   func(vm *VM) Exception { return vm.InstantiationError() },
			kind:  KindInstantiation,
			msg:   "error(instantiation_error,_3)",
		},
		{
			title: "type",
			err:   func(vm *VM) Exception { return vm.TypeError(ValidTypeCallable, Integer(1)) },
			kind:  KindType,
			msg:   "error(type_error(callable,1),_3)",
		},
		{
			title: "domain",
			err:   func(vm *VM) Exception { return vm.DomainError(ValidDomainOrder, Atom("x")) },
			kind:  KindDomain,
			msg:   "error(domain_error(order,x),_3)",
		},
		{
			title: "existence",
			err:   func(vm *VM) Exception { return vm.ExistenceError(ObjectTypeProcedure, Atom("foo")) },
			kind:  KindExistence,
			msg:   "error(existence_error(procedure,foo),_3)",
		},
		{
			title: "permission",
			err: func(vm *VM) Exception {
				return vm.PermissionError(OperationModify, PermissionTypeStaticProcedure, Atom("foo"))
			},
			kind: KindPermission,
			msg:  "error(permission_error(modify,static_procedure,foo),_3)",
		},
		{
			title: "representation",
			err:   func(vm *VM) Exception { return vm.RepresentationError(FlagMaxArity) },
			kind:  KindRepresentation,
			msg:   "error(representation_error(max_arity),_3)",
		},
		{
			title: "resource",
			err:   func(vm *VM) Exception { return vm.ResourceError(ResourceMemory) },
			kind:  KindResource,
			msg:   "error(resource_error(memory),_3)",
		},
		{
			title: "syntax",
			err:   func(vm *VM) Exception { return vm.SyntaxError(errors.New("unexpected token")) },
			kind:  KindSyntax,
			msg:   "error(syntax_error('unexpected token'),_3)",
		},
		{
			title: "inference limit",
			err:   func(vm *VM) Exception { return vm.InferenceLimitExceeded(4) },
			kind:  KindInferenceLimit,
			msg:   "inference_limit_exceeded(4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			var vm VM
			vm.PutVar()
			e := tt.err(&vm)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.msg, e.Error())

			// the scratch area is given back.
			assert.Len(t, vm.Heap, 1)
		})
	}
}

func TestException_wrapped(t *testing.T) {
	var vm VM
	err := fmt.Errorf("call: %w", vm.TypeError(ValidTypeInteger, Atom("a")))

	var e Exception
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindType, e.Kind)
	require.NotNil(t, e.Ball())

	// the ball outlives the heap it was taken from.
	vm.Reset()
	v, err := vm.spliceBall(e.Ball())
	require.NoError(t, err)
	assert.Equal(t, "error(type_error(integer,a),_3)", writeTerm(t, &vm, v))
}
