package engine

import (
	"strings"
)

// ErrorKind classifies an Exception.
type ErrorKind uint8

// ErrorKind is one of these values.
const (
	KindInstantiation ErrorKind = iota
	KindType
	KindDomain
	KindExistence
	KindPermission
	KindRepresentation
	KindResource
	KindSyntax
	KindInferenceLimit
	KindUser
)

// Exception is an error represented by a term. The term lives in its own ball.
type Exception struct {
	Kind ErrorKind
	ball *Ball
}

// NewException creates an exception from a snapshot of the given term.
func (vm *VM) NewException(kind ErrorKind, t Addr) Exception {
	return Exception{Kind: kind, ball: vm.Snapshot(t, DeepCopy)}
}

// Ball returns the snapshot of the exception term.
func (e Exception) Ball() *Ball {
	return e.ball
}

func (e Exception) Error() string {
	cells, err := e.ball.CopyAndAlign(0)
	if err != nil {
		return err.Error()
	}
	vm := VM{Heap: cells}
	var sb strings.Builder
	_ = vm.WriteTerm(&sb, HeapCell(0), WriteOptions{Quoted: true})
	return sb.String()
}

// errorTerm builds error(formal, _) on a scratch area of the heap and snapshots it.
func (vm *VM) errorTerm(kind ErrorKind, name Atom, args ...Addr) Exception {
	h := len(vm.Heap)
	defer func() {
		vm.Heap = vm.Heap[:h]
	}()
	formal := vm.PutStructure(name, args...)
	return vm.NewException(kind, vm.PutStructure("error", formal, vm.PutVar()))
}

// InstantiationError returns an instantiation error exception.
func (vm *VM) InstantiationError() Exception {
	return vm.errorTerm(KindInstantiation, "instantiation_error")
}

// ValidType is the correct type for an argument or one of its components.
type ValidType uint8

// ValidType is one of these values.
const (
	ValidTypeAtom ValidType = iota
	ValidTypeAtomic
	ValidTypeCallable
	ValidTypeCharacter
	ValidTypeCompound
	ValidTypeInteger
	ValidTypeList
	ValidTypeNumber
	ValidTypeVariable
)

// Term returns an Atom for the ValidType.
func (t ValidType) Term() Addr {
	return [...]Atom{
		ValidTypeAtom:      "atom",
		ValidTypeAtomic:    "atomic",
		ValidTypeCallable:  "callable",
		ValidTypeCharacter: "character",
		ValidTypeCompound:  "compound",
		ValidTypeInteger:   "integer",
		ValidTypeList:      "list",
		ValidTypeNumber:    "number",
		ValidTypeVariable:  "variable",
	}[t]
}

// TypeError creates a new type error exception.
func (vm *VM) TypeError(validType ValidType, culprit Addr) Exception {
	return vm.errorTerm(KindType, "type_error", validType.Term(), culprit)
}

// ValidDomain is the domain which the procedure defines.
type ValidDomain uint8

// ValidDomain is one of these values.
const (
	ValidDomainCharacterCodeList ValidDomain = iota
	ValidDomainNonEmptyList
	ValidDomainNotLessThanZero
	ValidDomainOperatorSpecifier
	ValidDomainOrder
)

// Term returns an Atom for the ValidDomain.
func (vd ValidDomain) Term() Addr {
	return [...]Atom{
		ValidDomainCharacterCodeList: "character_code_list",
		ValidDomainNonEmptyList:      "non_empty_list",
		ValidDomainNotLessThanZero:   "not_less_than_zero",
		ValidDomainOperatorSpecifier: "operator_specifier",
		ValidDomainOrder:             "order",
	}[vd]
}

// DomainError creates a new domain error exception.
func (vm *VM) DomainError(validDomain ValidDomain, culprit Addr) Exception {
	return vm.errorTerm(KindDomain, "domain_error", validDomain.Term(), culprit)
}

// ObjectType is the object on which an operation is to be performed.
type ObjectType uint8

// ObjectType is one of these values.
const (
	ObjectTypeProcedure ObjectType = iota
	ObjectTypeStream
	ObjectTypeVariable
)

// Term returns an Atom for the ObjectType.
func (ot ObjectType) Term() Addr {
	return [...]Atom{
		ObjectTypeProcedure: "procedure",
		ObjectTypeStream:    "stream",
		ObjectTypeVariable:  "variable",
	}[ot]
}

// ExistenceError creates a new existence error exception.
func (vm *VM) ExistenceError(objectType ObjectType, culprit Addr) Exception {
	return vm.errorTerm(KindExistence, "existence_error", objectType.Term(), culprit)
}

// Operation is the operation to be performed.
type Operation uint8

// Operation is one of these values.
const (
	OperationAccess Operation = iota
	OperationInput
	OperationModify
	OperationOutput
)

// Term returns an Atom for the Operation.
func (o Operation) Term() Addr {
	return [...]Atom{
		OperationAccess: "access",
		OperationInput:  "input",
		OperationModify: "modify",
		OperationOutput: "output",
	}[o]
}

// PermissionType is the type to which the operation is not permitted to perform.
type PermissionType uint8

// PermissionType is one of these values.
const (
	PermissionTypeFlag PermissionType = iota
	PermissionTypeOperator
	PermissionTypePrivateProcedure
	PermissionTypeStaticProcedure
	PermissionTypeStream
)

// Term returns an Atom for the PermissionType.
func (pt PermissionType) Term() Addr {
	return [...]Atom{
		PermissionTypeFlag:             "flag",
		PermissionTypeOperator:         "operator",
		PermissionTypePrivateProcedure: "private_procedure",
		PermissionTypeStaticProcedure:  "static_procedure",
		PermissionTypeStream:           "stream",
	}[pt]
}

// PermissionError creates a new permission error exception.
func (vm *VM) PermissionError(operation Operation, permissionType PermissionType, culprit Addr) Exception {
	return vm.errorTerm(KindPermission, "permission_error", operation.Term(), permissionType.Term(), culprit)
}

// Flag is an implementation defined limit.
type Flag uint8

// Flag is one of these values.
const (
	FlagCharacter Flag = iota
	FlagCharacterCode
	FlagMaxArity
	FlagMaxInteger
)

// Term returns an Atom for the Flag.
func (f Flag) Term() Addr {
	return [...]Atom{
		FlagCharacter:     "character",
		FlagCharacterCode: "character_code",
		FlagMaxArity:      "max_arity",
		FlagMaxInteger:    "max_integer",
	}[f]
}

// RepresentationError creates a new representation error exception.
func (vm *VM) RepresentationError(limit Flag) Exception {
	return vm.errorTerm(KindRepresentation, "representation_error", limit.Term())
}

// Resource is a resource required to complete execution.
type Resource uint8

// Resource is one of these values.
const (
	ResourceMemory Resource = iota
	ResourceFiniteMemory
)

// Term returns an Atom for the Resource.
func (r Resource) Term() Addr {
	return [...]Atom{
		ResourceMemory:       "memory",
		ResourceFiniteMemory: "finite_memory",
	}[r]
}

// ResourceError creates a new resource error exception.
func (vm *VM) ResourceError(resource Resource) Exception {
	return vm.errorTerm(KindResource, "resource_error", resource.Term())
}

// SyntaxError creates a new syntax error exception.
func (vm *VM) SyntaxError(err error) Exception {
	return vm.errorTerm(KindSyntax, "syntax_error", Atom(err.Error()))
}

// InferenceLimitExceeded is thrown when a call runs out of its inference budget set at the choice point b.
func (vm *VM) InferenceLimitExceeded(b int) Exception {
	h := len(vm.Heap)
	defer func() {
		vm.Heap = vm.Heap[:h]
	}()
	return vm.NewException(KindInferenceLimit, vm.PutStructure("inference_limit_exceeded", Integer(b)))
}
