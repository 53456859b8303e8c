package engine

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ichiban/wam/internal/rbtree"
)

// CodeIndex is the compiled code as seen from the runtime.
type CodeIndex interface {
	// PermVars returns the number of permanent variables live at p.
	PermVars(p CodePtr) (int, bool)
	// IsResetMarker reports whether the instruction at p marks the boundary of a delimited continuation.
	IsResetMarker(p CodePtr) bool
}

// VM is the runtime state of a single query. The zero value for VM is a valid VM.
type VM struct {
	ID uuid.UUID

	Heap      Heap
	Stack     Stack
	Trail     []TrailEntry
	Registers []Addr

	// Fail is set by any operation which fails. The dispatcher checks it after each call.
	Fail bool

	P, CP     CodePtr
	E, B, B0  int
	Block     int
	Flags     Flags
	Ledger    Ledger
	Ball      Ball
	Lifted    Ball
	CutPolicy CutPolicy
	// Cleanup is what the last cut dispatched through Call asks for.
	Cleanup    CutOutcome
	CallPolicy CallPolicy
	Code       CodeIndex
	DB         *DB
	MaxDepth   int
	globals    rbtree.Map[Atom, globalVar]
	log        logrus.FieldLogger
}

// New creates a VM configured by cfg.
func New(cfg Config) *VM {
	vm := VM{
		ID:       uuid.New(),
		Heap:     make(Heap, 0, cfg.HeapCapacity),
		Flags:    Flags{DoubleQuotes: cfg.DoubleQuotes},
		MaxDepth: cfg.MaxDepth,
		DB:       &DB{},
	}
	l := logrus.New()
	l.SetLevel(cfg.LogLevel.Level())
	if cfg.LogOutput != nil {
		l.SetOutput(cfg.LogOutput)
	}
	vm.log = l.WithField("vm", vm.ID)
	return &vm
}

func (vm *VM) logger() logrus.FieldLogger {
	if vm.log == nil {
		vm.log = logrus.WithField("vm", vm.ID)
	}
	return vm.log
}

// SetRegisters sets the argument registers X1..Xn.
func (vm *VM) SetRegisters(args ...Addr) {
	vm.Registers = append(vm.Registers[:0], args...)
}

// X returns the argument register Xi (1-based).
func (vm *VM) X(i int) Addr {
	return vm.Registers[i-1]
}

// Store looks a location up once. Constants and compounds are returned as they are.
func (vm *VM) Store(a Addr) Addr {
	switch a := a.(type) {
	case HeapCell:
		return vm.Heap.addr(int(a))
	case AttrVar:
		return vm.Heap.addr(int(a))
	case StackCell:
		return vm.Stack.frames[a.Frame].Vars[a.Slot]
	default:
		return a
	}
}

// Deref follows variable chains until it reaches an unbound variable or a non-variable value.
func (vm *VM) Deref(a Addr) Addr {
	for {
		v := vm.Store(a)
		if isVar(v) && v != a {
			a = v
			continue
		}
		return v
	}
}

// Resolve is Store after Deref.
func (vm *VM) Resolve(a Addr) Addr {
	return vm.Store(vm.Deref(a))
}

// Reset clears the per-query state so that the VM can be reused for another query.
func (vm *VM) Reset() {
	vm.Heap = vm.Heap[:0]
	vm.Stack.frames = vm.Stack.frames[:0]
	vm.Trail = vm.Trail[:0]
	vm.Registers = vm.Registers[:0]
	vm.Fail = false
	vm.P, vm.CP = 0, 0
	vm.E, vm.B, vm.B0, vm.Block = 0, 0, 0, 0
	vm.Ledger = Ledger{}
	vm.Ball = Ball{}
	vm.Lifted = Ball{}
	vm.CutPolicy = CutPolicy{}
	vm.Cleanup = CutDone
	vm.CallPolicy = CallPolicy{}
}
