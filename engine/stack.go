package engine

// Frame is either an environment (and-frame) or a choice point (or-frame) on the local stack.
type Frame struct {
	Choice bool

	// environment
	E    int
	CP   CodePtr
	Vars []Addr // permanent variables, 1-based

	// choice point
	B     int
	B0    int
	BP    CodePtr
	H     int
	TR    int
	AttrQ Checkpoint
	AttrB int
	Args  []Addr
}

// Stack holds environments and choice points. Index 0 is a sentinel standing for "none".
type Stack struct {
	frames []Frame
}

func (s *Stack) init() {
	if len(s.frames) == 0 {
		s.frames = append(s.frames, Frame{})
	}
}

// Frame returns the frame at i.
func (s *Stack) Frame(i int) *Frame {
	s.init()
	return &s.frames[i]
}

// PrevB returns the choice point below the one at b.
func (s *Stack) PrevB(b int) int {
	if b <= 0 {
		return 0
	}
	return s.frames[b].B
}

// alloc places a new frame right above both the current environment and choice point.
func (s *Stack) alloc(e, b int, f Frame) int {
	s.init()
	i := max(e, b) + 1
	s.frames = append(s.frames[:i], f)
	return i
}

// Allocate pushes an environment with n permanent variables.
func (vm *VM) Allocate(n int) int {
	vars := make([]Addr, n+1)
	i := vm.Stack.alloc(vm.E, vm.B, Frame{E: vm.E, CP: vm.CP, Vars: vars})
	for k := 1; k <= n; k++ {
		vars[k] = StackCell{Frame: i, Slot: k}
	}
	vm.E = i
	return i
}

// Deallocate pops the current environment.
func (vm *VM) Deallocate() {
	f := vm.Stack.Frame(vm.E)
	vm.CP = f.CP
	vm.E = f.E
}

// PushChoicePoint saves the machine state so that alt can be tried on backtracking.
func (vm *VM) PushChoicePoint(alt CodePtr) int {
	args := make([]Addr, len(vm.Registers))
	copy(args, vm.Registers)
	i := vm.Stack.alloc(vm.E, vm.B, Frame{
		Choice: true,
		E:      vm.E,
		CP:     vm.CP,
		B:      vm.B,
		B0:     vm.B0,
		BP:     alt,
		H:      len(vm.Heap),
		TR:     len(vm.Trail),
		AttrQ:  vm.Ledger.Mark(),
		AttrB:  len(vm.Ledger.bindings),
		Args:   args,
	})
	vm.B = i
	vm.logger().WithField("b", i).Debug("push choice point")
	return i
}

// PopChoicePoint discards the current choice point.
func (vm *VM) PopChoicePoint() {
	vm.B = vm.Stack.PrevB(vm.B)
}

// Backtrack restores the state saved by the current choice point and resumes at its alternative.
// It returns false when there's no choice point left.
func (vm *VM) Backtrack() bool {
	if vm.B == 0 {
		vm.Fail = true
		return false
	}
	f := vm.Stack.Frame(vm.B)
	vm.undoTrail(f.TR)
	vm.Heap = vm.Heap[:f.H]
	vm.Ledger.truncate(f.AttrQ, f.AttrB)
	vm.E = f.E
	vm.CP = f.CP
	vm.B0 = f.B0
	vm.Registers = append(vm.Registers[:0], f.Args...)
	vm.P = f.BP
	vm.Fail = false
	vm.logger().WithField("b", vm.B).Debug("backtrack")
	return true
}
