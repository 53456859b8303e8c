package engine

// blockIndex extracts a choice point index from a Usize or a CutPoint.
func blockIndex(a Addr) (int, bool) {
	switch a := a.(type) {
	case Usize:
		return int(a), true
	case CutPoint:
		return int(a), true
	default:
		return 0, false
	}
}

// InstallNewBlock makes the current choice point the new block and unifies v with it.
func (vm *VM) InstallNewBlock(v Addr) int {
	vm.Block = vm.B
	vm.Unify(v, Usize(vm.Block))
	return vm.Block
}

// GetCurrentBlock unifies v with the current block.
func (vm *VM) GetCurrentBlock(v Addr) {
	vm.Unify(v, Usize(vm.Block))
}

// ResetBlock restores a block saved by InstallNewBlock or GetCurrentBlock.
func (vm *VM) ResetBlock(a Addr) {
	if b, ok := blockIndex(vm.Deref(a)); ok {
		vm.Block = b
	}
}

// CleanUpBlock removes the choice point right above nb if it's the only one left inside the block.
func (vm *VM) CleanUpBlock(a Addr) {
	nb, ok := vm.Deref(a).(Usize)
	if !ok {
		vm.Fail = true
		return
	}
	if nb > 0 && vm.Stack.PrevB(vm.B) == int(nb) {
		vm.B = vm.Stack.PrevB(int(nb))
	}
}

// CheckCutPoint fails if a choice point senior to old is still left below the previous one.
func (vm *VM) CheckCutPoint(a Addr) {
	old, ok := blockIndex(vm.Deref(a))
	if !ok {
		vm.Fail = true
		return
	}
	if vm.Stack.PrevB(vm.Stack.PrevB(vm.B)) > old {
		vm.Fail = true
	}
}

// GetBValue unifies v with the current choice point.
func (vm *VM) GetBValue(v Addr) {
	vm.Unify(v, Usize(vm.B))
}

// GetCutPoint unifies v with the cut barrier of the current call.
func (vm *VM) GetCutPoint(v Addr) {
	vm.Unify(v, CutPoint(vm.B0))
}

// InferenceLevel unifies v with ! if no choice point was left since bp, or true otherwise.
func (vm *VM) InferenceLevel(v, bp Addr) {
	b, ok := blockIndex(vm.Deref(bp))
	if !ok {
		vm.Fail = true
		return
	}
	if vm.Stack.PrevB(vm.B) <= b {
		vm.Unify(v, Atom("!"))
	} else {
		vm.Unify(v, Atom("true"))
	}
}

// CutOutcome tells the dispatcher what to do after a cut.
type CutOutcome int8

const (
	// CutDone means nothing else to do.
	CutDone CutOutcome = iota
	// CutRunCleanersWithHandling means cleanup goals have to run inside a catch frame.
	CutRunCleanersWithHandling
	// CutRunCleanersWithoutHandling means cleanup goals can run directly.
	CutRunCleanersWithoutHandling
)

func (o CutOutcome) String() string {
	return [...]string{
		CutDone:                       "done",
		CutRunCleanersWithHandling:    "run_cleaners_with_handling",
		CutRunCleanersWithoutHandling: "run_cleaners_without_handling",
	}[o]
}

// CutPolicyKind is the kind of a cut policy.
type CutPolicyKind int8

const (
	// CutPolicyDefault prunes choice points and nothing else.
	CutPolicyDefault CutPolicyKind = iota
	// CutPolicySCC also keeps track of cleanup goals of setup_call_cleanup/3.
	CutPolicySCC
)

// CutPolicy decides what happens on a cut. The zero value is the default policy.
type CutPolicy struct {
	Kind CutPolicyKind

	contPts []sccContPt
}

type sccContPt struct {
	cleaner   Addr
	bCutoff   int
	prevBlock int
}

// Cut removes every choice point above the barrier b. It can't be undone.
func (vm *VM) Cut(b Addr) CutOutcome {
	barrier, ok := blockIndex(vm.Deref(b))
	if !ok {
		vm.Fail = true
		return CutDone
	}
	if vm.B > barrier {
		vm.logger().WithField("b", vm.B).WithField("barrier", barrier).Debug("cut")
		vm.B = barrier
	}

	if vm.CutPolicy.Kind != CutPolicySCC || len(vm.CutPolicy.contPts) == 0 {
		return CutDone
	}
	top := vm.CutPolicy.contPts[len(vm.CutPolicy.contPts)-1]
	if vm.B >= top.bCutoff {
		return CutDone
	}
	if vm.Block < top.prevBlock {
		return CutRunCleanersWithHandling
	}
	return CutRunCleanersWithoutHandling
}

// InstallSCCCleaner registers cleaner for the call about to start and installs a new block, unified with v.
func (vm *VM) InstallSCCCleaner(cleaner, v Addr) {
	b, prevBlock := vm.B, vm.Block
	if vm.CutPolicy.Kind != CutPolicySCC {
		vm.CutPolicy = CutPolicy{Kind: CutPolicySCC}
		vm.logger().Debug("cut policy: scc")
	}
	vm.InstallNewBlock(v)
	vm.CutPolicy.contPts = append(vm.CutPolicy.contPts, sccContPt{
		cleaner:   cleaner,
		bCutoff:   b,
		prevBlock: prevBlock,
	})
}

// GetSCCCleaner unifies dest with the innermost cleanup goal if its call has no choice point left.
func (vm *VM) GetSCCCleaner(dest Addr) {
	if vm.CutPolicy.Kind != CutPolicySCC {
		vm.Fail = true
		return
	}
	n := len(vm.CutPolicy.contPts)
	if n == 0 {
		vm.Fail = true
		return
	}
	top := vm.CutPolicy.contPts[n-1]
	if vm.Stack.PrevB(vm.B) > top.bCutoff {
		vm.Fail = true
		return
	}
	vm.CutPolicy.contPts = vm.CutPolicy.contPts[:n-1]
	vm.Block = top.prevBlock
	vm.Unify(dest, top.cleaner)
}

// RestoreCutPolicy goes back to the default policy once no cleanup goal is left.
func (vm *VM) RestoreCutPolicy() {
	if vm.CutPolicy.Kind == CutPolicySCC && len(vm.CutPolicy.contPts) == 0 {
		vm.CutPolicy = CutPolicy{}
		vm.logger().Debug("cut policy: default")
	}
}
