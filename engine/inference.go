package engine

// CallPolicyKind is the kind of a call policy.
type CallPolicyKind int8

const (
	// CallPolicyDefault counts nothing.
	CallPolicyDefault CallPolicyKind = iota
	// CallPolicyInferenceLimited counts inferences against the limits of call_with_inference_limit/3.
	CallPolicyInferenceLimited
)

// CallPolicy is consulted on every call. The zero value is the default policy.
type CallPolicy struct {
	Kind CallPolicyKind

	count  int64
	limits []inferenceLimit
}

type inferenceLimit struct {
	limit int64
	b     int
}

// Count returns the number of inferences made under limits so far.
func (p *CallPolicy) Count() int64 {
	return p.count
}

func (p *CallPolicy) addLimit(n int64, b int) int64 {
	limit := p.count + n
	if l := len(p.limits); l == 0 || p.limits[l-1].limit > limit {
		p.limits = append(p.limits, inferenceLimit{limit: limit, b: b})
	}
	return p.count
}

func (p *CallPolicy) removeLimit(b int) int64 {
	if l := len(p.limits); l > 0 && p.limits[l-1].b == b {
		p.limits = p.limits[:l-1]
	}
	return p.count
}

// InstallInferenceCounter limits the inferences made above the choice point b to n more
// and unifies count with the number of inferences made so far.
func (vm *VM) InstallInferenceCounter(b, n, count Addr) error {
	bp, ok := blockIndex(vm.Deref(b))
	limit, isInt := vm.Deref(n).(Integer)
	if !ok || !isInt {
		return vm.TypeError(ValidTypeInteger, vm.Deref(n))
	}
	if vm.CallPolicy.Kind != CallPolicyInferenceLimited {
		vm.CallPolicy = CallPolicy{Kind: CallPolicyInferenceLimited}
		vm.logger().Debug("call policy: inference limited")
	}
	c := vm.CallPolicy.addLimit(int64(limit), bp)
	vm.Unify(count, Integer(c))
	return nil
}

// RemoveInferenceCounter removes the limit installed for the choice point b
// and unifies count with the number of inferences made so far.
func (vm *VM) RemoveInferenceCounter(b, count Addr) {
	bp, ok := blockIndex(vm.Deref(b))
	if !ok || vm.CallPolicy.Kind != CallPolicyInferenceLimited {
		vm.Fail = true
		return
	}
	vm.Unify(count, Integer(vm.CallPolicy.removeLimit(bp)))
}

// RemoveCallPolicyCheck goes back to the default policy once no limit is left and b is the current choice point.
func (vm *VM) RemoveCallPolicyCheck(b Addr) {
	bp, ok := blockIndex(vm.Deref(b))
	if !ok {
		vm.Fail = true
		return
	}
	p := &vm.CallPolicy
	if p.Kind == CallPolicyInferenceLimited && len(p.limits) == 0 && bp == vm.B {
		vm.CallPolicy = CallPolicy{}
		vm.logger().Debug("call policy: default")
	}
}

// Inference counts a call. It returns an exception once the innermost limit is reached.
func (vm *VM) Inference() error {
	p := &vm.CallPolicy
	if p.Kind != CallPolicyInferenceLimited || len(p.limits) == 0 {
		return nil
	}
	top := p.limits[len(p.limits)-1]
	if p.count == top.limit {
		vm.logger().WithField("b", top.b).WithField("count", p.count).Warn("inference limit exceeded")
		return vm.InferenceLimitExceeded(top.b)
	}
	p.count++
	return nil
}
