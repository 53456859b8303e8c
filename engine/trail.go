package engine

// TrailKind is a type of undo record.
type TrailKind int8

const (
	// TrailBinding undoes a variable binding.
	TrailBinding TrailKind = iota
	// TrailAttrVarHeapLink restores the attribute list head of an attributed variable.
	TrailAttrVarHeapLink
	// TrailAttrVarListLink restores a link inside an attribute list.
	TrailAttrVarListLink
)

// TrailEntry is an undo record.
type TrailEntry struct {
	Kind TrailKind
	Var  Addr // TrailBinding
	Heap int  // links
	Prev Cell // links
}

// bind makes the unbound variable v refer to t.
func (vm *VM) bind(v, t Addr) {
	switch v := v.(type) {
	case HeapCell:
		vm.Heap[v] = t
	case AttrVar:
		vm.Heap[v] = t
		vm.Ledger.recordBinding(v, t)
	case StackCell:
		vm.Stack.frames[v.Frame].Vars[v.Slot] = t
	default:
		panic("bind: not a variable")
	}
	vm.Trail = append(vm.Trail, TrailEntry{Kind: TrailBinding, Var: v})
}

// relink overwrites a heap slot of an attribute list and trails the previous content.
func (vm *VM) relink(kind TrailKind, h int, c Cell) {
	vm.Trail = append(vm.Trail, TrailEntry{Kind: kind, Heap: h, Prev: vm.Heap[h]})
	vm.Heap[h] = c
}

// undoTrail reverts every record above n, most recent first.
func (vm *VM) undoTrail(n int) {
	for i := len(vm.Trail) - 1; i >= n; i-- {
		e := vm.Trail[i]
		switch e.Kind {
		case TrailBinding:
			switch v := e.Var.(type) {
			case HeapCell:
				vm.Heap[v] = v
			case AttrVar:
				vm.Heap[v] = v
			case StackCell:
				// frames above the restored choice point may have been reused.
				if v.Frame < len(vm.Stack.frames) && v.Slot < len(vm.Stack.frames[v.Frame].Vars) {
					vm.Stack.frames[v.Frame].Vars[v.Slot] = v
				}
			}
		case TrailAttrVarHeapLink, TrailAttrVarListLink:
			vm.Heap[e.Heap] = e.Prev
		}
	}
	vm.Trail = vm.Trail[:n]
}
