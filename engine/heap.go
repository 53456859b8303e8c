package engine

import (
	"fmt"
	"io"
)

// Heap is a sequence of cells. Addresses into it are plain indices.
type Heap []Cell

// addr returns the address stored at i. The slot must not hold a header cell.
func (h Heap) addr(i int) Addr {
	a, ok := h[i].(Addr)
	if !ok {
		panic(fmt.Sprintf("heap slot %d holds %v, not an address", i, h[i]))
	}
	return a
}

func (h *Heap) push(cs ...Cell) int {
	i := len(*h)
	*h = append(*h, cs...)
	return i
}

// Dump writes every cell, one per line.
func (h Heap) Dump(w io.Writer) error {
	for i, c := range h {
		if _, err := fmt.Fprintf(w, "%d: %v\n", i, c); err != nil {
			return err
		}
	}
	return nil
}

// PutVar allocates a fresh unbound variable.
func (vm *VM) PutVar() HeapCell {
	h := len(vm.Heap)
	vm.Heap.push(HeapCell(h))
	return HeapCell(h)
}

// PutAttrVar allocates a fresh attributed variable with an empty open attribute list.
func (vm *VM) PutAttrVar() AttrVar {
	h := len(vm.Heap)
	vm.Heap.push(AttrVar(h), HeapCell(h+1))
	vm.Ledger.EnqueueVar(h)
	return AttrVar(h)
}

// PutStructure allocates name(args...). An atom is returned for zero arity.
func (vm *VM) PutStructure(name Atom, args ...Addr) Addr {
	if len(args) == 0 {
		return name
	}
	h := vm.Heap.push(Functor{Name: name, Arity: len(args)})
	for _, a := range args {
		vm.Heap.push(a)
	}
	return Structure(h)
}

// PutList allocates a list of elems terminated by tail.
func (vm *VM) PutList(elems []Addr, tail Addr) Addr {
	if len(elems) == 0 {
		return tail
	}
	h := len(vm.Heap)
	for i, e := range elems {
		next := tail
		if i < len(elems)-1 {
			next = ListCell(h + 2*(i+1))
		}
		vm.Heap.push(e, next)
	}
	return ListCell(h)
}

// PutPartialString allocates a text block followed by tail.
func (vm *VM) PutPartialString(text string, tail Addr) Addr {
	if text == "" {
		return tail
	}
	h := vm.Heap.push(TextBlock(text), tail)
	return PartialString{Block: h}
}

// PutString returns a complete string constant.
func PutString(s string) Addr {
	if s == "" {
		return EmptyList{}
	}
	return String(s)
}

// Arg returns the n-th argument (1-based) of a structure.
func (vm *VM) Arg(s Structure, n int) Addr {
	return vm.Heap.addr(int(s) + n)
}

// Functor returns the header of a structure.
func (vm *VM) Functor(s Structure) Functor {
	f, ok := vm.Heap[s].(Functor)
	if !ok {
		panic(fmt.Sprintf("heap slot %d holds %v, not a functor", int(s), vm.Heap[s]))
	}
	return f
}

// extend appends relocated cells at the current heap top.
func (vm *VM) extend(cs []Cell) int {
	return vm.Heap.push(cs...)
}
