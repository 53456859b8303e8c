package rbtree

import (
	"cmp"
)

type color int8

const (
	red color = iota
	black
)

// Map is a persistent ordered map backed by a binary search tree.
// Each tree node is stored in an internal slice and never modified once added,
// so a copy of a Map is a snapshot which later updates don't affect.
// This implementation is based on red-black tree from Purely Functional Data Structures by Okasaki.
type Map[K cmp.Ordered, V any] struct {
	nodes []node[K, V]
	root  int
	size  int
}

// Len returns the number of keys.
func (t *Map[K, V]) Len() int {
	return t.size
}

// Set stores a pair of key and value.
func (t *Map[K, V]) Set(key K, value V) {
	if _, ok := t.Get(key); !ok {
		t.size++
	}

	root := t.root
	if len(t.nodes) == 0 {
		root = -1
	}
	id := insert(t, root, elem[K, V]{key: key, value: value})
	if n := t.nodes[id]; n.color == red {
		id = addNode(t, node[K, V]{
			color: black,
			left:  n.left,
			elem:  n.elem,
			right: n.right,
		})
	}
	t.root = id
}

// Get returns the associated value for a key.
func (t *Map[K, V]) Get(key K) (V, bool) {
	var zero V

	if len(t.nodes) == 0 {
		return zero, false
	}

	id := t.root
	for id >= 0 {
		n := t.nodes[id]
		switch c := cmp.Compare(key, n.elem.key); {
		case c < 0:
			id = n.left
		case c > 0:
			id = n.right
		default:
			return n.elem.value, true
		}
	}
	return zero, false
}

// Min returns the smallest key and its value.
func (t *Map[K, V]) Min() (K, V, bool) {
	var (
		zeroK K
		zeroV V
	)

	if len(t.nodes) == 0 {
		return zeroK, zeroV, false
	}

	id := t.root
	for t.nodes[id].left >= 0 {
		id = t.nodes[id].left
	}
	e := t.nodes[id].elem
	return e.key, e.value, true
}

// Next returns the smallest key greater than key and its value.
func (t *Map[K, V]) Next(key K) (K, V, bool) {
	var (
		zeroK K
		zeroV V
	)

	if len(t.nodes) == 0 {
		return zeroK, zeroV, false
	}

	found := -1
	id := t.root
	for id >= 0 {
		n := t.nodes[id]
		if cmp.Less(key, n.elem.key) {
			found = id
			id = n.left
		} else {
			id = n.right
		}
	}
	if found < 0 {
		return zeroK, zeroV, false
	}
	e := t.nodes[found].elem
	return e.key, e.value, true
}

// Each calls f for every pair in key order until f returns false.
func (t *Map[K, V]) Each(f func(K, V) bool) {
	k, v, ok := t.Min()
	for ok {
		if !f(k, v) {
			return
		}
		k, v, ok = t.Next(k)
	}
}

type node[K cmp.Ordered, V any] struct {
	color       color
	left, right int
	elem        elem[K, V]
}

type elem[K cmp.Ordered, V any] struct {
	key   K
	value V
}

func insert[K cmp.Ordered, V any](tree *Map[K, V], id int, e elem[K, V]) int {
	if id < 0 {
		return addNode(tree, node[K, V]{
			color: red,
			left:  -1,
			elem:  e,
			right: -1,
		})
	}
	b := tree.nodes[id]
	switch c := cmp.Compare(e.key, b.elem.key); {
	case c < 0:
		l := insert(tree, b.left, e)
		return balance(tree, addNode(tree, node[K, V]{
			color: b.color,
			left:  l,
			elem:  b.elem,
			right: b.right,
		}))
	case c > 0:
		r := insert(tree, b.right, e)
		return balance(tree, addNode(tree, node[K, V]{
			color: b.color,
			left:  b.left,
			elem:  b.elem,
			right: r,
		}))
	default:
		return addNode(tree, node[K, V]{
			color: b.color,
			left:  b.left,
			elem:  e,
			right: b.right,
		})
	}
}

func (t *Map[K, V]) red(id int) bool {
	return id >= 0 && t.nodes[id].color == red
}

func balance[K cmp.Ordered, V any](tree *Map[K, V], id int) int {
	var (
		a, b, c, d int
		x, y, z    elem[K, V]
	)
	switch n := tree.nodes[id]; {
	case tree.red(n.left) && tree.red(tree.nodes[n.left].left):
		l := tree.nodes[n.left]
		ll := tree.nodes[l.left]
		a, b, c, d = ll.left, ll.right, l.right, n.right
		x, y, z = ll.elem, l.elem, n.elem
	case tree.red(n.left) && tree.red(tree.nodes[n.left].right):
		l := tree.nodes[n.left]
		lr := tree.nodes[l.right]
		a, b, c, d = l.left, lr.left, lr.right, n.right
		x, y, z = l.elem, lr.elem, n.elem
	case tree.red(n.right) && tree.red(tree.nodes[n.right].left):
		r := tree.nodes[n.right]
		rl := tree.nodes[r.left]
		a, b, c, d = n.left, rl.left, rl.right, r.right
		x, y, z = n.elem, rl.elem, r.elem
	case tree.red(n.right) && tree.red(tree.nodes[n.right].right):
		r := tree.nodes[n.right]
		rr := tree.nodes[r.right]
		a, b, c, d = n.left, r.left, rr.left, rr.right
		x, y, z = n.elem, r.elem, rr.elem
	default:
		return id
	}
	if tree.nodes[id].color != black {
		return id
	}
	l := addNode(tree, node[K, V]{color: black, left: a, elem: x, right: b})
	r := addNode(tree, node[K, V]{color: black, left: c, elem: z, right: d})
	return addNode(tree, node[K, V]{color: red, left: l, elem: y, right: r})
}

func addNode[K cmp.Ordered, V any](tree *Map[K, V], n node[K, V]) int {
	tree.nodes = append(tree.nodes, n)
	return len(tree.nodes) - 1
}
