// SPDX-License-Identifier: MIT
// Package: kinfit/decaytree
//
// node.go: generic rooted tree with ordered daughters.

package decaytree

// Node is one node of a rooted tree carrying a value of type T.
//
// Daughters keep their insertion order until Sort is called.
// A Node is not safe for concurrent modification.
type Node[T any] struct {
	value     T
	parent    *Node[T]
	daughters []*Node[T]
}

// NewNode creates a root node holding v.
func NewNode[T any](v T) *Node[T] { return &Node[T]{value: v} }

// CreateDaughter appends a new daughter holding v and returns it.
func (n *Node[T]) CreateDaughter(v T) *Node[T] {
	d := &Node[T]{value: v, parent: n}
	n.daughters = append(n.daughters, d)

	return d
}

// Get returns the node value.
func (n *Node[T]) Get() T { return n.value }

// Set replaces the node value.
func (n *Node[T]) Set(v T) { n.value = v }

// Parent returns the parent node, or nil for the root.
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Daughters returns the daughters. The slice must not be modified.
func (n *Node[T]) Daughters() []*Node[T] { return n.daughters }

// IsLeaf reports whether n has no daughters.
func (n *Node[T]) IsLeaf() bool { return len(n.daughters) == 0 }

// IsRoot reports whether n has no parent.
func (n *Node[T]) IsRoot() bool { return n.parent == nil }

// Depth returns the number of edges between n and its root.
func (n *Node[T]) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}

	return d
}

// RemoveDaughter detaches d from n. It reports whether d was a daughter.
func (n *Node[T]) RemoveDaughter(d *Node[T]) bool {
	for i, x := range n.daughters {
		if x == d {
			n.daughters = append(n.daughters[:i:i], n.daughters[i+1:]...)
			d.parent = nil

			return true
		}
	}

	return false
}

// Walk calls fn for n and all its descendants in pre-order.
func (n *Node[T]) Walk(fn func(*Node[T])) {
	fn(n)
	for _, d := range n.daughters {
		d.Walk(fn)
	}
}

// WalkPostOrder calls fn for all descendants of n and then for n itself.
func (n *Node[T]) WalkPostOrder(fn func(*Node[T])) {
	for _, d := range n.daughters {
		d.WalkPostOrder(fn)
	}
	fn(n)
}

// Leaves returns all leaves below (or equal to) n in pre-order.
func (n *Node[T]) Leaves() []*Node[T] {
	var out []*Node[T]
	n.Walk(func(x *Node[T]) {
		if x.IsLeaf() {
			out = append(out, x)
		}
	})

	return out
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node[T]) Size() int {
	s := 0
	n.Walk(func(*Node[T]) { s++ })

	return s
}

// DeepCopy clones the subtree rooted at n, mapping every value through f.
// The returned node is a root.
func DeepCopy[T, U any](n *Node[T], f func(T) U) *Node[U] {
	out := NewNode(f(n.value))
	copyDaughters(n, out, f)

	return out
}

func copyDaughters[T, U any](src *Node[T], dst *Node[U], f func(T) U) {
	for _, d := range src.daughters {
		copyDaughters(d, dst.CreateDaughter(f(d.value)), f)
	}
}
