// SPDX-License-Identifier: MIT
// Package: kinfit/decaytree
//
// sort.go: total order over subtrees and canonical sorting.

package decaytree

import "slices"

// Compare orders two subtrees: by their root values first, then by the
// number of daughters, then daughter by daughter. Both subtrees should be
// sorted for the result to be canonical.
func Compare[T any](a, b *Node[T], cmp func(x, y T) int) int {
	if c := cmp(a.value, b.value); c != 0 {
		return c
	}
	if c := len(a.daughters) - len(b.daughters); c != 0 {
		if c < 0 {
			return -1
		}

		return 1
	}
	for i := range a.daughters {
		if c := Compare(a.daughters[i], b.daughters[i], cmp); c != 0 {
			return c
		}
	}

	return 0
}

// Equal reports whether a and b are structurally identical under cmp.
func Equal[T any](a, b *Node[T], cmp func(x, y T) int) bool {
	return Compare(a, b, cmp) == 0
}

// Sort orders the daughters of every node below n, bottom-up, so that
// identical subtrees become adjacent. The sort is stable.
// Complexity: O(V·log d·s) for V nodes, d daughters per node and subtree
// comparisons of size s; trees here are small, s is a few nodes.
func (n *Node[T]) Sort(cmp func(x, y T) int) {
	for _, d := range n.daughters {
		d.Sort(cmp)
	}
	slices.SortStableFunc(n.daughters, func(a, b *Node[T]) int {
		return Compare(a, b, cmp)
	})
}
