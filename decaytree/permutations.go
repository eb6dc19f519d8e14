// SPDX-License-Identifier: MIT
// Package: kinfit/decaytree
//
// permutations.go: symmetry-reduced permutations of tree leaves.
//
// Contract:
//   • The tree must be sorted (Sort) so identical siblings are adjacent.
//   • Permutations are materialised once; callers reuse them per event.
//   • More than one repeated leaf type is rejected (ErrUnsupportedTree).

package decaytree

import "fmt"

// UniquePermutations picks the single leaf type occurring more than once
// as the permutable type and delegates to UniquePermutationsOf. Trees with
// two or more repeated leaf types are rejected with ErrUnsupportedTree.
// A tree without any repeated leaf type has no permutable leaves.
// Complexity: O(L·g) for L leaves and g distinct leaf values, plus
// UniquePermutationsOf.
func (n *Node[T]) UniquePermutations(cmp func(x, y T) int) ([]*Node[T], [][]int, int, error) {
	// 1. Count leaves per distinct value (a handful at most, linear scan).
	type group struct {
		value T
		count int
	}
	var groups []group
	for _, l := range n.Leaves() {
		found := false
		for i := range groups {
			if cmp(groups[i].value, l.value) == 0 {
				groups[i].count++
				found = true

				break
			}
		}
		if !found {
			groups = append(groups, group{value: l.value, count: 1})
		}
	}

	// 2. At most one group may repeat.
	var repeated *group
	for i := range groups {
		if groups[i].count < 2 {
			continue
		}
		if repeated != nil {
			return nil, nil, 0, fmt.Errorf("UniquePermutations: %w", ErrUnsupportedTree)
		}
		repeated = &groups[i]
	}

	permutable := func(T) bool { return false }
	if repeated != nil {
		rep := repeated.value
		permutable = func(v T) bool { return cmp(v, rep) == 0 }
	}
	leaves, perms, offset := n.UniquePermutationsOf(cmp, permutable)

	return leaves, perms, offset, nil
}

// UniquePermutationsOf computes the structurally unique permutations of
// the leaves accepted by permutable. The tree must be sorted.
//
// It returns all leaves with the fixed (non-permutable) leaves first, in
// tree order, followed by the permutable leaves in tree order; offset is
// the number of fixed leaves. Each permutation has one entry per
// permutable leaf: in a given permutation, leaves[offset+i] receives the
// label perm[i], where labels range over [0, len(leaves)-offset).
//
// Two assignments are considered equal when they differ only by swapping
// identical sibling subtrees. From each such class the permutation is kept
// in which identical siblings are ordered by their smallest label.
// Permutations come out in lexicographic order.
//
// Complexity: O(m!·m·c) time in the worst case for m permutable leaves
// and c symmetry checks per slot. A branch breaking a symmetry is cut as
// soon as the later subtree is complete, so trees with many identical
// siblings stay far below that bound. O(m) working space plus the output.
func (n *Node[T]) UniquePermutationsOf(cmp func(x, y T) int, permutable func(T) bool) (leaves []*Node[T], perms [][]int, offset int) {
	// 1. Split leaves into fixed and permutable slots.
	var fixed, slots []*Node[T]
	for _, l := range n.Leaves() {
		if permutable(l.value) {
			slots = append(slots, l)
		} else {
			fixed = append(fixed, l)
		}
	}
	slotOf := make(map[*Node[T]]int, len(slots))
	for i, s := range slots {
		slotOf[s] = i
	}

	// 2. Collect ordering constraints between identical siblings. A
	//    constraint is checked once its later subtree is fully assigned,
	//    which happens at the largest slot of that subtree.
	checks := make([][]symmetry, len(slots))
	n.Walk(func(x *Node[T]) {
		ds := x.daughters
		for j := 1; j < len(ds); j++ {
			later := subtreeSlots(ds[j], slotOf)
			if len(later) == 0 {
				continue
			}
			for i := 0; i < j; i++ {
				if !Equal(ds[i], ds[j], cmp) {
					continue
				}
				at := later[len(later)-1]
				checks[at] = append(checks[at], symmetry{
					earlier: subtreeSlots(ds[i], slotOf),
					later:   later,
				})
			}
		}
	})

	// 3. Backtrack over labels in increasing order.
	m := len(slots)
	cur := make([]int, m)
	used := make([]bool, m)
	var rec func(s int)
	rec = func(s int) {
		if s == m {
			p := make([]int, m)
			copy(p, cur)
			perms = append(perms, p)

			return
		}
		for label := 0; label < m; label++ {
			if used[label] {
				continue
			}
			cur[s] = label
			if !satisfied(checks[s], cur) {
				continue
			}
			used[label] = true
			rec(s + 1)
			used[label] = false
		}
	}
	rec(0)

	leaves = append(fixed, slots...)

	return leaves, perms, len(fixed)
}

// symmetry requires min(earlier) < min(later) over assigned labels.
type symmetry struct {
	earlier, later []int
}

func satisfied(cs []symmetry, cur []int) bool {
	for _, c := range cs {
		if minLabel(c.earlier, cur) > minLabel(c.later, cur) {
			return false
		}
	}

	return true
}

func minLabel(slots []int, cur []int) int {
	m := cur[slots[0]]
	for _, s := range slots[1:] {
		if cur[s] < m {
			m = cur[s]
		}
	}

	return m
}

// subtreeSlots lists the permutable slot indices below n in tree order.
func subtreeSlots[T any](n *Node[T], slotOf map[*Node[T]]int) []int {
	var out []int
	n.Walk(func(x *Node[T]) {
		if i, ok := slotOf[x]; ok {
			out = append(out, i)
		}
	})

	return out
}
