package decaytree_test

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUniquePermutations_Channels checks permutation counts of database
// channels against the combinatorial expectation.
func TestUniquePermutations_Channels(t *testing.T) {
	cases := []struct {
		channel decaytree.Channel
		leaves  int
		perms   int
	}{
		{decaytree.Direct1Pi0_2g, 3, 1},
		{decaytree.Direct2Pi0_4g, 5, 3},
		{decaytree.Direct3Pi0_6g, 7, 15},
		{decaytree.Eta_2g, 3, 1},
		{decaytree.Omega_gPi0_3g, 4, 3},
		{decaytree.EtaPrime_2Pi0Eta_6g, 7, 45},
		{decaytree.EtaPrime_3Pi0_6g, 7, 15},
		{decaytree.EtaPrime_gOmega_ggPi0_4g, 5, 12},
		{decaytree.SigmaPlusK0s_6g, 7, 45},
	}
	for _, tc := range cases {
		t.Run(tc.channel.String(), func(t *testing.T) {
			tree := decaytree.Get(tc.channel)
			require.NotNil(t, tree)

			leaves, perms, offset, err := tree.UniquePermutations(particle.Compare)
			require.NoError(t, err)
			assert.Equal(t, 1, offset, "only the proton is fixed")
			assert.Same(t, particle.Proton, leaves[0].Get())
			assert.Len(t, leaves, tc.leaves)
			assert.Len(t, perms, tc.perms)
		})
	}
}

// TestUniquePermutations_IntTree checks exact permutations and order for a
// tree with two identical two-leaf subtrees and three unique leaves.
func TestUniquePermutations_IntTree(t *testing.T) {
	a := decaytree.NewNode(0)
	a0 := a.CreateDaughter(1)
	a1 := a.CreateDaughter(1)
	a0.CreateDaughter(2)
	a0.CreateDaughter(2)
	a1.CreateDaughter(2)
	a1.CreateDaughter(2)
	a.CreateDaughter(3)
	a.CreateDaughter(4)
	a.CreateDaughter(5)
	a.Sort(cmp.Compare[int])

	leaves, perms, offset, err := a.UniquePermutations(cmp.Compare[int])
	require.NoError(t, err)
	assert.Len(t, leaves, 7)
	assert.Equal(t, 3, offset)
	assert.Equal(t, []int{3, 4, 5, 2, 2, 2, 2}, values(leaves))

	want := [][]int{{0, 1, 2, 3}, {0, 2, 1, 3}, {0, 3, 1, 2}}
	if diff := gocmp.Diff(want, perms); diff != "" {
		t.Errorf("permutations mismatch (-want +got):\n%s", diff)
	}
}

// TestUniquePermutations_Unsupported rejects two repeated leaf types.
func TestUniquePermutations_Unsupported(t *testing.T) {
	b := decaytree.NewNode(0)
	b.CreateDaughter(1)
	b.CreateDaughter(1)
	b.CreateDaughter(2)
	b.CreateDaughter(3)
	b.CreateDaughter(3)

	_, _, _, err := b.UniquePermutations(cmp.Compare[int])
	assert.ErrorIs(t, err, decaytree.ErrUnsupportedTree)
}

// TestUniquePermutations_TwoIdenticalLeaves: swapping two identical
// daughters must not be enumerated twice.
func TestUniquePermutations_TwoIdenticalLeaves(t *testing.T) {
	c := decaytree.NewNode(0)
	c.CreateDaughter(1)
	c.CreateDaughter(2)
	c.CreateDaughter(2)
	c.Sort(cmp.Compare[int])

	_, perms, offset, err := c.UniquePermutations(cmp.Compare[int])
	require.NoError(t, err)
	assert.Equal(t, 1, offset)
	assert.Len(t, perms, 1, "half of 2! permutations")
}

// TestUniquePermutations_NoRepeats yields a single empty permutation.
func TestUniquePermutations_NoRepeats(t *testing.T) {
	c := decaytree.NewNode(0)
	c.CreateDaughter(1)
	c.CreateDaughter(2)

	leaves, perms, offset, err := c.UniquePermutations(cmp.Compare[int])
	require.NoError(t, err)
	assert.Equal(t, 2, offset)
	assert.Len(t, leaves, 2)
	assert.Equal(t, [][]int{{}}, perms)
}

// TestUniquePermutations_DistinctAssignments verifies that no two
// permutations assign the same label sets to the internal nodes, and that
// every naive assignment is covered by one of them.
func TestUniquePermutations_DistinctAssignments(t *testing.T) {
	tree := decaytree.Get(decaytree.EtaPrime_2Pi0Eta_6g)
	leaves, perms, offset, err := tree.UniquePermutations(particle.Compare)
	require.NoError(t, err)

	slot := map[*decaytree.Node[*particle.Type]]int{}
	for i, l := range leaves[offset:] {
		slot[l] = i
	}
	// signature: per internal node, the sorted label set under it; identical
	// siblings are merged by sorting the sibling signatures
	var signature func(n decaytree.ParticleTypeTree, perm []int) string
	signature = func(n decaytree.ParticleTypeTree, perm []int) string {
		if n.IsLeaf() {
			if i, ok := slot[n]; ok {
				return fmt.Sprint(perm[i])
			}

			return n.Get().Name
		}
		var parts []string
		for _, d := range n.Daughters() {
			parts = append(parts, signature(d, perm))
		}
		sort.Strings(parts)

		return n.Get().Name + "(" + strings.Join(parts, ",") + ")"
	}

	seen := map[string]bool{}
	for _, p := range perms {
		s := signature(tree, p)
		assert.False(t, seen[s], "duplicate assignment %s", s)
		seen[s] = true
	}

	// all 720 naive orderings map onto the 45 kept ones
	all := map[string]bool{}
	naive := []int{0, 1, 2, 3, 4, 5}
	for {
		all[signature(tree, naive)] = true
		if !nextPermutation(naive) {
			break
		}
	}
	assert.Len(t, all, len(perms))
	for s := range all {
		assert.True(t, seen[s], "assignment %s not covered", s)
	}
}

func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])

	return true
}
