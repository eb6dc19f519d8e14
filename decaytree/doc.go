// Package decaytree provides a small generic rooted tree and the decay
// topologies (trees of particle types) the tree fitter is built from.
//
// 🚀 What does it offer?
//
//   - Node[T]: a rooted tree with ordered daughters and parent links.
//   - Sort: canonical, bottom-up ordering of every node's daughters so that
//     structurally identical subtrees end up next to each other and compare
//     equal.
//   - UniquePermutations: the minimal set of leaf permutations that are
//     distinct under swapping identical sibling subtrees. For η' → π0 π0 η
//     with six photon leaves that is 45 instead of 720.
//   - Get(channel): a database of common photoproduction channels rooted at
//     a beam+target node.
//
// ⚙️ Usage:
//
//	t := decaytree.Get(decaytree.EtaPrime_3Pi0_6g)
//	leaves, perms, offset, err := t.UniquePermutations(particle.Compare)
//	// leaves[:offset] are the uniquely typed leaves (the proton),
//	// leaves[offset+i] receives label perms[k][i] in permutation k.
//
// Permutations require a sorted tree; the channel database returns sorted
// trees, hand-built ones must call Sort first.
package decaytree
