package decaytree_test

import (
	"fmt"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/particle"
)

// ExampleNode_UniquePermutations shows how few photon assignments remain
// for η' → π0 π0 π0 once symmetric swaps are removed.
func ExampleNode_UniquePermutations() {
	tree := decaytree.Get(decaytree.EtaPrime_3Pi0_6g)
	fmt.Println(decaytree.DecayString(tree))

	leaves, perms, offset, err := tree.UniquePermutations(particle.Compare)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("fixed:", leaves[0].Get().Name, "offset:", offset)
	fmt.Println("unique photon permutations:", len(perms))
	fmt.Println("first:", perms[0])
	// Output:
	// (γ p) → [η' → [π0 → [γ γ] π0 → [γ γ] π0 → [γ γ]] p]
	// fixed: Proton offset: 1
	// unique photon permutations: 15
	// first: [0 1 2 3 4 5]
}
