// Package combinatorics draws ordered k-element subsets out of a slice,
// one combination at a time, without replacement and without re-ordering
// the original elements.
//
// 🚀 What is KofN?
//
//	KofN walks all C(n,k) strictly increasing index tuples of length k
//	drawn from [0, n) in lexicographic order:
//	  • no duplicate combinations
//	  • no duplicate elements inside one combination
//	  • elements keep the order they had in the input slice
//	  • the n−k elements NOT selected are available as the complement
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/kinfit/combinatorics"
//
//	photons := []string{"g0", "g1", "g2", "g3"}
//	for c := combinatorics.NewKofN(photons, 2); !c.Done(); c.Next() {
//	    fmt.Println(c.Selected(), c.Complement())
//	}
//
// Edge cases:
//
//   - k > n (or k < 0): the generator is exhausted right away.
//   - k = 0: exactly one (empty) combination, complement = all elements.
//   - k = n: exactly one combination, complement empty.
//
// Complexity:
//
//   - Next:       amortized O(1), worst case O(k)
//   - At:         O(1)
//   - Complement: O(n)
//
// The generator is pure: it never touches the data it was built from and
// holds no state besides the current index tuple, so Reset restarts it.
package combinatorics
