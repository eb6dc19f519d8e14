// SPDX-License-Identifier: MIT
// Package: kinfit/combinatorics
//
// binomial.go: C(n, k) for sizing and assertions.

package combinatorics

// Binomial returns C(n, k), the number of combinations KofN yields for
// n elements and k drawn. It returns 0 for k < 0 or k > n.
// Complexity: O(min(k, n-k)) time, O(1) space.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}

	return r
}
