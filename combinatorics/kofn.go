// SPDX-License-Identifier: MIT
// Package: kinfit/combinatorics
//
// kofn.go: order-preserving k-of-n combination generator.
//
// Contract:
//   • Indices are strictly increasing and visited in lexicographic order.
//   • data is never reordered or modified; Selected/Complement copy out.
//   • k outside [0, n] yields an exhausted generator, not an error.

package combinatorics

// KofN generates all combinations of k elements drawn from data.
//
// The zero value is not usable; build one with NewKofN.
// A KofN is not safe for concurrent use.
type KofN[T any] struct {
	data    []T   // drawn-from elements, never modified
	indices []int // current combination, strictly increasing
	done    bool  // true once all combinations have been visited
	invalid bool  // k outside [0, n]: never yields a combination
}

// NewKofN returns a generator positioned at the first combination
// (indices 0..k-1). If k is negative or larger than len(data) the
// generator starts exhausted: Done reports true and K reports 0.
// Complexity: O(k) time and space.
func NewKofN[T any](data []T, k int) *KofN[T] {
	c := &KofN[T]{data: data}
	if k < 0 || k > len(data) {
		c.indices = []int{}
		c.invalid = true
		c.done = true

		return c
	}
	c.indices = make([]int, k)
	c.Reset()

	return c
}

// Reset moves the generator back to the first combination.
// A generator built with an out-of-range k stays exhausted.
func (c *KofN[T]) Reset() {
	for i := range c.indices {
		c.indices[i] = i
	}
	c.done = c.invalid
}

// Next advances to the next combination in lexicographic order.
// It returns false (and marks the generator as done) when there is none.
// Complexity: O(k) worst case, amortised O(1) per call over a full run;
// O(1) extra space.
func (c *KofN[T]) Next() bool {
	if c.done {
		return false
	}
	if len(c.indices) == 0 {
		// the single empty combination has been visited
		c.done = true

		return false
	}
	ok := c.nextLevel(len(c.indices) - 1)
	c.done = !ok

	return ok
}

// nextLevel increments position i, carrying into position i-1 when
// position i already sits at its maximal value n-(k-i).
func (c *KofN[T]) nextLevel(i int) bool {
	if c.indices[i] >= len(c.data)-(len(c.indices)-i) {
		if i != 0 && c.nextLevel(i-1) {
			c.indices[i] = c.indices[i-1] + 1

			return true
		}

		return false
	}
	c.indices[i]++

	return true
}

// Done reports whether all combinations have been visited.
func (c *KofN[T]) Done() bool { return c.done }

// K returns the number of elements drawn per combination.
func (c *KofN[T]) K() int { return len(c.indices) }

// N returns the number of elements drawn from.
func (c *KofN[T]) N() int { return len(c.data) }

// At returns the i-th element of the current combination.
// It panics if i is outside [0, K()), like a slice index would.
func (c *KofN[T]) At(i int) T { return c.data[c.indices[i]] }

// Indices returns a copy of the current index tuple.
func (c *KofN[T]) Indices() []int {
	out := make([]int, len(c.indices))
	copy(out, c.indices)

	return out
}

// Selected returns the elements of the current combination in their
// original order.
func (c *KofN[T]) Selected() []T {
	out := make([]T, 0, len(c.indices))
	for _, idx := range c.indices {
		out = append(out, c.data[idx])
	}

	return out
}

// ComplementIndices returns the indices NOT part of the current
// combination, in increasing order.
func (c *KofN[T]) ComplementIndices() []int {
	out := make([]int, 0, len(c.data)-len(c.indices))
	j := 0
	for i := range c.data {
		if j < len(c.indices) && c.indices[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}

	return out
}

// Complement returns the n−k elements that are not selected by the
// current combination, in their original order.
// Complexity: O(n) time and space.
func (c *KofN[T]) Complement() []T {
	idx := c.ComplementIndices()
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.data[i])
	}

	return out
}
