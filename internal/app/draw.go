package app

import "math/rand"

// drawIndices samples n distinct indices from [0, length) without replacement
// using a partial Fisher-Yates shuffle; every ordered n-permutation is equally
// likely. The caller guarantees 0 <= n <= length.
func drawIndices(rnd *rand.Rand, length, n int) []int {
	pool := make([]int, length)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(length-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}
