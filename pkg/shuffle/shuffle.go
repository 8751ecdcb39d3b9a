// Package shuffle provides a seeded Fisher-Yates permutation.
//
// Host and observers feed the same seed and the same input order into Shuffle
// and get the same permutation back, so only the seed has to travel over the
// network.
package shuffle

import "math/rand"

// Shuffle returns a permuted copy of items. The input slice is not modified.
func Shuffle[T any](items []T, seed int32) []T {
	out := make([]T, len(items))
	copy(out, items)
	InPlace(out, seed)
	return out
}

// InPlace permutes items using a PRNG seeded with seed.
func InPlace[T any](items []T, seed int32) {
	rng := rand.New(rand.NewSource(int64(seed)))
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
