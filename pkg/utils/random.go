package utils

import (
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
)

// GenerateID returns a fresh session token.
func GenerateID() string {
	return uuid.NewString()
}

// IsValidID reports whether s parses as a token produced by GenerateID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// StringToSeed hashes s into a PRNG seed.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// RandomRange returns a value in [min, max).
func RandomRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min)
}
