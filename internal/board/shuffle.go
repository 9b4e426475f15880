// internal/board/shuffle.go
//
// Fisher-Yates shuffle over a seeded source.

package board

import (
	"math/rand"
	"time"
)

// Shuffle returns a uniformly random permutation of in (Fisher-Yates).
// The input slice is left untouched.
func Shuffle[T any](rng *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
