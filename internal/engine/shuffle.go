package engine

import "math/rand/v2"

// Shuffle permutes items in place with Fisher-Yates: walking from the last
// index down to 1, each element is swapped with a uniformly chosen index in [0, i].
func Shuffle[T any](r *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// NewRand returns a random source. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
