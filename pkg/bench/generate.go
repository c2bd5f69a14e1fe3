package bench

import (
	"math/rand/v2"

	"github.com/matzehuels/swapbench/pkg/perm"
)

// Instances pre-generates the instance vectors for a sweep: perSize random
// permutations for each size, keyed by size. Every strategy in the sweep
// solves these exact vectors. Each size draws from its own (seed, size)
// stream, so adding or removing sizes never shifts another size's
// instances.
func Instances(sizes []int, perSize int, seed uint64) map[int][]perm.Permutation {
	out := make(map[int][]perm.Permutation, len(sizes))
	for _, n := range sizes {
		rng := rand.New(rand.NewPCG(seed, uint64(n)))
		list := make([]perm.Permutation, perSize)
		for i := range list {
			list[i] = perm.Random(n, rng)
		}
		out[n] = list
	}
	return out
}
