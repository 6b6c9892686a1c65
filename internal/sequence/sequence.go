// Package sequence produces reproducible orderings of item names.
//
// Order sorts names before shuffling so that the result depends only on the
// set of names and the seed, never on the order a filesystem happened to
// enumerate them in.
package sequence

import (
	"math/rand/v2"
	"sort"
)

// pcgStream is the fixed second PCG seed word. Changing it changes every
// assignment ever produced, so it is part of the on-disk contract.
const pcgStream = 0x636f727075737370

// Sorted returns a lexicographically sorted copy of names.
func Sorted(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// Order returns a seeded permutation of names. The input is not modified.
//
// The permutation is a Fisher-Yates shuffle over the sorted names, walking
// from the last index down and drawing j = Uint64() % (i+1) from a PCG
// generator seeded with (seed, pcgStream). PCG output is fixed by the
// math/rand/v2 compatibility promise, so the result is identical across runs
// and platforms.
func Order(names []string, seed int64) []string {
	out := Sorted(names)
	src := rand.NewPCG(uint64(seed), pcgStream)
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.Uint64() % uint64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
