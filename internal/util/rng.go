package util

import "math/rand"

// New returns the per-match source used by AI and boss decisions. These rolls
// are not part of any reproducibility contract; procedural output uses LCG.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}
