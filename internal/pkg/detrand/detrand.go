// Package detrand provides deterministic pseudo-random tie-breaking. Every
// choice is a pure function of the candidate set and a seed, so re-running
// with identical inputs picks the same candidate.
package detrand

import (
	"math/rand"
	"sort"
)

// DefaultSeed governs every deterministic tie-break in the engine.
const DefaultSeed int64 = 42

// Pick returns one of candidates chosen by a generator seeded with seed.
// Candidates are sorted first so the choice does not depend on input order.
// An empty slice returns "".
func Pick(candidates []string, seed int64) string {
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)
	r := rand.New(rand.NewSource(seed))
	return sorted[r.Intn(len(sorted))]
}
