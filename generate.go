package possim

import (
	"math/rand"
	"sort"
)

// GeneratePeers builds the initial stake vector: n entries summing to
// volume (within floating-point tolerance), shaped by the distribution.
//
// The rng is only consulted for DistRandom; the other shapes are
// deterministic. targetGini is only consulted for DistGini and must lie
// in (0, 1).
func GeneratePeers(rng *rand.Rand, n int, volume float64, shape Distribution, targetGini float64) ([]float64, error) {
	if n <= 0 {
		return nil, configErrorf("n_peers", "must be positive, got %d", n)
	}
	if volume <= 0 {
		return nil, configErrorf("initial_stake_volume", "must be positive, got %g", volume)
	}
	switch shape {
	case DistUniform:
		return generateUniform(n, volume), nil
	case DistRandom:
		return generateRandom(rng, n, volume), nil
	case DistGini:
		return generateWithGini(n, volume, targetGini)
	default:
		return nil, configErrorf("initial_distribution", "unknown distribution %q", shape)
	}
}

func generateUniform(n int, volume float64) []float64 {
	stakes := make([]float64, n)
	share := volume / float64(n)
	for i := range stakes {
		stakes[i] = share
	}
	return stakes
}

// generateRandom places n−1 uniform cut points on [0, volume] and hands
// each validator one segment, then rescales so the sum is exact.
func generateRandom(rng *rand.Rand, n int, volume float64) []float64 {
	if n == 1 {
		return []float64{volume}
	}
	cuts := make([]float64, n-1)
	for i := range cuts {
		cuts[i] = rng.Float64() * volume
	}
	sort.Float64s(cuts)

	stakes := make([]float64, n)
	prev := 0.0
	for i, c := range cuts {
		stakes[i] = c - prev
		prev = c
	}
	stakes[n-1] = volume - prev

	var total float64
	for _, x := range stakes {
		total += x
	}
	scale := volume / total
	for i := range stakes {
		stakes[i] *= scale
	}
	return stakes
}

// generateWithGini builds a vector whose Gini coefficient is exactly the
// target, from a two-level Lorenz construction: n−1 validators share the
// flat segment of the Lorenz curve and one validator holds the remainder.
//
// With per-validator share c = 1/n − g/(n−1) for the flat segment, the
// resulting Gini is (n−1)·(1/n − c) = g exactly. The construction needs
// c ≥ 0, so g can be at most (n−1)/n; beyond that the pool is too small
// to reach the target and a ConfigError is returned.
func generateWithGini(n int, volume float64, g float64) ([]float64, error) {
	if g <= 0 || g >= 1 {
		return nil, configErrorf("initial_gini", "must be in (0, 1), got %g", g)
	}
	maxG := float64(n-1) / float64(n)
	if g > maxG {
		return nil, configErrorf("initial_gini", "%g unreachable with %d peers (max %g)", g, n, maxG)
	}

	low := (1/float64(n) - g/float64(n-1)) * volume
	top := (1/float64(n) + g) * volume

	stakes := make([]float64, n)
	for i := 0; i < n-1; i++ {
		stakes[i] = low
	}
	stakes[n-1] = top
	return stakes, nil
}

// SampleCorrupted draws nCorrupted distinct validator indices from
// [0, nPeers) to form the corrupted set for a run. Membership is fixed
// for the lifetime of those validators.
func SampleCorrupted(rng *rand.Rand, nPeers, nCorrupted int) []int {
	if nCorrupted <= 0 {
		return nil
	}
	if nCorrupted > nPeers {
		nCorrupted = nPeers
	}
	return rng.Perm(nPeers)[:nCorrupted]
}
