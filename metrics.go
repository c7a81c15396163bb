package possim

import "sort"

// Gini returns the Gini coefficient of a stake vector: 0 for perfect
// equality, approaching 1 for maximal inequality.
//
// Computed over the ascending-sorted vector with the standard 1-indexed
// formula:
//
//	G = 2·Σ(i·x_i) / (n·Σx_i) − (n+1)/n
//
// Degenerate inputs (empty vector, zero total, single validator) are
// defined as 0, not an error. The input is not mutated.
func Gini(stakes []float64) float64 {
	n := len(stakes)
	if n <= 1 {
		return 0
	}
	var total float64
	for _, x := range stakes {
		total += x
	}
	if total == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, stakes)
	sort.Float64s(sorted)

	var rankSum float64
	for i, x := range sorted {
		rankSum += float64(i+1) * x
	}

	g := 2*rankSum/(float64(n)*total) - float64(n+1)/float64(n)
	// Rounding in the two near-equal terms can leave a tiny negative.
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// NakamotoCoefficient returns the minimum number of top-stake validators
// whose combined stake strictly exceeds 50% of the total.
//
// Ties at the boundary break by stable descending sort with the original
// index as secondary key, so the result is deterministic for a given
// vector. Returns 0 for an empty vector or zero total stake.
func NakamotoCoefficient(stakes []float64) int {
	return nakamotoAt(stakes, 0.5)
}

// NakamotoAnalysis reports the Nakamoto coefficient at several control
// thresholds: the share of total stake an attacker must accumulate.
func NakamotoAnalysis(stakes []float64) map[float64]int {
	out := make(map[float64]int, 6)
	for _, threshold := range []float64{0.25, 0.33, 0.50, 0.51, 0.66, 0.75} {
		out[threshold] = nakamotoAt(stakes, threshold)
	}
	return out
}

func nakamotoAt(stakes []float64, threshold float64) int {
	n := len(stakes)
	if n == 0 {
		return 0
	}
	var total float64
	for _, x := range stakes {
		total += x
	}
	if total == 0 {
		return 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return stakes[order[a]] > stakes[order[b]]
	})

	target := total * threshold
	var cum float64
	for count, idx := range order {
		cum += stakes[idx]
		if cum > target {
			return count + 1
		}
	}
	return n
}

// HHI returns the Herfindahl-Hirschman Index, the sum of squared stake
// shares. Range (0, 1]; higher means more concentrated. Defined as 0 for
// an empty vector or zero total.
func HHI(stakes []float64) float64 {
	var total float64
	for _, x := range stakes {
		total += x
	}
	if total == 0 {
		return 0
	}
	var hhi float64
	for _, x := range stakes {
		share := x / total
		hhi += share * share
	}
	return hhi
}

// DecentralizationScore normalizes the Nakamoto coefficient against pool
// size: (nakamoto − 1) / (n − 1), so 0 means one validator controls the
// majority and 1 means a majority needs nearly the whole pool.
// Monotonically decreasing in concentration. Defined as 0 for pools of one.
func DecentralizationScore(stakes []float64) float64 {
	n := len(stakes)
	if n <= 1 {
		return 0
	}
	nc := NakamotoCoefficient(stakes)
	return float64(nc-1) / float64(n-1)
}
