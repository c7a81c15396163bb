package possim

import (
	"math"
	"testing"
)

// PropertyConfig contains tolerances for the simulation property helpers.
type PropertyConfig struct {
	// GiniTolerance bounds the distance between a generated vector's
	// Gini and its target.
	GiniTolerance float64

	// StabilizationWindow is the trailing-epoch window averaged when
	// judging controller convergence.
	StabilizationWindow int

	// StabilizationTolerance bounds the distance between the trailing
	// average Gini and the controller target.
	StabilizationTolerance float64
}

// DefaultPropertyConfig returns the thresholds the package tests use.
func DefaultPropertyConfig() PropertyConfig {
	return PropertyConfig{
		GiniTolerance:          0.01,
		StabilizationWindow:    1000,
		StabilizationTolerance: 0.05,
	}
}

// AssertGiniBounds verifies 0 ≤ Gini ≤ 1 for the vector, and that the
// coefficient is zero exactly when all entries are equal.
func AssertGiniBounds(t *testing.T, stakes []float64) {
	t.Helper()

	g := Gini(stakes)
	if g < 0 || g > 1 {
		t.Errorf("Gini out of bounds: %.6f for %d stakes", g, len(stakes))
	}

	equal := true
	for _, x := range stakes[1:] {
		if x != stakes[0] {
			equal = false
			break
		}
	}
	const eps = 1e-9
	if equal && g > eps {
		t.Errorf("equal stakes must have Gini 0, got %.9f", g)
	}
	if !equal && g <= eps && stakeTotal(stakes) > 0 {
		t.Errorf("unequal stakes must have Gini > 0, got %.9f", g)
	}
}

// AssertGiniTarget verifies a generated vector hits its target Gini
// within tolerance.
func AssertGiniTarget(t *testing.T, stakes []float64, target float64, cfg PropertyConfig) {
	t.Helper()

	g := Gini(stakes)
	if math.Abs(g-target) > cfg.GiniTolerance {
		t.Errorf("generated Gini %.4f misses target %.4f (tolerance %.4f)",
			g, target, cfg.GiniTolerance)
	}
	t.Logf("✓ Gini target: generated %.4f vs target %.4f", g, target)
}

// AssertStakeConservation verifies total stake is invariant across a run.
// Only meaningful for runs configured with no churn, zero reward and zero
// penalty; the helper reruns nothing, it just compares totals.
func AssertStakeConservation(t *testing.T, initial []float64, final []float64) {
	t.Helper()

	before, after := stakeTotal(initial), stakeTotal(final)
	if math.Abs(before-after) > 1e-6*math.Max(before, 1) {
		t.Errorf("total stake drifted: %.6f → %.6f", before, after)
	}
	t.Logf("✓ Stake conserved: %.2f", after)
}

// AssertStabilization verifies the trailing-window average Gini of a
// completed run lies within tolerance of the controller target. This is
// the empirical convergence property of the stabilization loop; there is
// no analytic guarantee to assert.
func AssertStabilization(t *testing.T, out *RunOutput, target float64, cfg PropertyConfig) {
	t.Helper()

	n := out.Epochs()
	if n < cfg.StabilizationWindow {
		t.Fatalf("run too short to judge stabilization: %d epochs, window %d",
			n, cfg.StabilizationWindow)
	}

	var sum float64
	for _, g := range out.Gini[n-cfg.StabilizationWindow:] {
		sum += g
	}
	avg := sum / float64(cfg.StabilizationWindow)

	if math.Abs(avg-target) > cfg.StabilizationTolerance {
		t.Errorf("trailing-%d average Gini %.4f outside ±%.3f of target %.3f",
			cfg.StabilizationWindow, avg, cfg.StabilizationTolerance, target)
	}
	t.Logf("✓ Stabilized: trailing average %.4f vs target %.3f", avg, target)
}

func stakeTotal(stakes []float64) float64 {
	var total float64
	for _, x := range stakes {
		total += x
	}
	return total
}
