// Package possim simulates the long-run evolution of stake distribution
// among Proof-of-Stake validators under competing validator-selection rules.
//
// # Overview
//
// A simulation is a discrete-time Markov chain: each epoch one validator is
// drawn from a probability law derived from the current stakes, rewarded (or
// penalized if it is corrupted and fails), and the population optionally
// churns. The engine records four time series per epoch (Gini coefficient,
// population size, Nakamoto coefficient, HHI), so that selection rules can
// be compared on how they shape wealth
// concentration and decentralization over hundreds of thousands of epochs.
//
// # Quick Start
//
// Generate an initial pool, pick a rule, and run:
//
//	params := possim.DefaultParameters()
//	params.Algorithm = possim.GiniStabilized
//	params.TargetGini = 0.3
//
//	rng := rand.New(rand.NewSource(params.Seed))
//	stakes, err := possim.GeneratePeers(rng, params.NPeers,
//		params.InitialStakeVolume, possim.DistGini, params.InitialGini)
//	if err != nil {
//		log.Fatal(err)
//	}
//	corrupted := possim.SampleCorrupted(rng, params.NPeers, params.NCorrupted)
//
//	out, err := possim.Simulate(stakes, corrupted, params)
//	if err != nil {
//		log.Fatal(err) // out holds the partial series produced so far
//	}
//
//	fmt.Printf("final Gini: %.3f\n", out.Gini[len(out.Gini)-1])
//
// # Selection rules
//
// Eight rules are implemented. Each defines a weight w(x) over stakes from
// which selection probabilities p_i = w(x_i)/Σw(x_j) are built:
//
//   - Weighted:           w(x) = x           (rich get richer, Gini rises)
//   - OppositeWeighted:   w(x) = max − x     (favors small stakes, Gini falls)
//   - LogWeighted:        w(x) = log(1+x)    (dampens large-stake advantage)
//   - LogWeightedUniform: α·log-weighted blended with a uniform draw
//   - SRSWWeighted:       w(x) = sqrt(x)     (milder damping than log)
//   - DESW:               w(x) = x^p, p = 1 − Gini recomputed every epoch
//   - GiniStabilized:     w(x) = x^p, p driven by a feedback controller
//     toward a target Gini θ
//   - UniformRandom:      ignores stakes entirely
//
// Sampling uses a Fenwick tree over weights, so a single draw costs O(log n)
// even for pools of tens of thousands of validators.
//
// # Stabilization
//
// GiniStabilized closes a feedback loop: every epoch the controller compares
// the live Gini against the target θ and nudges the exponent p by k·f(θ−G),
// where f is one of the configured update shapes (constant sign, linear,
// quadratic, square root). The loop has no analytic convergence guarantee;
// see the package tests for the empirical convergence property.
//
// # Reproducibility
//
// All randomness flows through one *rand.Rand per run. Two runs with the same
// Parameters, initial stakes and seed produce identical output. Independent
// runs (see CompareAlgorithms) are embarrassingly parallel, each with its own
// random stream.
package possim
