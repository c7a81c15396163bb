package possim

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RunResult is one algorithm's outcome in a comparison batch.
type RunResult struct {
	Algorithm Algorithm
	Output    *RunOutput
	Elapsed   time.Duration

	// Final metrics snapshot, zero-valued when the run produced no epochs.
	FinalGini       float64
	FinalNakamoto   int
	FinalPopulation int

	// Err is non-nil when the run aborted mid-way (SelectionError or
	// cancellation); Output then holds the partial series.
	Err error
}

// CompareAlgorithms runs one simulation per algorithm from the same
// initial pool and returns one RunResult each, in the given order (all
// algorithms when algos is nil).
//
// Runs are independent Markov chains, so they execute in parallel: one
// goroutine and one random stream per run, the Parameters shared
// read-only. Run i draws its stream from Seed+i so the batch is
// reproducible as a whole. A run failing mid-way does not abort its
// siblings; per-run failures land in RunResult.Err.
func CompareAlgorithms(ctx context.Context, params Parameters, algos []Algorithm) ([]RunResult, error) {
	if algos == nil {
		algos = Algorithms()
	}
	// Validate the shared bundle once up front under a concrete
	// algorithm; the per-run variants revalidate in NewSimulation.
	base := params
	base.Algorithm = Weighted
	if err := base.Validate(); err != nil {
		return nil, err
	}

	// One initial pool for every contender, so differences in the output
	// series come from the selection rule alone.
	rng := rand.New(rand.NewSource(params.Seed))
	initial, err := GeneratePeers(rng, params.NPeers, params.InitialStakeVolume,
		params.InitialDistribution, params.InitialGini)
	if err != nil {
		return nil, err
	}
	corrupted := SampleCorrupted(rng, params.NPeers, params.NCorrupted)

	results := make([]RunResult, len(algos))
	var wg sync.WaitGroup
	for i, algo := range algos {
		wg.Add(1)
		go func(i int, algo Algorithm) {
			defer wg.Done()
			runParams := params
			runParams.Algorithm = algo
			runParams.Seed = params.Seed + int64(i)
			results[i] = runOne(ctx, initial, corrupted, runParams)
		}(i, algo)
	}
	wg.Wait()
	return results, nil
}

func runOne(ctx context.Context, initial []float64, corrupted []int, params Parameters) RunResult {
	res := RunResult{Algorithm: params.Algorithm}

	sim, err := NewSimulation(initial, corrupted, params)
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	out, err := sim.RunContext(ctx)
	res.Elapsed = time.Since(start)
	res.Output = out
	res.Err = err

	if n := out.Epochs(); n > 0 {
		res.FinalGini = out.Gini[n-1]
		res.FinalNakamoto = out.Nakamoto[n-1]
		res.FinalPopulation = out.Population[n-1]
	}
	return res
}
