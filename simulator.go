package possim

import (
	"context"
	"math/rand"
)

// RunOutput holds the per-epoch time series of one completed run. One
// value is appended to each series per epoch, so all series share the
// epoch index. Immutable once the run completes.
type RunOutput struct {
	// Gini is the Gini coefficient after each epoch.
	Gini []float64
	// Population is the validator count after each epoch.
	Population []int
	// Nakamoto is the Nakamoto coefficient after each epoch.
	Nakamoto []int
	// HHI is the Herfindahl-Hirschman Index after each epoch.
	HHI []float64
}

// Epochs returns the number of completed epochs recorded in the output.
func (o *RunOutput) Epochs() int {
	return len(o.Gini)
}

// state is the mutable simulation state: the dense stake vector (index =
// validator identity, compacted on leave) and the corrupted index set.
// Owned exclusively by Simulation; nothing retains a reference across
// epochs.
type state struct {
	stakes    []float64
	corrupted map[int]struct{}
}

func (st *state) isCorrupted(i int) bool {
	_, ok := st.corrupted[i]
	return ok
}

// remove compacts validator i out of the pool. Its stake is discarded and
// its corruption status leaves with it; corrupted indices above i shift
// down so they keep tracking the same validators.
func (st *state) remove(i int) {
	st.stakes = append(st.stakes[:i], st.stakes[i+1:]...)
	if len(st.corrupted) == 0 {
		return
	}
	remapped := make(map[int]struct{}, len(st.corrupted))
	for k := range st.corrupted {
		switch {
		case k < i:
			remapped[k] = struct{}{}
		case k > i:
			remapped[k-1] = struct{}{}
		}
	}
	st.corrupted = remapped
}

// join appends a validator with the given stake. Joiners are never
// corrupted; the corrupted set is fixed to the validators marked at
// initialization.
func (st *state) join(stake float64) {
	st.stakes = append(st.stakes, stake)
}

// Simulation drives the epoch loop. Each epoch, in order: the
// stabilization controller (if the rule uses one) is stepped on the live
// Gini, one validator is drawn, reward or penalty is applied, the
// population churns, and the metrics are snapshotted into the output.
//
// Epoch t+1 depends on the exact state left by epoch t, so a run is
// strictly sequential; independent runs parallelize freely.
type Simulation struct {
	params Parameters
	rng    *rand.Rand

	st   state
	sel  *selector
	ctrl *Controller
	dyn  *populationDynamics

	epoch int
	out   RunOutput
}

// NewSimulation validates the configuration and initial state and
// prepares a run. initialStakes and corrupted are copied; the caller's
// slices are never mutated.
func NewSimulation(initialStakes []float64, corrupted []int, params Parameters) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(initialStakes) == 0 {
		return nil, configErrorf("initial_stakes", "must not be empty")
	}
	var total float64
	for i, x := range initialStakes {
		if x < 0 {
			return nil, configErrorf("initial_stakes", "entry %d is negative: %g", i, x)
		}
		total += x
	}
	if total <= 0 {
		return nil, configErrorf("initial_stakes", "total stake must be positive")
	}
	corruptedSet := make(map[int]struct{}, len(corrupted))
	for _, idx := range corrupted {
		if idx < 0 || idx >= len(initialStakes) {
			return nil, configErrorf("corrupted", "index %d outside the pool", idx)
		}
		corruptedSet[idx] = struct{}{}
	}

	s := &Simulation{
		params: params,
		rng:    rand.New(rand.NewSource(params.Seed)),
		st: state{
			stakes:    append([]float64(nil), initialStakes...),
			corrupted: corruptedSet,
		},
		sel: newSelector(params.Algorithm, params.MixAlpha),
		dyn: newPopulationDynamics(params),
	}
	if params.Algorithm == GiniStabilized {
		s.ctrl = NewController(params.TargetGini, params.Gain, params.UpdateShape)
	}
	return s, nil
}

// Epoch returns the number of epochs completed so far.
func (s *Simulation) Epoch() int { return s.epoch }

// Output returns the series recorded so far. On a SelectionError the
// output holds every epoch completed before the failure.
func (s *Simulation) Output() *RunOutput { return &s.out }

// Done reports whether the configured epoch count is exhausted.
func (s *Simulation) Done() bool { return s.epoch >= s.params.NEpochs }

// Step runs exactly one epoch. It returns a *SelectionError when no
// validator can be drawn (empty pool or zero total stake); the run
// cannot continue past that point.
func (s *Simulation) Step() error {
	// Exponent rules consult the live Gini before the draw.
	exponent := 1.0
	switch {
	case s.ctrl != nil:
		exponent = s.ctrl.Update(Gini(s.st.stakes))
	case s.params.Algorithm == DESW:
		exponent = 1.0 - Gini(s.st.stakes)
	}

	if len(s.st.stakes) == 0 {
		return &SelectionError{Epoch: s.epoch, Reason: "no validators remain"}
	}
	s.sel.prepare(s.st.stakes, exponent)
	v, ok := s.sel.pick(s.rng, s.st.stakes)
	if !ok {
		return &SelectionError{Epoch: s.epoch, Reason: "total stake is zero"}
	}

	// Corrupted validators fail with probability PFail and are slashed;
	// everyone else (and lucky corrupted ones) earns the reward.
	if s.st.isCorrupted(v) && s.rng.Float64() < s.params.PFail {
		s.st.stakes[v] *= 1 - s.params.PenaltyPercentage
	} else {
		s.st.stakes[v] += s.params.Reward
	}
	s.sel.stakeChanged(v, s.st.stakes[v])

	if s.dyn.apply(s.rng, &s.st, s.epoch) {
		s.sel.populationChanged()
	}

	s.out.Gini = append(s.out.Gini, Gini(s.st.stakes))
	s.out.Population = append(s.out.Population, len(s.st.stakes))
	s.out.Nakamoto = append(s.out.Nakamoto, NakamotoCoefficient(s.st.stakes))
	s.out.HHI = append(s.out.HHI, HHI(s.st.stakes))

	s.epoch++
	return nil
}

// Run executes the remaining epochs and returns the output. On a
// mid-run SelectionError the partial output is returned alongside the
// error rather than silently truncated.
func (s *Simulation) Run() (*RunOutput, error) {
	return s.RunContext(context.Background())
}

// checkInterval is how many epochs pass between context checks. There is
// no suspend point inside an epoch; cancellation lands between epochs.
const checkInterval = 1024

// RunContext is Run with cooperative cancellation, checked every
// checkInterval epochs. The partial output accompanies ctx.Err().
func (s *Simulation) RunContext(ctx context.Context) (*RunOutput, error) {
	for !s.Done() {
		if s.epoch%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return &s.out, err
			}
		}
		if err := s.Step(); err != nil {
			return &s.out, err
		}
	}
	return &s.out, nil
}

// Simulate is the one-call entry point: it builds a Simulation from the
// initial stakes, the corrupted index set and the parameters, runs every
// epoch, and returns the recorded series.
func Simulate(initialStakes []float64, corrupted []int, params Parameters) (*RunOutput, error) {
	s, err := NewSimulation(initialStakes, corrupted, params)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
