package possim

// Algorithm selects the validator-selection rule a simulation runs under.
type Algorithm string

const (
	// Weighted draws proportionally to stake: w(x) = x.
	Weighted Algorithm = "weighted"
	// OppositeWeighted inverts the advantage: w(x) = max − x.
	OppositeWeighted Algorithm = "opposite-weighted"
	// LogWeighted dampens large stakes: w(x) = log(1 + x).
	LogWeighted Algorithm = "log-weighted"
	// LogWeightedUniform blends LogWeighted with a uniform draw:
	// with probability MixAlpha the draw is log-weighted, otherwise uniform.
	LogWeightedUniform Algorithm = "log-weighted-uniform"
	// SRSWWeighted (square-root stake weighting) uses w(x) = sqrt(x).
	SRSWWeighted Algorithm = "srsw-weighted"
	// DESW (dynamic exponential stake weighting) uses w(x) = x^p with
	// p = 1 − G recomputed from the live Gini coefficient every epoch.
	DESW Algorithm = "desw"
	// GiniStabilized uses w(x) = x^p with p maintained by a feedback
	// controller toward the target Gini θ. See Controller.
	GiniStabilized Algorithm = "gini-stabilized"
	// UniformRandom ignores stakes and draws uniformly.
	UniformRandom Algorithm = "random"
)

// Algorithms lists every selection rule, in comparison-report order.
func Algorithms() []Algorithm {
	return []Algorithm{
		Weighted, OppositeWeighted, LogWeighted, LogWeightedUniform,
		SRSWWeighted, DESW, GiniStabilized, UniformRandom,
	}
}

// Distribution shapes the initial stake vector.
type Distribution string

const (
	// DistUniform gives every validator volume/n.
	DistUniform Distribution = "uniform"
	// DistRandom draws stakes uniformly at random, rescaled to the volume.
	DistRandom Distribution = "random"
	// DistGini constructs a vector whose Gini coefficient matches a target.
	DistGini Distribution = "gini"
)

// JoinPolicy determines the stake a probabilistically joining validator
// brings into the pool.
type JoinPolicy string

const (
	// NewAverage joins with the mean of the current stakes.
	NewAverage JoinPolicy = "average"
	// NewRandom joins with a uniform draw in [min, max] of current stakes.
	NewRandom JoinPolicy = "random"
	// NewMax joins with the current maximum stake.
	NewMax JoinPolicy = "max"
	// NewMin joins with the current minimum stake.
	NewMin JoinPolicy = "min"
)

// UpdateShape is the shape of the stabilization controller's update
// function f applied to the Gini error e = θ − G.
type UpdateShape string

const (
	// UpdateConstant steps by a fixed amount: f(e) = sign(e).
	UpdateConstant UpdateShape = "constant"
	// UpdateLinear steps proportionally: f(e) = e.
	UpdateLinear UpdateShape = "linear"
	// UpdateQuadratic accelerates on large errors: f(e) = sign(e)·e².
	UpdateQuadratic UpdateShape = "quadratic"
	// UpdateSqrt decelerates on large errors: f(e) = sign(e)·sqrt(|e|).
	UpdateSqrt UpdateShape = "sqrt"
)

// ScheduledJoin injects a validator with an exact stake at an exact epoch,
// independent of the probabilistic join draw that epoch. Each entry is
// consumed exactly once.
type ScheduledJoin struct {
	Epoch int     `yaml:"epoch"`
	Stake float64 `yaml:"stake"`
}

// Parameters is the immutable configuration bundle for one simulation run.
// Construct with DefaultParameters, adjust, then Validate (Simulate
// validates on entry as well).
type Parameters struct {
	// NEpochs is the number of epochs to simulate.
	NEpochs int `yaml:"n_epochs"`

	// Algorithm is the validator-selection rule.
	Algorithm Algorithm `yaml:"algorithm"`

	// NPeers is the initial validator count. Required; everything else
	// has a usable default.
	NPeers int `yaml:"n_peers"`

	// InitialStakeVolume is the total stake distributed at epoch 0.
	InitialStakeVolume float64 `yaml:"initial_stake_volume"`

	// InitialDistribution shapes the initial stake vector.
	InitialDistribution Distribution `yaml:"initial_distribution"`

	// InitialGini is the target Gini for DistGini. Must be in (0, 1)
	// when that distribution is selected.
	InitialGini float64 `yaml:"initial_gini"`

	// NCorrupted validators are marked corrupted at initialization.
	NCorrupted int `yaml:"n_corrupted"`

	// PFail is the probability a selected corrupted validator fails
	// validation and is penalized instead of rewarded.
	PFail float64 `yaml:"p_fail"`

	// PJoin is the per-epoch probability of one probabilistic join.
	PJoin float64 `yaml:"p_join"`

	// PLeave is the per-epoch probability of one probabilistic leave.
	PLeave float64 `yaml:"p_leave"`

	// JoinAmount is the stake policy for probabilistic joiners.
	JoinAmount JoinPolicy `yaml:"join_amount"`

	// ScheduledJoins are deterministic (epoch, stake) join events.
	ScheduledJoins []ScheduledJoin `yaml:"scheduled_joins"`

	// Reward is added to the selected validator's stake on success.
	Reward float64 `yaml:"reward"`

	// PenaltyPercentage of the failing validator's stake is slashed.
	PenaltyPercentage float64 `yaml:"penalty_percentage"`

	// TargetGini (θ) is the setpoint for GiniStabilized.
	TargetGini float64 `yaml:"target_gini"`

	// UpdateShape is the controller's update function shape.
	UpdateShape UpdateShape `yaml:"update_shape"`

	// Gain (k) scales the controller's per-epoch exponent step.
	Gain float64 `yaml:"gain"`

	// MixAlpha is the log-weighted share of LogWeightedUniform draws.
	MixAlpha float64 `yaml:"mix_alpha"`

	// Seed initializes the run's random stream. Fixed seed, fixed output.
	Seed int64 `yaml:"seed"`
}

// DefaultParameters returns the baseline configuration used throughout the
// comparison experiments: a 1000-peer pool at Gini 0.3 with light churn.
func DefaultParameters() Parameters {
	return Parameters{
		NEpochs:             50000,
		Algorithm:           Weighted,
		NPeers:              1000,
		InitialStakeVolume:  10000,
		InitialDistribution: DistGini,
		InitialGini:         0.3,
		NCorrupted:          20,
		PFail:               0.5,
		PJoin:               0.001,
		PLeave:              0.001,
		JoinAmount:          NewRandom,
		Reward:              10,
		PenaltyPercentage:   0.5,
		TargetGini:          0.3,
		UpdateShape:         UpdateLinear,
		Gain:                0.001,
		MixAlpha:            0.5,
		Seed:                1,
	}
}

// Validate checks every field range. All violations are fatal before the
// first epoch; a nil return guarantees Simulate will not fail on config.
func (p Parameters) Validate() error {
	if p.NEpochs <= 0 {
		return configErrorf("n_epochs", "must be positive, got %d", p.NEpochs)
	}
	if p.NPeers <= 0 {
		return configErrorf("n_peers", "must be positive, got %d", p.NPeers)
	}
	if p.InitialStakeVolume <= 0 {
		return configErrorf("initial_stake_volume", "must be positive, got %g", p.InitialStakeVolume)
	}
	if p.NCorrupted < 0 || p.NCorrupted > p.NPeers {
		return configErrorf("n_corrupted", "must be in [0, n_peers], got %d", p.NCorrupted)
	}
	if p.PFail < 0 || p.PFail > 1 {
		return configErrorf("p_fail", "must be in [0, 1], got %g", p.PFail)
	}
	if p.PJoin < 0 || p.PJoin > 1 {
		return configErrorf("p_join", "must be in [0, 1], got %g", p.PJoin)
	}
	if p.PLeave < 0 || p.PLeave > 1 {
		return configErrorf("p_leave", "must be in [0, 1], got %g", p.PLeave)
	}
	if p.PenaltyPercentage < 0 || p.PenaltyPercentage > 1 {
		return configErrorf("penalty_percentage", "must be in [0, 1], got %g", p.PenaltyPercentage)
	}
	if p.Reward < 0 {
		return configErrorf("reward", "must be non-negative, got %g", p.Reward)
	}
	if p.InitialDistribution == DistGini && (p.InitialGini <= 0 || p.InitialGini >= 1) {
		return configErrorf("initial_gini", "must be in (0, 1) for the gini distribution, got %g", p.InitialGini)
	}
	if p.Algorithm == GiniStabilized {
		if p.TargetGini <= 0 || p.TargetGini >= 1 {
			return configErrorf("target_gini", "must be in (0, 1), got %g", p.TargetGini)
		}
		if p.Gain <= 0 {
			return configErrorf("gain", "must be positive, got %g", p.Gain)
		}
		switch p.UpdateShape {
		case UpdateConstant, UpdateLinear, UpdateQuadratic, UpdateSqrt:
		default:
			return configErrorf("update_shape", "unknown shape %q", p.UpdateShape)
		}
	}
	if p.Algorithm == LogWeightedUniform && (p.MixAlpha < 0 || p.MixAlpha > 1) {
		return configErrorf("mix_alpha", "must be in [0, 1], got %g", p.MixAlpha)
	}
	switch p.Algorithm {
	case Weighted, OppositeWeighted, LogWeighted, LogWeightedUniform,
		SRSWWeighted, DESW, GiniStabilized, UniformRandom:
	default:
		return configErrorf("algorithm", "unknown algorithm %q", p.Algorithm)
	}
	switch p.InitialDistribution {
	case DistUniform, DistRandom, DistGini:
	default:
		return configErrorf("initial_distribution", "unknown distribution %q", p.InitialDistribution)
	}
	switch p.JoinAmount {
	case NewAverage, NewRandom, NewMax, NewMin:
	default:
		return configErrorf("join_amount", "unknown join policy %q", p.JoinAmount)
	}
	for i, sj := range p.ScheduledJoins {
		if sj.Epoch < 0 || sj.Epoch >= p.NEpochs {
			return configErrorf("scheduled_joins", "entry %d: epoch %d outside [0, n_epochs)", i, sj.Epoch)
		}
		if sj.Stake < 0 {
			return configErrorf("scheduled_joins", "entry %d: negative stake %g", i, sj.Stake)
		}
	}
	return nil
}
