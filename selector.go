package possim

import (
	"math"
	"math/rand"
)

// floorStake substitutes for a zero stake wherever a weight function
// would otherwise divide by zero or blow up under a negative exponent.
const floorStake = 1e-9

// selector draws one validator index per epoch according to the
// configured rule. It keeps a Fenwick tree of per-validator weights so a
// draw is O(log n); the tree is maintained incrementally for rules whose
// weight depends only on the validator's own stake, and rebuilt when the
// rule's shared state (power-law exponent, pool maximum, population)
// changes.
type selector struct {
	rule  Algorithm
	alpha float64 // log-weighted share for LogWeightedUniform

	tree     *fenwick
	weights  []float64
	maxStake float64 // OppositeWeighted reference point
	exponent float64 // exponent the tree was last built with
	dirty    bool
}

func newSelector(rule Algorithm, alpha float64) *selector {
	return &selector{
		rule:  rule,
		alpha: alpha,
		tree:  newFenwick(0),
		dirty: true,
	}
}

// usesExponent reports whether the rule weighs stakes as x^p with a
// per-epoch exponent. Those rules rebuild every epoch.
func (s *selector) usesExponent() bool {
	return s.rule == DESW || s.rule == GiniStabilized
}

// prepare brings the weight tree in sync with the current stakes before a
// draw. exponent is only consulted by the x^p rules.
func (s *selector) prepare(stakes []float64, exponent float64) {
	if s.rule == UniformRandom {
		return
	}
	if s.usesExponent() && exponent != s.exponent {
		s.dirty = true
	}
	if !s.dirty && len(stakes) == len(s.weights) {
		return
	}
	s.rebuild(stakes, exponent)
}

func (s *selector) rebuild(stakes []float64, exponent float64) {
	n := len(stakes)
	if cap(s.weights) < n {
		s.weights = make([]float64, n)
	} else {
		s.weights = s.weights[:n]
	}
	s.exponent = exponent
	s.maxStake = 0
	for _, x := range stakes {
		if x > s.maxStake {
			s.maxStake = x
		}
	}
	s.tree.reset(n)
	for i, x := range stakes {
		w := s.weight(x)
		s.weights[i] = w
		s.tree.add(i, w)
	}
	s.dirty = false
}

// weight maps one stake to its unnormalized selection weight under the
// current rule (and exponent/maximum, for the rules that use them).
func (s *selector) weight(x float64) float64 {
	switch s.rule {
	case Weighted:
		return x
	case OppositeWeighted:
		return math.Abs(s.maxStake - x)
	case LogWeighted, LogWeightedUniform:
		return math.Log1p(x)
	case SRSWWeighted:
		return math.Sqrt(x)
	case DESW, GiniStabilized:
		if x <= 0 {
			if s.exponent <= 0 {
				x = floorStake
			} else {
				return 0
			}
		}
		return math.Pow(x, s.exponent)
	default:
		return 1
	}
}

// stakeChanged refreshes the weight of a single validator after its stake
// moved. Rules keyed to shared state mark themselves dirty instead when
// the shared state shifted; they rebuild on the next prepare.
func (s *selector) stakeChanged(i int, stake float64) {
	if s.rule == UniformRandom || s.dirty {
		return
	}
	if s.usesExponent() {
		// Exponent moves every epoch anyway; a rebuild is coming.
		s.dirty = true
		return
	}
	if s.rule == OppositeWeighted && stake > s.maxStake {
		// New pool maximum shifts every weight.
		s.dirty = true
		return
	}
	if i >= len(s.weights) {
		s.dirty = true
		return
	}
	w := s.weight(stake)
	s.tree.add(i, w-s.weights[i])
	s.weights[i] = w
}

// populationChanged invalidates the tree after a join or leave.
func (s *selector) populationChanged() {
	s.dirty = true
}

// pick draws one validator index. The caller must prepare first.
//
// A zero weight total with positive total stake (all stakes equal under
// OppositeWeighted) degrades to a uniform draw; a zero weight total with
// zero total stake is the caller's SelectionError condition and is
// reported as ok == false.
func (s *selector) pick(rng *rand.Rand, stakes []float64) (int, bool) {
	n := len(stakes)
	if n == 0 {
		return 0, false
	}
	if s.rule == UniformRandom {
		return rng.Intn(n), true
	}
	if s.rule == LogWeightedUniform && rng.Float64() >= s.alpha {
		return rng.Intn(n), true
	}

	total := s.tree.total()
	if total <= 0 {
		var stakeTotal float64
		for _, x := range stakes {
			stakeTotal += x
		}
		if stakeTotal <= 0 {
			return 0, false
		}
		return rng.Intn(n), true
	}
	return s.tree.find(rng.Float64() * total), true
}
