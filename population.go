package possim

import "math/rand"

// populationDynamics applies per-epoch churn to the pool: a probabilistic
// leave, a probabilistic join, and any scheduled joins due this epoch.
// Scheduled joins fire independently of the probabilistic draw, so one
// epoch can admit two validators.
type populationDynamics struct {
	pJoin  float64
	pLeave float64
	policy JoinPolicy

	// scheduled maps epoch → stakes to inject; entries are consumed
	// exactly once when the simulation reaches that epoch.
	scheduled map[int][]float64
}

func newPopulationDynamics(p Parameters) *populationDynamics {
	d := &populationDynamics{
		pJoin:  p.PJoin,
		pLeave: p.PLeave,
		policy: p.JoinAmount,
	}
	if len(p.ScheduledJoins) > 0 {
		d.scheduled = make(map[int][]float64, len(p.ScheduledJoins))
		for _, sj := range p.ScheduledJoins {
			d.scheduled[sj.Epoch] = append(d.scheduled[sj.Epoch], sj.Stake)
		}
	}
	return d
}

// apply mutates the state for one epoch and reports whether the
// population changed (the selector must rebuild its weight tree).
func (d *populationDynamics) apply(rng *rand.Rand, st *state, epoch int) bool {
	changed := false

	// Probabilistic leave: one uniformly random validator departs and its
	// stake leaves the pool with it. Not redistributed.
	if len(st.stakes) > 0 && rng.Float64() < d.pLeave {
		st.remove(rng.Intn(len(st.stakes)))
		changed = true
	}

	// Probabilistic join: one validator enters under the stake policy.
	if len(st.stakes) > 0 && rng.Float64() < d.pJoin {
		st.join(d.joinStake(rng, st.stakes))
		changed = true
	}

	// Scheduled joins due this epoch, exact stakes, consumed once.
	if due, ok := d.scheduled[epoch]; ok {
		for _, stake := range due {
			st.join(stake)
		}
		delete(d.scheduled, epoch)
		changed = true
	}

	return changed
}

// joinStake derives a new validator's stake from the current pool.
func (d *populationDynamics) joinStake(rng *rand.Rand, stakes []float64) float64 {
	switch d.policy {
	case NewAverage:
		var total float64
		for _, x := range stakes {
			total += x
		}
		return total / float64(len(stakes))
	case NewMax:
		max := stakes[0]
		for _, x := range stakes[1:] {
			if x > max {
				max = x
			}
		}
		return max
	case NewMin:
		min := stakes[0]
		for _, x := range stakes[1:] {
			if x < min {
				min = x
			}
		}
		return min
	default: // NewRandom
		min, max := stakes[0], stakes[0]
		for _, x := range stakes[1:] {
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
		return min + rng.Float64()*(max-min)
	}
}
