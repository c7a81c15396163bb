package possim

import (
	"math"
	"math/rand"
	"testing"
)

func TestPopulation_ScheduledJoinExact(t *testing.T) {
	params := DefaultParameters()
	params.PJoin = 0
	params.PLeave = 0
	params.ScheduledJoins = []ScheduledJoin{{Epoch: 100, Stake: 99999}}

	d := newPopulationDynamics(params)
	rng := rand.New(rand.NewSource(1))
	st := &state{stakes: []float64{10, 20, 30}}

	if changed := d.apply(rng, st, 99); changed || len(st.stakes) != 3 {
		t.Fatalf("Epoch 99 must not fire the scheduled join")
	}
	if changed := d.apply(rng, st, 100); !changed {
		t.Fatalf("Epoch 100 must fire the scheduled join")
	}
	if len(st.stakes) != 4 || st.stakes[3] != 99999 {
		t.Fatalf("Expected exactly stake 99999 appended, got %v", st.stakes)
	}

	// Consumed once: replaying the epoch must not re-inject.
	if changed := d.apply(rng, st, 100); changed {
		t.Errorf("Scheduled join replayed at epoch 100")
	}

	t.Logf("✓ Scheduled join lands at epoch 100 with stake 99999, exactly once")
}

func TestPopulation_ScheduledJoinIndependentOfDraw(t *testing.T) {
	// Probabilistic join also firing means two validators enter this epoch.
	params := DefaultParameters()
	params.PJoin = 1
	params.PLeave = 0
	params.JoinAmount = NewMin
	params.ScheduledJoins = []ScheduledJoin{{Epoch: 5, Stake: 777}}

	d := newPopulationDynamics(params)
	st := &state{stakes: []float64{10, 20}}
	d.apply(rand.New(rand.NewSource(1)), st, 5)

	if len(st.stakes) != 4 {
		t.Fatalf("Expected both joins, got %d validators: %v", len(st.stakes), st.stakes)
	}
	if st.stakes[2] != 10 || st.stakes[3] != 777 {
		t.Errorf("Expected probabilistic min-join 10 then scheduled 777, got %v", st.stakes[2:])
	}

	t.Logf("✓ One epoch admitted a probabilistic and a scheduled joiner")
}

func TestPopulation_JoinPolicies(t *testing.T) {
	stakes := []float64{10, 20, 30, 40}
	rng := rand.New(rand.NewSource(2))

	cases := []struct {
		policy JoinPolicy
		check  func(float64) bool
		want   string
	}{
		{NewAverage, func(x float64) bool { return x == 25 }, "mean 25"},
		{NewMax, func(x float64) bool { return x == 40 }, "max 40"},
		{NewMin, func(x float64) bool { return x == 10 }, "min 10"},
		{NewRandom, func(x float64) bool { return x >= 10 && x <= 40 }, "within [10, 40]"},
	}
	for _, tc := range cases {
		d := &populationDynamics{policy: tc.policy}
		got := d.joinStake(rng, stakes)
		if !tc.check(got) {
			t.Errorf("%s: expected %s, got %g", tc.policy, tc.want, got)
		}
	}
	t.Logf("✓ All four join-stake policies")
}

func TestPopulation_LeaveRemovesStake(t *testing.T) {
	params := DefaultParameters()
	params.PJoin = 0
	params.PLeave = 1

	d := newPopulationDynamics(params)
	st := &state{stakes: []float64{10, 20, 30}}
	d.apply(rand.New(rand.NewSource(3)), st, 0)

	if len(st.stakes) != 2 {
		t.Fatalf("Expected one departure, %d validators remain", len(st.stakes))
	}
	var total float64
	for _, x := range st.stakes {
		total += x
	}
	if total >= 60 {
		t.Errorf("Departing stake must leave the pool, total still %.1f", total)
	}

	t.Logf("✓ Leave burned %.0f stake", 60-total)
}

func TestState_CorruptedSurvivesCompaction(t *testing.T) {
	// Validator 2 is corrupted; when validator 0 leaves, the same validator
	// sits at index 1 and must still be corrupted.
	st := &state{
		stakes:    []float64{10, 20, 30, 40},
		corrupted: map[int]struct{}{2: {}},
	}
	st.remove(0)

	if !st.isCorrupted(1) {
		t.Errorf("Corruption must follow the validator across compaction")
	}
	if st.isCorrupted(2) {
		t.Errorf("Index 2 now holds an honest validator")
	}
	if math.Abs(st.stakes[1]-30) > 1e-12 {
		t.Errorf("Expected stake 30 at index 1, got %g", st.stakes[1])
	}

	// Removing the corrupted validator itself clears its mark.
	st.remove(1)
	if len(st.corrupted) != 0 {
		t.Errorf("Departed validator left a corruption mark: %v", st.corrupted)
	}

	t.Logf("✓ Corruption is a validator property, not a slot property")
}

func TestState_JoinersNeverCorrupted(t *testing.T) {
	st := &state{
		stakes:    []float64{10, 20},
		corrupted: map[int]struct{}{0: {}},
	}
	st.join(50)

	if st.isCorrupted(2) {
		t.Errorf("A joining validator must start honest")
	}
	if len(st.corrupted) != 1 {
		t.Errorf("Join must not touch the corrupted set: %v", st.corrupted)
	}
	t.Logf("✓ Joiners enter honest")
}
