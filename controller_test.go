package possim

import (
	"math"
	"testing"
)

func TestController_StepDirection(t *testing.T) {
	// Gini above the target must lower the exponent (flatter weights pull
	// inequality down); Gini below must raise it.
	c := NewController(0.3, 0.01, UpdateLinear)
	if c.Exponent() != 1.0 {
		t.Fatalf("Expected initial exponent 1.0, got %g", c.Exponent())
	}

	p := c.Update(0.8) // pool too unequal
	if p >= 1.0 {
		t.Errorf("Gini above target must lower the exponent, got %g", p)
	}

	c = NewController(0.3, 0.01, UpdateLinear)
	p = c.Update(0.1) // pool too equal
	if p <= 1.0 {
		t.Errorf("Gini below target must raise the exponent, got %g", p)
	}

	t.Logf("✓ Error sign steers the exponent toward the setpoint")
}

func TestController_AtSetpointHolds(t *testing.T) {
	for _, shape := range []UpdateShape{UpdateConstant, UpdateLinear, UpdateQuadratic, UpdateSqrt} {
		c := NewController(0.3, 0.5, shape)
		if p := c.Update(0.3); p != 1.0 {
			t.Errorf("%s: zero error must not move the exponent, got %g", shape, p)
		}
	}
	t.Logf("✓ All shapes hold at zero error")
}

func TestController_UpdateShapes(t *testing.T) {
	// error = 0.3 − 0.05 = 0.25, gain = 1: the step is f(0.25) exactly.
	cases := []struct {
		shape UpdateShape
		step  float64
	}{
		{UpdateConstant, 1},
		{UpdateLinear, 0.25},
		{UpdateQuadratic, 0.0625},
		{UpdateSqrt, 0.5},
	}
	for _, tc := range cases {
		c := NewController(0.3, 1, tc.shape)
		p := c.Update(0.05)
		if math.Abs(p-(1+tc.step)) > 1e-12 {
			t.Errorf("%s: expected exponent %g, got %g", tc.shape, 1+tc.step, p)
		}
	}
	t.Logf("✓ Shape table: constant, linear, quadratic, sqrt")
}

func TestController_NegativeErrorShapes(t *testing.T) {
	// The even-powered shapes must preserve the error sign.
	c := NewController(0.3, 1, UpdateQuadratic)
	if p := c.Update(0.8); p >= 1.0 {
		t.Errorf("quadratic: negative error must step down, got %g", p)
	}
	c = NewController(0.3, 1, UpdateSqrt)
	if p := c.Update(0.8); p >= 1.0 {
		t.Errorf("sqrt: negative error must step down, got %g", p)
	}
}

func TestController_Clamping(t *testing.T) {
	c := NewController(0.9, 100, UpdateLinear)
	for i := 0; i < 50; i++ {
		c.Update(0.0) // large positive error, huge gain
	}
	if c.Exponent() != maxExponent {
		t.Errorf("Expected saturation at %g, got %g", maxExponent, c.Exponent())
	}

	c = NewController(0.1, 100, UpdateLinear)
	for i := 0; i < 50; i++ {
		c.Update(1.0)
	}
	if c.Exponent() != minExponent {
		t.Errorf("Expected saturation at %g, got %g", minExponent, c.Exponent())
	}

	t.Logf("✓ Exponent clamps to [%g, %g]", minExponent, maxExponent)
}

func TestController_AccumulatesAcrossEpochs(t *testing.T) {
	c := NewController(0.5, 0.001, UpdateLinear)
	for i := 0; i < 1000; i++ {
		c.Update(0.2) // constant error 0.3
	}
	want := 1.0 + 1000*0.001*0.3
	if math.Abs(c.Exponent()-want) > 1e-9 {
		t.Errorf("Expected accumulated exponent %g, got %g", want, c.Exponent())
	}
	t.Logf("✓ 1000 epochs of constant error integrate to %g", c.Exponent())
}
