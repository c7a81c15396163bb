package possim

import "math"

// Exponent bounds for the stabilization controller. Clamping keeps x^p
// numerically sane even when the loop overshoots for long stretches.
const (
	minExponent = -5.0
	maxExponent = 5.0
)

// Controller is the Gini stabilization feedback loop used by the
// GiniStabilized rule. It maintains the power-law exponent p of the
// selection weight w(x) = x^p and nudges it once per epoch toward the
// target Gini θ:
//
//	error = θ − G
//	p    += k · f(error)
//
// where f is the configured update shape. Raising p concentrates
// selection on large stakes (Gini climbs); lowering it, down through zero
// and negative, favors small stakes (Gini falls), so the sign of the
// error steers the pool toward θ from either side.
//
// The loop is a plain proportional controller with no analytic
// convergence guarantee; convergence is an empirical property, exercised
// by the package tests over long horizons.
type Controller struct {
	// Target is the Gini setpoint θ.
	Target float64
	// Gain is the step scale k.
	Gain float64
	// Shape is the update function applied to the error.
	Shape UpdateShape

	exponent float64
}

// NewController starts the loop at exponent 1.0, the plain
// stake-proportional weighting.
func NewController(target, gain float64, shape UpdateShape) *Controller {
	return &Controller{
		Target:   target,
		Gain:     gain,
		Shape:    shape,
		exponent: 1.0,
	}
}

// Exponent returns the current exponent p without updating it.
func (c *Controller) Exponent() float64 {
	return c.exponent
}

// Update consumes the epoch's observed Gini coefficient, steps the
// exponent, and returns the new value. Called once per epoch before the
// weighted draw.
func (c *Controller) Update(gini float64) float64 {
	err := c.Target - gini

	var f float64
	switch c.Shape {
	case UpdateConstant:
		f = sign(err)
	case UpdateLinear:
		f = err
	case UpdateQuadratic:
		f = sign(err) * err * err
	case UpdateSqrt:
		f = sign(err) * math.Sqrt(math.Abs(err))
	default:
		f = err
	}

	c.exponent += c.Gain * f
	if c.exponent > maxExponent {
		c.exponent = maxExponent
	} else if c.exponent < minExponent {
		c.exponent = minExponent
	}
	return c.exponent
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
