package foc

// PIController is a discrete-time, fixed-point proportional-integral
// controller. Gains are set once at construction; Update is the only
// method that mutates state, and the only state is the integral
// accumulator.
type PIController struct {
	kp, ki   Q
	integral Q
}

// NewPIController constructs a PI controller with the given proportional
// and integral gains. The integrator starts at zero.
func NewPIController(kp, ki Q) *PIController {
	return &PIController{kp: kp, ki: ki}
}

// Update advances the controller by one time step and returns the new
// control output. error is computed as measurement-setpoint, not the
// reverse — callers choosing setpoint sign must account for this
// convention (see TestPISignConvention in control_test.go).
func (c *PIController) Update(measurement, setpoint, dt Q) Q {
	err := measurement.Sub(setpoint)
	c.integral = c.integral.Add(c.ki.Mul(err).Mul(dt))
	return c.kp.Mul(err).Add(c.integral)
}

// Reset zeroes the integral accumulator, leaving gains untouched.
func (c *PIController) Reset() {
	c.integral = ZERO
}

// PIDController is a PIController plus a derivative-on-measurement term,
// which avoids the derivative kick a naive derivative-on-error
// implementation produces on setpoint changes.
type PIDController struct {
	pi              PIController
	kd              Q
	lastMeasurement Q
	hasLast         bool
}

// NewPIDController constructs a PID controller with the given gains.
func NewPIDController(kp, ki, kd Q) *PIDController {
	return &PIDController{pi: PIController{kp: kp, ki: ki}, kd: kd}
}

// Update advances the controller by one time step and returns the new
// control output. dt must be strictly positive; the derivative term
// divides by it, and division by zero elsewhere in this package saturates
// rather than panicking, but a zero or negative dt is a caller error this
// type does not attempt to mask.
func (c *PIDController) Update(measurement, setpoint, dt Q) Q {
	err := measurement.Sub(setpoint)
	c.pi.integral = c.pi.integral.Add(c.pi.ki.Mul(err).Mul(dt))

	var derivative Q
	if c.hasLast {
		derivative = measurement.Sub(c.lastMeasurement).Div(dt)
	}
	c.lastMeasurement = measurement
	c.hasLast = true

	return c.pi.kp.Mul(err).Add(c.pi.integral).Add(c.kd.Mul(derivative))
}

// Reset zeroes the integral accumulator and forgets the last measurement,
// so the next Update call produces no derivative kick.
func (c *PIDController) Reset() {
	c.pi.integral = ZERO
	c.lastMeasurement = ZERO
	c.hasLast = false
}
