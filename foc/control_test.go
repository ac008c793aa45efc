package foc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Property 6 (spec §8): calling Update(m, s, dt) n times with a constant
// (m, s, dt) yields output kp*(m-s) + n*ki*(m-s)*dt.
func TestPILaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kp := rapid.Float64Range(0, 5).Draw(t, "kp")
		ki := rapid.Float64Range(0, 5).Draw(t, "ki")
		measurement := rapid.Float64Range(-10, 10).Draw(t, "measurement")
		setpoint := rapid.Float64Range(-10, 10).Draw(t, "setpoint")
		dt := rapid.Float64Range(1e-4, 0.1).Draw(t, "dt")
		n := rapid.IntRange(1, 50).Draw(t, "n")

		pi := NewPIController(FromFloat64(kp), FromFloat64(ki))

		var out Q
		for i := 0; i < n; i++ {
			out = pi.Update(FromFloat64(measurement), FromFloat64(setpoint), FromFloat64(dt))
		}

		err := measurement - setpoint
		expected := kp*err + float64(n)*ki*err*dt
		assert.InDelta(t, expected, out.Float64(), 0.05+0.01*math.Abs(expected))
	})
}

// S6 (spec §8): gains (0, 0.5), 100 calls of update(1, 0, 0.01); output
// after call n equals 0.5*1*0.01*n = 0.005*n; final output 0.5.
func TestS6PIIntegrator(t *testing.T) {
	pi := NewPIController(ZERO, FromFloat64(0.5))

	var out Q
	for n := 1; n <= 100; n++ {
		out = pi.Update(FromFloat64(1), FromFloat64(0), FromFloat64(0.01))
		assert.InDelta(t, 0.005*float64(n), out.Float64(), 1e-3)
	}
	assert.InDelta(t, 0.5, out.Float64(), 1e-3)
}

func TestPISignConvention(t *testing.T) {
	// error = measurement - setpoint, not setpoint - measurement: a
	// measurement above setpoint must produce a positive proportional
	// term, matching spec §4.3 and §9's explicit note about this
	// convention.
	pi := NewPIController(ONE, ZERO)
	out := pi.Update(FromFloat64(5), FromFloat64(2), FromFloat64(0.001))
	assert.InDelta(t, 3.0, out.Float64(), 1e-3)
}

func TestPIDNoDerivativeKickOnFirstCall(t *testing.T) {
	pid := NewPIDController(ZERO, ZERO, ONE)
	out := pid.Update(FromFloat64(10), FromFloat64(0), FromFloat64(0.001))
	assert.Equal(t, ZERO, out) // kp=0, ki=0, and no last measurement yet.
}

func TestPIDDerivativeOnMeasurement(t *testing.T) {
	pid := NewPIDController(ZERO, ZERO, ONE)
	pid.Update(FromFloat64(1), FromFloat64(0), FromFloat64(0.1))
	out := pid.Update(FromFloat64(3), FromFloat64(100), FromFloat64(0.1))
	// (3-1)/0.1 = 20, regardless of setpoint jumping to 100: no kick.
	assert.InDelta(t, 20.0, out.Float64(), 1e-2)
}

func TestPIResetClearsIntegralOnly(t *testing.T) {
	pi := NewPIController(ONE, ONE)
	pi.Update(FromFloat64(1), FromFloat64(0), FromFloat64(1))
	pi.Reset()
	out := pi.Update(FromFloat64(1), FromFloat64(0), FromFloat64(1))
	assert.InDelta(t, 2.0, out.Float64(), 1e-3) // kp*error + ki*error*dt, integral restarted from zero.
}
