package foc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFromFloat64RoundTrip(t *testing.T) {
	assert.Equal(t, ONE, FromFloat64(1.0))
	assert.Equal(t, ZERO, FromFloat64(0.0))
	assert.InDelta(t, -1.0, FromFloat64(-1.0).Float64(), 1e-9)
}

func TestFromFloat64Saturates(t *testing.T) {
	assert.Equal(t, MaxQ, FromFloat64(1e9))
	assert.Equal(t, MinQ, FromFloat64(-1e9))
}

func TestArithmeticSaturates(t *testing.T) {
	assert.Equal(t, MaxQ, MaxQ.Add(ONE))
	assert.Equal(t, MinQ, MinQ.Sub(ONE))
	assert.Equal(t, MaxQ, MaxQ.Mul(FromInt(2)))
}

func TestDivByZeroSaturatesInsteadOfPanicking(t *testing.T) {
	assert.Equal(t, MaxQ, ONE.Div(ZERO))
	assert.Equal(t, MinQ, ONE.Neg().Div(ZERO))
	assert.Equal(t, ZERO, ZERO.Div(ZERO))
}

func TestSignum(t *testing.T) {
	assert.Equal(t, ONE, FromFloat64(4.2).Signum())
	assert.Equal(t, ZERO, ZERO.Signum())
	assert.Equal(t, ONE.Neg(), FromFloat64(-4.2).Signum())
}

func TestRoundToZero(t *testing.T) {
	assert.Equal(t, ZERO, FromFloat64(0.3).RoundToZero())
	assert.Equal(t, ZERO, FromFloat64(-0.3).RoundToZero())
	assert.Equal(t, ONE, FromFloat64(1.9).RoundToZero())
	assert.Equal(t, ONE.Neg(), FromFloat64(-1.9).RoundToZero())
}

func TestAbsDiff(t *testing.T) {
	a := FromFloat64(3.5)
	b := FromFloat64(-1.5)
	assert.InDelta(t, 5.0, a.AbsDiff(b).Float64(), 1e-3)
}

// Property: for any two Q values that do not overflow on addition, Add is
// commutative — a basic sanity check on the saturating arithmetic, per
// spec §8's style of randomly sampled invariants.
func TestAddCommutes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := FromFloat64(rapid.Float64Range(-1000, 1000).Draw(t, "a"))
		b := FromFloat64(rapid.Float64Range(-1000, 1000).Draw(t, "b"))
		assert.Equal(t, a.Add(b), b.Add(a))
	})
}
