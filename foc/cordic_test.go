package foc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSinCosKnownAngles(t *testing.T) {
	cases := []struct {
		angle    float64
		sin, cos float64
	}{
		{0, 0, 1},
		{math.Pi / 2, 1, 0},
		{math.Pi, 0, -1},
		{-math.Pi / 2, -1, 0},
		{math.Pi / 4, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{math.Pi / 6, 0.5, math.Sqrt(3) / 2},
	}

	for _, c := range cases {
		sin, cos := SinCos(FromFloat64(c.angle))
		assert.InDelta(t, c.sin, sin.Float64(), 2e-4, "sin(%v)", c.angle)
		assert.InDelta(t, c.cos, cos.Float64(), 2e-4, "cos(%v)", c.angle)
	}
}

// Property: |err| <= 2e-4 over the full circle, per spec §4.1.
func TestSinCosPrecisionOverFullCircle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		angle := rapid.Float64Range(-4*math.Pi, 4*math.Pi).Draw(t, "angle")
		sin, cos := SinCos(FromFloat64(angle))

		wrapped := math.Atan2(math.Sin(angle), math.Cos(angle))
		assert.LessOrEqual(t, math.Abs(sin.Float64()-math.Sin(wrapped)), 2e-4)
		assert.LessOrEqual(t, math.Abs(cos.Float64()-math.Cos(wrapped)), 2e-4)
	})
}

func TestWrapToPi(t *testing.T) {
	assert.InDelta(t, 0, WrapToPi(FromFloat64(2*math.Pi)).Float64(), 1e-3)
	assert.InDelta(t, math.Pi-0.1, WrapToPi(FromFloat64(math.Pi-0.1)).Float64(), 1e-3)
	assert.InDelta(t, math.Pi-0.1, WrapToPi(FromFloat64(-math.Pi-0.1)).Float64(), 1e-2)
}
