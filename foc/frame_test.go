package foc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Property 1 (spec §8): Clarke round-trip. For |a|,|b| <= 100,
// inverse_clarke(clarke({a,b})).{a,b} ~= {a,b} with |delta| < 1e-4.
func TestClarkeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-100, 100).Draw(t, "a")
		b := rapid.Float64Range(-100, 100).Draw(t, "b")

		in := ThreePhaseBalanced{A: FromFloat64(a), B: FromFloat64(b)}
		out := InverseClarke(Clarke(in))

		assert.Less(t, math.Abs(out.A.Float64()-a), 1e-4)
		assert.Less(t, math.Abs(out.B.Float64()-b), 1e-4)
	})
}

// Property 2 (spec §8): inverse Clarke's three outputs sum to (near) zero
// for any input.
func TestInverseClarkeSumsToZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alpha := rapid.Float64Range(-1000, 1000).Draw(t, "alpha")
		beta := rapid.Float64Range(-1000, 1000).Draw(t, "beta")

		out := InverseClarke(TwoPhase{Alpha: FromFloat64(alpha), Beta: FromFloat64(beta)})
		sum := out.A.Add(out.B).Add(out.C)

		// "2*eps_Q": two Q units of rounding error.
		assert.LessOrEqual(t, math.Abs(sum.Float64()), 2.0/65536.0+1e-9)
	})
}

// Property 3 (spec §8): Park round-trip for any angle and |alpha|,|beta| <= 100.
func TestParkRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		angle := rapid.Float64Range(-4*math.Pi, 4*math.Pi).Draw(t, "angle")
		alpha := rapid.Float64Range(-100, 100).Draw(t, "alpha")
		beta := rapid.Float64Range(-100, 100).Draw(t, "beta")

		sin, cos := SinCos(FromFloat64(angle))
		in := TwoPhase{Alpha: FromFloat64(alpha), Beta: FromFloat64(beta)}

		moving := Park(cos, sin, in)
		back := InversePark(cos, sin, moving)

		assert.Less(t, math.Abs(back.Alpha.Float64()-in.Alpha.Float64()), 1e-3*math.Max(1, math.Abs(alpha)))
		assert.Less(t, math.Abs(back.Beta.Float64()-in.Beta.Float64()), 1e-3*math.Max(1, math.Abs(beta)))
	})
}

func TestClarkeKnownValues(t *testing.T) {
	in := ThreePhaseBalanced{A: FromFloat64(1), B: FromFloat64(0)}
	out := Clarke(in)
	assert.InDelta(t, 1.0, out.Alpha.Float64(), 1e-4)
	assert.InDelta(t, FRAC_1_SQRT_3.Float64(), out.Beta.Float64(), 1e-4)
}
