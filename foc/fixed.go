// Package foc implements the field-oriented control computational kernel:
// Clarke/Park reference-frame transforms, a fixed-point PI/PID controller,
// and four PWM modulation strategies, composed into one per-tick update
// that a motor ISR can call without allocating or blocking.
package foc

import "math"

// Q is a signed Q16.16 fixed-point number: 16 integer bits, 16 fractional
// bits, stored in a 32-bit word. Range is approximately ±32767.999985 with
// a resolution of about 1.526e-5. Every arithmetic operation saturates to
// MaxQ/MinQ on overflow instead of wrapping or panicking; this is the only
// failure mode the type has, and it is silent by design (see package doc
// for the real-time rationale).
type Q int32

const fracBits = 16
const scale = int64(1) << fracBits

const (
	// MaxQ is the largest representable Q value.
	MaxQ Q = math.MaxInt32
	// MinQ is the smallest representable Q value.
	MinQ Q = math.MinInt32

	// ZERO is the additive identity.
	ZERO Q = 0
	// ONE is the multiplicative identity.
	ONE Q = Q(scale)
)

// SQRT_3, FRAC_1_SQRT_3 and FRAC_1_TAU are the irrational constants the
// reference-frame transforms and SVPWM sector computation need. They are
// rounded to the nearest Q once, at package init, rather than re-derived
// per call.
var (
	SQRT_3         = FromFloat64(1.7320508)
	FRAC_1_SQRT_3  = FromFloat64(0.57735027)
	FRAC_1_TAU     = FromFloat64(1.0 / (2 * math.Pi))
	piQ            = FromFloat64(math.Pi)
	twoPiQ         = FromFloat64(2 * math.Pi)
	halfPiQ        = FromFloat64(math.Pi / 2)
)

// FromInt constructs a Q from an integer, saturating if it does not fit in
// the integer range of Q.
func FromInt(i int32) Q {
	v := int64(i) << fracBits
	return saturate(v)
}

// FromFloat64 constructs a Q from a float64, rounding to the nearest
// representable Q using round-half-to-even (banker's rounding), and
// saturating if the value is out of range. This is the runtime
// constructor; package-level Q constants built from decimal literals use
// it once, at init, which is as close to "exact at build time" as a
// floating-point literal allows.
func FromFloat64(f float64) Q {
	if math.IsNaN(f) {
		return ZERO
	}
	scaled := math.RoundToEven(f * float64(scale))
	if scaled >= float64(MaxQ) {
		return MaxQ
	}
	if scaled <= float64(MinQ) {
		return MinQ
	}
	return Q(int32(scaled))
}

// Float64 converts back to a float64, mainly for logging, tests, and the
// simulation harness. Never used inside the kernel's hot path.
func (q Q) Float64() float64 {
	return float64(q) / float64(scale)
}

func saturate(v int64) Q {
	if v > int64(MaxQ) {
		return MaxQ
	}
	if v < int64(MinQ) {
		return MinQ
	}
	return Q(int32(v))
}

// Add returns q+other, saturating on overflow.
func (q Q) Add(other Q) Q {
	return saturate(int64(q) + int64(other))
}

// Sub returns q-other, saturating on overflow.
func (q Q) Sub(other Q) Q {
	return saturate(int64(q) - int64(other))
}

// Mul returns q*other, computed in a 64-bit intermediate and shifted back
// by the fractional bit count, saturating on overflow.
func (q Q) Mul(other Q) Q {
	product := (int64(q) * int64(other)) >> fracBits
	return saturate(product)
}

// MulInt multiplies by a plain integer scalar, saturating on overflow.
func (q Q) MulInt(n int32) Q {
	return saturate(int64(q) * int64(n))
}

// Div returns q/other, rounded toward zero. Division by zero does not
// panic: it saturates to MaxQ or MinQ with the sign q would have produced,
// or to ZERO if q is itself ZERO. The kernel never divides by a value that
// can be zero except dt in the PID derivative term, which is a
// caller-enforced precondition (dt > 0); this fallback exists so the type
// itself can never panic regardless of caller.
func (q Q) Div(other Q) Q {
	if other == 0 {
		switch {
		case q > 0:
			return MaxQ
		case q < 0:
			return MinQ
		default:
			return ZERO
		}
	}
	numerator := int64(q) << fracBits
	result := numerator / int64(other)
	return saturate(result)
}

// Neg returns -q, saturating (MinQ negates to MaxQ rather than
// overflowing).
func (q Q) Neg() Q {
	return saturate(-int64(q))
}

// Signum returns ONE, ZERO or -ONE according to the sign of q.
func (q Q) Signum() Q {
	switch {
	case q > 0:
		return ONE
	case q < 0:
		return ONE.Neg()
	default:
		return ZERO
	}
}

// IsPositive reports whether q is strictly greater than zero.
func (q Q) IsPositive() bool {
	return q > 0
}

// RoundToZero truncates the fractional part, rounding toward zero
// (truncating -0.3 yields 0, not -1). The sign of an input that truncates
// to zero is simply lost, as there is no signed zero in a plain integer
// representation.
func (q Q) RoundToZero() Q {
	if q >= 0 {
		return Q(int64(q) &^ (scale - 1))
	}
	return Q(-(int64(-q) &^ (scale - 1)))
}

// Round rounds to the nearest integer Q value, ties-to-even.
func (q Q) Round() Q {
	return FromFloat64(math.RoundToEven(q.Float64()))
}

// AbsDiff returns |q-other| as a Q, saturating.
func (q Q) AbsDiff(other Q) Q {
	d := q.Sub(other)
	if d < 0 {
		return d.Neg()
	}
	return d
}

// Abs returns the absolute value of q, saturating (MinQ saturates to
// MaxQ).
func (q Q) Abs() Q {
	if q < 0 {
		return q.Neg()
	}
	return q
}

// Clamp restricts q to [lo, hi].
func (q Q) Clamp(lo, hi Q) Q {
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// ToUint16 rounds q to the nearest integer (ties-to-even) and saturates
// the result into [0, max]. The compare-value mapping in compare.go does
// its own rounding and clamping and does not call this method.
func (q Q) ToUint16(max uint16) uint16 {
	rounded := math.RoundToEven(q.Float64())
	if rounded <= 0 {
		return 0
	}
	if rounded >= float64(max) {
		return max
	}
	return uint16(rounded)
}
