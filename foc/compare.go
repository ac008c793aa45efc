package foc

import "math"

// ToCompareValue converts a single normalized duty value v in [-1, 1]
// (values outside that range are allowed and are saturated) to an
// unsigned PWM compare count in [0, max], per spec §4.4:
//
//	count = clamp(round((v+1) * (max+1) / 2), 0, max)
//
// Rounding is half-to-even. The multiply-then-halve is done in a 64-bit
// integer intermediate (shifted back to a float only for the final round)
// rather than by chaining Q.Mul/Q.Div, because (v+1)*(max+1) leaves Q's
// +-32767 integer range once max exceeds 16383 (and the halved result
// does once max exceeds 32767); the int64 intermediate covers every
// uint16 max.
func ToCompareValue(v Q, max uint16) uint16 {
	vPlusOne := int64(v) + int64(ONE) // raw Q16.16, i.e. (v+1) * 65536
	numerator := vPlusOne * (int64(max) + 1)
	count := math.RoundToEven(float64(numerator) / float64(2*scale))

	if count <= 0 {
		return 0
	}
	if count >= float64(max) {
		return max
	}
	return uint16(count)
}

// ToCompareValues converts all three modulator outputs at once.
func ToCompareValues(duties [3]Q, max uint16) [3]uint16 {
	return [3]uint16{
		ToCompareValue(duties[0], max),
		ToCompareValue(duties[1], max),
		ToCompareValue(duties[2], max),
	}
}
