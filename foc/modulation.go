package foc

// Modulator maps a stationary-frame voltage vector to three normalized
// per-phase duty values in [-1, 1] (values slightly outside that range
// are allowed, and are clamped when converted to a compare count). A
// Modulator must be a pure function of its input: it holds no per-call
// state and is selected once, at Foc construction time (see §9 of the
// design notes this package follows).
type Modulator interface {
	Modulate(v TwoPhase) [3]Q
}

// SinusoidalModulator produces a modulation waveform via inverse Clarke
// directly. It is the simplest and fastest of the four strategies, at the
// cost of not using the DC bus voltage as efficiently as SVPWM.
type SinusoidalModulator struct{}

// Modulate implements Modulator.
func (SinusoidalModulator) Modulate(v TwoPhase) [3]Q {
	out := InverseClarke(v)
	return [3]Q{out.A, out.B, out.C}
}

// SquareModulator produces a two-level square wave per phase: the sign of
// each inverse-Clarke output, with sign(0) = 0.
type SquareModulator struct{}

// Modulate implements Modulator.
func (SquareModulator) Modulate(v TwoPhase) [3]Q {
	out := InverseClarke(v)
	return [3]Q{out.A.Signum(), out.B.Signum(), out.C.Signum()}
}

// TrapezoidalModulator produces a three-level wave: +-1 once a phase's
// inverse-Clarke output reaches magnitude 0.5 (its doubled value truncates
// to +-1 or beyond), and 0 (a high-impedance region) in between. The caller is responsible for
// disabling the corresponding PWM channel whenever the output is exactly
// zero.
type TrapezoidalModulator struct{}

// Modulate implements Modulator.
func (TrapezoidalModulator) Modulate(v TwoPhase) [3]Q {
	out := InverseClarke(v)
	two := FromInt(2)
	return [3]Q{
		out.A.Mul(two).RoundToZero().Signum(),
		out.B.Mul(two).RoundToZero().Signum(),
		out.C.Mul(two).RoundToZero().Signum(),
	}
}

// SpaceVectorModulator implements space-vector PWM (SVPWM): the most
// complex of the four strategies, and the only one that is not simply
// derived from inverse Clarke, trading extra computation for better DC
// bus utilization and lower current ripple than sinusoidal PWM.
type SpaceVectorModulator struct{}

// Modulate implements Modulator, reproducing the SVPWM sector-dispatch
// algorithm of spec §4.4 exactly, including its first-match sector
// resolution and its treatment of the (x>0, y>0, z>0) = (false, false,
// false) case, which maps to sector 5 through the (_, false, false) row.
// Because x = y + z, every input with beta <= -sqrt(3)*|alpha| (the zero
// vector included) produces that all-false triple.
func (SpaceVectorModulator) Modulate(v TwoPhase) [3]Q {
	sqrt3Alpha := SQRT_3.Mul(v.Alpha)
	x := v.Beta
	y := v.Beta.Add(sqrt3Alpha).Div(FromInt(2))
	z := v.Beta.Sub(sqrt3Alpha).Div(FromInt(2))

	xPos, yPos, zPos := x.IsPositive(), y.IsPositive(), z.IsPositive()

	var sector int
	switch {
	case xPos && yPos && !zPos:
		sector = 1
	case yPos && zPos: // (_, true, true)
		sector = 2
	case xPos && !yPos && zPos:
		sector = 3
	case !xPos && !yPos && zPos:
		sector = 4
	case !yPos && !zPos: // (_, false, false), also covers (false,false,false)
		sector = 5
	case !xPos && yPos && !zPos:
		sector = 6
	default:
		// Unreachable: the six cases above exhaust every sign triple,
		// since the (_, false, false) row subsumes the all-negative case.
		sector = 5
	}

	var ta, tb, tc Q
	switch sector {
	case 1, 4:
		ta = x.Sub(z)
		tb = x.Add(z)
		tc = x.Neg().Add(z)
	case 2, 5:
		ta = y.Sub(z)
		tb = y.Add(z)
		tc = y.Neg().Sub(z)
	case 3, 6:
		ta = y.Sub(x)
		tb = x.Sub(y)
		tc = y.Neg().Sub(x)
	}

	return [3]Q{ta, tb, tc}
}
