package foc

// ThreePhaseBalanced holds two of three phase values in a stationary
// reference frame whose third component is implied by a+b+c=0.
type ThreePhaseBalanced struct {
	A, B Q
}

// ThreePhase holds three phase values in a stationary reference frame,
// with no constraint that they sum to zero.
type ThreePhase struct {
	A, B, C Q
}

// TwoPhase holds two orthogonal stationary-frame values (the Clarke
// alpha/beta frame).
type TwoPhase struct {
	Alpha, Beta Q
}

// Rotating holds two orthogonal values in the reference frame co-rotating
// with the rotor (the Park d/q frame): D is the flux axis, Q is the torque
// axis.
type Rotating struct {
	D, Q Q
}

// Clarke implements the balanced two-input Clarke transform (equations 3-4
// of the Microsemi application note). An earlier three-input form was
// considered and abandoned as incorrect; only the balanced form is
// implemented here.
func Clarke(in ThreePhaseBalanced) TwoPhase {
	return TwoPhase{
		Alpha: in.A,
		Beta:  FRAC_1_SQRT_3.Mul(in.A.Add(in.B.Mul(FromInt(2)))),
	}
}

// InverseClarke implements the inverse Clarke transform (equations 5-7).
// The three outputs sum to zero within one Q unit of rounding error.
func InverseClarke(in TwoPhase) ThreePhase {
	sqrt3Beta := SQRT_3.Mul(in.Beta)
	return ThreePhase{
		A: in.Alpha,
		B: in.Alpha.Neg().Add(sqrt3Beta).Div(FromInt(2)),
		C: in.Alpha.Neg().Sub(sqrt3Beta).Div(FromInt(2)),
	}
}

// Park implements the Park transform (equations 8-9), rotating a
// stationary-frame value into the rotor-synchronous d/q frame. The caller
// supplies cosAngle/sinAngle (typically both produced by a single SinCos
// call) rather than the angle itself, so that one CORDIC evaluation per
// tick can be shared between Park and InversePark.
func Park(cosAngle, sinAngle Q, in TwoPhase) Rotating {
	return Rotating{
		D: cosAngle.Mul(in.Alpha).Add(sinAngle.Mul(in.Beta)),
		Q: cosAngle.Mul(in.Beta).Sub(sinAngle.Mul(in.Alpha)),
	}
}

// InversePark implements the inverse Park transform (equations 10-11).
func InversePark(cosAngle, sinAngle Q, in Rotating) TwoPhase {
	return TwoPhase{
		Alpha: cosAngle.Mul(in.D).Sub(sinAngle.Mul(in.Q)),
		Beta:  sinAngle.Mul(in.D).Add(cosAngle.Mul(in.Q)),
	}
}
