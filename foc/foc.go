package foc

// Foc composes the fixed-point Clarke/Park transforms, a flux-axis and a
// torque-axis PI controller, and a modulator into the single per-tick
// update described in spec §4.5. A Foc value owns no heap state beyond
// its two controllers' integral accumulators; it performs no I/O,
// allocates nothing in Update, and never blocks. Concurrent calls to
// Update on the same instance are undefined — each motor gets its own
// Foc, typically one per high-priority timer/ADC-complete interrupt.
type Foc struct {
	flux   *PIController
	torque *PIController

	modulator     Modulator
	pwmResolution uint16
}

// NewFoc constructs a controller for one motor. fluxKp/fluxKi and
// torqueKp/torqueKi are the (kp, ki) pairs used for the d-axis (flux, regulated
// to zero) and q-axis (torque) PI loops respectively. modulator is
// selected once, here, and never changes for the lifetime of this Foc.
// pwmResolution is the compare-value ceiling (MAX in spec §4.4); the
// timer's actual top-of-count is typically pwmResolution+1.
func NewFoc(fluxKp, fluxKi, torqueKp, torqueKi Q, modulator Modulator, pwmResolution uint16) *Foc {
	return &Foc{
		flux:          NewPIController(fluxKp, fluxKi),
		torque:        NewPIController(torqueKp, torqueKi),
		modulator:     modulator,
		pwmResolution: pwmResolution,
	}
}

// Update runs one full control tick: Clarke, Park, the two PI loops,
// inverse Park, and the selected modulator composed with the
// compare-value mapping, in the textual order of spec §4.5. currentA and
// currentB are the two sensed phase currents; angle is the rotor
// electrical angle in radians (any 2*pi-wide range, wrapped internally);
// desiredTorque is the q-axis current command; dt is the tick period.
// Update never allocates, never blocks, and never returns an error: every
// numeric step either produces a value or saturates silently (§7).
func (f *Foc) Update(currentA, currentB, angle, desiredTorque, dt Q) [3]uint16 {
	sinAngle, cosAngle := SinCos(angle)

	iAlphaBeta := Clarke(ThreePhaseBalanced{A: currentA, B: currentB})
	iDQ := Park(cosAngle, sinAngle, iAlphaBeta)

	vD := f.flux.Update(iDQ.D, ZERO, dt)
	vQ := f.torque.Update(iDQ.Q, desiredTorque, dt)

	vAlphaBeta := InversePark(cosAngle, sinAngle, Rotating{D: vD, Q: vQ})

	duties := f.modulator.Modulate(vAlphaBeta)
	return ToCompareValues(duties, f.pwmResolution)
}

// Reset zeroes both PI loops' integral accumulators, without otherwise
// disturbing gains, modulator selection, or PWM resolution.
func (f *Foc) Reset() {
	f.flux.Reset()
	f.torque.Reset()
}
