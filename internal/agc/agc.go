// Package agc implements the automatic gain control loop (C14): an
// asymmetric attack/decay envelope tracker (fast attack on rising energy,
// slow decay on falling energy) applied twice in the receive chain — once
// on raw passband samples before downconversion, once on recovered symbol
// magnitudes after equalization — per SPEC_FULL.md's dual-mode AGC, grounded
// on original_source/src/dsp/agc.h's "run the same loop at two different
// points in the chain with different time constants" design.
package agc

import "math"

// Attack and decay coefficients (§4.14): fast attack so a sudden strong
// signal doesn't clip the tracked envelope, slow decay so a brief fade
// doesn't yank the gain up and amplify noise.
const (
	DefaultAttack = 0.1
	DefaultDecay  = 0.01
)

// AGC tracks a running envelope estimate and derives a gain that normalizes
// incoming magnitudes toward a target reference level.
type AGC struct {
	Attack, Decay float64
	Target        float64

	envelope float64
	gain     float64
}

// New returns an AGC loop with the given attack/decay time constants and
// target output magnitude.
func New(attack, decay, target float64) *AGC {
	return &AGC{Attack: attack, Decay: decay, Target: target, envelope: target, gain: 1.0}
}

// NewSample returns a sample-wise AGC instance, used ahead of
// downconversion where the input is raw passband amplitude (§3 supplement).
func NewSample() *AGC { return New(DefaultAttack, DefaultDecay, 1.0) }

// NewSymbol returns a symbol-wise AGC instance with a slower time constant,
// used after equalization where the input is already one sample per symbol
// and over-reacting to a single noisy symbol is costly (§3 supplement).
func NewSymbol() *AGC { return New(DefaultAttack/4, DefaultDecay/4, 1.0) }

// Process updates the envelope estimate from one magnitude sample and
// returns the gain-corrected value: x * gain.
func (a *AGC) Process(x float64) float64 {
	mag := math.Abs(x)
	if mag > a.envelope {
		a.envelope += a.Attack * (mag - a.envelope)
	} else {
		a.envelope += a.Decay * (mag - a.envelope)
	}
	if a.envelope > 1e-9 {
		a.gain = a.Target / a.envelope
	}
	return x * a.gain
}

// ProcessComplex applies the same envelope tracking to a complex symbol's
// magnitude and scales both components by the resulting gain.
func (a *AGC) ProcessComplex(x complex128) complex128 {
	mag := cmplxAbs(x)
	if mag > a.envelope {
		a.envelope += a.Attack * (mag - a.envelope)
	} else {
		a.envelope += a.Decay * (mag - a.envelope)
	}
	if a.envelope > 1e-9 {
		a.gain = a.Target / a.envelope
	}
	return complex(real(x)*a.gain, imag(x)*a.gain)
}

func cmplxAbs(x complex128) float64 {
	return math.Hypot(real(x), imag(x))
}

// Gain returns the current gain factor, for diagnostics.
func (a *AGC) Gain() float64 { return a.gain }

// Reset returns the loop to its initial (unity-gain) state.
func (a *AGC) Reset() {
	a.envelope = a.Target
	a.gain = 1.0
}
