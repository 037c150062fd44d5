// Package phase implements the carrier/symbol phase tracker (C13): a
// second-order PLL that rotates each received symbol by its running phase
// estimate and updates that estimate from the phase error the equalizer or
// a known reference symbol reveals (§4.13). Grounded on
// original_source/src/dsp/phase_tracker.h's two-gain-constant design: the
// loop runs with doubled gain during the probe/known-symbol portion of a
// frame (faster reacquisition against a trusted reference) and normal gain
// during the unknown/data portion.
package phase

import "math"

// Default loop gains (§4.13): alpha drives the phase estimate directly,
// beta accumulates into a frequency estimate for second-order tracking.
const (
	DefaultAlpha = 0.05
	DefaultBeta  = 0.002
)

// Tracker is a second-order PLL carrying a running phase and frequency
// estimate across calls.
type Tracker struct {
	Alpha, Beta float64

	phase float64
	freq  float64
}

// New returns a Tracker with the default loop gains.
func New() *Tracker {
	return &Tracker{Alpha: DefaultAlpha, Beta: DefaultBeta}
}

// Correct rotates x by the current phase estimate and returns the
// corrected symbol; it does not update the loop (use Update for that).
func (t *Tracker) Correct(x complex128) complex128 {
	c, s := math.Cos(-t.phase), math.Sin(-t.phase)
	return complex(real(x)*c-imag(x)*s, real(x)*s+imag(x)*c)
}

// Update advances the loop from a measured phase error (radians, typically
// arg(received * conj(reference)) for a known symbol, or a decision-directed
// error for data symbols). isProbe doubles both loop gains while tracking a
// known preamble/probe symbol, where a trusted reference makes faster
// convergence safe; it is halved back to normal gain for unknown/data
// symbols, where an incorrect decision should not be allowed to yank the
// loop off course as aggressively.
func (t *Tracker) Update(phaseError float64, isProbe bool) {
	alpha, beta := t.Alpha, t.Beta
	if isProbe {
		alpha *= 2
		beta *= 2
	}
	t.freq += beta * phaseError
	t.phase += t.freq + alpha*phaseError
	t.phase = wrap(t.phase)
}

// TrackKnown corrects x using the current estimate, derives the phase error
// against the known reference symbol, updates the loop at probe gain, and
// returns the corrected symbol.
func (t *Tracker) TrackKnown(x, reference complex128) complex128 {
	corrected := t.Correct(x)
	err := math.Atan2(imag(corrected*cmplxConj(reference)), real(corrected*cmplxConj(reference)))
	t.Update(err, true)
	return corrected
}

// TrackDecisionDirected corrects x using the current estimate, derives the
// phase error against the hard-decision symbol the caller already made, and
// updates the loop at data (non-probe) gain.
func (t *Tracker) TrackDecisionDirected(x, decision complex128) complex128 {
	corrected := t.Correct(x)
	err := math.Atan2(imag(corrected*cmplxConj(decision)), real(corrected*cmplxConj(decision)))
	t.Update(err, false)
	return corrected
}

func cmplxConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

func wrap(p float64) float64 {
	for p > math.Pi {
		p -= 2 * math.Pi
	}
	for p < -math.Pi {
		p += 2 * math.Pi
	}
	return p
}

// Phase returns the current phase estimate in radians, for diagnostics.
func (t *Tracker) Phase() float64 { return t.phase }

// Reset zeroes the phase and frequency estimates.
func (t *Tracker) Reset() {
	t.phase = 0
	t.freq = 0
}
