// Package modedetect implements the mode probe correlator (C12): given the
// 64 received, demodulated probe symbols, identify which of the thirteen
// modes the transmitter is using by correlating against each mode's
// Walsh-coded reference probe (§4.12). This is the Walsh/Hadamard analogue
// of IS-95/CDMA Walsh-channel detection, applied here to a one-shot burst
// rather than a continuous code-division channel.
package modedetect

import (
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/preamble"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

// Result carries the winning mode and how confidently it won, so callers
// can reject a detection that is not clearly ahead of its nearest rival.
type Result struct {
	ID       mode.ID
	Score    float64
	RunnerUp float64
}

// Detect correlates received (len == preamble.ProbeLen) against every
// mode's reference probe and returns the best match.
func Detect(received []symbol.Symbol) Result {
	best := Result{Score: negInf}
	second := negInf
	for _, m := range mode.All() {
		score := correlate(received, preamble.ProbeFor(m.ID))
		if score > best.Score {
			second = best.Score
			best = Result{ID: m.ID, Score: score}
		} else if score > second {
			second = score
		}
	}
	best.RunnerUp = second
	return best
}

const negInf = -1e18

func correlate(a, b []symbol.Symbol) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var acc float64
	for i := 0; i < n; i++ {
		prod := complex128(a[i]) * conjugate(complex128(b[i]))
		acc += real(prod)
	}
	return acc
}

func conjugate(c complex128) complex128 { return complex(real(c), -imag(c)) }
