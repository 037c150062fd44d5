package equalizer

import (
	"math"

	"github.com/dbehnke/m110a-modem/internal/channel"
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

// mlseEqualizer runs Viterbi maximum-likelihood sequence estimation over
// each Equalize call's symbols, on a trellis whose states are the
// (memory-1) most recent symbol decisions, with branch metric equal to the
// squared distance between the received sample and the channel-predicted
// sample for each candidate symbol (§4.16). adaptive re-estimates the
// channel taps once per Equalize call from that call's known symbols
// (MLSE-Adaptive) instead of assuming a fixed channel (MLSE-L2/L3).
type mlseEqualizer struct {
	memory   int // channel memory length L (L2 -> 2, L3 -> 3)
	adaptive bool
	taps     []complex128 // assumed/last-estimated channel response
}

func newMLSE(memory int, adaptive bool) *mlseEqualizer {
	taps := make([]complex128, memory)
	taps[0] = complex(1, 0) // default assumption: no distortion until estimated
	return &mlseEqualizer{memory: memory, adaptive: adaptive, taps: taps}
}

func (e *mlseEqualizer) Variant() Variant {
	if e.adaptive {
		return MLSEAdaptive
	}
	if e.memory == 2 {
		return MLSEL2
	}
	return MLSEL3
}

func (e *mlseEqualizer) Reset() {
	for i := range e.taps {
		e.taps[i] = 0
	}
	e.taps[0] = 1
}

// depth is the number of prior symbols a trellis state remembers: memory-1.
func (e *mlseEqualizer) depth() int { return e.memory - 1 }

func (e *mlseEqualizer) Equalize(symbols []complex128, knownMask []bool, knownValues []complex128, m mode.Modulation) []complex128 {
	if e.adaptive {
		e.reestimate(symbols, knownMask, knownValues)
	}

	alphaSize := 1 << symbol.BitsPerSymbol(m)
	alphabet := make([]complex128, alphaSize)
	for v := 0; v < alphaSize; v++ {
		alphabet[v] = complex128(symbol.Map(m, uint8(v)))
	}

	depth := e.depth()
	numStates := pow(alphaSize, depth)
	n := len(symbols)
	const inf = math.MaxFloat64

	metric := make([]float64, numStates)
	for i := range metric {
		metric[i] = inf
	}
	metric[0] = 0

	// symAt[step][state] / predAt[step][state]: the alphabet index and the
	// predecessor state of the surviving path reaching `state` at trellis
	// step `step`. Traceback follows predAt directly rather than trying to
	// invert the (lossy) state-transition function.
	symAt := make([][]int, n)
	predAt := make([][]int, n)
	for i := range symAt {
		symAt[i] = make([]int, numStates)
		predAt[i] = make([]int, numStates)
	}

	for step := 0; step < n; step++ {
		next := make([]float64, numStates)
		for i := range next {
			next[i] = inf
		}

		var forcedValue int
		forced := knownMask != nil && step < len(knownMask) && knownMask[step]
		if forced {
			forcedValue = int(symbol.Demap(m, symbol.Symbol(knownValues[step])))
		}

		for st := 0; st < numStates; st++ {
			if metric[st] >= inf {
				continue
			}
			hist := stateHistory(st, alphaSize, depth)
			for v := 0; v < alphaSize; v++ {
				if forced && v != forcedValue {
					continue
				}
				predicted := e.predict(alphabet, v, hist)
				d := sqDist(symbols[step], predicted)
				ns := nextMLSEState(st, v, alphaSize, depth)
				cand := metric[st] + d
				if cand < next[ns] {
					next[ns] = cand
					symAt[step][ns] = v
					predAt[step][ns] = st
				}
			}
		}
		metric = next
	}

	best := 0
	for s := 1; s < numStates; s++ {
		if metric[s] < metric[best] {
			best = s
		}
	}

	out := make([]complex128, n)
	state := best
	for step := n - 1; step >= 0; step-- {
		out[step] = alphabet[symAt[step][state]]
		state = predAt[step][state]
	}
	return out
}

// predict returns the channel-model-predicted received sample for
// transmitting alphabet index v given the trellis state's symbol history
// (hist[0] = previous symbol's index, hist[1] = the one before, ...).
func (e *mlseEqualizer) predict(alphabet []complex128, v int, hist []int) complex128 {
	acc := e.taps[0] * alphabet[v]
	for k, h := range hist {
		if k+1 < len(e.taps) {
			acc += e.taps[k+1] * alphabet[h]
		}
	}
	return acc
}

func sqDist(a, b complex128) float64 {
	d := a - b
	return real(d)*real(d) + imag(d)*imag(d)
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

func stateHistory(state, alphaSize, depth int) []int {
	h := make([]int, depth)
	for i := 0; i < depth; i++ {
		h[i] = state % alphaSize
		state /= alphaSize
	}
	return h
}

// nextMLSEState shifts v in as the new most-recent symbol (matching
// stateHistory's h[0] = state % alphaSize convention) and drops the oldest
// symbol the state can no longer remember.
func nextMLSEState(state, v, alphaSize, depth int) int {
	if depth == 0 {
		return 0
	}
	return v + (state%pow(alphaSize, depth-1))*alphaSize
}

func (e *mlseEqualizer) reestimate(symbols []complex128, knownMask []bool, knownValues []complex128) {
	var known, received []complex128
	for i, isKnown := range knownMask {
		if isKnown {
			known = append(known, knownValues[i])
			received = append(received, symbols[i])
		}
	}
	if len(known) <= e.memory {
		return
	}
	e.taps = channel.Estimate(known, received, e.memory, channel.DefaultRidge)
}
