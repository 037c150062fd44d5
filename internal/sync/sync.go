// Package sync implements the AFC/preamble correlator (C11): a 2D
// frequency-offset x timing-offset grid search that locates the preamble
// in a baseband stream and estimates the residual carrier frequency error
// (§4.11). The search is budgeted in grid cells explored rather than
// wall-clock time, so a caller can bound search cost deterministically;
// a context.Context gives cooperative cancellation on top of that budget.
package sync

import (
	"context"
	"math"
)

// SearchConfig bounds the 2D search (§6's freq_search_range_hz /
// freq_search_step_hz options).
type SearchConfig struct {
	FreqRangeHz  float64 // search +-FreqRangeHz around zero offset
	FreqStepHz   float64
	TimingRange  int // search the first TimingRange sample offsets
	MaxCells     int // give up after exploring this many grid cells; 0 = unbounded
	SampleRateHz float64
}

// Result is the best frequency/timing estimate the grid search found.
type Result struct {
	FreqOffsetHz  float64
	TimingOffset  int
	Score         float64
	CellsExplored int
}

// budget tracks how many grid cells have been explored against a ceiling:
// a tick-budget that counts cells instead of milliseconds.
type budget struct {
	limit   int
	current int
}

func newBudget(limit int) *budget { return &budget{limit: limit} }

func (b *budget) tick() { b.current++ }

func (b *budget) expired() bool {
	if b.limit <= 0 {
		return false
	}
	return b.current >= b.limit
}

// Correlate searches baseband for the best alignment with reference (the
// known preamble symbols, already pulse-shaped to the same sample rate) by
// scanning candidate frequency offsets and, for each, every timing offset
// in [0, cfg.TimingRange). It returns the best-scoring cell and true, or a
// Result with Score -1 and false if no cell was scored (the context was
// cancelled first, or baseband is too short to hold the reference).
func Correlate(ctx context.Context, baseband []complex128, reference []complex128, cfg SearchConfig) (Result, bool) {
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 48000
	}
	if cfg.TimingRange <= 0 {
		cfg.TimingRange = 1
	}

	bud := newBudget(cfg.MaxCells)
	best := Result{Score: -1}
	found := false

	steps := 0
	if cfg.FreqStepHz > 0 {
		steps = int(2*cfg.FreqRangeHz/cfg.FreqStepHz) + 1
	}
	if steps <= 0 {
		steps = 1
	}

	for s := 0; s < steps; s++ {
		select {
		case <-ctx.Done():
			return best, found
		default:
		}

		freq := -cfg.FreqRangeHz + float64(s)*cfg.FreqStepHz
		if steps == 1 {
			freq = 0
		}
		derotated := mixFrequency(baseband, freq, cfg.SampleRateHz)

		for t := 0; t < cfg.TimingRange && t+len(reference) <= len(derotated); t++ {
			score := correlationScore(derotated[t:t+len(reference)], reference)
			bud.tick()
			if score > best.Score {
				best = Result{FreqOffsetHz: freq, TimingOffset: t, Score: score, CellsExplored: bud.current}
				found = true
			}
			if bud.expired() {
				return best, found
			}
		}
	}
	return best, found
}

func mixFrequency(x []complex128, freqHz, sampleRateHz float64) []complex128 {
	if freqHz == 0 {
		return x
	}
	out := make([]complex128, len(x))
	w := 2 * math.Pi * freqHz / sampleRateHz
	for n, v := range x {
		c, s := math.Cos(-w*float64(n)), math.Sin(-w*float64(n))
		out[n] = complex(real(v)*c-imag(v)*s, real(v)*s+imag(v)*c)
	}
	return out
}

func correlationScore(window, reference []complex128) float64 {
	var acc complex128
	for i := range reference {
		acc += window[i] * cconj(reference[i])
	}
	var refEnergy float64
	for _, r := range reference {
		refEnergy += real(r)*real(r) + imag(r)*imag(r)
	}
	if refEnergy == 0 {
		return 0
	}
	return cabs(acc) / math.Sqrt(refEnergy)
}

func cconj(c complex128) complex128 { return complex(real(c), -imag(c)) }
func cabs(c complex128) float64     { return math.Hypot(real(c), imag(c)) }
