// Package waveform implements the transmit pulse shaper/upconverter and the
// receive downconverter/matched filter (C7/C10): a root-raised-cosine (RRC)
// baseband filter shared by both directions (cascading TX and RX RRC yields
// a raised-cosine response with zero inter-symbol interference at the
// symbol-spaced sampling instants), and quadrature mixing to/from the
// 1800 Hz carrier at 48 kHz, 2400 baud (§4.7, §4.10).
package waveform

import "math"

// Nominal channel parameters (§3, §4.7).
const (
	BaudRate     = 2400
	SampleRate   = 48000
	CarrierHz    = 1800.0
	DefaultSpan  = 6    // RRC filter length in symbol periods
	DefaultAlpha = 0.35 // RRC roll-off
)

// Shaper is a matched pair of TX pulse-shaping / RX matched filters for one
// sample-rate/baud-rate/roll-off combination, plus the quadrature mixer used
// to move the baseband stream to and from the passband carrier.
type Shaper struct {
	Taps             []float64
	SamplesPerSymbol int
	SampleRate       int
	CarrierHz        float64
}

// NewShaper builds the RRC filter taps for the given roll-off, baud rate,
// sample rate and carrier, spanning `span` symbol periods.
func NewShaper(alpha float64, baud, sampleRate int, carrierHz float64, span int) *Shaper {
	sps := sampleRate / baud
	taps := rrcTaps(alpha, sps, span)
	return &Shaper{Taps: taps, SamplesPerSymbol: sps, SampleRate: sampleRate, CarrierHz: carrierHz}
}

// rrcTaps computes the root-raised-cosine impulse response, normalized so
// the matched-filter cascade (TX shape then RX matched filter) has unity
// peak gain at the symbol-spaced sampling instant.
func rrcTaps(beta float64, sps, span int) []float64 {
	n := span*sps + 1
	taps := make([]float64, n)
	center := float64(n-1) / 2
	for i := 0; i < n; i++ {
		t := (float64(i) - center) / float64(sps)
		taps[i] = rrcSample(t, beta)
	}
	return normalizeEnergy(taps)
}

// rrcSample evaluates the standard RRC impulse response at time t (in
// symbol periods, Ts=1), handling the two removable singularities at t=0
// and t=+-1/(4*beta).
func rrcSample(t, beta float64) float64 {
	if t == 0 {
		return 1 - beta + 4*beta/math.Pi
	}
	denom := 1 - math.Pow(4*beta*t, 2)
	if math.Abs(denom) < 1e-8 {
		return (beta / math.Sqrt2) * ((1+2/math.Pi)*math.Sin(math.Pi/(4*beta)) + (1-2/math.Pi)*math.Cos(math.Pi/(4*beta)))
	}
	num := math.Sin(math.Pi*t*(1-beta)) + 4*beta*t*math.Cos(math.Pi*t*(1+beta))
	return num / (math.Pi * t * denom)
}

func normalizeEnergy(taps []float64) []float64 {
	var sumSq float64
	for _, v := range taps {
		sumSq += v * v
	}
	if sumSq == 0 {
		return taps
	}
	scale := 1 / math.Sqrt(sumSq)
	out := make([]float64, len(taps))
	for i, v := range taps {
		out[i] = v * scale
	}
	return out
}

// PulseShape upsamples a baseband symbol stream by SamplesPerSymbol (zero
// stuffing) and convolves it with the RRC taps, producing the TX baseband
// waveform at SampleRate.
func (s *Shaper) PulseShape(symbols []complex128) []complex128 {
	upsampled := make([]complex128, len(symbols)*s.SamplesPerSymbol)
	for i, sym := range symbols {
		upsampled[i*s.SamplesPerSymbol] = sym
	}
	return convolveComplex(upsampled, s.Taps)
}

// MatchedFilter convolves a received baseband stream with the same RRC
// taps used for pulse shaping (the matched-filter half of the raised-cosine
// cascade) and returns the filtered stream still at SampleRate; the caller
// downsamples at the symbol-timing offset recovered by the sync package.
func (s *Shaper) MatchedFilter(samples []complex128) []complex128 {
	return convolveComplex(samples, s.Taps)
}

// Downsample picks one sample per SamplesPerSymbol starting at offset
// (the timing phase recovered by sync.Correlate), recovering one complex
// symbol per baud period.
func (s *Shaper) Downsample(samples []complex128, offset int) []complex128 {
	var out []complex128
	for i := offset; i < len(samples); i += s.SamplesPerSymbol {
		out = append(out, samples[i])
	}
	return out
}

// Upconvert mixes a complex baseband waveform up to the real passband
// carrier: real(x[n])*cos(wn) - imag(x[n])*sin(wn).
func (s *Shaper) Upconvert(baseband []complex128) []float64 {
	out := make([]float64, len(baseband))
	w := 2 * math.Pi * s.CarrierHz / float64(s.SampleRate)
	for n, x := range baseband {
		c, sN := math.Cos(w*float64(n)), math.Sin(w*float64(n))
		out[n] = real(x)*c - imag(x)*sN
	}
	return out
}

// Downconvert mixes a real passband waveform down to complex baseband via
// quadrature demodulation at the (possibly AFC-corrected) carrier
// frequency; the caller applies MatchedFilter afterward to reject the
// image/out-of-band energy the mixer alone does not remove.
func (s *Shaper) Downconvert(passband []float64, carrierHz float64) []complex128 {
	out := make([]complex128, len(passband))
	w := 2 * math.Pi * carrierHz / float64(s.SampleRate)
	for n, x := range passband {
		c, sN := math.Cos(w*float64(n)), math.Sin(w*float64(n))
		out[n] = complex(x*c, -x*sN)
	}
	return out
}

func convolveComplex(x []complex128, taps []float64) []complex128 {
	n := len(x)
	m := len(taps)
	out := make([]complex128, n)
	half := m / 2
	for i := 0; i < n; i++ {
		var acc complex128
		for k := 0; k < m; k++ {
			xi := i - k + half
			if xi < 0 || xi >= n {
				continue
			}
			acc += x[xi] * complex(taps[k], 0)
		}
		out[i] = acc
	}
	return out
}
