// Package symbol implements the constellation mapper and demapper (C6/C17):
// turning a gray-coded tribit/dibit/bit into a unit-magnitude complex channel
// symbol, and the reverse — hard nearest-point decisions (used by the decode
// pipeline) and soft per-bit LLRs (DemapSoft, which no decode path in this
// module calls). Table-driven,
// package-level pure functions throughout, no hidden state.
package symbol

import (
	"math"

	"github.com/dbehnke/m110a-modem/internal/mode"
)

// Symbol is one complex channel symbol on the unit circle.
type Symbol complex128

// SoftSymbol carries one bit-LLR per bit position of a received, noisy
// Symbol, produced by DemapSoft (§4.16).
type SoftSymbol struct {
	LLR []float64
}

// BitsPerSymbol returns how many source bits map to BPSK/QPSK/8PSK symbol.
func BitsPerSymbol(m mode.Modulation) int {
	switch m {
	case mode.BPSK:
		return 1
	case mode.QPSK:
		return 2
	case mode.PSK8:
		return 3
	default:
		return 0
	}
}

func constellationSize(m mode.Modulation) int { return 1 << BitsPerSymbol(m) }

// Map places the gray-coded index value (already passed through
// graycode.MGD2/MGD3 upstream) onto the unit circle at angle 2*pi*value/M.
func Map(m mode.Modulation, value uint8) Symbol {
	mSize := constellationSize(m)
	idx := int(value) % mSize
	theta := 2 * math.Pi * float64(idx) / float64(mSize)
	return Symbol(complex(math.Cos(theta), math.Sin(theta)))
}

// Demap makes a hard nearest-constellation-point decision and returns the
// index (still gray-coded; the caller runs it back through
// graycode.InvMGD2/InvMGD3 to recover the original tribit/dibit).
func Demap(m mode.Modulation, s Symbol) uint8 {
	mSize := constellationSize(m)
	theta := math.Atan2(imag(s), real(s))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	idx := int(math.Round(theta/(2*math.Pi/float64(mSize)))) % mSize
	return uint8(idx)
}

// DemapSoft produces per-bit LLRs for a received symbol under an AWGN model
// with the given noise variance, via a max-log approximation: for each bit
// position, the LLR is the squared-distance gap (scaled by 1/(2*sigma^2))
// between the nearest constellation point with that bit 0 versus 1. The
// modem decode pipeline does not use it; it makes hard decisions with Demap.
func DemapSoft(m mode.Modulation, s Symbol, noiseVar float64) SoftSymbol {
	bits := BitsPerSymbol(m)
	mSize := constellationSize(m)
	if noiseVar <= 0 {
		noiseVar = 1e-6
	}

	llr := make([]float64, bits)
	for b := 0; b < bits; b++ {
		minD0 := math.Inf(1)
		minD1 := math.Inf(1)
		for idx := 0; idx < mSize; idx++ {
			d := sqDist(s, Map(m, uint8(idx)))
			if (idx>>uint(bits-1-b))&1 == 0 {
				if d < minD0 {
					minD0 = d
				}
			} else {
				if d < minD1 {
					minD1 = d
				}
			}
		}
		llr[b] = (minD1 - minD0) / (2 * noiseVar)
	}
	return SoftSymbol{LLR: llr}
}

func sqDist(a, b Symbol) float64 {
	d := complex128(a) - complex128(b)
	return real(d)*real(d) + imag(d)*imag(d)
}
