package symbol

import (
	"math"
	"testing"

	"github.com/dbehnke/m110a-modem/internal/mode"
	"pgregory.net/rapid"
)

func TestMapProducesUnitMagnitude(t *testing.T) {
	for _, m := range []mode.Modulation{mode.BPSK, mode.QPSK, mode.PSK8} {
		for v := uint8(0); v < uint8(constellationSize(m)); v++ {
			s := Map(m, v)
			mag := math.Hypot(real(complex128(s)), imag(complex128(s)))
			if math.Abs(mag-1) > 1e-9 {
				t.Errorf("%s value %d: magnitude %f, want 1", m, v, mag)
			}
		}
	}
}

func TestMapDemapRoundTripNoiseless(t *testing.T) {
	for _, m := range []mode.Modulation{mode.BPSK, mode.QPSK, mode.PSK8} {
		for v := uint8(0); v < uint8(constellationSize(m)); v++ {
			got := Demap(m, Map(m, v))
			if got != v {
				t.Errorf("%s: Demap(Map(%d)) = %d, want %d", m, v, got, v)
			}
		}
	}
}

// TestDemapRobustToSmallPerturbation checks the hard decision survives a
// perturbation well inside half the minimum constellation spacing.
func TestDemapRobustToSmallPerturbation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mods := []mode.Modulation{mode.BPSK, mode.QPSK, mode.PSK8}
		m := mods[rapid.IntRange(0, len(mods)-1).Draw(rt, "mod")]
		v := uint8(rapid.IntRange(0, constellationSize(m)-1).Draw(rt, "value"))
		noise := rapid.Float64Range(-0.05, 0.05).Draw(rt, "noiseRe")
		noiseIm := rapid.Float64Range(-0.05, 0.05).Draw(rt, "noiseIm")

		clean := Map(m, v)
		noisy := Symbol(complex128(clean) + complex(noise, noiseIm))
		if got := Demap(m, noisy); got != v {
			rt.Fatalf("%s value %d perturbed by (%f,%f): Demap = %d", m, v, noise, noiseIm, got)
		}
	})
}

func TestDemapSoftSignMatchesHardDecision(t *testing.T) {
	for _, m := range []mode.Modulation{mode.BPSK, mode.QPSK, mode.PSK8} {
		for v := uint8(0); v < uint8(constellationSize(m)); v++ {
			s := Map(m, v)
			soft := DemapSoft(m, s, 0.1)
			bits := BitsPerSymbol(m)
			for b := 0; b < bits; b++ {
				wantZero := (int(v)>>uint(bits-1-b))&1 == 0
				llr := soft.LLR[b]
				if wantZero && llr < 0 {
					t.Errorf("%s value %d bit %d: LLR=%f but bit is 0", m, v, b, llr)
				}
				if !wantZero && llr > 0 {
					t.Errorf("%s value %d bit %d: LLR=%f but bit is 1", m, v, b, llr)
				}
			}
		}
	}
}

func TestBitsPerSymbol(t *testing.T) {
	cases := map[mode.Modulation]int{mode.BPSK: 1, mode.QPSK: 2, mode.PSK8: 3}
	for m, want := range cases {
		if got := BitsPerSymbol(m); got != want {
			t.Errorf("BitsPerSymbol(%s) = %d, want %d", m, got, want)
		}
	}
}
