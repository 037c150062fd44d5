package equalizer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

func TestDelayLineOrdering(t *testing.T) {
	d := NewDelayLine(3)
	d.Push(1)
	d.Push(2)
	d.Push(3)
	taps := d.Taps()
	want := []complex128{3, 2, 1}
	for i := range want {
		if taps[i] != want[i] {
			t.Fatalf("Taps()[%d] = %v, want %v", i, taps[i], want[i])
		}
	}
	d.Push(4)
	taps = d.Taps()
	want = []complex128{4, 3, 2}
	for i := range want {
		if taps[i] != want[i] {
			t.Fatalf("after overflow, Taps()[%d] = %v, want %v", i, taps[i], want[i])
		}
	}
}

func TestNoneEqualizerIsIdentity(t *testing.T) {
	eq, err := New(None)
	if err != nil {
		t.Fatal(err)
	}
	in := []complex128{1, 1i, -1, -1i}
	out := eq.Equalize(in, nil, nil, mode.QPSK)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("None equalizer altered sample %d: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestNewRejectsUnknownVariant(t *testing.T) {
	if _, err := New(Variant(999)); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestVariantStrings(t *testing.T) {
	for _, v := range []Variant{None, DFE, DFERLS, MLSEL2, MLSEL3, MLSEAdaptive, Turbo} {
		if v.String() == "unknown" {
			t.Errorf("variant %d stringified as unknown", v)
		}
	}
}

// transmitThroughChannel applies a simple FIR channel (ISI) plus AWGN to a
// QPSK symbol sequence, simulating what the receiver sees.
func transmitThroughChannel(symbols []complex128, taps []complex128, noiseStd float64, rng *rand.Rand) []complex128 {
	out := make([]complex128, len(symbols))
	for i := range symbols {
		var acc complex128
		for k, tap := range taps {
			if i-k >= 0 {
				acc += tap * symbols[i-k]
			}
		}
		noise := complex(rng.NormFloat64()*noiseStd, rng.NormFloat64()*noiseStd)
		out[i] = acc + noise
	}
	return out
}

func randomQPSKSequence(n int, rng *rand.Rand) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex128(symbol.Map(mode.QPSK, uint8(rng.Intn(4))))
	}
	return out
}

func bitErrorRate(tx, rx []complex128, m mode.Modulation) float64 {
	errs := 0
	total := 0
	for i := range tx {
		txBits := symbol.Demap(m, symbol.Symbol(tx[i]))
		rxBits := symbol.Demap(m, symbol.Symbol(rx[i]))
		bits := symbol.BitsPerSymbol(m)
		for b := 0; b < bits; b++ {
			if (txBits>>uint(b))&1 != (rxBits>>uint(b))&1 {
				errs++
			}
			total++
		}
	}
	return float64(errs) / float64(total)
}

func TestEqualizerVariantsStayNearRawChannelBER(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tx := randomQPSKSequence(300, rng)
	taps := []complex128{complex(1, 0), complex(0.25, 0.1), complex(-0.1, 0)}
	rx := transmitThroughChannel(tx, taps, 0.02, rng)

	knownMask := make([]bool, len(tx))
	knownValues := make([]complex128, len(tx))
	for i := 0; i < 40; i++ {
		knownMask[i] = true
		knownValues[i] = tx[i]
	}

	rawBER := bitErrorRate(tx, rx, mode.QPSK)

	for _, v := range []Variant{DFE, DFERLS, MLSEL2, MLSEL3, MLSEAdaptive, Turbo} {
		eq, err := New(v)
		require.NoError(t, err)
		out := eq.Equalize(rx, knownMask, knownValues, mode.QPSK)
		ber := bitErrorRate(tx, out, mode.QPSK)
		assert.LessOrEqualf(t, ber, rawBER+0.1, "%v: BER exceeds raw channel BER %f by more than 0.1", v, rawBER)
	}
}

func TestMLSEAdaptiveHandlesShortFrame(t *testing.T) {
	eq, err := New(MLSEAdaptive)
	if err != nil {
		t.Fatal(err)
	}
	symbols := []complex128{1, 1i, -1, -1i}
	mask := []bool{true, true, false, false}
	values := []complex128{1, 1i, 0, 0}
	out := eq.Equalize(symbols, mask, values, mode.QPSK)
	if len(out) != len(symbols) {
		t.Fatalf("output length = %d, want %d", len(out), len(symbols))
	}
	for _, v := range out {
		if math.IsNaN(real(v)) || math.IsNaN(imag(v)) {
			t.Fatalf("output contains NaN: %v", out)
		}
	}
}
