package scrambler

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSequenceLengthAndRange(t *testing.T) {
	seq := Sequence()
	if len(seq) != Len {
		t.Fatalf("sequence length = %d, want %d", len(seq), Len)
	}
	for i, v := range seq {
		if v > 7 {
			t.Errorf("sequence[%d] = %d, out of tribit range 0-7", i, v)
		}
	}
}

func TestAtIsPeriodic(t *testing.T) {
	for k := 0; k < 3*Len; k++ {
		if At(k) != At(k%Len) {
			t.Errorf("At(%d) = %d, want At(%d) = %d (period %d broken)", k, At(k), k%Len, At(k%Len), Len)
		}
	}
}

// TestScrambleDescrambleRoundTrip exercises §8 invariant 4: the
// scrambler is a pure function of offset, and Descramble(Scramble(x,k),k)==x
// for every tribit and every offset, including negative/huge offsets.
func TestScrambleDescrambleRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		symbol := uint8(rapid.IntRange(0, 7).Draw(rt, "symbol"))
		k := rapid.IntRange(-10000, 10000).Draw(rt, "k")

		scrambled := Scramble(symbol, k)
		if scrambled > 7 {
			rt.Fatalf("Scramble returned out-of-range value %d", scrambled)
		}
		recovered := Descramble(scrambled, k)
		if recovered != symbol {
			rt.Fatalf("Descramble(Scramble(%d, %d), %d) = %d, want %d", symbol, k, k, recovered, symbol)
		}
	})
}
