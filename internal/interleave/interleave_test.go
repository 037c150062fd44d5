package interleave

import (
	"testing"

	"pgregory.net/rapid"
)

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	cases := []struct{ rows, cols, rowInc, colInc int }{
		{4, 4, 3, 3},
		{8, 4, 3, 3},
		{40, 6, 7, 5},
		{40, 2, 7, 1},
	}
	for _, c := range cases {
		b := New(c.rows, c.cols, c.rowInc, c.colInc)
		n := b.Size()
		in := make([]int8, n)
		for i := range in {
			in[i] = int8(i % 2)
		}
		out := b.Deinterleave(b.Interleave(in))
		for i := range in {
			if out[i] != in[i] {
				t.Fatalf("rows=%d cols=%d: round trip mismatch at %d: got %d want %d", c.rows, c.cols, i, out[i], in[i])
			}
		}
	}
}

func TestInterleavePermutesEveryCellExactlyOnce(t *testing.T) {
	b := New(8, 5, 3, 2)
	seen := make([]bool, b.Size())
	for _, pos := range b.order {
		if seen[pos] {
			t.Fatalf("cell %d written more than once", pos)
		}
		seen[pos] = true
	}
	for i, s := range seen {
		if !s {
			t.Errorf("cell %d never written", i)
		}
	}
}

// TestRoundTripProperty exercises §8 invariant 3 across random
// coprime dimensions and random bit vectors.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rows := rapid.IntRange(2, 12).Draw(rt, "rows")
		cols := rapid.IntRange(2, 12).Draw(rt, "cols")
		rowInc := coprimeWith(rows)
		colInc := coprimeWith(cols)

		b := New(rows, cols, rowInc, colInc)
		n := b.Size()
		in := make([]int8, n)
		for i := range in {
			in[i] = int8(rapid.IntRange(0, 1).Draw(rt, "bit"))
		}

		out := b.Deinterleave(b.Interleave(in))
		for i := range in {
			if out[i] != in[i] {
				rt.Fatalf("rows=%d cols=%d rowInc=%d colInc=%d: mismatch at %d", rows, cols, rowInc, colInc, i)
			}
		}
	})
}

func TestSoftRoundTrip(t *testing.T) {
	b := New(6, 5, 1, 1)
	n := b.Size()
	in := make([]float64, n)
	for i := range in {
		in[i] = float64(i) - 1.5
	}
	out := b.DeinterleaveSoft(b.InterleaveSoft(in))
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("soft round trip mismatch at %d: got %f want %f", i, out[i], in[i])
		}
	}
}

func TestStreamRoundTripWithPadding(t *testing.T) {
	b := New(4, 3, 1, 1)
	in := make([]int8, b.Size()*2+3) // not a multiple of block size
	for i := range in {
		in[i] = int8(i % 2)
	}
	interleaved := b.InterleaveStream(in)
	if len(interleaved)%b.Size() != 0 {
		t.Fatalf("InterleaveStream output length %d not a multiple of block size %d", len(interleaved), b.Size())
	}
	out := b.DeinterleaveStream(interleaved)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("stream round trip mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func coprimeWith(n int) int {
	for step := 1; step < n+1; step++ {
		if gcd(step, n) == 1 {
			return step
		}
	}
	return 1
}
