package graycode

import "testing"

// TestMGDTablesAreExactInverses exercises §8 invariant 5.
func TestMGDTablesAreExactInverses(t *testing.T) {
	for x := uint8(0); x < 8; x++ {
		if got := InvMGD3(MGD3(x)); got != x {
			t.Errorf("InvMGD3(MGD3(%d)) = %d, want %d", x, got, x)
		}
	}
	for x := uint8(0); x < 4; x++ {
		if got := InvMGD2(MGD2(x)); got != x {
			t.Errorf("InvMGD2(MGD2(%d)) = %d, want %d", x, got, x)
		}
	}
}

func TestMGD3IsSelfInverse(t *testing.T) {
	for x := uint8(0); x < 8; x++ {
		if got := MGD3(MGD3(x)); got != x {
			t.Errorf("MGD3(MGD3(%d)) = %d, want %d (table is not self-inverse)", x, got, x)
		}
	}
}

func TestTablesArePermutations(t *testing.T) {
	var seen3 [8]bool
	for x := uint8(0); x < 8; x++ {
		seen3[MGD3(x)] = true
	}
	for i, s := range seen3 {
		if !s {
			t.Errorf("MGD3 never produces output %d: not a permutation", i)
		}
	}

	var seen2 [4]bool
	for x := uint8(0); x < 4; x++ {
		seen2[MGD2(x)] = true
	}
	for i, s := range seen2 {
		if !s {
			t.Errorf("MGD2 never produces output %d: not a permutation", i)
		}
	}
}
