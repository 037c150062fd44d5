package mode

import "testing"

func TestLookupAllThirteenModes(t *testing.T) {
	all := All()
	if len(all) != 13 {
		t.Fatalf("expected 13 modes, got %d", len(all))
	}
	for _, want := range all {
		got, err := Lookup(want.ID)
		if err != nil {
			t.Fatalf("Lookup(%v) returned error: %v", want.ID, err)
		}
		if got != want {
			t.Errorf("Lookup(%v) = %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestLookupUnknownID(t *testing.T) {
	if _, err := Lookup(ID(999)); err == nil {
		t.Error("expected error for unknown mode id, got nil")
	}
	if _, err := Lookup(ID(-1)); err == nil {
		t.Error("expected error for negative mode id, got nil")
	}
}

func TestByNameRoundTrip(t *testing.T) {
	for _, want := range All() {
		id, err := ByName(want.Name)
		if err != nil {
			t.Fatalf("ByName(%q) returned error: %v", want.Name, err)
		}
		if id != want.ID {
			t.Errorf("ByName(%q) = %v, want %v", want.Name, id, want.ID)
		}
	}
	if _, err := ByName("M9999X"); err == nil {
		t.Error("expected error for unknown mode name, got nil")
	}
}

// TestBitRateDivisibility checks §4.1's invariant: the configured
// symbol_repetition and FEC factor must divide the fixed 2400-baud channel
// rate down to exactly the advertised user bit rate.
func TestBitRateDivisibility(t *testing.T) {
	for _, s := range All() {
		fec := 1
		if s.FEC {
			fec = 2
		}
		got := (BaudRate * s.BitsPerSymbol) / (fec * s.SymbolRepetition)
		if got != s.BitRateBPS {
			t.Errorf("%s: computed bit rate %d != advertised %d", s.Name, got, s.BitRateBPS)
		}
	}
}

// TestInterleaverIncrementsAreCoprime checks §4.4's invariant that
// row_inc is coprime with rows and col_inc is coprime with cols.
func TestInterleaverIncrementsAreCoprime(t *testing.T) {
	for _, s := range All() {
		if gcd(s.RowInc, s.InterleaveRows) != 1 {
			t.Errorf("%s: RowInc=%d not coprime with InterleaveRows=%d", s.Name, s.RowInc, s.InterleaveRows)
		}
		if gcd(s.ColInc, s.InterleaveCols) != 1 {
			t.Errorf("%s: ColInc=%d not coprime with InterleaveCols=%d", s.Name, s.ColInc, s.InterleaveCols)
		}
	}
}

func TestBitsPerSymbolAndModulationConsistent(t *testing.T) {
	want := map[Modulation]int{BPSK: 1, QPSK: 2, PSK8: 3}
	for _, s := range All() {
		if want[s.Modulation] != s.BitsPerSymbol {
			t.Errorf("%s: modulation %v implies %d bits/symbol, got %d", s.Name, s.Modulation, want[s.Modulation], s.BitsPerSymbol)
		}
	}
}
