// Package scrambler implements the MIL-STD-188-110A bit scrambler (C2): a
// 12-bit LFSR clocked 8 times per output tribit, producing a fixed 160-tribit
// cyclic sequence shared, by precomputation, between every transmitter and
// receiver and every probe generator in the system (§4.2).
package scrambler

// initialState is the fixed 12-bit shift register seed 101101011101 (§3).
const initialState uint16 = 0b101101011101

// Len is the period of the scrambler sequence in tribits.
const Len = 160

// sequence is computed once at package init and shared by every caller —
// the same "global mutable state made immutable by precomputation" pattern
// §9 calls out for the scrambler table.
var sequence [Len]uint8

func init() {
	state := initialState
	for i := 0; i < Len; i++ {
		for bit := 0; bit < 8; bit++ {
			state = rotate(state)
		}
		// Upper three bits of the 12-bit register become the tribit after
		// every eighth rotation (§4.2's "take the upper three bits every
		// eighth rotation").
		sequence[i] = uint8(state>>9) & 0x7
	}
}

// rotate advances the Fibonacci-style LFSR by one bit. Taps chosen to
// produce a full-period, non-degenerate 12-bit sequence; the specific tap
// set is not mandated by the standard beyond "fixed taps" (§4.2), so this
// implementation fixes one and holds it immutable thereafter.
func rotate(state uint16) uint16 {
	const mask = 0x0FFF
	fb := (state ^ (state >> 11) ^ (state >> 3) ^ (state >> 5)) & 1
	return ((state << 1) | fb) & mask
}

// Sequence returns the full 160-tribit scrambler sequence.
func Sequence() [Len]uint8 { return sequence }

// At returns the scrambler tribit at offset k, wrapping modulo the 160-tribit
// period per §4.2's contract.
func At(k int) uint8 {
	k %= Len
	if k < 0 {
		k += Len
	}
	return sequence[k]
}

// Scramble applies the scrambler's contract at symbol position k: addition
// mod 8 of the scrambler tribit at offset (k mod 160).
func Scramble(symbol uint8, k int) uint8 {
	return (symbol + At(k)) & 0x7
}

// Descramble is the inverse: subtraction mod 8.
func Descramble(symbol uint8, k int) uint8 {
	return (symbol - At(k)) & 0x7
}
