package modem

import (
	"github.com/dbehnke/m110a-modem/internal/graycode"
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/preamble"
	"github.com/dbehnke/m110a-modem/internal/scrambler"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

// bytesToBits unpacks a byte slice into one 0/1 int8 per bit, MSB first.
func bytesToBits(data []byte) []int8 {
	out := make([]int8, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			out = append(out, int8((b>>uint(i))&1))
		}
	}
	return out
}

// bitsToBytes repacks 0/1 int8 bits into bytes, MSB first, dropping any
// trailing partial byte (block-padding slack §8 explicitly allows).
func bitsToBytes(bits []int8) []byte {
	n := len(bits) / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | byte(bits[i*8+j]&1)
		}
		out[i] = b
	}
	return out
}

// repeatBits expands each bit into rep consecutive copies (§4.1's
// symbol-repetition scheme for the sub-1200bps rates).
func repeatBits(bits []int8, rep int) []int8 {
	if rep <= 1 {
		return bits
	}
	out := make([]int8, 0, len(bits)*rep)
	for _, b := range bits {
		for k := 0; k < rep; k++ {
			out = append(out, b)
		}
	}
	return out
}

// combineRepeats is repeatBits' receive-side inverse: majority vote across
// each group of rep repeated bits.
func combineRepeats(bits []int8, rep int) []int8 {
	if rep <= 1 {
		return bits
	}
	n := len(bits) / rep
	out := make([]int8, n)
	for i := 0; i < n; i++ {
		var sum int
		for k := 0; k < rep; k++ {
			sum += int(bits[i*rep+k])
		}
		if sum*2 >= rep {
			out[i] = 1
		}
	}
	return out
}

// bitsToSymbols packs post-interleave bits into per-mode constellation
// symbols: BitsPerSymbol raw bits -> a gray-coded index (via graycode for
// QPSK/8PSK; BPSK has no gray table, the raw bit is the index) -> the
// scrambler's mod-8 addition at the symbol's absolute position k in the
// data-symbol stream (§4.2/§4.5 step 3) -> a unit symbol via symbol.Map.
func bitsToSymbols(spec mode.Spec, bits []int8) []complex128 {
	per := spec.BitsPerSymbol
	n := len(bits) / per
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var value uint8
		for j := 0; j < per; j++ {
			value = (value << 1) | uint8(bits[i*per+j]&1)
		}
		gray := grayEncode(spec.Modulation, value)
		scrambled := scrambler.Scramble(gray, i)
		out[i] = complex128(symbol.Map(spec.Modulation, scrambled))
	}
	return out
}

// symbolsToBits is bitsToSymbols' receive-side inverse: a hard nearest-point
// decision, the scrambler's mod-8 subtraction at the same absolute symbol
// position k (§4.5-RX step 2), the inverse gray table, then unpacked back to
// raw bits.
func symbolsToBits(spec mode.Spec, symbols []complex128) []int8 {
	per := spec.BitsPerSymbol
	mSize := uint8(1 << uint(per))
	out := make([]int8, 0, len(symbols)*per)
	for i, s := range symbols {
		idx := symbol.Demap(spec.Modulation, symbol.Symbol(s))
		gray := scrambler.Descramble(idx, i) % mSize
		value := grayDecode(spec.Modulation, gray)
		for j := per - 1; j >= 0; j-- {
			out = append(out, int8((value>>uint(j))&1))
		}
	}
	return out
}

func grayEncode(m mode.Modulation, value uint8) uint8 {
	switch m {
	case mode.QPSK:
		return graycode.MGD2(value)
	case mode.PSK8:
		return graycode.MGD3(value)
	default:
		return value
	}
}

func grayDecode(m mode.Modulation, idx uint8) uint8 {
	switch m {
	case mode.QPSK:
		return graycode.InvMGD2(idx)
	case mode.PSK8:
		return graycode.InvMGD3(idx)
	default:
		return idx
	}
}

func toComplex128(symbols []symbol.Symbol) []complex128 {
	out := make([]complex128, len(symbols))
	for i, s := range symbols {
		out[i] = complex128(s)
	}
	return out
}

func toSymbolSlice(c []complex128) []symbol.Symbol {
	out := make([]symbol.Symbol, len(c))
	for i, v := range c {
		out[i] = symbol.Symbol(v)
	}
	return out
}

// eomSymbolLen is the length of the end-of-message marker appended when
// Config.IncludeEOM is set.
const eomSymbolLen = 32

// eomMarker returns a fixed, reversed-and-inverted tail of the common sync
// burst as an end-of-message marker. Its presence is a diagnostic
// convenience, not the contract the decoder relies on to find the payload
// boundary: per §6, "end-of-message is a caller contract" outside the core,
// and Decode here recovers exactly the frames that fit the received symbol
// count, so a short trailing EOM chunk that is not itself a whole frame is
// simply not decoded as data.
func eomMarker() []complex128 {
	ref := toComplex128(preamble.CommonSymbols())
	out := make([]complex128, eomSymbolLen)
	for i := 0; i < eomSymbolLen; i++ {
		out[i] = -ref[len(ref)-1-i]
	}
	return out
}
