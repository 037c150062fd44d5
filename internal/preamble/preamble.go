// Package preamble implements the 352-symbol acquisition preamble (C8):
// 288 common symbols shared by every mode (used for AFC and timing
// correlation) followed by 64 mode-probe symbols, a Walsh-coded BPSK burst
// that lets the receiver identify which of the thirteen modes is being
// transmitted before it has decoded a single data bit (§4.8, §4.12).
package preamble

import (
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/scrambler"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

// CommonLen is the number of shared synchronization symbols.
const CommonLen = 288

// ProbeLen is the number of mode-identification symbols.
const ProbeLen = 64

// TotalLen is the full preamble length.
const TotalLen = CommonLen + ProbeLen

var commonSymbols = buildCommon()
var walsh = buildWalsh(ProbeLen)

// buildCommon derives the 288 common symbols directly from the scrambler
// sequence, each tribit used directly as an 8-PSK constellation index (no
// Gray mapping); every mode transmits the
// identical burst, so the receiver can run AFC/timing correlation (C11)
// before it knows which mode it is looking at.
func buildCommon() []symbol.Symbol {
	out := make([]symbol.Symbol, CommonLen)
	for i := 0; i < CommonLen; i++ {
		out[i] = symbol.Map(mode.PSK8, scrambler.At(i))
	}
	return out
}

// buildWalsh constructs the n x n Hadamard/Walsh matrix (n a power of two)
// via the standard recursive doubling construction, giving n mutually
// orthogonal +-1 rows.
func buildWalsh(n int) [][]int8 {
	h := [][]int8{{1}}
	for len(h) < n {
		size := len(h)
		next := make([][]int8, size*2)
		for i := 0; i < size; i++ {
			top := make([]int8, size*2)
			bot := make([]int8, size*2)
			copy(top[:size], h[i])
			copy(top[size:], h[i])
			copy(bot[:size], h[i])
			for j := size; j < size*2; j++ {
				bot[j] = -h[i][j-size]
			}
			next[i] = top
			next[size+i] = bot
		}
		h = next
	}
	return h
}

// CommonSymbols returns the 288 shared synchronization symbols.
func CommonSymbols() []symbol.Symbol {
	out := make([]symbol.Symbol, CommonLen)
	copy(out, commonSymbols)
	return out
}

// ProbeFor returns the 64-symbol BPSK mode-identification probe for id: a
// Walsh code row (skipping row 0, the all-ones row with no discriminating
// power), whitened by the scrambler sequence continuing at offset
// CommonLen so the probe burst does not carry a spectral line of its own.
func ProbeFor(id mode.ID) []symbol.Symbol {
	row := walshRow(id)
	out := make([]symbol.Symbol, ProbeLen)
	for i, chip := range row {
		bit := uint8(0)
		if chip < 0 {
			bit = 1
		}
		whitened := bit ^ (scrambler.At(CommonLen+i) & 1)
		out[i] = symbol.Map(mode.BPSK, whitened)
	}
	return out
}

func walshRow(id mode.ID) []int8 {
	idx := int(id) + 1 // row 0 reserved; see ProbeFor.
	if idx >= len(walsh) {
		idx = idx % len(walsh)
	}
	return walsh[idx]
}

// Generate returns the full 352-symbol preamble for the given mode: the
// common burst followed by that mode's probe.
func Generate(id mode.ID) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, TotalLen)
	out = append(out, CommonSymbols()...)
	out = append(out, ProbeFor(id)...)
	return out
}
