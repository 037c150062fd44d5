// Package framing implements the frame builder/disassembler (C9): the
// alternation of unknown (data) and known (probe) symbol blocks that makes
// up the body of a transmission after the preamble, per §4.13. The
// known blocks are deterministic — generated from the scrambler sequence,
// continuing the offset the preamble left off at — so transmitter and
// receiver agree on their exact values without exchanging them, letting the
// receiver's equalizer and phase tracker use them as a continuous mid-burst
// training reference rather than only the preamble.
package framing

import (
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/preamble"
	"github.com/dbehnke/m110a-modem/internal/scrambler"
	"github.com/dbehnke/m110a-modem/internal/symbol"
)

// Frame is one assembled unknown+known symbol block, plus the metadata the
// receive chain (sync, phase, equalizer) needs to use its known positions
// as training references.
type Frame struct {
	Symbols     []complex128
	KnownMask   []bool
	KnownValues []complex128
}

// KnownSymbols returns the deterministic known-block symbols for frame
// index idx of the given mode: scrambler output continuing from the offset
// the preamble ends at, mapped through the mode's modulation. M4800S has
// KnownLen==0 (§4.1's uncoded highest-rate mode carries no mid-burst
// probes), so KnownSymbols returns an empty slice for it.
func KnownSymbols(spec mode.Spec, idx int) []complex128 {
	if spec.KnownLen == 0 {
		return nil
	}
	out := make([]complex128, spec.KnownLen)
	base := preamble.TotalLen + idx*spec.FrameLen() + spec.UnknownLen
	for i := 0; i < spec.KnownLen; i++ {
		out[i] = complex128(symbol.Map(spec.Modulation, scrambler.At(base+i)))
	}
	return out
}

// Assemble builds frame index idx from spec.UnknownLen data symbols
// (data must have exactly spec.UnknownLen symbols) plus that frame's
// deterministic known block, in unknown-then-known order (§4.13).
func Assemble(spec mode.Spec, data []complex128, idx int) Frame {
	if len(data) != spec.UnknownLen {
		panic("framing: Assemble requires exactly spec.UnknownLen data symbols")
	}
	known := KnownSymbols(spec, idx)

	symbols := make([]complex128, 0, spec.FrameLen())
	symbols = append(symbols, data...)
	symbols = append(symbols, known...)

	mask := make([]bool, spec.FrameLen())
	values := make([]complex128, spec.FrameLen())
	for i := range known {
		mask[spec.UnknownLen+i] = true
		values[spec.UnknownLen+i] = known[i]
	}

	return Frame{Symbols: symbols, KnownMask: mask, KnownValues: values}
}

// Disassemble splits one full frame back into its unknown (data) and known
// (probe) symbol regions, the inverse of Assemble.
func Disassemble(spec mode.Spec, frame []complex128) (data, known []complex128) {
	if len(frame) != spec.FrameLen() {
		panic("framing: Disassemble requires exactly spec.FrameLen() symbols")
	}
	data = append([]complex128(nil), frame[:spec.UnknownLen]...)
	known = append([]complex128(nil), frame[spec.UnknownLen:]...)
	return data, known
}

// AssembleStream splits an arbitrary-length data symbol stream into
// consecutive frames (zero-padding the final short frame) and returns the
// concatenated symbol stream plus the combined known-symbol mask/values for
// the whole burst, ready to append after the preamble.
func AssembleStream(spec mode.Spec, data []complex128) Frame {
	numFrames := (len(data) + spec.UnknownLen - 1) / spec.UnknownLen
	if numFrames == 0 {
		numFrames = 1
	}

	var symbols []complex128
	var mask []bool
	var values []complex128
	for idx := 0; idx < numFrames; idx++ {
		chunk := make([]complex128, spec.UnknownLen)
		off := idx * spec.UnknownLen
		for i := range chunk {
			if off+i < len(data) {
				chunk[i] = data[off+i]
			}
		}
		f := Assemble(spec, chunk, idx)
		symbols = append(symbols, f.Symbols...)
		mask = append(mask, f.KnownMask...)
		values = append(values, f.KnownValues...)
	}
	return Frame{Symbols: symbols, KnownMask: mask, KnownValues: values}
}

// DisassembleStream splits a multi-frame symbol stream (length a multiple
// of spec.FrameLen()) back into its concatenated data symbols, discarding
// the known blocks.
func DisassembleStream(spec mode.Spec, stream []complex128) []complex128 {
	frameLen := spec.FrameLen()
	var data []complex128
	for off := 0; off+frameLen <= len(stream); off += frameLen {
		d, _ := Disassemble(spec, stream[off:off+frameLen])
		data = append(data, d...)
	}
	return data
}
