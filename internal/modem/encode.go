package modem

import (
	"log"

	"github.com/dustin/go-humanize"

	"github.com/dbehnke/m110a-modem/internal/codec"
	"github.com/dbehnke/m110a-modem/internal/framing"
	"github.com/dbehnke/m110a-modem/internal/interleave"
	"github.com/dbehnke/m110a-modem/internal/preamble"
	"github.com/dbehnke/m110a-modem/internal/waveform"
)

// Encode runs the TX pipeline of §2 over payload and returns a
// real-valued passband waveform at cfg.SampleRate, normalised to
// cfg.Amplitude: FEC -> repetition -> interleave -> constellation mapping
// -> frame assembly -> pulse shaping -> upconversion.
func Encode(payload []byte, cfg Config) ([]float32, error) {
	spec, cerr := validateTXConfig(cfg)
	if cerr != nil {
		return nil, cerr
	}

	bits := bytesToBits(payload)

	var coded []int8
	if spec.FEC {
		flushed := append(append([]int8{}, bits...), make([]int8, codec.FlushBits)...)
		coded = codec.NewConvCodec().Encode(flushed)
	} else {
		coded = bits
	}
	repeated := repeatBits(coded, spec.SymbolRepetition)

	block := interleave.New(spec.InterleaveRows, spec.InterleaveCols, spec.RowInc, spec.ColInc)
	interleaved := block.InterleaveStream(repeated)

	dataSymbols := bitsToSymbols(spec, interleaved)
	frame := framing.AssembleStream(spec, dataSymbols)

	var burst []complex128
	if cfg.IncludePreamble {
		pre := preamble.Generate(spec.ID)
		if !cfg.IncludeLeadingSymbols {
			// Drop the mode-independent common burst for wire
			// compatibility with the reference third-party modem (§9's
			// documented interop exception). Decode in this package
			// acquires by correlating against the common burst, so it does
			// not decode a burst sent without it.
			pre = pre[preamble.CommonLen:]
		}
		burst = append(burst, toComplex128(pre)...)
	}
	// An empty payload yields a preamble-only waveform: no data frames.
	if len(payload) > 0 {
		burst = append(burst, frame.Symbols...)
	}
	if cfg.IncludeEOM {
		burst = append(burst, eomMarker()...)
	}

	shaper := waveform.NewShaper(waveform.DefaultAlpha, waveform.BaudRate, cfg.SampleRate, waveform.CarrierHz, waveform.DefaultSpan)
	baseband := shaper.PulseShape(burst)
	passband := shaper.Upconvert(baseband)

	out := make([]float32, len(passband))
	for i, v := range passband {
		out[i] = float32(v * cfg.Amplitude)
	}

	log.Printf("modem: encoded %s payload into %s waveform (mode=%s)",
		humanize.Bytes(uint64(len(payload))), humanize.Bytes(uint64(len(out)*4)), spec.Name)
	return out, nil
}
