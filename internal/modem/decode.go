package modem

import (
	"context"
	"log"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dbehnke/m110a-modem/internal/agc"
	"github.com/dbehnke/m110a-modem/internal/codec"
	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/framing"
	"github.com/dbehnke/m110a-modem/internal/interleave"
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/modedetect"
	"github.com/dbehnke/m110a-modem/internal/phase"
	"github.com/dbehnke/m110a-modem/internal/preamble"
	"github.com/dbehnke/m110a-modem/internal/sync"
	"github.com/dbehnke/m110a-modem/internal/symbol"
	"github.com/dbehnke/m110a-modem/internal/waveform"
)

// Decode runs the RX pipeline of §2 over a real-valued passband
// waveform: AGC -> downconvert/matched-filter -> AFC/timing correlation ->
// mode detection -> equalize -> phase-track -> demap -> deinterleave ->
// de-repeat -> Viterbi decode. Per §7's propagation policy, NoSync,
// UnknownMode, and DecodeFailure never return a non-nil error: they come
// back as a Result with Synced false (or a best-effort Payload) and Err
// set, so batch callers can record the outcome without unwinding.
func Decode(pcm []float32, cfg Config) (Result, error) {
	if cerr := validateRXConfig(cfg); cerr != nil {
		return Result{}, cerr
	}

	res := Result{SessionID: uuid.New()}

	sampleAGC := agc.NewSample()
	passband := make([]float64, len(pcm))
	for i, v := range pcm {
		passband[i] = sampleAGC.Process(float64(v))
	}

	shaper := waveform.NewShaper(waveform.DefaultAlpha, waveform.BaudRate, cfg.SampleRate, waveform.CarrierHz, waveform.DefaultSpan)
	baseband := shaper.Downconvert(passband, waveform.CarrierHz)
	matched := shaper.MatchedFilter(baseband)

	reference := shaper.PulseShape(toComplex128(preamble.CommonSymbols()))
	searchCfg := sync.SearchConfig{
		FreqRangeHz:  cfg.FreqSearchRangeHz,
		FreqStepHz:   cfg.FreqSearchStepHz,
		TimingRange:  len(matched),
		SampleRateHz: float64(cfg.SampleRate),
	}
	found, ok := sync.Correlate(context.Background(), matched, reference, searchCfg)
	if !ok {
		res.Err = newError(NoSync, "preamble correlation found no candidate above threshold")
		log.Printf("sync: session %s: no sync acquired", res.SessionID)
		return res, nil
	}
	res.FreqOffsetHz = found.FreqOffsetHz

	corrected := mixFrequency(matched, -found.FreqOffsetHz, float64(cfg.SampleRate))
	symbolsFull := shaper.Downsample(corrected, found.TimingOffset)
	if len(symbolsFull) < preamble.TotalLen {
		res.Err = newError(NoSync, "insufficient samples after timing recovery for a full preamble")
		return res, nil
	}

	spec, derr := resolveRXMode(cfg, symbolsFull)
	if derr != nil {
		res.Err = derr
		return res, nil
	}
	res.Mode = spec.ID

	rest := symbolsFull[preamble.TotalLen:]
	frameLen := spec.FrameLen()
	numFrames := len(rest) / frameLen
	if numFrames == 0 {
		res.Synced = true
		return res, nil
	}
	trimmed := rest[:numFrames*frameLen]

	mask, values := knownMaskFor(spec, numFrames)

	eq, eqErr := equalizer.New(cfg.Equalizer)
	if eqErr != nil {
		res.Err = newError(InternalError, "%v", eqErr)
		return res, nil
	}
	equalized := eq.Equalize(trimmed, mask, values, spec.Modulation)

	symAGC := agc.NewSymbol()
	for i, s := range equalized {
		equalized[i] = symAGC.ProcessComplex(s)
	}

	if cfg.PhaseTracking {
		tracker := phase.New()
		for i, s := range equalized {
			if mask[i] {
				equalized[i] = tracker.TrackKnown(s, values[i])
				continue
			}
			decision := complex128(symbol.Map(spec.Modulation, symbol.Demap(spec.Modulation, symbol.Symbol(s))))
			equalized[i] = tracker.TrackDecisionDirected(s, decision)
		}
	}

	dataSymbols := framing.DisassembleStream(spec, equalized)
	interleavedBits := symbolsToBits(spec, dataSymbols)

	// framing.AssembleStream pads the data-symbol stream to a whole number
	// of frames, a different granularity than the interleaver's rows*cols
	// bit blocks; the tail bits recovered above beyond the last full
	// interleaver block are frame padding, not payload, and must be
	// dropped before DeinterleaveStream, which requires block-aligned
	// input.
	blockBits := spec.BlockBits()
	if rem := len(interleavedBits) % blockBits; rem != 0 {
		interleavedBits = interleavedBits[:len(interleavedBits)-rem]
	}

	block := interleave.New(spec.InterleaveRows, spec.InterleaveCols, spec.RowInc, spec.ColInc)
	deinterleaved := block.DeinterleaveStream(interleavedBits)
	derepeated := combineRepeats(deinterleaved, spec.SymbolRepetition)

	var bits []int8
	if spec.FEC {
		decoded := codec.NewConvCodec().Decode(derepeated)
		if len(decoded) >= codec.FlushBits {
			bits = decoded[:len(decoded)-codec.FlushBits]
		}
	} else {
		bits = derepeated
	}

	res.Payload = bitsToBytes(bits)
	res.Synced = true

	log.Printf("modem: session %s: decoded %s waveform into %s payload (mode=%s freq_offset=%.2fHz)",
		res.SessionID, humanize.Bytes(uint64(len(pcm)*4)), humanize.Bytes(uint64(len(res.Payload))), spec.Name, found.FreqOffsetHz)
	return res, nil
}

// resolveRXMode returns the session's mode: the caller's explicit choice,
// or the result of correlating the received probe against every mode's
// reference probe (§4.12) when cfg.Mode is ModeAuto. A probe that does not
// clearly beat its runner-up is reported as UnknownMode rather than
// guessed at.
func resolveRXMode(cfg Config, symbolsFull []complex128) (mode.Spec, *ModemError) {
	if cfg.Mode != ModeAuto {
		spec, err := mode.Lookup(cfg.Mode)
		if err != nil {
			return mode.Spec{}, newError(UnknownMode, "%v", err)
		}
		return spec, nil
	}

	probe := toSymbolSlice(symbolsFull[preamble.CommonLen:preamble.TotalLen])
	det := modedetect.Detect(probe)
	if det.Score <= det.RunnerUp {
		return mode.Spec{}, newError(UnknownMode, "mode probe did not clearly match any known pattern (score=%.3f runner-up=%.3f)", det.Score, det.RunnerUp)
	}
	spec, err := mode.Lookup(det.ID)
	if err != nil {
		return mode.Spec{}, newError(UnknownMode, "%v", err)
	}
	return spec, nil
}

// knownMaskFor rebuilds the deterministic known/unknown position mask and
// known-symbol values for numFrames frames of spec, the same values the
// transmitter used — framing.KnownSymbols is a pure function of (spec, idx),
// so the receiver reconstructs its training reference without ever having
// to transmit it.
func knownMaskFor(spec mode.Spec, numFrames int) ([]bool, []complex128) {
	frameLen := spec.FrameLen()
	mask := make([]bool, 0, numFrames*frameLen)
	values := make([]complex128, 0, numFrames*frameLen)
	for idx := 0; idx < numFrames; idx++ {
		for i := 0; i < spec.UnknownLen; i++ {
			mask = append(mask, false)
			values = append(values, 0)
		}
		for _, k := range framing.KnownSymbols(spec, idx) {
			mask = append(mask, true)
			values = append(values, k)
		}
	}
	return mask, values
}

func mixFrequency(x []complex128, freqHz, sampleRateHz float64) []complex128 {
	if freqHz == 0 {
		return x
	}
	out := make([]complex128, len(x))
	w := 2 * math.Pi * freqHz / sampleRateHz
	for n, v := range x {
		c, s := math.Cos(w*float64(n)), math.Sin(w*float64(n))
		out[n] = complex(real(v)*c-imag(v)*s, real(v)*s+imag(v)*c)
	}
	return out
}
