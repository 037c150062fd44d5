// Package modem orchestrates one encode or decode session: it wires
// mode/scrambler/graycode/codec/interleave/symbol/waveform/preamble/framing/
// sync/modedetect/phase/agc/channel/equalizer together into the full TX and
// RX pipelines of §2, and owns the Config/Result/ModemError surface
// a caller actually talks to, and sequences the DSP packages. Some of those
// keep per-session state (agc, phase and the adaptive equalizers); among
// the DSP packages, this is the only one that logs.
package modem

import (
	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/mode"
)

// ModeAuto requests RX mode auto-detection via the preamble probe (§6). It
// is never valid for Encode, which always needs a concrete mode.
const ModeAuto mode.ID = -1

// Config carries the TX/RX options of §6's closed option sets. The
// same struct serves both directions; Encode and Decode each validate only
// the fields relevant to their direction.
type Config struct {
	Mode mode.ID

	// TX options.
	SampleRate            int
	Amplitude             float64
	IncludePreamble       bool
	IncludeEOM            bool
	IncludeLeadingSymbols bool

	// RX options.
	Equalizer         equalizer.Variant
	PhaseTracking     bool
	FreqSearchRangeHz float64
	FreqSearchStepHz  float64
}

// DefaultConfig returns the documented defaults of §6: 48 kHz, full-scale
// amplitude, preamble/EOM/leading-symbols all on, AUTO mode with no
// equalizer, phase tracking on, +-10 Hz / 1 Hz frequency search.
func DefaultConfig() Config {
	return Config{
		Mode:                  ModeAuto,
		SampleRate:            48000,
		Amplitude:             1.0,
		IncludePreamble:       true,
		IncludeEOM:            true,
		IncludeLeadingSymbols: true,
		Equalizer:             equalizer.None,
		PhaseTracking:         true,
		FreqSearchRangeHz:     10,
		FreqSearchStepHz:      1.0,
	}
}
