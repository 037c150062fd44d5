package equalizer

import "github.com/dbehnke/m110a-modem/internal/mode"

// noneEqualizer passes symbols through unchanged — the baseline variant
// against which the adaptive variants are measured (§4.16).
type noneEqualizer struct{}

func (*noneEqualizer) Variant() Variant { return None }

func (*noneEqualizer) Equalize(symbols []complex128, _ []bool, _ []complex128, _ mode.Modulation) []complex128 {
	out := make([]complex128, len(symbols))
	copy(out, symbols)
	return out
}

func (*noneEqualizer) Reset() {}
