package equalizer

import (
	"fmt"

	"github.com/dbehnke/m110a-modem/internal/mode"
)

// Variant tags which equalizer algorithm a session is configured to run
// (§4.16).
type Variant int

const (
	None Variant = iota
	DFE
	DFERLS
	MLSEL2
	MLSEL3
	MLSEAdaptive
	Turbo
)

func (v Variant) String() string {
	switch v {
	case None:
		return "none"
	case DFE:
		return "dfe"
	case DFERLS:
		return "dfe-rls"
	case MLSEL2:
		return "mlse-l2"
	case MLSEL3:
		return "mlse-l3"
	case MLSEAdaptive:
		return "mlse-adaptive"
	case Turbo:
		return "turbo"
	default:
		return "unknown"
	}
}

// Equalizer compensates for channel distortion over a run of received,
// downconverted and matched-filtered symbols (the modem package passes the
// whole post-preamble symbol stream of a burst in one call).
//
// symbols is the full run of received complex symbols;
// knownMask[i] is true where symbols[i] is a known (probe/training) symbol
// whose transmitted value is knownValues[i] — everything else is data the
// equalizer must estimate. The returned slice is the same length as symbols
// and holds the distortion-compensated estimate of what was transmitted at
// every position (known positions are typically returned unchanged).
type Equalizer interface {
	Variant() Variant
	Equalize(symbols []complex128, knownMask []bool, knownValues []complex128, m mode.Modulation) []complex128
	Reset()
}

// New constructs the Equalizer for the given variant.
func New(v Variant) (Equalizer, error) {
	switch v {
	case None:
		return &noneEqualizer{}, nil
	case DFE:
		return newDFE(false), nil
	case DFERLS:
		return newDFE(true), nil
	case MLSEL2:
		return newMLSE(2, false), nil
	case MLSEL3:
		return newMLSE(3, false), nil
	case MLSEAdaptive:
		return newMLSE(3, true), nil
	case Turbo:
		return newTurbo(), nil
	default:
		return nil, fmt.Errorf("equalizer: unknown variant %d", v)
	}
}
