package modedetect

import (
	"testing"

	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/preamble"
)

func TestDetectIdentifiesEveryMode(t *testing.T) {
	for _, m := range mode.All() {
		probe := preamble.ProbeFor(m.ID)
		result := Detect(probe)
		if result.ID != m.ID {
			t.Errorf("mode %s: Detect returned %v", m.Name, result.ID)
		}
		if result.Score <= result.RunnerUp {
			t.Errorf("mode %s: winning score %f not clearly above runner-up %f", m.Name, result.Score, result.RunnerUp)
		}
	}
}
