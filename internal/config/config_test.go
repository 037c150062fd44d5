package config

import (
	"testing"

	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/modem"
)

func TestLoadFromStringDefaults(t *testing.T) {
	c := NewConfig()
	if err := c.LoadFromString(""); err != nil {
		t.Fatalf("LoadFromString(empty) = %v, want defaults to apply cleanly", err)
	}
	if c.GetMode() != "AUTO" {
		t.Errorf("GetMode() = %q, want AUTO", c.GetMode())
	}
	if c.GetSampleRate() != 48000 {
		t.Errorf("GetSampleRate() = %d, want 48000", c.GetSampleRate())
	}
	if c.GetEqualizer() != "NONE" {
		t.Errorf("GetEqualizer() = %q, want NONE", c.GetEqualizer())
	}
}

func TestLoadFromStringOverridesAndTXConfig(t *testing.T) {
	c := NewConfig()
	data := `
mode = "M2400S"
amplitude = 0.5
equalizer = "MLSE_ADAPTIVE"
`
	if err := c.LoadFromString(data); err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}
	txCfg, err := c.TXConfig()
	if err != nil {
		t.Fatalf("TXConfig: %v", err)
	}
	if txCfg.Amplitude != 0.5 {
		t.Errorf("Amplitude = %f, want 0.5", txCfg.Amplitude)
	}

	rxCfg, err := c.RXConfig()
	if err != nil {
		t.Fatalf("RXConfig: %v", err)
	}
	if rxCfg.Equalizer != equalizer.MLSEAdaptive {
		t.Errorf("Equalizer = %v, want MLSEAdaptive", rxCfg.Equalizer)
	}
}

func TestLoadFromStringRejectsUnknownMode(t *testing.T) {
	c := NewConfig()
	if err := c.LoadFromString(`mode = "M9999Z"`); err == nil {
		t.Fatal("expected an error for an unknown mode name")
	}
}

func TestLoadFromStringRejectsOutOfRangeAmplitude(t *testing.T) {
	c := NewConfig()
	if err := c.LoadFromString(`amplitude = 2.5`); err == nil {
		t.Fatal("expected an error for amplitude outside [0,1]")
	}
}

func TestRXConfigDefaultsToAutoMode(t *testing.T) {
	c := NewConfig()
	if err := c.LoadFromString(""); err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}
	rxCfg, err := c.RXConfig()
	if err != nil {
		t.Fatalf("RXConfig: %v", err)
	}
	if rxCfg.Mode != modem.ModeAuto {
		t.Errorf("Mode = %v, want ModeAuto", rxCfg.Mode)
	}
}
