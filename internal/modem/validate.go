package modem

import (
	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/mode"
)

// validateTXConfig rejects the closed-set violations §6/§7
// describe for the TX side; AUTO is never valid here since a transmitter
// always knows what it's sending.
func validateTXConfig(cfg Config) (mode.Spec, *ModemError) {
	if cfg.Mode == ModeAuto {
		return mode.Spec{}, newError(ConfigError, "mode AUTO is not valid for encode; a concrete mode is required")
	}
	spec, err := mode.Lookup(cfg.Mode)
	if err != nil {
		return mode.Spec{}, newError(ConfigError, "%v", err)
	}
	if cfg.SampleRate <= 0 {
		return mode.Spec{}, newError(ConfigError, "sample_rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Amplitude < 0 || cfg.Amplitude > 1 {
		return mode.Spec{}, newError(ConfigError, "amplitude must be within [0,1], got %f", cfg.Amplitude)
	}
	return spec, nil
}

// validateRXConfig rejects the closed-set violations on the RX side. Mode
// AUTO is allowed (it's the whole point of mode detection); an explicit
// mode must still resolve.
func validateRXConfig(cfg Config) *ModemError {
	if cfg.Mode != ModeAuto {
		if _, err := mode.Lookup(cfg.Mode); err != nil {
			return newError(ConfigError, "%v", err)
		}
	}
	if cfg.SampleRate <= 0 {
		return newError(ConfigError, "sample_rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.FreqSearchRangeHz < 0 {
		return newError(ConfigError, "freq_search_range_hz must be non-negative, got %f", cfg.FreqSearchRangeHz)
	}
	if cfg.FreqSearchStepHz <= 0 {
		return newError(ConfigError, "freq_search_step_hz must be positive, got %f", cfg.FreqSearchStepHz)
	}
	if _, err := equalizer.New(cfg.Equalizer); err != nil {
		return newError(ConfigError, "%v", err)
	}
	return nil
}
