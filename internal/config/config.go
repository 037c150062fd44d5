// Package config loads the TX/RX option set of §6 from a config file or
// environment using github.com/spf13/viper: a Config struct built by a
// constructor, loaded once, exposed through typed Get* accessors, and
// validated eagerly so a bad file is rejected at load time rather than
// failing later deep in a session.
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dbehnke/m110a-modem/internal/equalizer"
	"github.com/dbehnke/m110a-modem/internal/mode"
	"github.com/dbehnke/m110a-modem/internal/modem"
)

// Config is the loaded, validated TX/RX option set, ready to convert to a
// modem.Config for a session.
type Config struct {
	v *viper.Viper

	modeName              string
	sampleRate            int
	amplitude             float64
	includePreamble       bool
	includeEOM            bool
	includeLeadingSymbols bool

	equalizerName     string
	phaseTracking     bool
	freqSearchRangeHz float64
	freqSearchStepHz  float64
}

func defaults(v *viper.Viper) {
	v.SetDefault("mode", "AUTO")
	v.SetDefault("sample_rate", 48000)
	v.SetDefault("amplitude", 1.0)
	v.SetDefault("include_preamble", true)
	v.SetDefault("include_eom", true)
	v.SetDefault("include_leading_symbols", true)
	v.SetDefault("equalizer", "NONE")
	v.SetDefault("phase_tracking", true)
	v.SetDefault("freq_search_range_hz", 10.0)
	v.SetDefault("freq_search_step_hz", 1.0)
}

// NewConfig returns a Config with §6's documented defaults, not yet loaded
// from any source.
func NewConfig() *Config {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("M110A")
	v.AutomaticEnv()
	defaults(v)
	return &Config{v: v}
}

// Load reads filename (TOML, YAML, or JSON by extension — viper's usual
// sniffing) and validates it.
func (c *Config) Load(filename string) error {
	c.v.SetConfigFile(filename)
	// Clear NewConfig's TOML default so viper picks the format from the
	// file extension.
	c.v.SetConfigType("")
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.bind()
}

// LoadFromString parses data as TOML (the in-memory equivalent of Load, for
// tests and embedded defaults) and validates it.
func (c *Config) LoadFromString(data string) error {
	c.v.SetConfigType("toml")
	if err := c.v.ReadConfig(bytes.NewBufferString(data)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.bind()
}

// bind copies viper's resolved values into typed fields and validates the
// closed option sets of §6, raising a ConfigError-shaped error eagerly
// rather than failing later deep in a session.
func (c *Config) bind() error {
	c.modeName = strings.ToUpper(c.v.GetString("mode"))
	c.sampleRate = c.v.GetInt("sample_rate")
	c.amplitude = c.v.GetFloat64("amplitude")
	c.includePreamble = c.v.GetBool("include_preamble")
	c.includeEOM = c.v.GetBool("include_eom")
	c.includeLeadingSymbols = c.v.GetBool("include_leading_symbols")
	c.equalizerName = strings.ToUpper(c.v.GetString("equalizer"))
	c.phaseTracking = c.v.GetBool("phase_tracking")
	c.freqSearchRangeHz = c.v.GetFloat64("freq_search_range_hz")
	c.freqSearchStepHz = c.v.GetFloat64("freq_search_step_hz")

	if c.modeName != "AUTO" {
		if _, err := mode.ByName(c.modeName); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.sampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.sampleRate)
	}
	if c.amplitude < 0 || c.amplitude > 1 {
		return fmt.Errorf("config: amplitude must be within [0,1], got %f", c.amplitude)
	}
	if _, err := equalizerByName(c.equalizerName); err != nil {
		return err
	}
	if c.freqSearchRangeHz < 0 || c.freqSearchStepHz <= 0 {
		return fmt.Errorf("config: invalid frequency search parameters")
	}
	return nil
}

func equalizerByName(name string) (equalizer.Variant, error) {
	switch name {
	case "NONE":
		return equalizer.None, nil
	case "DFE":
		return equalizer.DFE, nil
	case "DFE_RLS":
		return equalizer.DFERLS, nil
	case "MLSE_L2":
		return equalizer.MLSEL2, nil
	case "MLSE_L3":
		return equalizer.MLSEL3, nil
	case "MLSE_ADAPTIVE":
		return equalizer.MLSEAdaptive, nil
	case "TURBO":
		return equalizer.Turbo, nil
	default:
		return 0, fmt.Errorf("config: unknown equalizer %q", name)
	}
}

// TXConfig converts the loaded options into a modem.Config for Encode. The
// mode must resolve to a concrete ID: TXConfig itself rejects AUTO with an
// error, consistent with §7's eager ConfigError.
func (c *Config) TXConfig() (modem.Config, error) {
	id, err := c.resolvedMode()
	if err != nil {
		return modem.Config{}, err
	}
	return modem.Config{
		Mode:                  id,
		SampleRate:            c.sampleRate,
		Amplitude:             c.amplitude,
		IncludePreamble:       c.includePreamble,
		IncludeEOM:            c.includeEOM,
		IncludeLeadingSymbols: c.includeLeadingSymbols,
	}, nil
}

// RXConfig converts the loaded options into a modem.Config for Decode.
func (c *Config) RXConfig() (modem.Config, error) {
	id := modem.ModeAuto
	if c.modeName != "AUTO" {
		resolved, err := mode.ByName(c.modeName)
		if err != nil {
			return modem.Config{}, err
		}
		id = resolved
	}
	eq, err := equalizerByName(c.equalizerName)
	if err != nil {
		return modem.Config{}, err
	}
	return modem.Config{
		Mode:              id,
		SampleRate:        c.sampleRate,
		Equalizer:         eq,
		PhaseTracking:     c.phaseTracking,
		FreqSearchRangeHz: c.freqSearchRangeHz,
		FreqSearchStepHz:  c.freqSearchStepHz,
	}, nil
}

func (c *Config) resolvedMode() (mode.ID, error) {
	if c.modeName == "AUTO" {
		return 0, fmt.Errorf("config: mode AUTO is not valid for TX")
	}
	return mode.ByName(c.modeName)
}

// GetMode, GetSampleRate, ... are flat accessors for callers that want one
// field without building a modem.Config.
func (c *Config) GetMode() string               { return c.modeName }
func (c *Config) GetSampleRate() int             { return c.sampleRate }
func (c *Config) GetAmplitude() float64          { return c.amplitude }
func (c *Config) GetIncludePreamble() bool       { return c.includePreamble }
func (c *Config) GetIncludeEOM() bool            { return c.includeEOM }
func (c *Config) GetIncludeLeadingSymbols() bool { return c.includeLeadingSymbols }
func (c *Config) GetEqualizer() string           { return c.equalizerName }
func (c *Config) GetPhaseTracking() bool         { return c.phaseTracking }
func (c *Config) GetFreqSearchRangeHz() float64  { return c.freqSearchRangeHz }
func (c *Config) GetFreqSearchStepHz() float64   { return c.freqSearchStepHz }
