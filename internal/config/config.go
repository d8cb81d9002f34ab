// Package config holds the demonstration driver's settings.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all the configuration parameters for the application.
type Config struct {
	// Demodulator
	ModulationFactor float64 `yaml:"modulation_factor"`
	DemodType        string  `yaml:"demod_type"` // delayconj or pll
	Numeric          string  `yaml:"numeric"`    // float or q16

	// Simulation
	NumSamples int     `yaml:"num_samples"`
	SNRdB      float64 `yaml:"snr_db"`
	Seed       uint64  `yaml:"seed"`
	ScriptFile string  `yaml:"script_file"`

	// Streaming
	InputFile           string  `yaml:"input_file"`
	IQSampleRate        int     `yaml:"iq_sample_rate"`
	IntermediateRate    int     `yaml:"intermediate_rate"`
	OutputSampleRate    int     `yaml:"output_sample_rate"`
	SampleBlockSize     int     `yaml:"sample_block_size"`
	FilterTaps          int     `yaml:"filter_taps"`
	RingBufferSize      int     `yaml:"ring_buffer_size"`
	ChunkSize           int     `yaml:"chunk_size"`
	ChannelFilterCutoff float64 `yaml:"channel_filter_cutoff"` // cycles/sample at IQSampleRate
	DeemphTau           float64 `yaml:"deemph_tau"`            // seconds, 0 disables

	// Output
	WAVFile string  `yaml:"wav_file"`
	Gain    float64 `yaml:"gain"`
	Play    bool    `yaml:"play"`
}

// New returns a new Config with default values.
func New() *Config {
	return &Config{
		ModulationFactor: 0.1,
		DemodType:        "delayconj",
		Numeric:          "float",

		NumSamples: 1024,
		SNRdB:      30,
		Seed:       1,
		ScriptFile: "freqmodem_example.m",

		IQSampleRate:        2_000_000,
		IntermediateRate:    250_000,
		OutputSampleRate:    48_000,
		SampleBlockSize:     16_000, // decimates to a whole number of output samples
		FilterTaps:          251,
		RingBufferSize:      2 * 2_000_000 * 2, // 2s of IQ (I+Q)
		ChunkSize:           8192,
		ChannelFilterCutoff: 100_000.0 / 2_000_000,
		DeemphTau:           50e-6, // 50us for Europe

		Gain: 1,
	}
}

// Load reads a YAML file over the values already in c.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings that the library objects do not check
// themselves.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Numeric == "float" || c.Numeric == "q16", "numeric %q must be float or q16", c.Numeric)
	check(c.NumSamples > 0, "num_samples %d must be positive", c.NumSamples)
	check(c.Gain > 0, "gain %g must be positive", c.Gain)
	check(c.OutputSampleRate > 0, "output_sample_rate %d must be positive", c.OutputSampleRate)
	check(c.DeemphTau >= 0, "deemph_tau %g must not be negative", c.DeemphTau)
	if c.InputFile != "" {
		check(c.IQSampleRate > 0, "iq_sample_rate %d must be positive", c.IQSampleRate)
		check(c.IntermediateRate > 0 && c.IntermediateRate <= c.IQSampleRate,
			"intermediate_rate %d must be in (0, iq_sample_rate]", c.IntermediateRate)
		check(c.SampleBlockSize > 0, "sample_block_size %d must be positive", c.SampleBlockSize)
		check(c.FilterTaps > 0, "filter_taps %d must be positive", c.FilterTaps)
		check(c.ChunkSize > 0 && c.ChunkSize%2 == 0, "chunk_size %d must be positive and even", c.ChunkSize)
		check(c.RingBufferSize > 2*c.SampleBlockSize, "ring_buffer_size %d must exceed one I/Q block", c.RingBufferSize)
		check(c.ChannelFilterCutoff > 0 && c.ChannelFilterCutoff <= 0.5,
			"channel_filter_cutoff %g must be in (0, 0.5]", c.ChannelFilterCutoff)
	}
	return errors.Join(errs...)
}
