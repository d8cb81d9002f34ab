// Command freqdem demonstrates the FM demodulator. Without -i it modulates a
// three-tone message, adds noise, demodulates it and writes an Octave script
// comparing the signals. With -i it demodulates a recorded IQ stream.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"go-freqdem/internal/config"
	"go-freqdem/internal/dsp"
	"go-freqdem/internal/fpm"
)

func main() {
	// Get default configuration
	cfg := config.New()

	configFile := pflag.StringP("config", "c", "", "YAML configuration file, applied before the flags below.")
	numSamples := pflag.IntP("samples", "n", cfg.NumSamples, "Number of samples to simulate.")
	snr := pflag.Float64P("snr", "S", cfg.SNRdB, "Signal-to-noise ratio [dB].")
	kf := pflag.Float64P("kf", "k", cfg.ModulationFactor, "FM modulation factor, in (0, 1].")
	demodType := pflag.StringP("type", "t", cfg.DemodType, "FM demodulator type: delayconj, pll.")
	numeric := pflag.String("numeric", cfg.Numeric, "Numeric representation: float, q16.")
	seed := pflag.Uint64("seed", cfg.Seed, "Noise generator seed.")
	script := pflag.StringP("script", "o", cfg.ScriptFile, "Octave script output file. Empty to skip.")
	wavFile := pflag.StringP("wav", "w", cfg.WAVFile, "Write the demodulated message to this WAV file.")
	play := pflag.Bool("play", cfg.Play, "Play the demodulated message.")
	input := pflag.StringP("input", "i", cfg.InputFile, "IQ input file: 16-bit stereo WAV or raw interleaved int16 I/Q.")
	logLevel := pflag.String("log-level", "info", "Log level: debug, info, warn, error.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Simulates FM modulation and demodulation of a three-tone message,\n")
		fmt.Fprintf(os.Stderr, "or demodulates an IQ recording when -i is given.\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "freqdem",
	})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(level)
	log.SetDefault(logger)

	if *configFile != "" {
		if err := cfg.Load(*configFile); err != nil {
			logger.Fatal("loading config", "err", err)
		}
	}

	// Flags given on the command line override the config file.
	pflag.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "samples":
			cfg.NumSamples = *numSamples
		case "snr":
			cfg.SNRdB = *snr
		case "kf":
			cfg.ModulationFactor = *kf
		case "type":
			cfg.DemodType = *demodType
		case "numeric":
			cfg.Numeric = *numeric
		case "seed":
			cfg.Seed = *seed
		case "script":
			cfg.ScriptFile = *script
		case "wav":
			cfg.WAVFile = *wavFile
		case "play":
			cfg.Play = *play
		case "input":
			cfg.InputFile = *input
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	typ, err := dsp.ParseFreqDemType(cfg.DemodType)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	switch cfg.Numeric {
	case "q16":
		err = run[fpm.Q16, fpm.CQ16, fpm.Fixed](cfg, typ, logger)
	default:
		err = run[float32, complex64, fpm.Float](cfg, typ, logger)
	}
	if errors.Is(err, dsp.ErrInvalidParameter) {
		logger.Fatal("cannot create demodulator", "err", err)
	} else if err != nil {
		logger.Fatal("failed", "err", err)
	}
}

// run picks the simulation or the streaming pipeline for one numeric format.
func run[T, C any, F fpm.Format[T, C]](cfg *config.Config, typ dsp.FreqDemType, logger *log.Logger) error {
	if cfg.InputFile != "" {
		return stream[T, C, F](cfg, typ, logger)
	}
	return simulate[T, C, F](cfg, typ, logger)
}
