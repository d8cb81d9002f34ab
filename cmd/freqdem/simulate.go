package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"go-freqdem/internal/config"
	"go-freqdem/internal/dsp"
	"go-freqdem/internal/fpm"
	"go-freqdem/internal/report"
	"go-freqdem/internal/testsignal"
)

// maxDelay bounds the output delay search; both discriminators settle well
// inside it.
const maxDelay = 32

func simulate[T, C any, F fpm.Format[T, C]](cfg *config.Config, typ dsp.FreqDemType, logger *log.Logger) error {
	var num F

	mod, err := dsp.NewFreqMod[T, C, F](cfg.ModulationFactor)
	if err != nil {
		return err
	}
	dem, err := dsp.NewFreqDem[T, C, F](cfg.ModulationFactor, typ)
	if err != nil {
		return err
	}
	defer dem.Destroy()

	mod.Print(os.Stdout)
	dem.Print(os.Stdout)

	n := cfg.NumSamples
	m := testsignal.MultiTone(n, testsignal.ThreeTone)

	// modulate, add channel noise
	r := make([]complex128, n)
	for i, v := range m {
		r[i] = num.Complex(mod.Modulate(num.FromFloat(v)))
	}
	testsignal.AddNoise(r, cfg.SNRdB, testsignal.NewRand(cfg.Seed))

	// demodulate
	y := make([]float64, n)
	for i, v := range r {
		y[i] = num.Float(dem.Demodulate(num.FromComplex(v)))
	}

	delay, rms := report.AlignDelay(m, y, maxDelay, min(maxDelay, n/2))
	logger.Info("demodulated",
		"samples", n, "snr_db", cfg.SNRdB, "delay", delay,
		"rms_error", fmt.Sprintf("%.5f", rms))

	run := report.Run{Message: m, Received: r, Output: y, Delay: delay}

	// The strongest tone of the message must come out at the same frequency.
	nfft := 2 * report.NextPow2(n)
	peaks := report.FindPeaks(run, nfft)
	logger.Info("spectral peaks",
		"message", peaks.Message, "output", peaks.Output, "rf", peaks.Received)
	if peaks.Shifted(nfft) {
		logger.Warn("output spectrum peak moved", "nfft", nfft)
	}

	if cfg.ScriptFile != "" {
		if err := writeScript(cfg.ScriptFile, run); err != nil {
			return err
		}
		logger.Info("results written", "file", cfg.ScriptFile)
	}

	return emitAudio(cfg, cfg.OutputSampleRate, y, logger)
}

func writeScript(path string, run report.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	if err := report.WriteOctaveScript(f, path, run); err != nil {
		f.Close()
		return fmt.Errorf("write script: %w", err)
	}
	return f.Close()
}
