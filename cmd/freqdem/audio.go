package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"go-freqdem/internal/config"
	"go-freqdem/internal/report"
)

// emitAudio writes and/or plays a complete demodulated message.
func emitAudio(cfg *config.Config, sampleRate int, samples []float64, logger *log.Logger) error {
	if cfg.WAVFile != "" {
		if err := writeWAV(cfg.WAVFile, sampleRate, samples, cfg.Gain, logger); err != nil {
			return err
		}
	}
	if !cfg.Play {
		return nil
	}

	ctx, err := newAudioContext(sampleRate)
	if err != nil {
		return err
	}
	player := ctx.NewPlayer(bytes.NewReader(report.PCM16(samples, cfg.Gain)))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func writeWAV(path string, sampleRate int, samples []float64, gain float64, logger *log.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	clipped, err := report.WriteWAV(f, sampleRate, samples, gain)
	if err != nil {
		f.Close()
		return err
	}
	if clipped > 0 {
		logger.Warn("samples clipped", "count", clipped, "gain", gain)
	}
	logger.Info("audio written", "file", path, "samples", len(samples), "rate", sampleRate)
	return f.Close()
}

// newAudioContext opens a mono 16-bit output. Oto allows one context per
// process.
func newAudioContext(sampleRate int) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready
	return ctx, nil
}

// livePlayer streams PCM to the sound card as it is produced.
type livePlayer struct {
	writer *io.PipeWriter
	player *oto.Player
}

func newLivePlayer(sampleRate int) (*livePlayer, error) {
	ctx, err := newAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader, writer := io.Pipe()
	p := &livePlayer{writer: writer, player: ctx.NewPlayer(reader)}
	p.player.Play()
	return p, nil
}

// Write blocks until the player has taken the samples.
func (p *livePlayer) Write(samples []float64, gain float64) error {
	_, err := p.writer.Write(report.PCM16(samples, gain))
	return err
}

// Close waits for the queued audio to finish.
func (p *livePlayer) Close() error {
	p.writer.Close()
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return p.player.Close()
}
