package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"go-freqdem/internal/config"
	"go-freqdem/internal/dsp"
	"go-freqdem/internal/fpm"
	"go-freqdem/internal/ringbuffer"
)

// stream demodulates an IQ recording: a reader goroutine fills the ring
// buffer while the processing loop selects the channel, demodulates it and
// produces audio at the output rate.
func stream[T, C any, F fpm.Format[T, C]](cfg *config.Config, typ dsp.FreqDemType, logger *log.Logger) error {
	logger.Info("opening file", "file", cfg.InputFile)
	file, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	iqRate, err := detectFormat(file, cfg, logger)
	if err != nil {
		return err
	}

	rb := ringbuffer.New[int16](cfg.RingBufferSize)

	var player *livePlayer
	if cfg.Play {
		if player, err = newLivePlayer(cfg.OutputSampleRate); err != nil {
			return err
		}
	}

	readErr := make(chan error, 1)
	go func() {
		readErr <- readFileIntoBuffer(file, rb, cfg, logger)
	}()

	logger.Info("starting processing", "iq_rate", iqRate, "type", typ)
	var collected []float64
	err = processIQ[T, C, F](rb, cfg, iqRate, typ, logger, func(block []float64) error {
		if cfg.WAVFile != "" {
			collected = append(collected, block...)
		}
		if player != nil {
			return player.Write(block, cfg.Gain)
		}
		return nil
	})
	rb.Close()
	if rerr := <-readErr; err == nil {
		err = rerr
	}
	if player != nil {
		if perr := player.Close(); err == nil {
			err = perr
		}
	}
	if err != nil {
		return err
	}

	if cfg.WAVFile != "" {
		return writeWAV(cfg.WAVFile, cfg.OutputSampleRate, collected, cfg.Gain, logger)
	}
	return nil
}

// detectFormat checks for a WAV container and returns the IQ sample rate.
// Raw files are rewound and use the configured rate.
func detectFormat(file *os.File, cfg *config.Config, logger *log.Logger) (int, error) {
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		logger.Info("not a valid WAV file, reading raw IQ")
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return 0, fmt.Errorf("rewind input: %w", err)
		}
		return cfg.IQSampleRate, nil
	}

	// Detect and print the audio format to confirm our assumptions.
	logger.Info("detected WAV format",
		"bit_depth", decoder.BitDepth, "sample_rate", decoder.SampleRate, "channels", decoder.NumChans)
	if decoder.BitDepth != 16 || decoder.NumChans != 2 {
		return 0, fmt.Errorf("need 16-bit stereo I/Q, got %d-bit %d channel", decoder.BitDepth, decoder.NumChans)
	}
	if int(decoder.SampleRate) != cfg.IQSampleRate {
		logger.Warn("WAV sample rate overrides configuration",
			"wav", decoder.SampleRate, "configured", cfg.IQSampleRate)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind input: %w", err)
	}
	return int(decoder.SampleRate), nil
}

// readFileIntoBuffer reads the file into the ring buffer as interleaved int16
// I/Q. WAV containers are decoded with go-audio, anything else is read as raw
// little-endian samples.
func readFileIntoBuffer(file *os.File, rb *ringbuffer.RingBuffer[int16], cfg *config.Config, logger *log.Logger) error {
	defer rb.Close() // Ensure the buffer is closed when this function exits.

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind input: %w", err)
		}
		buf := make([]byte, cfg.ChunkSize)
		for {
			n, err := file.Read(buf)
			if n > 0 {
				samples := make([]int16, n/2)
				for i := range samples {
					samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
				}
				if werr := rb.Write(samples); werr != nil {
					return nil // processor stopped
				}
			}
			if err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
		}
	}

	// Move to start of PCM/IQ data
	if err := decoder.FwdToPCM(); err != nil {
		return fmt.Errorf("seek to PCM data: %w", err)
	}

	// Preallocate reusable buffer for streamed PCM data
	buf := &audio.IntBuffer{
		Format: decoder.Format(),
		Data:   make([]int, cfg.ChunkSize*2), // 2 = I+Q
	}
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil && err != io.EOF {
			return fmt.Errorf("decode wav: %w", err)
		}
		if n == 0 || err == io.EOF {
			logger.Debug("end of WAV file reached")
			return nil
		}

		samples := make([]int16, n)
		for i := range samples {
			samples[i] = int16(buf.Data[i])
		}
		if werr := rb.Write(samples); werr != nil {
			return nil
		}
	}
}

// processIQ runs the receive chain over the ring buffer contents and hands
// each block of output audio to emit.
func processIQ[T, C any, F fpm.Format[T, C]](rb *ringbuffer.RingBuffer[int16], cfg *config.Config, iqRate int,
	typ dsp.FreqDemType, logger *log.Logger, emit func([]float64) error) error {
	var num F
	frameSize := cfg.SampleBlockSize * 2 // We need two int16 samples (I and Q) per complex sample.

	// --- Stage 1: Channel Selection Filter ---
	// Selects the FM station from the SDR stream and decimates to the
	// intermediate rate.
	channelTaps := dsp.DesignFIRLowPass(cfg.FilterTaps, cfg.ChannelFilterCutoff)
	decimator, err := dsp.NewDecimator(channelTaps, float64(cfg.IntermediateRate)/float64(iqRate))
	if err != nil {
		return err
	}

	// --- Stage 2: FM Demodulator ---
	dem, err := dsp.NewFreqDem[T, C, F](cfg.ModulationFactor, typ)
	if err != nil {
		return err
	}
	defer dem.Destroy()

	// --- Stage 3: De-emphasis and resampling to the output rate ---
	var deemph *dsp.IIRFilter[T, C, F]
	if cfg.DeemphTau > 0 {
		deemph = dsp.NewDeemphasis[T, C, F](cfg.IntermediateRate, cfg.DeemphTau)
	}
	ratioStage3 := float64(cfg.OutputSampleRate) / float64(cfg.IntermediateRate)

	var blockCounter int64
	for {
		raw := rb.Read(frameSize)
		// If Read returns nil, the buffer is closed and empty, so we can exit the loop.
		if raw == nil {
			logger.Info("end of stream", "blocks", blockCounter)
			return nil
		}
		blockCounter++

		iq := make([]complex64, len(raw)/2)
		for i := range iq {
			iq[i] = complex(float32(raw[2*i])/32768.0, float32(raw[2*i+1])/32768.0)
		}

		// === STAGE 1: Channel Filtering and Decimation ===
		intermediate := decimator.Process(iq)
		if len(intermediate) == 0 {
			continue
		}

		// === STAGE 2: FM Demodulation ===
		message := make([]float32, len(intermediate))
		for i, s := range intermediate {
			m := dem.Demodulate(num.FromComplex(complex128(s)))
			if deemph != nil {
				m = deemph.Execute(m)
			}
			message[i] = float32(num.Float(m))
		}

		// === STAGE 3: Final Resampling ===
		out := dsp.Resample(message, ratioStage3)
		if len(out) == 0 {
			continue
		}
		block := make([]float64, len(out))
		for i, v := range out {
			block[i] = float64(v)
		}
		if blockCounter%100 == 0 {
			logger.Debug("processed", "blocks", blockCounter, "audio_samples", len(block))
		}
		if err := emit(block); err != nil {
			return fmt.Errorf("emit audio: %w", err)
		}
	}
}
