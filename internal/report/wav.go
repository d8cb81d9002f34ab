package report

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes samples as mono 16-bit PCM. Each sample is multiplied by
// gain and clipped to full scale; the number of clipped samples is returned.
func WriteWAV(w io.WriteSeeker, sampleRate int, samples []float64, gain float64) (int, error) {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)

	var clipped int
	data := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(s * gain * math.MaxInt16)
		if v > math.MaxInt16 {
			clipped++
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			clipped++
			v = math.MinInt16
		}
		data[i] = int(v)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return clipped, fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return clipped, fmt.Errorf("finish wav: %w", err)
	}
	return clipped, nil
}

// PCM16 converts samples to little-endian 16-bit PCM bytes for playback,
// with the same gain and clipping as WriteWAV.
func PCM16(samples []float64, gain float64) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		v := math.Round(s * gain * math.MaxInt16)
		v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}
