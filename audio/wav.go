package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampler "github.com/tphakala/go-audio-resampler"
)

// ReadWAV decodes a WAV file into a mono float64 waveform. Multi-channel
// files are downmixed by averaging. When targetRate > 0 and differs from the
// file rate, the signal is resampled; targetRate 0 keeps the native rate.
func ReadWAV(path string, targetRate int) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Waveform{}, fmt.Errorf("not a valid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("decode wav file %s: %w", path, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return Waveform{}, fmt.Errorf("wav file contains no samples: %s", path)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return Waveform{}, fmt.Errorf("invalid channel count %d in %s", channels, path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	// Downmix to mono while converting to float64 in [-1, 1)
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += float64(buf.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float64(channels)
	}

	rate := buf.Format.SampleRate
	if targetRate > 0 && targetRate != rate {
		resampled, err := resampler.ResampleMono(samples, float64(rate), float64(targetRate), resampler.QualityHigh)
		if err != nil {
			return Waveform{}, fmt.Errorf("resample %d -> %d Hz: %w", rate, targetRate, err)
		}
		samples = resampled
		rate = targetRate
	}

	return Waveform{Samples: samples, SampleRate: rate}, nil
}

// WriteWAV persists a waveform as 16-bit PCM mono WAV
func WriteWAV(path string, w Waveform) error {
	if w.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", w.SampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer f.Close()

	buffer := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:   make([]int, len(w.Samples)),
	}
	for i, s := range w.Samples {
		v := math.Round(s * 32767.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		buffer.Data[i] = int(v)
	}

	enc := wav.NewEncoder(f, w.SampleRate, 16, 1, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}

	return nil
}
