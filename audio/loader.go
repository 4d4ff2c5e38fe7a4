package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ahammed3216/emotion-voice-conversion/logging"
)

// LoaderConfig holds loader configuration
type LoaderConfig struct {
	// TargetSampleRate is the rate files are resampled to; 0 keeps each
	// file's native rate.
	TargetSampleRate int `json:"target_sample_rate"`

	// ForceFFmpeg routes .wav files through ffmpeg instead of the native
	// decoder.
	ForceFFmpeg bool `json:"force_ffmpeg"`

	FFmpegPath  string `json:"ffmpeg_path"`
	FFprobePath string `json:"ffprobe_path"`
}

// DefaultLoaderConfig returns default loader configuration
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		TargetSampleRate: 22050,
		ForceFFmpeg:      false,
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
	}
}

// Loader reads audio files into mono float64 waveforms at the configured
// sample rate. WAV files decode natively; everything else goes through
// ffmpeg.
type Loader struct {
	config LoaderConfig
	ffmpeg *ffmpegDecoder
}

// NewLoader creates a new audio loader
func NewLoader(config LoaderConfig) *Loader {
	return &Loader{
		config: config,
		ffmpeg: newFFmpegDecoder(config.FFmpegPath, config.FFprobePath),
	}
}

// Load reads and decodes a single audio file
func (l *Loader) Load(ctx context.Context, path string) (Waveform, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_loader",
		"path":      path,
	})

	if _, err := os.Stat(path); err != nil {
		return Waveform{}, fmt.Errorf("cannot access input file: %w", err)
	}

	var (
		w   Waveform
		err error
	)
	if l.useNativePath(path) {
		logger.Debug("Decoding with native wav reader")
		w, err = ReadWAV(path, l.config.TargetSampleRate)
	} else {
		logger.Debug("Decoding with ffmpeg")
		w, err = l.ffmpeg.decodeFile(ctx, path, l.config.TargetSampleRate)
	}
	if err != nil {
		return Waveform{}, err
	}

	logger.Info("Loaded audio file", logging.Fields{
		"samples":     len(w.Samples),
		"sample_rate": w.SampleRate,
		"duration_s":  w.Seconds(),
	})

	return w, nil
}

func (l *Loader) useNativePath(path string) bool {
	if l.config.ForceFFmpeg {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
