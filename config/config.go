// Package config loads pipeline configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnalysisConfig holds vocoder analysis settings
type AnalysisConfig struct {
	F0FloorHz    float64 `yaml:"f0_floor_hz"`
	F0CeilHz     float64 `yaml:"f0_ceil_hz"`
	YinThreshold float64 `yaml:"yin_threshold"`
}

// LoaderConfig holds audio loading settings
type LoaderConfig struct {
	ForceFFmpeg bool   `yaml:"force_ffmpeg"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// PlotConfig holds figure layout settings
type PlotConfig struct {
	Title        string  `yaml:"title"`
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// Config is the full pipeline configuration
type Config struct {
	// FramePeriodMS is the spacing between analysis frames in milliseconds
	FramePeriodMS float64 `yaml:"frame_period_ms"`

	// TargetSampleRate is the resampling target in Hz; 0 keeps each
	// file's native rate
	TargetSampleRate int `yaml:"target_sample_rate"`

	LogLevel string         `yaml:"log_level"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Loader   LoaderConfig   `yaml:"loader"`
	Plot     PlotConfig     `yaml:"plot"`
}

// Default returns the configuration used when no file or overrides are given
func Default() Config {
	return Config{
		FramePeriodMS:    5.0,
		TargetSampleRate: 22050,
		LogLevel:         "info",
		Analysis: AnalysisConfig{
			F0FloorHz:    71.0,
			F0CeilHz:     800.0,
			YinThreshold: 0.15,
		},
		Loader: LoaderConfig{
			ForceFFmpeg: false,
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Plot: PlotConfig{
			Title:        "Fundamental Frequency (F0) Contour Comparison",
			WidthInches:  12,
			HeightInches: 6,
		},
	}
}

// Load reads configuration from an optional YAML file, applies EVC_*
// environment overrides, and validates the result. An empty path loads
// defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideFloat(&cfg.FramePeriodMS, "EVC_FRAME_PERIOD_MS")
	overrideInt(&cfg.TargetSampleRate, "EVC_TARGET_SAMPLE_RATE")
	overrideString(&cfg.LogLevel, "EVC_LOG_LEVEL")
	overrideFloat(&cfg.Analysis.F0FloorHz, "EVC_F0_FLOOR_HZ")
	overrideFloat(&cfg.Analysis.F0CeilHz, "EVC_F0_CEIL_HZ")
	overrideFloat(&cfg.Analysis.YinThreshold, "EVC_YIN_THRESHOLD")
	overrideBool(&cfg.Loader.ForceFFmpeg, "EVC_FORCE_FFMPEG")
	overrideString(&cfg.Loader.FFmpegPath, "EVC_FFMPEG_PATH")
	overrideString(&cfg.Loader.FFprobePath, "EVC_FFPROBE_PATH")
	overrideString(&cfg.Plot.Title, "EVC_PLOT_TITLE")
	overrideFloat(&cfg.Plot.WidthInches, "EVC_PLOT_WIDTH_INCHES")
	overrideFloat(&cfg.Plot.HeightInches, "EVC_PLOT_HEIGHT_INCHES")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

// Validate checks configuration invariants
func Validate(cfg Config) error {
	if cfg.FramePeriodMS <= 0 {
		return errors.New("frame_period_ms must be positive")
	}
	if cfg.TargetSampleRate < 0 {
		return errors.New("target_sample_rate must be >= 0 (0 keeps native rates)")
	}
	if cfg.Analysis.F0FloorHz <= 0 {
		return errors.New("analysis.f0_floor_hz must be positive")
	}
	if cfg.Analysis.F0CeilHz <= cfg.Analysis.F0FloorHz {
		return errors.New("analysis.f0_ceil_hz must be greater than f0_floor_hz")
	}
	if cfg.Analysis.YinThreshold <= 0 || cfg.Analysis.YinThreshold >= 1 {
		return errors.New("analysis.yin_threshold must be in (0, 1)")
	}
	if cfg.Plot.WidthInches <= 0 || cfg.Plot.HeightInches <= 0 {
		return errors.New("plot dimensions must be positive")
	}
	return nil
}
