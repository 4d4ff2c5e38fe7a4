// Package pipeline sequences the prosody transfer: load both recordings,
// analyze, recombine pitch and timbre, synthesize, write, and plot.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ahammed3216/emotion-voice-conversion/audio"
	"github.com/ahammed3216/emotion-voice-conversion/config"
	"github.com/ahammed3216/emotion-voice-conversion/logging"
	"github.com/ahammed3216/emotion-voice-conversion/plotting"
	"github.com/ahammed3216/emotion-voice-conversion/prosody"
	"github.com/ahammed3216/emotion-voice-conversion/vocoder"
)

// Job names the input and output files of one pipeline run
type Job struct {
	// SourcePath is the recording whose pitch dynamics are transferred
	SourcePath string `json:"source_path"`

	// TargetPath is the recording whose timbre is kept
	TargetPath string `json:"target_path"`

	// OutputPath is where the synthesized waveform is written
	OutputPath string `json:"output_path"`

	// PlotPath is where the contour comparison figure is written;
	// empty skips plotting
	PlotPath string `json:"plot_path,omitempty"`
}

// Pipeline runs the transfer end to end. All steps are blocking and execute
// strictly in sequence; each waveform is owned by the step that produced it
// until handed to the next.
type Pipeline struct {
	cfg    config.Config
	loader *audio.Loader
	engine vocoder.Engine
	logger logging.Logger
}

// New creates a pipeline around the given vocoder engine
func New(cfg config.Config, engine vocoder.Engine) *Pipeline {
	loader := audio.NewLoader(audio.LoaderConfig{
		TargetSampleRate: cfg.TargetSampleRate,
		ForceFFmpeg:      cfg.Loader.ForceFFmpeg,
		FFmpegPath:       cfg.Loader.FFmpegPath,
		FFprobePath:      cfg.Loader.FFprobePath,
	})

	return &Pipeline{
		cfg:    cfg,
		loader: loader,
		engine: engine,
		logger: logging.WithFields(logging.Fields{"component": "pipeline"}),
	}
}

// Run executes one transfer job
func (p *Pipeline) Run(ctx context.Context, job Job) error {
	started := time.Now()

	source, err := p.loader.Load(ctx, job.SourcePath)
	if err != nil {
		return fmt.Errorf("load source %s: %w", job.SourcePath, err)
	}
	target, err := p.loader.Load(ctx, job.TargetPath)
	if err != nil {
		return fmt.Errorf("load target %s: %w", job.TargetPath, err)
	}

	// The only validation before analysis: both recordings must share a
	// sample rate
	if source.SampleRate != target.SampleRate {
		return fmt.Errorf("sample rate mismatch: source is %d Hz, target is %d Hz",
			source.SampleRate, target.SampleRate)
	}

	p.logger.Info("Analyzing source recording", logging.Fields{
		"path":       job.SourcePath,
		"duration_s": source.Seconds(),
	})
	sourceParams, err := p.engine.Analyze(source, p.cfg.FramePeriodMS)
	if err != nil {
		return fmt.Errorf("analyze source: %w", err)
	}

	p.logger.Info("Analyzing target recording", logging.Fields{
		"path":       job.TargetPath,
		"duration_s": target.Seconds(),
	})
	targetParams, err := p.engine.Analyze(target, p.cfg.FramePeriodMS)
	if err != nil {
		return fmt.Errorf("analyze target: %w", err)
	}

	converted := prosody.Transfer(sourceParams.F0, targetParams)

	stats := prosody.AnalyzeContour(converted.F0)
	p.logger.Info("Transferred prosody", logging.Fields{
		"source_frames": sourceParams.Frames(),
		"target_frames": targetParams.Frames(),
		"mean_f0_hz":    stats.MeanHz,
		"voiced_ratio":  stats.VoicedRatio,
	})

	synthesized, err := p.engine.Synthesize(converted)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	out := audio.Waveform{Samples: synthesized, SampleRate: target.SampleRate}
	if err := audio.WriteWAV(job.OutputPath, out); err != nil {
		return fmt.Errorf("write output %s: %w", job.OutputPath, err)
	}
	p.logger.Info("Wrote converted audio", logging.Fields{
		"path":       job.OutputPath,
		"samples":    len(synthesized),
		"duration_s": out.Seconds(),
	})

	if job.PlotPath != "" {
		if err := p.savePlot(job.PlotPath, sourceParams, targetParams, converted); err != nil {
			return fmt.Errorf("plot contours: %w", err)
		}
		p.logger.Info("Wrote contour comparison plot", logging.Fields{
			"path": job.PlotPath,
		})
	}

	p.logger.Info("Pipeline completed", logging.Fields{
		"elapsed_s": time.Since(started).Seconds(),
	})

	return nil
}

func (p *Pipeline) savePlot(path string, source, target, converted *vocoder.Parameters) error {
	opts := plotting.Options{
		Title:        p.cfg.Plot.Title,
		WidthInches:  p.cfg.Plot.WidthInches,
		HeightInches: p.cfg.Plot.HeightInches,
	}

	return plotting.SaveComparison(path,
		plotting.Contour{Label: "Original Target F0", F0: target.F0, FramePeriodMS: target.FramePeriodMS},
		plotting.Contour{Label: "Original Source F0", F0: source.F0, FramePeriodMS: source.FramePeriodMS},
		plotting.Contour{Label: "Converted F0", F0: converted.F0, FramePeriodMS: converted.FramePeriodMS},
		opts,
	)
}
