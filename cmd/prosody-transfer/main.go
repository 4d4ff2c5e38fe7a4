// Command prosody-transfer recombines the pitch contour of one speech
// recording with the spectral envelope of another and synthesizes the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahammed3216/emotion-voice-conversion/config"
	"github.com/ahammed3216/emotion-voice-conversion/logging"
	"github.com/ahammed3216/emotion-voice-conversion/pipeline"
	"github.com/ahammed3216/emotion-voice-conversion/vocoder"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		sourcePath  string
		targetPath  string
		outputPath  string
		plotPath    string
		framePeriod float64
		sampleRate  int
		logLevel    string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file (optional)")
	flag.StringVar(&sourcePath, "source", "", "Recording whose pitch dynamics are transferred (e.g. emotional speech)")
	flag.StringVar(&targetPath, "target", "", "Recording whose timbre is kept (e.g. neutral speech)")
	flag.StringVar(&outputPath, "output", "converted.wav", "Output WAV path")
	flag.StringVar(&plotPath, "plot", "", "Output path for the F0 comparison plot (empty = skip)")
	flag.Float64Var(&framePeriod, "frame-period", 0, "Analysis frame period in ms (overrides config)")
	flag.IntVar(&sampleRate, "sample-rate", -1, "Resampling target in Hz, 0 keeps native rates (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	if sourcePath == "" || targetPath == "" {
		fmt.Fprintln(os.Stderr, "both -source and -target are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Error(err, "Failed to load configuration")
		os.Exit(1)
	}

	// Flags override the config file
	if framePeriod > 0 {
		cfg.FramePeriodMS = framePeriod
	}
	if sampleRate >= 0 {
		cfg.TargetSampleRate = sampleRate
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		logging.Error(err, "Invalid configuration")
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logging.Error(err, "Invalid log level")
		os.Exit(1)
	}
	logging.SetLevel(level)

	engine := vocoder.NewWorldLikeWithParams(vocoder.AnalysisParams{
		F0Floor:      cfg.Analysis.F0FloorHz,
		F0Ceil:       cfg.Analysis.F0CeilHz,
		YinThreshold: cfg.Analysis.YinThreshold,
		SilenceRMS:   vocoder.DefaultAnalysisParams().SilenceRMS,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := pipeline.Job{
		SourcePath: sourcePath,
		TargetPath: targetPath,
		OutputPath: outputPath,
		PlotPath:   plotPath,
	}

	if err := pipeline.New(cfg, engine).Run(ctx, job); err != nil {
		logging.Error(err, "Prosody transfer failed")
		os.Exit(1)
	}
}
