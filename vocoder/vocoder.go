// Package vocoder defines the acoustic analysis/synthesis capability the
// pipeline depends on, together with a self-contained frame-based
// implementation. Orchestration code only ever sees the Engine interface, so
// a different vocoder (e.g. a WORLD binding) can be substituted without
// touching the pipeline.
package vocoder

import (
	"fmt"

	"github.com/ahammed3216/emotion-voice-conversion/audio"
)

// Parameters holds the frame-aligned vocoder parameters of one analysis:
// a pitch contour, a spectral envelope, and an aperiodicity map. All three
// share the same frame count and frame period.
type Parameters struct {
	// F0 is the per-frame fundamental frequency in Hz; 0 marks an
	// unvoiced frame.
	F0 []float64 `json:"f0"`

	// Envelope is the per-frame spectral power envelope, frames x bins.
	Envelope [][]float64 `json:"-"`

	// Aperiodicity is the per-frame noise ratio per bin in [0, 1],
	// frames x bins.
	Aperiodicity [][]float64 `json:"-"`

	SampleRate    int     `json:"sample_rate"`
	FramePeriodMS float64 `json:"frame_period_ms"`
}

// Frames returns the frame count of the parameter set
func (p *Parameters) Frames() int {
	return len(p.F0)
}

// Bins returns the frequency-bin count of the spectral envelope
func (p *Parameters) Bins() int {
	if len(p.Envelope) == 0 {
		return 0
	}
	return len(p.Envelope[0])
}

// Validate checks that pitch, envelope, and aperiodicity are frame-aligned
func (p *Parameters) Validate() error {
	if len(p.F0) == 0 {
		return fmt.Errorf("empty pitch contour")
	}
	if len(p.Envelope) != len(p.F0) {
		return fmt.Errorf("frame count mismatch: %d pitch frames, %d envelope frames",
			len(p.F0), len(p.Envelope))
	}
	if len(p.Aperiodicity) != len(p.F0) {
		return fmt.Errorf("frame count mismatch: %d pitch frames, %d aperiodicity frames",
			len(p.F0), len(p.Aperiodicity))
	}
	bins := p.Bins()
	if bins == 0 {
		return fmt.Errorf("empty spectral envelope")
	}
	for i := range p.Envelope {
		if len(p.Envelope[i]) != bins || len(p.Aperiodicity[i]) != bins {
			return fmt.Errorf("bin count mismatch at frame %d", i)
		}
	}
	if p.FramePeriodMS <= 0 {
		return fmt.Errorf("frame period must be positive: %f", p.FramePeriodMS)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", p.SampleRate)
	}
	return nil
}

// Engine is the external vocoder capability consumed by the pipeline
type Engine interface {
	// Analyze extracts frame-aligned vocoder parameters from a waveform
	Analyze(w audio.Waveform, framePeriodMS float64) (*Parameters, error)

	// Synthesize reconstructs a waveform from vocoder parameters. The
	// caller is responsible for frame alignment; mismatched parameters
	// are rejected.
	Synthesize(p *Parameters) ([]float64, error)
}

// NumFrames returns the frame count for a signal of sampleCount samples,
// matching the analyzer's framing: one frame every framePeriodMS, plus the
// frame at time zero.
func NumFrames(sampleCount, sampleRate int, framePeriodMS float64) int {
	if sampleCount <= 0 || sampleRate <= 0 || framePeriodMS <= 0 {
		return 0
	}
	return int(float64(sampleCount)/float64(sampleRate)*1000.0/framePeriodMS) + 1
}

// SynthesisLength returns the sample count a synthesized waveform will have
// for the given frame count
func SynthesisLength(frames, sampleRate int, framePeriodMS float64) int {
	if frames <= 0 || sampleRate <= 0 || framePeriodMS <= 0 {
		return 0
	}
	return int(float64(frames)*framePeriodMS/1000.0*float64(sampleRate) + 0.5)
}
