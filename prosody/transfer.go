// Package prosody combines the pitch dynamics of one analysis with the
// timbre of another.
package prosody

import (
	"github.com/ahammed3216/emotion-voice-conversion/vocoder"
)

// Transfer pairs the source pitch contour with the target's spectral envelope
// and aperiodicity, resizing the contour to the target's frame count. The
// envelope and aperiodicity pass through unchanged; no scaling or pitch-range
// normalization is applied.
//
// Length matching is cyclic repeat/truncate, not time-warping: prosodic
// events are not aligned between the two recordings.
func Transfer(sourceF0 []float64, target *vocoder.Parameters) *vocoder.Parameters {
	return &vocoder.Parameters{
		F0:            ResizeContour(sourceF0, target.Frames()),
		Envelope:      target.Envelope,
		Aperiodicity:  target.Aperiodicity,
		SampleRate:    target.SampleRate,
		FramePeriodMS: target.FramePeriodMS,
	}
}

// ResizeContour resizes a pitch contour to exactly n frames: values repeat
// cyclically when the contour is shorter, and truncate when longer. An empty
// contour yields n unvoiced frames.
func ResizeContour(f0 []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	resized := make([]float64, n)
	if len(f0) == 0 {
		return resized
	}

	for i := range resized {
		resized[i] = f0[i%len(f0)]
	}
	return resized
}
