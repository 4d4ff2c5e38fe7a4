// Package audio provides loading, resampling, and writing of mono
// double-precision waveforms for the prosody transfer pipeline.
package audio

import "time"

// Waveform represents decoded mono audio data
type Waveform struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the waveform length as a time.Duration
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// Seconds returns the waveform length in seconds
func (w Waveform) Seconds() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}
