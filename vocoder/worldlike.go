package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ahammed3216/emotion-voice-conversion/audio"
	"github.com/ahammed3216/emotion-voice-conversion/dsp"
	"github.com/ahammed3216/emotion-voice-conversion/logging"
)

// AnalysisParams contains parameters for the frame-based analyzer
type AnalysisParams struct {
	// F0 search range in Hz
	F0Floor float64 `json:"f0_floor"`
	F0Ceil  float64 `json:"f0_ceil"`

	// YinThreshold is the cumulative mean normalized difference threshold
	// below which a lag is accepted as a pitch period (0.1-0.5)
	YinThreshold float64 `json:"yin_threshold"`

	// SilenceRMS marks frames below this RMS as unvoiced
	SilenceRMS float64 `json:"silence_rms"`
}

// DefaultAnalysisParams returns analysis parameters tuned for speech
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		F0Floor:      71.0,  // low male voice
		F0Ceil:       800.0, // high female voice
		YinThreshold: 0.15,
		SilenceRMS:   1e-4,
	}
}

// WorldLike is a frame-based vocoder: YIN pitch estimation, cepstrally
// smoothed power-spectrum envelopes, and periodicity-derived aperiodicity
// on analysis; harmonic plus shaped-noise excitation on synthesis.
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
// - Morise, M., Yokomori, F., Ozawa, K. (2016). "WORLD: a vocoder-based high-quality speech synthesis system"
// - Oppenheim, A.V., Schafer, R.W. (2004). "From frequency to quefrency: a history of the cepstrum"
type WorldLike struct {
	params AnalysisParams
	fft    *dsp.FFT
	logger logging.Logger
}

// NewWorldLike creates an engine with default analysis parameters
func NewWorldLike() *WorldLike {
	return NewWorldLikeWithParams(DefaultAnalysisParams())
}

// NewWorldLikeWithParams creates an engine with custom analysis parameters
func NewWorldLikeWithParams(params AnalysisParams) *WorldLike {
	return &WorldLike{
		params: params,
		fft:    dsp.NewFFT(),
		logger: logging.WithFields(logging.Fields{"component": "vocoder"}),
	}
}

// Params returns the current analysis parameters
func (e *WorldLike) Params() AnalysisParams {
	return e.params
}

// fftSizeFor picks the analysis FFT size the way WORLD's CheapTrick does:
// large enough to hold three periods of the lowest trackable pitch.
func (e *WorldLike) fftSizeFor(sampleRate int) int {
	return dsp.NextPowerOfTwo(int(3.0*float64(sampleRate)/e.params.F0Floor) + 1)
}

// Analyze extracts a pitch contour, spectral envelope, and aperiodicity
// from a waveform, one row per analysis frame
func (e *WorldLike) Analyze(w audio.Waveform, framePeriodMS float64) (*Parameters, error) {
	if len(w.Samples) == 0 {
		return nil, fmt.Errorf("empty waveform")
	}
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %d", w.SampleRate)
	}
	if framePeriodMS <= 0 {
		return nil, fmt.Errorf("frame period must be positive: %f", framePeriodMS)
	}

	fftSize := e.fftSizeFor(w.SampleRate)
	if len(w.Samples) < fftSize/2 {
		return nil, fmt.Errorf("waveform too short for analysis: %d samples, need at least %d",
			len(w.Samples), fftSize/2)
	}

	numFrames := NumFrames(len(w.Samples), w.SampleRate, framePeriodMS)
	bins := fftSize/2 + 1
	window := dsp.NewHann(fftSize, false)

	params := &Parameters{
		F0:            make([]float64, numFrames),
		Envelope:      make([][]float64, numFrames),
		Aperiodicity:  make([][]float64, numFrames),
		SampleRate:    w.SampleRate,
		FramePeriodMS: framePeriodMS,
	}

	frame := make([]float64, fftSize)
	for i := range numFrames {
		center := int(math.Round(float64(i) * framePeriodMS / 1000.0 * float64(w.SampleRate)))
		extractFrame(w.Samples, center, frame)

		f0, periodicity := e.estimatePitch(frame, w.SampleRate)
		params.F0[i] = f0
		params.Envelope[i] = e.spectralEnvelope(frame, window, f0, w.SampleRate)
		params.Aperiodicity[i] = e.aperiodicityRow(f0, periodicity, bins)
	}

	e.logger.Debug("Analysis completed", logging.Fields{
		"frames":       numFrames,
		"bins":         bins,
		"fft_size":     fftSize,
		"frame_period": framePeriodMS,
	})

	return params, nil
}

// extractFrame copies a window centered on sample index center into dst,
// zero-padding past the signal edges
func extractFrame(samples []float64, center int, dst []float64) {
	half := len(dst) / 2
	start := center - half
	for i := range dst {
		idx := start + i
		if idx < 0 || idx >= len(samples) {
			dst[i] = 0
		} else {
			dst[i] = samples[idx]
		}
	}
}

// estimatePitch runs YIN on a single frame and returns the fundamental
// frequency (0 when unvoiced) and a periodicity score in [0, 1]
func (e *WorldLike) estimatePitch(frame []float64, sampleRate int) (float64, float64) {
	if dsp.RMS(frame) < e.params.SilenceRMS {
		return 0, 0
	}

	halfN := len(frame) / 2

	// Difference function
	diff := make([]float64, halfN)
	for tau := range halfN {
		sum := 0.0
		for j := range halfN {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference function
	cmndf := make([]float64, halfN)
	cmndf[0] = 1.0

	runningSum := 0.0
	for tau := 1; tau < halfN; tau++ {
		runningSum += diff[tau]
		if runningSum < 1e-12 {
			cmndf[tau] = 1.0
			continue
		}
		cmndf[tau] = diff[tau] / (runningSum / float64(tau))
	}

	// First local minimum below threshold inside the valid lag range
	minLag := int(float64(sampleRate) / e.params.F0Ceil)
	maxLag := int(float64(sampleRate) / e.params.F0Floor)
	maxLag = min(maxLag, halfN-2)
	if minLag < 2 {
		minLag = 2
	}

	minTau := -1
	for tau := minLag; tau <= maxLag; tau++ {
		if cmndf[tau] < e.params.YinThreshold && cmndf[tau] < cmndf[tau+1] {
			minTau = tau
			break
		}
	}
	if minTau < 0 {
		return 0, 0
	}

	period := parabolicInterpolation(cmndf, minTau)
	frequency := float64(sampleRate) / period
	if frequency < e.params.F0Floor || frequency > e.params.F0Ceil {
		return 0, 0
	}

	periodicity := dsp.Clamp(1.0-cmndf[minTau], 0.0, 1.0)
	return frequency, periodicity
}

// spectralEnvelope computes a cepstrally smoothed power-spectrum envelope
// for one frame. The liftering cutoff adapts to the frame's pitch so
// harmonic ripple is removed while formant structure survives.
func (e *WorldLike) spectralEnvelope(frame []float64, window *dsp.Hann, f0 float64, sampleRate int) []float64 {
	fftSize := window.Size()
	windowed := window.Apply(frame)

	spectrum := e.fft.Compute(windowed)

	// Log power spectrum over the full (symmetric) FFT length
	logPower := make([]complex128, fftSize)
	for k := range fftSize {
		mag := cmplx.Abs(spectrum[k])
		logPower[k] = complex(math.Log(mag*mag+1e-12), 0)
	}

	// Real cepstrum
	cepstrum := e.fft.ComputeInverse(logPower)

	// Lifter: keep quefrencies below a third of the pitch period
	pitch := f0
	if pitch <= 0 {
		pitch = e.params.F0Floor
	}
	cutoff := int(float64(sampleRate) / (3.0 * pitch))
	cutoff = min(cutoff, fftSize/2-1)

	liftered := make([]complex128, fftSize)
	liftered[0] = complex(real(cepstrum[0]), 0)
	for q := 1; q <= cutoff; q++ {
		liftered[q] = complex(real(cepstrum[q]), 0)
		liftered[fftSize-q] = complex(real(cepstrum[fftSize-q]), 0)
	}

	smoothed := e.fft.ComputeComplex(liftered)

	bins := fftSize/2 + 1
	envelope := make([]float64, bins)
	for k := range bins {
		envelope[k] = math.Exp(real(smoothed[k]))
	}

	return envelope
}

// aperiodicityRow spreads the frame's noise ratio across all bins.
// Unvoiced frames are fully aperiodic.
func (e *WorldLike) aperiodicityRow(f0, periodicity float64, bins int) []float64 {
	value := 1.0
	if f0 > 0 {
		value = dsp.Clamp(1.0-periodicity, 0.001, 0.999)
	}

	row := make([]float64, bins)
	for k := range row {
		row[k] = value
	}
	return row
}

// parabolicInterpolation refines a minimum location using its neighbors
func parabolicInterpolation(data []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(data)-1 {
		return float64(peakIdx)
	}

	y1 := data[peakIdx-1]
	y2 := data[peakIdx]
	y3 := data[peakIdx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(peakIdx)
	}

	return float64(peakIdx) - b/(2*a)
}
