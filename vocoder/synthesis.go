package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/ahammed3216/emotion-voice-conversion/dsp"
	"github.com/ahammed3216/emotion-voice-conversion/logging"
)

// noiseSeed keeps synthesis deterministic run to run
const noiseSeed = 42

// Synthesize reconstructs a waveform from vocoder parameters: a phase-coherent
// harmonic component for the periodic part of each frame plus overlap-added
// spectrally shaped noise for the aperiodic part
func (e *WorldLike) Synthesize(p *Parameters) ([]float64, error) {
	if p == nil {
		return nil, fmt.Errorf("nil parameters")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis parameters: %w", err)
	}

	fftSize := 2 * (p.Bins() - 1)
	if fftSize < 4 {
		return nil, fmt.Errorf("envelope too narrow: %d bins", p.Bins())
	}

	hop := p.FramePeriodMS / 1000.0 * float64(p.SampleRate)
	outLen := SynthesisLength(p.Frames(), p.SampleRate, p.FramePeriodMS)
	out := make([]float64, outLen)

	e.addHarmonics(out, p, hop, fftSize)
	e.addNoise(out, p, hop, fftSize)

	// Protect against clipping when written as 16-bit PCM
	if peak := dsp.MaxAbs(out); peak > 0.99 {
		scale := 0.99 / peak
		for i := range out {
			out[i] *= scale
		}
	}

	e.logger.Debug("Synthesis completed", logging.Fields{
		"frames":      p.Frames(),
		"samples":     outLen,
		"sample_rate": p.SampleRate,
	})

	return out, nil
}

// addHarmonics renders the periodic component: a bank of harmonics of the
// per-sample interpolated pitch, each weighted by the envelope and the
// periodic share of the frame
func (e *WorldLike) addHarmonics(out []float64, p *Parameters, hop float64, fftSize int) {
	numFrames := p.Frames()
	bins := p.Bins()
	fs := float64(p.SampleRate)
	freqRes := fs / float64(fftSize)
	nyquist := fs / 2.0

	// Inverts the magnitude scaling of a Hann-windowed FFT frame
	gain := 4.0 / float64(fftSize)

	phase := 0.0
	for n := range out {
		fpos := float64(n) / hop
		i0 := int(fpos)
		i0 = min(i0, numFrames-1)
		i1 := min(i0+1, numFrames-1)
		frac := fpos - float64(i0)

		f0 := p.F0[i0]
		if f0 <= 0 {
			continue
		}
		if p.F0[i1] > 0 {
			f0 = (1.0-frac)*p.F0[i0] + frac*p.F0[i1]
		}

		phase += 2.0 * math.Pi * f0 / fs

		env := p.Envelope[i0]
		ap := p.Aperiodicity[i0]

		sample := 0.0
		maxHarmonic := int(0.95 * nyquist / f0)
		for h := 1; h <= maxHarmonic; h++ {
			b := float64(h) * f0 / freqRes
			k := int(b)
			if k >= bins-1 {
				break
			}
			fracBin := b - float64(k)

			power := (1.0-fracBin)*env[k] + fracBin*env[k+1]
			noise := (1.0-fracBin)*ap[k] + fracBin*ap[k+1]

			amp := math.Sqrt(math.Max(power, 0)) * math.Sqrt(math.Max(1.0-noise, 0)) * gain
			sample += amp * math.Sin(float64(h)*phase)
		}

		out[n] += sample
	}
}

// addNoise overlap-adds one spectrally shaped noise burst per frame, sized
// by the envelope and the aperiodic share of each bin
func (e *WorldLike) addNoise(out []float64, p *Parameters, hop float64, fftSize int) {
	numFrames := p.Frames()
	bins := p.Bins()

	rng := rand.New(rand.NewSource(noiseSeed))
	window := dsp.NewHann(fftSize, false)
	coeffs := window.GetCoefficients()

	gain := 4.0 / float64(fftSize)
	olaNorm := hop / (0.5 * float64(fftSize))

	spec := make([]complex128, fftSize)
	for i := range numFrames {
		env := p.Envelope[i]
		ap := p.Aperiodicity[i]

		for k := range spec {
			spec[k] = 0
		}
		for k := 1; k < bins-1; k++ {
			amp := math.Sqrt(math.Max(env[k]*ap[k], 0)) * gain
			c := cmplx.Rect(amp, rng.Float64()*2.0*math.Pi)
			spec[k] = c
			spec[fftSize-k] = cmplx.Conj(c)
		}

		burst := e.fft.ComputeInverseReal(spec)

		center := int(math.Round(float64(i) * hop))
		start := center - fftSize/2
		for j := range fftSize {
			idx := start + j
			if idx < 0 || idx >= len(out) {
				continue
			}
			out[idx] += burst[j] * coeffs[j] * olaNorm
		}
	}
}
