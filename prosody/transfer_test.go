package prosody

import (
	"math"
	"testing"

	"github.com/ahammed3216/emotion-voice-conversion/vocoder"
)

func TestResizeContourLength(t *testing.T) {
	cases := []struct {
		name   string
		source []float64
		n      int
	}{
		{"shorter than target", []float64{100, 110, 120}, 10},
		{"longer than target", []float64{100, 110, 120, 130, 140}, 2},
		{"equal length", []float64{100, 110}, 2},
		{"single value", []float64{220}, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResizeContour(tc.source, tc.n)
			if len(got) != tc.n {
				t.Fatalf("length mismatch: got %d want %d", len(got), tc.n)
			}
		})
	}
}

func TestResizeContourCyclicRepetition(t *testing.T) {
	source := []float64{100, 150, 200}

	// 3 divides 9: the result must be the source repeated verbatim
	got := ResizeContour(source, 9)
	for i, v := range got {
		if v != source[i%3] {
			t.Fatalf("value mismatch at %d: got %f want %f", i, v, source[i%3])
		}
	}
}

func TestResizeContourTruncation(t *testing.T) {
	source := []float64{100, 150, 200, 250}

	got := ResizeContour(source, 2)
	if got[0] != 100 || got[1] != 150 {
		t.Fatalf("truncation mismatch: got %v", got)
	}
}

func TestResizeContourDeterministic(t *testing.T) {
	source := []float64{90, 120, 180, 0, 210}

	a := ResizeContour(source, 13)
	b := ResizeContour(source, 13)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic resize at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestResizeContourEmptySource(t *testing.T) {
	got := ResizeContour(nil, 5)
	if len(got) != 5 {
		t.Fatalf("length mismatch: got %d want 5", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("expected unvoiced frame at %d, got %f", i, v)
		}
	}
}

func TestTransferKeepsTargetTimbre(t *testing.T) {
	target := &vocoder.Parameters{
		F0:            []float64{100, 100, 100, 100},
		Envelope:      [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		Aperiodicity:  [][]float64{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.3}, {0.4, 0.4}},
		SampleRate:    22050,
		FramePeriodMS: 5.0,
	}
	sourceF0 := []float64{220, 240}

	got := Transfer(sourceF0, target)

	if got.Frames() != target.Frames() {
		t.Fatalf("frame count mismatch: got %d want %d", got.Frames(), target.Frames())
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("transferred parameters invalid: %v", err)
	}
	for i := range got.F0 {
		if got.F0[i] != sourceF0[i%2] {
			t.Fatalf("pitch mismatch at frame %d: got %f", i, got.F0[i])
		}
	}
	for i := range got.Envelope {
		for k := range got.Envelope[i] {
			if got.Envelope[i][k] != target.Envelope[i][k] {
				t.Fatalf("envelope changed at frame %d bin %d", i, k)
			}
			if got.Aperiodicity[i][k] != target.Aperiodicity[i][k] {
				t.Fatalf("aperiodicity changed at frame %d bin %d", i, k)
			}
		}
	}
	if got.SampleRate != target.SampleRate || got.FramePeriodMS != target.FramePeriodMS {
		t.Fatalf("framing metadata changed: %d Hz / %f ms", got.SampleRate, got.FramePeriodMS)
	}
}

func TestAnalyzeContour(t *testing.T) {
	f0 := []float64{0, 200, 220, 0, 180, 0}

	stats := AnalyzeContour(f0)

	if math.Abs(stats.MeanHz-200) > 1e-9 {
		t.Fatalf("mean mismatch: got %f want 200", stats.MeanHz)
	}
	if math.Abs(stats.VoicedRatio-0.5) > 1e-9 {
		t.Fatalf("voiced ratio mismatch: got %f want 0.5", stats.VoicedRatio)
	}
	if stats.MinHz != 180 || stats.MaxHz != 220 {
		t.Fatalf("range mismatch: got [%f, %f]", stats.MinHz, stats.MaxHz)
	}
}

func TestAnalyzeContourAllUnvoiced(t *testing.T) {
	stats := AnalyzeContour([]float64{0, 0, 0})
	if stats.VoicedRatio != 0 || stats.MeanHz != 0 || stats.MinHz != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
