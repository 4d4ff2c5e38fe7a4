package dsp

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("mean: got %f want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Fatalf("mean of empty: got %f want 0", got)
	}
}

func TestStandardDeviation(t *testing.T) {
	// Sample std dev of {2, 4, 4, 4, 5, 5, 7, 9} is sqrt(32/7)
	got := StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("std dev: got %f want %f", got, want)
	}

	if StandardDeviation([]float64{5}) != 0 {
		t.Fatal("std dev of single value must be 0")
	}
}

func TestRMS(t *testing.T) {
	if got := RMS([]float64{3, -4}); math.Abs(got-math.Sqrt(12.5)) > 1e-12 {
		t.Fatalf("rms: got %f", got)
	}
	if RMS(nil) != 0 {
		t.Fatal("rms of empty must be 0")
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{0.1, -0.9, 0.5}); got != 0.9 {
		t.Fatalf("max abs: got %f want 0.9", got)
	}
	if MaxAbs(nil) != 0 {
		t.Fatal("max abs of empty must be 0")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Fatal("clamp bounds wrong")
	}
}
