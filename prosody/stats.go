package prosody

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ContourStats summarizes the voiced portion of a pitch contour
type ContourStats struct {
	MeanHz      float64 `json:"mean_hz"`
	StdDevHz    float64 `json:"std_dev_hz"`
	MinHz       float64 `json:"min_hz"`
	MaxHz       float64 `json:"max_hz"`
	VoicedRatio float64 `json:"voiced_ratio"`
}

// AnalyzeContour computes summary statistics over the voiced (non-zero)
// frames of a pitch contour
func AnalyzeContour(f0 []float64) ContourStats {
	var stats ContourStats
	if len(f0) == 0 {
		return stats
	}

	voiced := make([]float64, 0, len(f0))
	stats.MinHz = math.Inf(1)
	for _, v := range f0 {
		if v <= 0 {
			continue
		}
		voiced = append(voiced, v)
		if v < stats.MinHz {
			stats.MinHz = v
		}
		if v > stats.MaxHz {
			stats.MaxHz = v
		}
	}

	if len(voiced) == 0 {
		stats.MinHz = 0
		return stats
	}

	stats.VoicedRatio = float64(len(voiced)) / float64(len(f0))
	stats.MeanHz = stat.Mean(voiced, nil)
	if len(voiced) > 1 {
		stats.StdDevHz = math.Sqrt(stat.Variance(voiced, nil))
	}

	return stats
}
