package smoothing

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/teslashibe/go-avatar/pkg/landmark"
)

// Average returns the per-landmark, per-axis arithmetic mean of samples.
// Visibility and presence are averaged the same way. Every mean is clamped to
// the [min, max] of its column so rounding in the summation can never leave
// the sampled range; N identical samples therefore average to that sample
// exactly. Samples shorter than the first one are ignored for the missing
// indices. Average returns nil for no samples.
func Average(samples []landmark.Frame) landmark.Frame {
	if len(samples) == 0 {
		return nil
	}
	size := len(samples[0])
	out := make(landmark.Frame, size)
	col := make([]float64, 0, len(samples))

	for i := 0; i < size; i++ {
		var lm landmark.Landmark
		lm.X = columnMean(samples, i, col, func(l landmark.Landmark) float64 { return l.X })
		lm.Y = columnMean(samples, i, col, func(l landmark.Landmark) float64 { return l.Y })
		lm.Z = columnMean(samples, i, col, func(l landmark.Landmark) float64 { return l.Z })
		lm.Visibility = columnMean(samples, i, col, func(l landmark.Landmark) float64 { return l.Visibility })
		lm.Presence = columnMean(samples, i, col, func(l landmark.Landmark) float64 { return l.Presence })
		out[i] = lm
	}
	return out
}

func columnMean(samples []landmark.Frame, idx int, col []float64, axis func(landmark.Landmark) float64) float64 {
	col = col[:0]
	for _, s := range samples {
		if idx < len(s) {
			col = append(col, axis(s[idx]))
		}
	}
	if len(col) == 0 {
		return 0
	}
	mean := stat.Mean(col, nil)
	lo, hi := floats.Min(col), floats.Max(col)
	if mean < lo {
		return lo
	}
	if mean > hi {
		return hi
	}
	return mean
}
