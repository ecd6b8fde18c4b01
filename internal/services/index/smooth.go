package index

import (
	"math"

	"btcmag7/internal/domain/models"
)

// TrailingMean returns the mean of the window values ending at each position.
// Positions with fewer than window preceding values, or with NaN inside the
// window, are NaN.
func TrailingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		defined := true
		for _, v := range values[i-window+1 : i+1] {
			if math.IsNaN(v) {
				defined = false
				break
			}
			sum += v
		}
		if defined {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Smooth applies the smoothing window to the composite, derives the moving
// averages over the smoothed index, then drops the warm-up rows where the
// smoothed index is undefined.
func Smooth(composite *models.CompositeSeries, smoothWindow int, ma MAWindows) *models.SmoothedSeries {
	idx := TrailingMean(composite.Values, smoothWindow)
	short := TrailingMean(idx, ma.Short)
	medium := TrailingMean(idx, ma.Medium)
	long := TrailingMean(idx, ma.Long)

	out := &models.SmoothedSeries{}
	for i, v := range idx {
		if math.IsNaN(v) {
			continue
		}
		out.Dates = append(out.Dates, composite.Dates[i])
		out.Index = append(out.Index, v)
		out.MA100 = append(out.MA100, short[i])
		out.MA150 = append(out.MA150, medium[i])
		out.MA200 = append(out.MA200, long[i])
	}
	return out
}
