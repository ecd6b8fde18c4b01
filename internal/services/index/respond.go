package index

import (
	"math"

	"btcmag7/internal/domain/models"
	"btcmag7/pkg/util"
)

// Respond assembles the chart payload. Undefined values become nil.
func Respond(smoothed *models.SmoothedSeries, marks models.CycleMarkers) *models.ChartResponse {
	n := smoothed.Len()
	resp := &models.ChartResponse{
		Dates:       make([]string, n),
		IndexValues: nullable(smoothed.Index),
		MA200:       nullable(smoothed.MA200),
		MA150:       nullable(smoothed.MA150),
		MA100:       nullable(smoothed.MA100),
		Tops:        marks.Tops,
		Bottoms:     marks.Bottoms,
	}
	for i, d := range smoothed.Dates {
		resp.Dates[i] = util.FormatDay(d)
	}
	if resp.Tops == nil {
		resp.Tops = []models.CycleMarker{}
	}
	if resp.Bottoms == nil {
		resp.Bottoms = []models.CycleMarker{}
	}
	return resp
}

func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}
