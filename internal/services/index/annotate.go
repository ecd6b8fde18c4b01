package index

import (
	"btcmag7/internal/domain/models"
	"btcmag7/pkg/util"
)

// Annotate looks up each calendar date in the un-smoothed composite.
// Dates outside the series, or unparseable, are skipped.
func Annotate(composite *models.CompositeSeries, calendar models.CycleCalendar) models.CycleMarkers {
	return models.CycleMarkers{
		Tops:    markers(composite, calendar.Tops),
		Bottoms: markers(composite, calendar.Bottoms),
	}
}

func markers(composite *models.CompositeSeries, dates []string) []models.CycleMarker {
	out := make([]models.CycleMarker, 0, len(dates))
	for _, s := range dates {
		day, ok := util.ParseDay(s)
		if !ok {
			continue
		}
		v, ok := composite.Lookup(day)
		if !ok {
			continue
		}
		out = append(out, models.CycleMarker{Date: util.FormatDay(day), Value: v})
	}
	return out
}
