package index

import (
	"math"
	"sort"
	"time"

	"btcmag7/internal/domain/models"
	"btcmag7/pkg/util"
)

// Align turns raw records into a PriceTable that starts at the first date where
// every anchor has a price, with each column forward-filled from its first observation.
func Align(records []models.PriceRecord, anchors []string) (*models.PriceTable, error) {
	if len(anchors) == 0 {
		return nil, models.DataQualityError("no anchor symbols configured")
	}

	rows := make(map[time.Time]map[string]float64, len(records))
	symbols := make(map[string]struct{})
	for i, rec := range records {
		day, ok := util.ParseDay(rec.Date)
		if !ok {
			return nil, models.SourceUnavailableError(nil, "malformed record %d: unparseable date %q", i, rec.Date)
		}
		row, ok := rows[day]
		if !ok {
			row = make(map[string]float64, len(rec.Prices))
			rows[day] = row
		}
		// later records for the same day override earlier ones, except with gaps
		for sym, px := range rec.Prices {
			symbols[sym] = struct{}{}
			if math.IsNaN(px) {
				if _, seen := row[sym]; !seen {
					row[sym] = px
				}
				continue
			}
			row[sym] = px
		}
	}

	dates := make([]time.Time, 0, len(rows))
	for d := range rows {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	start := -1
	for i, d := range dates {
		if hasAll(rows[d], anchors) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, models.DataQualityError("no date where all anchors %v have prices", anchors)
	}
	dates = dates[start:]

	cols := make([]string, 0, len(symbols))
	for s := range symbols {
		cols = append(cols, s)
	}
	sort.Strings(cols)

	table := &models.PriceTable{
		Dates:   dates,
		Symbols: cols,
		Columns: make(map[string][]float64, len(cols)),
	}
	for _, sym := range cols {
		series := make([]float64, len(dates))
		last := math.NaN()
		for i, d := range dates {
			if px, ok := rows[d][sym]; ok && !math.IsNaN(px) {
				last = px
			}
			series[i] = last
		}
		table.Columns[sym] = series
	}
	return table, nil
}

func hasAll(row map[string]float64, symbols []string) bool {
	for _, s := range symbols {
		px, ok := row[s]
		if !ok || math.IsNaN(px) {
			return false
		}
	}
	return true
}
