package models

import (
	"math"
	"time"
)

const (
	// DateField is the record field and snapshot column carrying the calendar date.
	DateField = "Date"
	// DateLayout is the wire format of every date the service emits.
	DateLayout = "2006-01-02"
)

// PriceRecord is one calendar date of closing prices as read from a source.
// A symbol absent from Prices, or mapped to NaN, is missing for that date.
type PriceRecord struct {
	Date   string
	Prices map[string]float64
}

// PriceTable is a date-ordered, column-per-symbol price table.
// Missing cells hold NaN. Tables are built once and treated as read-only.
type PriceTable struct {
	Dates   []time.Time
	Symbols []string
	Columns map[string][]float64
}

// Len returns the number of rows.
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// Column returns the series for symbol and whether the table carries it.
func (t *PriceTable) Column(symbol string) ([]float64, bool) {
	col, ok := t.Columns[symbol]
	return col, ok
}

// Value returns the price of symbol at row i and whether it is present.
func (t *PriceTable) Value(symbol string, i int) (float64, bool) {
	col, ok := t.Columns[symbol]
	if !ok || i < 0 || i >= len(col) || math.IsNaN(col[i]) {
		return math.NaN(), false
	}
	return col[i], true
}

// DateStrings renders the table dates in DateLayout.
func (t *PriceTable) DateStrings() []string {
	out := make([]string, len(t.Dates))
	for i, d := range t.Dates {
		out[i] = d.Format(DateLayout)
	}
	return out
}

// WeightMap maps a symbol to its non-negative weight in the composite.
type WeightMap map[string]float64

// CompositeSeries is the un-smoothed weighted index, one value per date.
type CompositeSeries struct {
	Dates  []time.Time
	Values []float64
}

// Lookup returns the composite value at the exact calendar date.
func (s *CompositeSeries) Lookup(date time.Time) (float64, bool) {
	key := date.Format(DateLayout)
	for i, d := range s.Dates {
		if d.Format(DateLayout) == key {
			return s.Values[i], true
		}
	}
	return 0, false
}

// SmoothedSeries holds the smoothed index and its moving averages.
// NaN marks a value with insufficient history.
type SmoothedSeries struct {
	Dates []time.Time
	Index []float64
	MA100 []float64
	MA150 []float64
	MA200 []float64
}

// Len returns the number of rows.
func (s *SmoothedSeries) Len() int { return len(s.Dates) }
