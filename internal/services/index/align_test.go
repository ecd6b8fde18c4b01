package index

import (
	"errors"
	"math"
	"testing"

	"btcmag7/internal/domain/models"
)

func TestAlignTrimsToFirstAnchorDate(t *testing.T) {
	nan := math.NaN()
	recs := []models.PriceRecord{
		{Date: dayString(0), Prices: map[string]float64{"BTC-USD": 10}},
		{Date: dayString(1), Prices: map[string]float64{"BTC-USD": 11, "TSLA": nan, "MSFT": 5}},
		{Date: dayString(2), Prices: map[string]float64{"BTC-USD": 12, "TSLA": 20}},
		{Date: dayString(3), Prices: map[string]float64{"TSLA": 21, "MSFT": 6}},
	}
	tbl := mustAlign(t, recs)

	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if got := tbl.Dates[0].Format(models.DateLayout); got != dayString(2) {
		t.Fatalf("first date %s, want %s", got, dayString(2))
	}
	for _, a := range models.DefaultAnchors() {
		if _, ok := tbl.Value(a, 0); !ok {
			t.Errorf("anchor %s missing on first row", a)
		}
	}
	// MSFT seen before the valid start is not carried across the trim
	if _, ok := tbl.Value("MSFT", 0); ok {
		t.Errorf("MSFT should be missing on first row")
	}
	if v, _ := tbl.Value("MSFT", 1); v != 6 {
		t.Errorf("MSFT row 1 = %v, want 6", v)
	}
	if v, _ := tbl.Value("BTC-USD", 1); v != 12 {
		t.Errorf("BTC-USD row 1 should be forward-filled to 12, got %v", v)
	}
}

func TestAlignSortsAndMergesDuplicateDates(t *testing.T) {
	recs := []models.PriceRecord{
		{Date: dayString(2), Prices: map[string]float64{"BTC-USD": 3, "TSLA": 3}},
		{Date: dayString(0), Prices: map[string]float64{"BTC-USD": 1, "TSLA": 1}},
		{Date: dayString(1) + "T00:00:00Z", Prices: map[string]float64{"BTC-USD": 2}},
		{Date: dayString(1), Prices: map[string]float64{"TSLA": 2, "BTC-USD": math.NaN()}},
	}
	tbl := mustAlign(t, recs)

	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	for i := 1; i < tbl.Len(); i++ {
		if !tbl.Dates[i].After(tbl.Dates[i-1]) {
			t.Fatalf("dates not strictly increasing at %d", i)
		}
	}
	if v, _ := tbl.Value("BTC-USD", 1); v != 2 {
		t.Errorf("merged BTC-USD = %v, want 2", v)
	}
	if v, _ := tbl.Value("TSLA", 1); v != 2 {
		t.Errorf("merged TSLA = %v, want 2", v)
	}
}

func TestAlignWithoutAnchorOverlap(t *testing.T) {
	recs := []models.PriceRecord{
		{Date: dayString(0), Prices: map[string]float64{"BTC-USD": 1}},
		{Date: dayString(1), Prices: map[string]float64{"TSLA": 1}},
	}
	_, err := Align(recs, models.DefaultAnchors())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error, got %v", err)
	}

	_, err = Align(nil, models.DefaultAnchors())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error for empty input, got %v", err)
	}
}

func TestAlignMalformedDate(t *testing.T) {
	recs := []models.PriceRecord{
		{Date: "not-a-date", Prices: map[string]float64{"BTC-USD": 1, "TSLA": 1}},
	}
	_, err := Align(recs, models.DefaultAnchors())
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable error, got %v", err)
	}
}
