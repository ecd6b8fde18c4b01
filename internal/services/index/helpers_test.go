package index

import (
	"math"
	"testing"
	"time"

	"btcmag7/internal/domain/models"
)

var day0 = time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f)", label, got, want, tol)
	}
}

func dayString(i int) string {
	return day0.AddDate(0, 0, i).Format(models.DateLayout)
}

// basket returns n consecutive daily records carrying every weighted symbol
// and TSLA, priced by px(symbol, day).
func basket(n int, px func(sym string, i int) float64) []models.PriceRecord {
	syms := append(models.DefaultAnchors(), "MSFT", "AAPL", "GOOGL", "AMZN", "META", "NVDA")
	out := make([]models.PriceRecord, n)
	for i := range out {
		prices := make(map[string]float64, len(syms))
		for _, s := range syms {
			prices[s] = px(s, i)
		}
		out[i] = models.PriceRecord{Date: dayString(i), Prices: prices}
	}
	return out
}

func flat(string, int) float64 { return 100 }

func mustAlign(t *testing.T, recs []models.PriceRecord) *models.PriceTable {
	t.Helper()
	tbl, err := Align(recs, models.DefaultAnchors())
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	return tbl
}
