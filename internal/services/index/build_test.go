package index

import (
	"errors"
	"math"
	"testing"

	"btcmag7/internal/domain/models"
)

func TestNormalizeBaseRowIs100(t *testing.T) {
	recs := basket(5, func(sym string, i int) float64 {
		return float64(len(sym)*7) + float64(i)*1.3
	})
	recs[0].Prices["XRP"] = math.NaN()
	recs[2].Prices["XRP"] = 0.5
	norm := Normalize(mustAlign(t, recs))

	for sym, col := range norm.Columns {
		if sym == "XRP" {
			for i, v := range col {
				if !math.IsNaN(v) {
					t.Errorf("XRP row %d = %v, want missing", i, v)
				}
			}
			continue
		}
		if col[0] != 100 {
			t.Errorf("%s base = %v, want exactly 100", sym, col[0])
		}
	}
}

func TestBuildWeightedSum(t *testing.T) {
	// BTC doubles, everything else flat: composite = 0.5*200 + 0.5*100
	recs := basket(3, func(sym string, i int) float64 {
		if sym == models.SymbolBTC {
			return 1000 * float64(i+1)
		}
		return 50
	})
	comp, err := Build(mustAlign(t, recs), models.DefaultWeights())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []float64{100, 150, 200}
	for i, w := range want {
		assertClose(t, "composite", comp.Values[i], w, 1e-9)
	}
}

func TestBuildAnchorsOnlyIsDataQualityError(t *testing.T) {
	recs := make([]models.PriceRecord, 10)
	for i := range recs {
		recs[i] = models.PriceRecord{
			Date:   dayString(i),
			Prices: map[string]float64{"BTC-USD": 100, "TSLA": 100},
		}
	}
	tbl := mustAlign(t, recs)
	_, err := Build(tbl, models.DefaultWeights())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error, got %v", err)
	}
}

func TestBuildGapInWeightedColumn(t *testing.T) {
	recs := basket(4, flat)
	recs[0].Prices["NVDA"] = math.NaN()
	_, err := Build(mustAlign(t, recs), models.DefaultWeights())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error, got %v", err)
	}
}

func TestBuildZeroBasePrice(t *testing.T) {
	recs := basket(4, flat)
	recs[0].Prices["AAPL"] = 0
	_, err := Build(mustAlign(t, recs), models.DefaultWeights())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error, got %v", err)
	}
}

func TestBuildIgnoresUnweightedColumns(t *testing.T) {
	recs := basket(3, flat)
	for i := range recs {
		recs[i].Prices["DOGE"] = float64(i + 1)
	}
	comp, err := Build(mustAlign(t, recs), models.DefaultWeights())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, v := range comp.Values {
		assertClose(t, "composite", v, 100, 1e-9)
	}
}
