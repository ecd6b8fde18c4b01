package index

import (
	"math"
	"sort"

	"btcmag7/internal/domain/models"
)

// Base is the value every normalized series starts at.
const Base = 100.0

// Normalize rebases every column to Base at the table's first row.
// A column missing at the first row stays missing throughout.
func Normalize(table *models.PriceTable) *models.PriceTable {
	out := &models.PriceTable{
		Dates:   table.Dates,
		Symbols: table.Symbols,
		Columns: make(map[string][]float64, len(table.Columns)),
	}
	for sym, col := range table.Columns {
		norm := make([]float64, len(col))
		if len(col) == 0 || math.IsNaN(col[0]) || col[0] == 0 {
			for i := range norm {
				norm[i] = math.NaN()
			}
			out.Columns[sym] = norm
			continue
		}
		base := col[0]
		for i, px := range col {
			if i == 0 {
				norm[i] = Base
				continue
			}
			norm[i] = px / base * Base
		}
		out.Columns[sym] = norm
	}
	return out
}

// Build computes the weighted composite of the normalized table.
// Every weighted column must be present and fully populated.
func Build(table *models.PriceTable, weights models.WeightMap) (*models.CompositeSeries, error) {
	if table.Len() == 0 {
		return nil, models.DataQualityError("price table is empty")
	}
	for _, sym := range sortedKeys(weights) {
		if weights[sym] < 0 {
			return nil, models.DataQualityError("negative weight %v for %s", weights[sym], sym)
		}
		col, ok := table.Column(sym)
		if !ok {
			return nil, models.DataQualityError("weighted column %s missing from price table", sym)
		}
		if col[0] == 0 {
			return nil, models.DataQualityError("weighted column %s has zero base price on %s",
				sym, table.Dates[0].Format(models.DateLayout))
		}
		for i, px := range col {
			if math.IsNaN(px) {
				return nil, models.DataQualityError("weighted column %s has no price on %s",
					sym, table.Dates[i].Format(models.DateLayout))
			}
		}
	}

	norm := Normalize(table)
	values := make([]float64, table.Len())
	for _, sym := range sortedKeys(weights) {
		w := weights[sym]
		for i, v := range norm.Columns[sym] {
			values[i] += v * w
		}
	}
	return &models.CompositeSeries{Dates: table.Dates, Values: values}, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
