package models

const (
	SymbolBTC  = "BTC-USD"
	SymbolTSLA = "TSLA"
)

// DefaultAnchors are the symbols that decide the first usable date.
func DefaultAnchors() []string {
	return []string{SymbolBTC, SymbolTSLA}
}

// DefaultWeights is the reference basket: half bitcoin, half big tech.
func DefaultWeights() WeightMap {
	return WeightMap{
		SymbolBTC: 0.5,
		"MSFT":    0.1,
		"AAPL":    0.1,
		"GOOGL":   0.1,
		"AMZN":    0.1,
		"META":    0.05,
		"NVDA":    0.05,
	}
}

// DefaultCycleCalendar holds the bitcoin cycle tops and bottoms drawn on the chart.
func DefaultCycleCalendar() CycleCalendar {
	return CycleCalendar{
		Tops:    []string{"2017-12-17", "2021-11-10"},
		Bottoms: []string{"2018-12-15", "2022-06-18"},
	}
}
