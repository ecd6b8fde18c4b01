package index

import "btcmag7/internal/domain/models"

// Params carries the fixed configuration of the index computation.
type Params struct {
	Anchors      []string
	Weights      models.WeightMap
	SmoothWindow int
	MAWindows    MAWindows
	Calendar     models.CycleCalendar
}

// MAWindows are the trailing windows applied over the smoothed index.
type MAWindows struct {
	Short  int
	Medium int
	Long   int
}

// DefaultParams is the reference BTC vs. Mag7 configuration.
func DefaultParams() Params {
	return Params{
		Anchors:      models.DefaultAnchors(),
		Weights:      models.DefaultWeights(),
		SmoothWindow: 7,
		MAWindows:    MAWindows{Short: 100, Medium: 150, Long: 200},
		Calendar:     models.DefaultCycleCalendar(),
	}
}

// RequiredColumns lists every column a usable table must carry.
func (p Params) RequiredColumns() []string {
	seen := make(map[string]struct{}, len(p.Anchors)+len(p.Weights))
	out := make([]string, 0, len(p.Anchors)+len(p.Weights))
	for _, s := range p.Anchors {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range sortedKeys(p.Weights) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
