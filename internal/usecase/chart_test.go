package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"btcmag7/internal/domain/models"
	"btcmag7/internal/services/index"
)

var start = time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)

func records(n int) []models.PriceRecord {
	syms := []string{"BTC-USD", "TSLA", "MSFT", "AAPL", "GOOGL", "AMZN", "META", "NVDA"}
	out := make([]models.PriceRecord, n)
	for i := range out {
		prices := make(map[string]float64, len(syms))
		for j, s := range syms {
			prices[s] = 100 + float64(i*(j+1))
		}
		out[i] = models.PriceRecord{Date: start.AddDate(0, 0, i).Format(models.DateLayout), Prices: prices}
	}
	return out
}

func newChart(src *fakeSource, store *fakeStore, m *countingMetrics) *ChartUseCase {
	p := index.DefaultParams()
	return NewChartUseCase(NewResolver(src, store, m, p), store, m, p, nil)
}

func TestColdStartWritesSnapshotOnce(t *testing.T) {
	src := &fakeSource{records: records(30)}
	store := &fakeStore{}
	m := newCountingMetrics()
	uc := newChart(src, store, m)

	first, err := uc.Build(context.Background())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := uc.Build(context.Background())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if store.writes != 1 {
		t.Fatalf("snapshot writes = %d, want 1", store.writes)
	}
	if src.calls != 1 {
		t.Fatalf("source fetches = %d, want 1", src.calls)
	}
	if m.snapshots["miss"] != 1 || m.snapshots["hit"] != 1 {
		t.Fatalf("unexpected snapshot events %v", m.snapshots)
	}
	if len(first.Dates) != 24 || len(second.Dates) != len(first.Dates) {
		t.Fatalf("dates %d / %d, want 24", len(first.Dates), len(second.Dates))
	}
	for i := range first.IndexValues {
		if *first.IndexValues[i] != *second.IndexValues[i] {
			t.Fatalf("row %d differs between runs", i)
		}
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := &fakeSource{records: records(10)}
	store := &fakeStore{}
	uc := newChart(src, store, newCountingMetrics())

	if _, err := uc.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := uc.InvalidateSnapshot(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if ok, _ := uc.SnapshotExists(context.Background()); ok {
		t.Fatalf("snapshot still present after invalidation")
	}
	if _, err := uc.Build(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if src.calls != 2 || store.writes != 2 {
		t.Fatalf("calls=%d writes=%d, want 2/2", src.calls, store.writes)
	}
}

func TestCorruptSnapshotDoesNotFallBack(t *testing.T) {
	src := &fakeSource{records: records(10)}
	store := &fakeStore{loadErr: models.CacheCorruptError(nil, "bad header")}
	m := newCountingMetrics()
	uc := newChart(src, store, m)

	_, err := uc.Build(context.Background())
	if !errors.Is(err, models.ErrCacheCorrupt) {
		t.Fatalf("expected cache corrupt, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("source should not be called, got %d calls", src.calls)
	}
	if m.errors["cache_corrupt"] != 1 || m.runs["error"] != 1 {
		t.Fatalf("unexpected metrics %v %v", m.errors, m.runs)
	}
}

func TestSnapshotMissingWeightedColumn(t *testing.T) {
	tbl := &models.PriceTable{
		Dates:   []time.Time{start, start.AddDate(0, 0, 1)},
		Symbols: []string{"BTC-USD", "TSLA"},
		Columns: map[string][]float64{"BTC-USD": {1, 2}, "TSLA": {1, 2}},
	}
	uc := newChart(&fakeSource{}, &fakeStore{table: tbl}, newCountingMetrics())
	_, err := uc.Build(context.Background())
	if !errors.Is(err, models.ErrCacheCorrupt) {
		t.Fatalf("expected cache corrupt, got %v", err)
	}
}

func TestSnapshotWithGapIsDataQualityError(t *testing.T) {
	tbl, err := index.Align(records(10), []string{"BTC-USD", "TSLA"})
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	tbl.Columns["META"][4] = math.NaN()

	uc := newChart(&fakeSource{}, &fakeStore{table: tbl}, newCountingMetrics())
	_, err = uc.Build(context.Background())
	if !errors.Is(err, models.ErrDataQuality) {
		t.Fatalf("expected data quality error, got %v", err)
	}
}

func TestSourceFailurePropagates(t *testing.T) {
	cause := errors.New("connection refused")
	src := &fakeSource{err: models.SourceUnavailableError(cause, "fetch daily data")}
	store := &fakeStore{}
	uc := newChart(src, store, newCountingMetrics())

	_, err := uc.Build(context.Background())
	if !errors.Is(err, models.ErrSourceUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("no snapshot should be written on failure")
	}
}

func TestFetchTimeoutApplied(t *testing.T) {
	src := &deadlineSource{}
	store := &fakeStore{}
	m := newCountingMetrics()
	r := NewResolver(src, store, m, index.DefaultParams(), WithFetchTimeout(time.Minute))
	_, _ = r.Resolve(context.Background())
	if !src.sawDeadline {
		t.Fatalf("fetch context carried no deadline")
	}
}

type deadlineSource struct{ sawDeadline bool }

func (d *deadlineSource) Fetch(ctx context.Context) ([]models.PriceRecord, error) {
	_, d.sawDeadline = ctx.Deadline()
	return records(10), nil
}

func (d *deadlineSource) Close() error { return nil }
