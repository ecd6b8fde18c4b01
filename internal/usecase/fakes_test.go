package usecase

import (
	"context"
	"sync"

	"btcmag7/internal/domain/models"
)

type fakeSource struct {
	records []models.PriceRecord
	err     error
	calls   int
}

func (f *fakeSource) Fetch(context.Context) ([]models.PriceRecord, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeSource) Close() error { return nil }

type fakeStore struct {
	mu      sync.Mutex
	table   *models.PriceTable
	loadErr error
	writes  int
}

func (f *fakeStore) Load(context.Context) (*models.PriceTable, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return f.table, f.table != nil, nil
}

func (f *fakeStore) Store(_ context.Context, t *models.PriceTable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = t
	f.writes++
	return nil
}

func (f *fakeStore) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = nil
	return nil
}

func (f *fakeStore) Exists(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.table != nil, nil
}

type countingMetrics struct {
	runs      map[string]int
	errors    map[string]int
	snapshots map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{runs: map[string]int{}, errors: map[string]int{}, snapshots: map[string]int{}}
}

func (m *countingMetrics) RecordRun(outcome string) { m.runs[outcome]++ }
func (m *countingMetrics) RecordError(kind string) { m.errors[kind]++ }
func (m *countingMetrics) RecordSnapshot(event string) { m.snapshots[event]++ }
func (m *countingMetrics) RecordLatency(string, float64) {}
func (m *countingMetrics) RecordRecordsFetched(int) {}
func (m *countingMetrics) RecordLastValue(string, float64) {}
