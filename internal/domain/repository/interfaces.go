package repository

import (
	"context"

	"btcmag7/internal/domain/models"
)

// RecordSource reads the full daily price collection from the remote store.
type RecordSource interface {
	Fetch(ctx context.Context) ([]models.PriceRecord, error)
	Close() error
}

// SnapshotStore persists the single aligned PriceTable reused across requests.
// Load reports ok=false when no snapshot exists.
type SnapshotStore interface {
	Load(ctx context.Context) (table *models.PriceTable, ok bool, err error)
	Store(ctx context.Context, table *models.PriceTable) error
	Invalidate(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}

type Metrics interface {
	RecordRun(outcome string)
	RecordError(kind string)
	RecordSnapshot(event string)
	RecordLatency(stage string, seconds float64)
	RecordRecordsFetched(n int)
	RecordLastValue(series string, value float64)
}
