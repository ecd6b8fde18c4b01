package usecase

import (
	"context"
	"fmt"
	"time"

	"btcmag7/internal/domain/models"
	drepo "btcmag7/internal/domain/repository"
	"btcmag7/internal/services/index"
	applogger "btcmag7/pkg/logger"
)

// Resolver returns the aligned price table, preferring the stored snapshot
// over a full fetch from the remote store.
type Resolver struct {
	source   drepo.RecordSource
	store    drepo.SnapshotStore
	metrics  drepo.Metrics
	l        *applogger.Logger
	anchors  []string
	required []string
	timeout  time.Duration
}

// ResolverOption configures Resolver.
type ResolverOption func(*Resolver)

// WithFetchTimeout bounds the remote fetch. Zero leaves it unbounded.
func WithFetchTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithResolverLogger injects a structured logger.
func WithResolverLogger(l *applogger.Logger) ResolverOption {
	return func(r *Resolver) { r.l = l }
}

// NewResolver creates a Resolver for the given index parameters.
func NewResolver(
	source drepo.RecordSource,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	p index.Params,
	opts ...ResolverOption,
) *Resolver {
	r := &Resolver{
		source:   source,
		store:    store,
		metrics:  metrics,
		anchors:  p.Anchors,
		required: p.RequiredColumns(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve loads the snapshot if one exists; otherwise it fetches, aligns and
// stores a fresh table. An existing but unusable snapshot is an error.
func (r *Resolver) Resolve(ctx context.Context) (*models.PriceTable, error) {
	start := time.Now()
	table, ok, err := r.store.Load(ctx)
	r.observe("snapshot_load", start)
	if err != nil {
		r.metrics.RecordSnapshot("corrupt")
		return nil, err
	}
	if ok {
		r.metrics.RecordSnapshot("hit")
		if err := r.validate(table); err != nil {
			r.metrics.RecordSnapshot("corrupt")
			return nil, err
		}
		r.debug("snapshot hit", applogger.Int("rows", table.Len()))
		return table, nil
	}
	r.metrics.RecordSnapshot("miss")

	fetchCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start = time.Now()
	records, err := r.source.Fetch(fetchCtx)
	r.observe("fetch", start)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordRecordsFetched(len(records))

	start = time.Now()
	table, err = index.Align(records, r.anchors)
	r.observe("align", start)
	if err != nil {
		return nil, err
	}

	if err := r.store.Store(ctx, table); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	r.metrics.RecordSnapshot("write")
	r.info("snapshot written",
		applogger.Int("records", len(records)),
		applogger.Int("rows", table.Len()),
		applogger.Int("symbols", len(table.Symbols)),
	)
	return table, nil
}

func (r *Resolver) validate(table *models.PriceTable) error {
	if table.Len() == 0 {
		return models.CacheCorruptError(nil, "snapshot has no rows")
	}
	for i := 1; i < len(table.Dates); i++ {
		if !table.Dates[i].After(table.Dates[i-1]) {
			return models.CacheCorruptError(nil, "snapshot dates not strictly increasing at row %d", i)
		}
	}
	for _, sym := range r.required {
		col, ok := table.Column(sym)
		if !ok {
			return models.CacheCorruptError(nil, "snapshot missing column %s", sym)
		}
		if len(col) != table.Len() {
			return models.CacheCorruptError(nil, "snapshot column %s has %d rows, want %d", sym, len(col), table.Len())
		}
	}
	return nil
}

func (r *Resolver) observe(stage string, start time.Time) {
	r.metrics.RecordLatency(stage, time.Since(start).Seconds())
}

func (r *Resolver) info(msg string, fields ...applogger.Field) {
	if r.l != nil {
		r.l.Info(msg, fields...)
	}
}

func (r *Resolver) debug(msg string, fields ...applogger.Field) {
	if r.l != nil {
		r.l.Debug(msg, fields...)
	}
}
