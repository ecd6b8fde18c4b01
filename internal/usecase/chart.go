package usecase

import (
	"context"
	"time"

	"btcmag7/internal/domain/models"
	drepo "btcmag7/internal/domain/repository"
	"btcmag7/internal/services/index"
	applogger "btcmag7/pkg/logger"
)

// TableResolver yields the aligned price table for one request.
type TableResolver interface {
	Resolve(ctx context.Context) (*models.PriceTable, error)
}

// ChartUseCase recomputes the chart payload from the aligned table on every call.
type ChartUseCase struct {
	resolver TableResolver
	store    drepo.SnapshotStore
	metrics  drepo.Metrics
	params   index.Params
	l        *applogger.Logger
}

func NewChartUseCase(resolver TableResolver, store drepo.SnapshotStore, metrics drepo.Metrics, p index.Params, l *applogger.Logger) *ChartUseCase {
	return &ChartUseCase{resolver: resolver, store: store, metrics: metrics, params: p, l: l}
}

// Build runs the pipeline and stops at the first failing stage.
func (uc *ChartUseCase) Build(ctx context.Context) (*models.ChartResponse, error) {
	started := time.Now()
	resp, err := uc.build(ctx)
	uc.metrics.RecordLatency("total", time.Since(started).Seconds())
	if err != nil {
		uc.metrics.RecordRun("error")
		uc.metrics.RecordError(models.ErrorKind(err))
		return nil, err
	}
	uc.metrics.RecordRun("ok")
	return resp, nil
}

func (uc *ChartUseCase) build(ctx context.Context) (*models.ChartResponse, error) {
	table, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	composite, err := index.Build(table, uc.params.Weights)
	uc.metrics.RecordLatency("build", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	start = time.Now()
	smoothed := index.Smooth(composite, uc.params.SmoothWindow, uc.params.MAWindows)
	uc.metrics.RecordLatency("smooth", time.Since(start).Seconds())

	marks := index.Annotate(composite, uc.params.Calendar)
	resp := index.Respond(smoothed, marks)

	if n := smoothed.Len(); n > 0 {
		uc.metrics.RecordLastValue("index", smoothed.Index[n-1])
		uc.metrics.RecordLastValue("composite", composite.Values[len(composite.Values)-1])
	}
	if uc.l != nil {
		uc.l.Debug("chart built",
			applogger.Int("rows", len(resp.Dates)),
			applogger.Int("tops", len(resp.Tops)),
			applogger.Int("bottoms", len(resp.Bottoms)),
		)
	}
	return resp, nil
}

// InvalidateSnapshot drops the stored table so the next request refetches.
func (uc *ChartUseCase) InvalidateSnapshot(ctx context.Context) error {
	if err := uc.store.Invalidate(ctx); err != nil {
		return err
	}
	uc.metrics.RecordSnapshot("invalidate")
	if uc.l != nil {
		uc.l.Info("snapshot invalidated")
	}
	return nil
}

// SnapshotExists reports whether a snapshot is currently stored.
func (uc *ChartUseCase) SnapshotExists(ctx context.Context) (bool, error) {
	return uc.store.Exists(ctx)
}
