package di

import (
	"context"
	"fmt"
	"time"

	"btcmag7/internal/domain/repository"
	"btcmag7/internal/handler/api"
	internalrepo "btcmag7/internal/repository"
	"btcmag7/internal/service/ratelimit"
	"btcmag7/internal/services/index"
	"btcmag7/internal/usecase"
	pkgcache "btcmag7/pkg/cache"
	pkgch "btcmag7/pkg/clickhouse"
	"btcmag7/pkg/config"
	xhttp "btcmag7/pkg/http"
	applogger "btcmag7/pkg/logger"
	"btcmag7/pkg/metrics"
	"btcmag7/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideParams returns the fixed basket, anchors, windows and cycle calendar.
func ProvideParams() index.Params {
	return index.DefaultParams()
}

// ProvideRecordSource opens the configured remote price source.
func ProvideRecordSource(cfg *config.Config, l *applogger.Logger) (repository.RecordSource, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		src repository.RecordSource
		err error
	)
	switch cfg.Source.Type {
	case config.SourceClickHouse:
		src, err = provideClickHouseSource(ctx, cfg, l)
	default:
		fs := cfg.Source.Firestore
		var s *internalrepo.FirestoreSource
		s, err = internalrepo.NewFirestoreSource(ctx, fs.ProjectID, fs.CredentialsFile, fs.Collection)
		if err == nil {
			s.SetLogger(l)
			src = s
		}
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := src.Close(); err != nil {
			l.Warn("source close error", applogger.Error(err))
		}
	}
	return src, cleanup, nil
}

func provideClickHouseSource(ctx context.Context, cfg *config.Config, l *applogger.Logger) (repository.RecordSource, error) {
	ch := cfg.Source.ClickHouse
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithMaxConnections(4, 2),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if ch.InitSchema {
		if err := client.InitSchema(ctx, internalrepo.DailyCloseSchema(ch.Database, ch.Table)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}

	src := internalrepo.NewCHRecordSource(client, ch.Database+"."+ch.Table)
	src.SetLogger(l)
	return src, nil
}

// ProvideSnapshotStore opens the configured snapshot backend.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) (repository.SnapshotStore, func(), error) {
	sc := cfg.Snapshot
	closeWith := func(name string, fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				l.Warn("snapshot store close error", applogger.String("backend", name), applogger.Error(err))
			}
		}
	}

	switch sc.Backend {
	case config.SnapshotSQLite:
		s, err := internalrepo.NewSQLiteSnapshotStore(sc.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite snapshot: %w", err)
		}
		return s, closeWith(sc.Backend, s.Close), nil
	case config.SnapshotRedis:
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(sc.Redis.Host),
			pkgcache.WithRedisPort(sc.Redis.Port),
			pkgcache.WithRedisPassword(sc.Redis.Password),
			pkgcache.WithRedisDB(sc.Redis.DB),
			pkgcache.WithRedisPrefix(sc.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis snapshot: %w", err)
		}
		return internalrepo.NewCacheSnapshotStore(c, sc.Redis.Key), closeWith(sc.Backend, c.Close), nil
	case config.SnapshotMemory:
		c := pkgcache.NewMemoryCache()
		return internalrepo.NewCacheSnapshotStore(c, "snapshot"), closeWith(sc.Backend, c.Close), nil
	default:
		return internalrepo.NewFileSnapshotStore(sc.File.Path), func() {}, nil
	}
}

// ProvideResolver creates the snapshot-or-fetch table resolver.
func ProvideResolver(
	cfg *config.Config,
	source repository.RecordSource,
	store repository.SnapshotStore,
	m repository.Metrics,
	p index.Params,
	l *applogger.Logger,
) *usecase.Resolver {
	return usecase.NewResolver(source, store, m, p,
		usecase.WithFetchTimeout(cfg.Source.Timeout),
		usecase.WithResolverLogger(l),
	)
}

// ProvideChartUseCase creates the chart use case.
func ProvideChartUseCase(
	r *usecase.Resolver,
	store repository.SnapshotStore,
	m repository.Metrics,
	p index.Params,
	l *applogger.Logger,
) *usecase.ChartUseCase {
	return usecase.NewChartUseCase(r, store, m, p, l)
}

// ProvideChartHandler creates the Echo handler, throttled when configured.
func ProvideChartHandler(cfg *config.Config, uc *usecase.ChartUseCase, l *applogger.Logger) *api.ChartEchoHandler {
	h := api.NewChartEchoHandler(l, uc)
	if rl := cfg.Server.RateLimit; rl.Enabled {
		h.SetLimiter(ratelimit.New(rl.Burst, rl.RefillPerSec))
	}
	return h
}

// ProvideHTTPServer creates the Echo server around the chart handler.
func ProvideHTTPServer(cfg *config.Config, h *api.ChartEchoHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS.Enabled, cfg.Server.CORS.Origins...),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
