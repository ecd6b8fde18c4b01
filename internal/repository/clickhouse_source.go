package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"btcmag7/internal/domain/models"
	domrepo "btcmag7/internal/domain/repository"
	pkgch "btcmag7/pkg/clickhouse"
	applogger "btcmag7/pkg/logger"
	"btcmag7/pkg/util"
)

// DailyCloseSchema creates the long-format table the ClickHouse source reads.
func DailyCloseSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			day    Date,
			symbol LowCardinality(String),
			close  Nullable(Float64)
		) ENGINE = ReplacingMergeTree ORDER BY (symbol, day)`, database, table),
	}
}

// CHRecordSource reads daily closes from a ClickHouse table with one row per
// (day, symbol) and pivots them into one record per day.
type CHRecordSource struct {
	ch    *pkgch.Client
	table string
	l     *applogger.Logger
}

func NewCHRecordSource(ch *pkgch.Client, table string) *CHRecordSource {
	return &CHRecordSource{ch: ch, table: table}
}

var _ domrepo.RecordSource = (*CHRecordSource)(nil)

// SetLogger injects a structured logger.
func (s *CHRecordSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHRecordSource) Fetch(ctx context.Context) ([]models.PriceRecord, error) {
	start := time.Now()
	q := fmt.Sprintf(`SELECT toString(day), symbol, close FROM %s FINAL ORDER BY day ASC`, s.table)
	rows, err := s.ch.DB().QueryContext(ctx, q)
	if err != nil {
		s.logError("clickhouse daily_close query error", err)
		return nil, models.SourceUnavailableError(err, "query %s", s.table)
	}
	defer rows.Close()

	var cells []dailyClose
	for rows.Next() {
		var (
			c  dailyClose
			px sql.NullFloat64
		)
		if err := rows.Scan(&c.day, &c.symbol, &px); err != nil {
			s.logError("clickhouse daily_close scan error", err)
			return nil, models.SourceUnavailableError(err, "scan %s", s.table)
		}
		c.close = math.NaN()
		if px.Valid {
			c.close = px.Float64
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		s.logError("clickhouse daily_close rows error", err)
		return nil, models.SourceUnavailableError(err, "iterate %s", s.table)
	}

	out, err := pivotDailyCloses(cells)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse daily closes read",
			applogger.String("table", s.table),
			applogger.Int("rows", len(cells)),
			applogger.Int("days", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHRecordSource) Close() error {
	return s.ch.Close()
}

func (s *CHRecordSource) logError(msg string, err error) {
	if s.l != nil {
		s.l.Error(msg, applogger.String("table", s.table), applogger.Error(err))
	}
}

type dailyClose struct {
	day    string
	symbol string
	close  float64
}

// pivotDailyCloses groups long-format rows into one record per day, keeping
// the first-seen day order.
func pivotDailyCloses(cells []dailyClose) ([]models.PriceRecord, error) {
	idx := make(map[string]int)
	var out []models.PriceRecord
	for _, c := range cells {
		day, ok := util.ParseDay(c.day)
		if !ok {
			return nil, models.SourceUnavailableError(nil, "malformed row: bad day %q for %s", c.day, c.symbol)
		}
		key := util.FormatDay(day)
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, models.PriceRecord{Date: key, Prices: map[string]float64{}})
		}
		out[i].Prices[c.symbol] = c.close
	}
	return out, nil
}
