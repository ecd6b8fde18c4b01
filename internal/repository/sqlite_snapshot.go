package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"btcmag7/internal/domain/models"
	domrepo "btcmag7/internal/domain/repository"
	"btcmag7/pkg/util"

	_ "modernc.org/sqlite"
)

// SQLiteSnapshotStore keeps the snapshot in a SQLite file in long format:
// one row per (date, symbol), with the column list stored separately so
// symbols that are missing on every date survive a round trip.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

// NewSQLiteSnapshotStore opens (or creates) the database and its tables.
func NewSQLiteSnapshotStore(path string) (*SQLiteSnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteSnapshotStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

var _ domrepo.SnapshotStore = (*SQLiteSnapshotStore)(nil)

func (s *SQLiteSnapshotStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_columns (
			position INTEGER PRIMARY KEY,
			symbol   TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_prices (
			day    TEXT NOT NULL,
			symbol TEXT NOT NULL,
			price  REAL,
			PRIMARY KEY (day, symbol)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteSnapshotStore) Load(ctx context.Context) (*models.PriceTable, bool, error) {
	ok, err := s.Exists(ctx)
	if err != nil {
		return nil, false, models.CacheCorruptError(err, "read snapshot meta")
	}
	if !ok {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT symbol FROM snapshot_columns ORDER BY position`)
	if err != nil {
		return nil, false, models.CacheCorruptError(err, "read snapshot columns")
	}
	table := &models.PriceTable{Columns: map[string][]float64{}}
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			rows.Close()
			return nil, false, models.CacheCorruptError(err, "scan snapshot column")
		}
		table.Symbols = append(table.Symbols, sym)
	}
	rows.Close()

	prices, err := s.db.QueryContext(ctx, `SELECT day, symbol, price FROM snapshot_prices ORDER BY day`)
	if err != nil {
		return nil, false, models.CacheCorruptError(err, "read snapshot prices")
	}
	defer prices.Close()

	cells := make(map[string]map[string]float64)
	var days []string
	for prices.Next() {
		var (
			day, sym string
			px       sql.NullFloat64
		)
		if err := prices.Scan(&day, &sym, &px); err != nil {
			return nil, false, models.CacheCorruptError(err, "scan snapshot price")
		}
		row, seen := cells[day]
		if !seen {
			row = make(map[string]float64)
			cells[day] = row
			days = append(days, day)
		}
		if px.Valid {
			row[sym] = px.Float64
		}
	}
	if err := prices.Err(); err != nil {
		return nil, false, models.CacheCorruptError(err, "iterate snapshot prices")
	}

	for _, day := range days {
		d, ok := util.ParseDay(day)
		if !ok {
			return nil, false, models.CacheCorruptError(nil, "snapshot has bad date %q", day)
		}
		table.Dates = append(table.Dates, d)
	}
	for _, sym := range table.Symbols {
		col := make([]float64, len(days))
		for i, day := range days {
			px, ok := cells[day][sym]
			if !ok {
				px = math.NaN()
			}
			col[i] = px
		}
		table.Columns[sym] = col
	}
	return table, true, nil
}

// Store replaces the snapshot in a single transaction.
func (s *SQLiteSnapshotStore) Store(ctx context.Context, table *models.PriceTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}
	for i, sym := range table.Symbols {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_columns (position, symbol) VALUES (?, ?)`, i, sym); err != nil {
			return fmt.Errorf("insert column %s: %w", sym, err)
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_prices (day, symbol, price) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, d := range table.Dates {
		day := util.FormatDay(d)
		for _, sym := range table.Symbols {
			var px sql.NullFloat64
			if v, ok := table.Value(sym, i); ok {
				px = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, day, sym, px); err != nil {
				return fmt.Errorf("insert %s %s: %w", day, sym, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (id, created_at) VALUES (1, ?)`, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Invalidate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteSnapshotStore) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_meta`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the database.
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

func clearSnapshot(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"snapshot_meta", "snapshot_columns", "snapshot_prices"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
