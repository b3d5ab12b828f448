package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/types"
)

// SQLiteRecorder persists forecasts to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(ctx context.Context, dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads do not block forecast writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(ctx, "SQLite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecasts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			outlook     TEXT NOT NULL,
			confidence  REAL,
			price       REAL,
			target_low  REAL,
			target_high REAL,
			reason      TEXT,
			days        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_ts ON forecasts(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_symbol ON forecasts(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record inserts one forecast row. price is the quote the forecast was made at.
func (r *SQLiteRecorder) Record(ctx context.Context, f types.Forecast, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO forecasts (timestamp, symbol, outlook, confidence, price, target_low, target_high, reason, days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), f.Symbol, f.Outlook, f.Confidence, price,
		f.TargetLow, f.TargetHigh, f.Reason, strings.Join(f.Days, ","))
	if err != nil {
		return fmt.Errorf("insert forecast: %w", err)
	}
	return nil
}

// RecentForecasts returns up to limit most recent forecasts for a symbol.
func (r *SQLiteRecorder) RecentForecasts(ctx context.Context, symbol string, limit int) ([]types.Forecast, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT symbol, outlook, confidence, target_low, target_high, reason, days
		 FROM forecasts WHERE symbol = ? ORDER BY timestamp DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var out []types.Forecast
	for rows.Next() {
		var f types.Forecast
		var days string
		if err := rows.Scan(&f.Symbol, &f.Outlook, &f.Confidence, &f.TargetLow, &f.TargetHigh, &f.Reason, &days); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		if days != "" {
			f.Days = strings.Split(days, ",")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
