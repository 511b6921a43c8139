// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"stockpulse/internal/errors"
	"stockpulse/internal/models"
)

// SQLiteStore implements AlertStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based alert store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes to the same record must serialize; a single writer connection
	// keeps SQLite's locking out of the picture.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Price alerts table
	CREATE TABLE IF NOT EXISTS price_alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		display_name TEXT NOT NULL,
		target_price REAL NOT NULL,
		reference_price REAL NOT NULL,
		direction TEXT NOT NULL,
		triggered INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		triggered_at DATETIME
	);

	-- Candles table for cached price history
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(ticker, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_ticker ON price_alerts(ticker);
	CREATE INDEX IF NOT EXISTS idx_alerts_triggered ON price_alerts(triggered);
	CREATE INDEX IF NOT EXISTS idx_candles_ticker ON candles(ticker);
	CREATE INDEX IF NOT EXISTS idx_candles_timestamp ON candles(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Alerts Methods
// ============================================================================

// SaveAlert inserts an alert and returns its store-assigned ID.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert *models.PriceAlert) (int64, error) {
	triggered := 0
	if alert.Triggered {
		triggered = 1
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO price_alerts (ticker, display_name, target_price, reference_price, direction, triggered, created_at, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, alert.Ticker, alert.DisplayName, alert.TargetPrice, alert.ReferencePrice, string(alert.Direction), triggered, alert.CreatedAt, alert.TriggeredAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get alert id: %w", err)
	}
	alert.ID = id
	return id, nil
}

// GetAlert retrieves a single alert by ID.
func (s *SQLiteStore) GetAlert(ctx context.Context, id int64) (*models.PriceAlert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, display_name, target_price, reference_price, direction, triggered, created_at, triggered_at
		FROM price_alerts WHERE id = ?
	`, id)

	alert, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return alert, nil
}

// GetActiveAlerts retrieves all active (non-triggered) alerts.
func (s *SQLiteStore) GetActiveAlerts(ctx context.Context) ([]models.PriceAlert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, ticker, display_name, target_price, reference_price, direction, triggered, created_at, triggered_at
		FROM price_alerts WHERE triggered = 0 ORDER BY created_at ASC
	`)
}

// GetTriggeredAlerts retrieves all triggered alerts, most recent first.
func (s *SQLiteStore) GetTriggeredAlerts(ctx context.Context) ([]models.PriceAlert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, ticker, display_name, target_price, reference_price, direction, triggered, created_at, triggered_at
		FROM price_alerts WHERE triggered = 1 ORDER BY triggered_at DESC
	`)
}

func (s *SQLiteStore) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]models.PriceAlert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.PriceAlert
	for rows.Next() {
		var a models.PriceAlert
		var triggered int
		var direction string
		if err := rows.Scan(&a.ID, &a.Ticker, &a.DisplayName, &a.TargetPrice, &a.ReferencePrice, &direction, &triggered, &a.CreatedAt, &a.TriggeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Triggered = triggered == 1
		a.Direction = models.AlertDirection(direction)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*models.PriceAlert, error) {
	var a models.PriceAlert
	var triggered int
	var direction string
	if err := row.Scan(&a.ID, &a.Ticker, &a.DisplayName, &a.TargetPrice, &a.ReferencePrice, &direction, &triggered, &a.CreatedAt, &a.TriggeredAt); err != nil {
		return nil, err
	}
	a.Triggered = triggered == 1
	a.Direction = models.AlertDirection(direction)
	return &a, nil
}

// DeleteAlert removes an alert by ID.
func (s *SQLiteStore) DeleteAlert(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM price_alerts WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.ErrAlertNotFound
	}

	return nil
}

// MarkTriggered transitions an active alert to triggered. The triggered = 0
// guard makes the write idempotent: a second call finds no matching row and
// reports that no transition happened.
func (s *SQLiteStore) MarkTriggered(ctx context.Context, id int64, triggeredAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET triggered = 1, triggered_at = ? WHERE id = ? AND triggered = 0
	`, triggeredAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert triggered: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return rows == 1, nil
}

// ResetAlert re-arms a triggered alert.
func (s *SQLiteStore) ResetAlert(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET triggered = 0, triggered_at = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to reset alert: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.ErrAlertNotFound
	}

	return nil
}

// ============================================================================
// Candles Methods
// ============================================================================

// SaveCandles saves candles to the cache.
func (s *SQLiteStore) SaveCandles(ctx context.Context, ticker string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (ticker, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, ticker, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles retrieves cached candles, ordered ascending by timestamp.
func (s *SQLiteStore) GetCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE ticker = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}

	return candles, rows.Err()
}
