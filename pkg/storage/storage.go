// Package storage persists scan records to Postgres. Persistence is
// best-effort: a scan result is returned to the caller even when the
// database write fails.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a scan record does not exist.
var ErrNotFound = errors.New("storage: scan not found")

// Record is one persisted scan. InputText is always the redacted form;
// raw submitted content never reaches the database.
type Record struct {
	ID           uuid.UUID       `json:"id"`
	InputType    string          `json:"input_type"` // url, text, screenshot, audio
	InputText    string          `json:"input_text"`
	Result       json.RawMessage `json:"result"`
	ModelVersion string          `json:"model_version"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection and verifies it with a ping.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("storage: parsing database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the pool.
func (db *DB) Close() { db.pool.Close() }

// EnsureSchema creates the scans table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scans (
			id UUID PRIMARY KEY,
			input_type TEXT NOT NULL,
			input_text TEXT NOT NULL,
			result JSONB NOT NULL,
			model_version TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("storage: ensuring schema: %w", err)
	}
	_, err = db.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS scans_created_at_idx ON scans (created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("storage: ensuring index: %w", err)
	}
	return nil
}

// SaveScan inserts a scan record and returns its generated id.
func (db *DB) SaveScan(ctx context.Context, inputType, redactedText string, result json.RawMessage, modelVersion string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx, `
		INSERT INTO scans (id, input_type, input_text, result, model_version)
		VALUES ($1, $2, $3, $4, $5)
	`, id, inputType, redactedText, result, modelVersion)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: saving scan: %w", err)
	}
	return id, nil
}

// GetScan fetches one scan record by id.
func (db *DB) GetScan(ctx context.Context, id uuid.UUID) (Record, error) {
	var rec Record
	err := db.pool.QueryRow(ctx, `
		SELECT id, input_type, input_text, result, model_version, created_at
		FROM scans WHERE id = $1
	`, id).Scan(&rec.ID, &rec.InputType, &rec.InputText, &rec.Result, &rec.ModelVersion, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("storage: fetching scan: %w", err)
	}
	return rec, nil
}

// RecentScans returns up to limit scans, newest first.
func (db *DB) RecentScans(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx, `
		SELECT id, input_type, input_text, result, model_version, created_at
		FROM scans ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: listing scans: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.InputType, &rec.InputText, &rec.Result, &rec.ModelVersion, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scanning row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
