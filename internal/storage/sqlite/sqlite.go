// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/storage"
)

// Snapshot keys. One row per key, mirroring the original local-storage layout.
const (
	keyRoom    = "roomData"
	keyRecords = "monthlyRecords"
	keySession = "session"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRoom persists the live room snapshot.
func (s *SQLiteStore) SaveRoom(ctx context.Context, room models.Room) error {
	return s.put(ctx, keyRoom, room)
}

// LoadRoom returns the persisted room. A missing or malformed snapshot is
// reported as absent, never as partial data.
func (s *SQLiteStore) LoadRoom(ctx context.Context) (models.Room, bool, error) {
	var room models.Room
	ok, err := s.get(ctx, keyRoom, &room)
	return room, ok, err
}

// SaveRecords persists the full monthly record list in store order.
func (s *SQLiteStore) SaveRecords(ctx context.Context, recs []models.MonthlyRecord) error {
	return s.put(ctx, keyRecords, recs)
}

// LoadRecords returns the persisted record list, possibly empty.
func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]models.MonthlyRecord, error) {
	var recs []models.MonthlyRecord
	if _, err := s.get(ctx, keyRecords, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// SaveSession persists the session markers.
func (s *SQLiteStore) SaveSession(ctx context.Context, markers models.SessionMarkers) error {
	return s.put(ctx, keySession, markers)
}

// LoadSession returns the persisted session markers.
func (s *SQLiteStore) LoadSession(ctx context.Context) (models.SessionMarkers, bool, error) {
	var markers models.SessionMarkers
	ok, err := s.get(ctx, keySession, &markers)
	return markers, ok, err
}

// Clear removes every persisted snapshot.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

// put serializes v to JSON and upserts it under key.
func (s *SQLiteStore) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", key, err)
	}
	return nil
}

// get loads and decodes the snapshot under key into v. A malformed snapshot
// is logged and treated as absent so corrupt state never reaches the caller.
func (s *SQLiteStore) get(ctx context.Context, key string, v any) (bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM snapshots WHERE key = ?", key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s snapshot: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		slog.Warn("Discarding malformed snapshot", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}
