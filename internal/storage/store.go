// Package storage provides abstractions for persistent snapshot storage.
package storage

import (
	"context"

	"github.com/mmynk/rentmate/internal/models"
)

// Store persists the live room, the monthly record history, and the session
// markers as whole snapshots. This abstraction allows swapping backends
// (SQLite, a flat file, etc.) without changing the service layer.
//
// Loads return the zero value and no error when a snapshot is absent or
// malformed: corrupt persisted state is treated as missing, never surfaced
// as partial data. Writes are fire-and-forget from the caller's point of
// view; the in-memory state stays authoritative even when a write fails.
type Store interface {
	// SaveRoom persists the current live room snapshot.
	SaveRoom(ctx context.Context, room models.Room) error

	// LoadRoom returns the persisted room, or ok=false if none is stored.
	LoadRoom(ctx context.Context) (room models.Room, ok bool, err error)

	// SaveRecords persists the full monthly record list in store order.
	SaveRecords(ctx context.Context, recs []models.MonthlyRecord) error

	// LoadRecords returns the persisted record list, possibly empty.
	LoadRecords(ctx context.Context) ([]models.MonthlyRecord, error)

	// SaveSession persists the lightweight session markers.
	SaveSession(ctx context.Context, s models.SessionMarkers) error

	// LoadSession returns the persisted markers, or ok=false if none.
	LoadSession(ctx context.Context) (s models.SessionMarkers, ok bool, err error)

	// Clear removes every persisted key.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
