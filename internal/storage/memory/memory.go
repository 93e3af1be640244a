// Package memory provides an in-memory storage.Store, used by tests and as
// a throwaway backend when no durable state is wanted.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps snapshots in process memory. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	room       *models.Room
	records    []models.MonthlyRecord
	session    *models.SessionMarkers
	saveErr    error
	saveCalled int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// FailWrites makes every subsequent save return err. Tests use this to
// exercise the fire-and-forget persistence contract.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// SaveCount reports how many saves were attempted.
func (s *Store) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalled
}

func (s *Store) SaveRoom(_ context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalled++
	if s.saveErr != nil {
		return s.saveErr
	}
	c := room.Clone()
	s.room = &c
	return nil
}

func (s *Store) LoadRoom(context.Context) (models.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return models.Room{}, false, nil
	}
	return s.room.Clone(), true, nil
}

func (s *Store) SaveRecords(_ context.Context, recs []models.MonthlyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalled++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = make([]models.MonthlyRecord, 0, len(recs))
	for _, r := range recs {
		s.records = append(s.records, r.Clone())
	}
	return nil
}

func (s *Store) LoadRecords(context.Context) ([]models.MonthlyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MonthlyRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *Store) SaveSession(_ context.Context, markers models.SessionMarkers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalled++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.session = &markers
	return nil
}

func (s *Store) LoadSession(context.Context) (models.SessionMarkers, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.SessionMarkers{}, false, nil
	}
	return *s.session, true, nil
}

func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = nil
	s.records = nil
	s.session = nil
	return nil
}

func (s *Store) Close() error {
	return nil
}
