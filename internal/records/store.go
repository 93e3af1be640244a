// Package records keeps a bounded history of closed months. Each entry is a
// frozen snapshot sharing no mutable structure with the live room.
package records

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rentmate/internal/calculator"
	"github.com/mmynk/rentmate/internal/models"
)

// DefaultLimit is how many closed months are retained unless configured
// otherwise.
const DefaultLimit = 5

// Store holds closed-month records in insertion order. Eviction is pure FIFO
// by store order, not by date comparison: closing an already-recorded
// (month, year) replaces the old record and re-appends it at the end, so a
// re-saved month counts as most recently closed.
//
// Not safe for concurrent use; the owning service serializes access.
type Store struct {
	limit   int
	records []models.MonthlyRecord
}

// New returns a Store retaining at most limit records. A non-positive limit
// falls back to DefaultLimit.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{limit: limit}
}

// CloseMonth snapshots the given room into a new MonthlyRecord using the
// current (pre-reset) bill accumulators, applies the replace-or-append rule
// for the (month, year) pair, and evicts the oldest record beyond the limit.
// The caller must reset the live roster's bills immediately afterwards.
func (s *Store) CloseMonth(room models.Room, month string, year int) models.MonthlyRecord {
	rec := models.MonthlyRecord{
		ID:           uuid.New().String(),
		Month:        month,
		Year:         year,
		Room:         room.Clone(),
		Calculations: calculator.Snapshot(&room),
		Timestamp:    time.Now().Unix(),
	}

	kept := s.records[:0]
	for _, r := range s.records {
		if r.Month != month || r.Year != year {
			kept = append(kept, r)
		}
	}
	kept = append(kept, rec)
	if len(kept) > s.limit {
		kept = append([]models.MonthlyRecord(nil), kept[len(kept)-s.limit:]...)
	}
	s.records = kept

	return rec.Clone()
}

// All returns a lazy, restartable sequence of stored records in insertion
// order. Callers wanting reverse-chronological display must reverse it
// themselves; the store never sorts by date. Each yielded record is a deep
// copy.
func (s *Store) All() iter.Seq[models.MonthlyRecord] {
	return func(yield func(models.MonthlyRecord) bool) {
		for _, r := range s.records {
			if !yield(r.Clone()) {
				return
			}
		}
	}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Find returns the record with the given id, or false.
func (s *Store) Find(id string) (models.MonthlyRecord, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return models.MonthlyRecord{}, false
}

// Clear empties the store.
func (s *Store) Clear() {
	s.records = nil
}

// Restore replaces the store contents with a previously persisted list,
// trimming to the limit. Used only during startup.
func (s *Store) Restore(recs []models.MonthlyRecord) {
	if len(recs) > s.limit {
		recs = recs[len(recs)-s.limit:]
	}
	s.records = make([]models.MonthlyRecord, 0, len(recs))
	for _, r := range recs {
		s.records = append(s.records, r.Clone())
	}
}
