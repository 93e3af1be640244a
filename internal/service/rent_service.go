// Package service wires the roster manager, the record store, and persistent
// storage into the single controller the API layer talks to.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmynk/rentmate/internal/calculator"
	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/records"
	"github.com/mmynk/rentmate/internal/roster"
	"github.com/mmynk/rentmate/internal/storage"
)

var ErrEmptyMonth = errors.New("month must not be empty")

// Options tune the settlement behavior.
type Options struct {
	// HistoryLimit bounds the closed-month history. Zero means the default.
	HistoryLimit int

	// AllowNegativeBills permits correction-style negative bill entries.
	AllowNegativeBills bool
}

// Share is one roommate's live settlement figure.
type Share struct {
	Roommate    models.Roommate `json:"roommate"`
	FinalAmount float64         `json:"finalAmount"`
}

// Summary is the live dashboard view: the room, the per-person base rent,
// and each roommate's computed final amount.
type Summary struct {
	Room     models.Room `json:"room"`
	BaseRent float64     `json:"baseRent"`
	Shares   []Share     `json:"shares"`
}

// RentService owns all mutable settlement state. Every mutation is applied
// to memory first and then mirrored to storage; a failed write is logged and
// ignored, leaving the in-memory state authoritative for the session.
//
// All operations run to completion under one mutex, so a reader can never
// observe a reset roster alongside a stale month record.
type RentService struct {
	mu      sync.Mutex
	roster  *roster.Manager
	records *records.Store
	store   storage.Store
}

// NewRentService builds the controller and loads persisted state once.
// Malformed persisted state reads as absent, so a fresh start is the
// fallback, never a crash.
func NewRentService(ctx context.Context, store storage.Store, opts Options) *RentService {
	s := &RentService{
		roster:  roster.New(opts.AllowNegativeBills),
		records: records.New(opts.HistoryLimit),
		store:   store,
	}

	if room, ok, err := store.LoadRoom(ctx); err != nil {
		slog.Warn("Failed to load room snapshot", "error", err)
	} else if ok {
		s.roster.Restore(room)
		slog.Info("Room restored", "room", room.Name, "roommates", len(room.Roommates))
	}

	if recs, err := store.LoadRecords(ctx); err != nil {
		slog.Warn("Failed to load monthly records", "error", err)
	} else if len(recs) > 0 {
		s.records.Restore(recs)
		slog.Info("Monthly records restored", "count", s.records.Len())
	}

	return s
}

// SetRoom overwrites the room's name and rent, keeping the roster.
func (s *RentService) SetRoom(ctx context.Context, name string, monthlyRent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roster.SetRoom(name, monthlyRent); err != nil {
		slog.Debug("Room setup rejected", "error", err)
		return err
	}
	slog.Info("Room configured", "room", name, "monthly_rent", monthlyRent)
	s.persistRoom(ctx)
	return nil
}

// AddRoommate appends a roommate to the live roster.
func (s *RentService) AddRoommate(ctx context.Context, name, mobile string) (models.Roommate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.roster.AddRoommate(name, mobile)
	if err != nil {
		slog.Debug("Add roommate rejected", "error", err)
		return models.Roommate{}, err
	}
	slog.Info("Roommate added", "roommate_id", rm.ID, "name", rm.Name)
	s.persistRoom(ctx)
	return rm, nil
}

// RemoveRoommate removes the roommate with the given id from the live
// roster; absent ids are a no-op. Stored records are never touched.
func (s *RentService) RemoveRoommate(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.RemoveRoommate(id)
	slog.Info("Roommate removed", "roommate_id", id)
	s.persistRoom(ctx)
}

// RecordBillPayment adds a bill payment to a roommate's accumulator.
func (s *RentService) RecordBillPayment(ctx context.Context, roommateID string, kind models.BillKind, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.roster.RecordBillPayment(roommateID, kind, amount); err != nil {
		slog.Debug("Bill payment rejected", "roommate_id", roommateID, "kind", kind, "error", err)
		return err
	}
	slog.Info("Bill payment recorded", "roommate_id", roommateID, "kind", kind, "amount", amount)
	s.persistRoom(ctx)
	return nil
}

// CloseMonth snapshots the current roster into the record history and resets
// every bill accumulator for the new billing cycle. Snapshot and reset form
// one transaction under the service mutex: no caller can observe one without
// the other.
func (s *RentService) CloseMonth(ctx context.Context, month string, year int) (models.MonthlyRecord, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return models.MonthlyRecord{}, ErrEmptyMonth
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records.CloseMonth(s.roster.Room(), month, year)
	s.roster.ResetBillsForNewMonth()

	slog.Info("Month closed", "month", month, "year", year, "record_id", rec.ID, "history", s.records.Len())
	s.persistRoom(ctx)
	s.persistRecords(ctx)
	return rec, nil
}

// Summary returns the live room with computed settlement figures.
func (s *RentService) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.roster.Room()
	sum := Summary{
		Room:     room,
		BaseRent: calculator.BaseRentPerPerson(&room),
		Shares:   make([]Share, 0, len(room.Roommates)),
	}
	for i := range room.Roommates {
		sum.Shares = append(sum.Shares, Share{
			Roommate:    room.Roommates[i],
			FinalAmount: calculator.FinalAmount(&room, &room.Roommates[i]),
		})
	}
	return sum
}

// Records returns all stored monthly records in store (insertion) order.
func (s *RentService) Records() []models.MonthlyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MonthlyRecord, 0, s.records.Len())
	for r := range s.records.All() {
		out = append(out, r)
	}
	return out
}

// Record returns one stored record by id.
func (s *RentService) Record(id string) (models.MonthlyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Find(id)
}

// ClearAll wipes the live room, the record history, and every persisted key.
func (s *RentService) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.Clear()
	s.records.Clear()
	if err := s.store.Clear(ctx); err != nil {
		slog.Warn("Failed to clear persisted state", "error", err)
	}
	slog.Info("All data cleared")
}

// persistRoom mirrors the live room to storage. Only a configured room (one
// with a name) is worth saving; write failures are logged and ignored.
func (s *RentService) persistRoom(ctx context.Context) {
	room := s.roster.Room()
	if room.Name == "" {
		return
	}
	if err := s.store.SaveRoom(ctx, room); err != nil {
		slog.Warn("Failed to persist room", "error", err)
	}
}

// persistRecords mirrors the record history to storage when non-empty.
func (s *RentService) persistRecords(ctx context.Context) {
	recs := make([]models.MonthlyRecord, 0, s.records.Len())
	for r := range s.records.All() {
		recs = append(recs, r)
	}
	if len(recs) == 0 {
		return
	}
	if err := s.store.SaveRecords(ctx, recs); err != nil {
		slog.Warn("Failed to persist monthly records", "error", err)
	}
}
