// Package roster owns the mutable live room: its identity, rent figure, and
// the ordered list of roommates with their bill accumulators.
//
// A validation rejection leaves the room untouched and returns a sentinel
// error so callers can keep the user's input for correction. Rejections are
// expected user-input states, not failures.
package roster

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/rentmate/internal/models"
)

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrInvalidMobile   = errors.New("mobile must be exactly 10 digits")
	ErrUnknownRoommate = errors.New("no roommate with that id")
	ErrUnknownBillKind = errors.New("unknown bill kind")
	ErrInvalidAmount   = errors.New("amount must be a number")
	ErrNegativeAmount  = errors.New("negative amounts are disabled")
)

// Manager mediates every mutation of the live room. It is not safe for
// concurrent use; the owning service serializes access.
type Manager struct {
	room models.Room

	// allowNegative permits correction-style negative bill entries.
	allowNegative bool
}

// New returns a Manager with an empty, unnamed room.
func New(allowNegative bool) *Manager {
	return &Manager{allowNegative: allowNegative}
}

// Room returns a deep copy of the live room. Callers never see shared
// mutable structure.
func (m *Manager) Room() models.Room {
	return m.room.Clone()
}

// SetRoom overwrites the room's name and rent. Existing roommates are kept,
// so calling it again edits the identity without roster loss.
func (m *Manager) SetRoom(name string, monthlyRent float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if math.IsNaN(monthlyRent) || math.IsInf(monthlyRent, 0) || monthlyRent < 0 {
		return ErrInvalidAmount
	}
	m.room.Name = name
	m.room.MonthlyRent = monthlyRent
	return nil
}

// AddRoommate appends a new roommate with zeroed accumulators and a fresh
// unique id. Name must be non-empty and mobile exactly 10 digits.
func (m *Manager) AddRoommate(name, mobile string) (models.Roommate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Roommate{}, ErrEmptyName
	}
	if !models.ValidMobile(mobile) {
		return models.Roommate{}, ErrInvalidMobile
	}
	rm := models.Roommate{
		ID:     uuid.New().String(),
		Name:   name,
		Mobile: mobile,
	}
	m.room.Roommates = append(m.room.Roommates, rm)
	return rm, nil
}

// RemoveRoommate removes the roommate with the given id. Removing an absent
// id is a no-op, not an error.
func (m *Manager) RemoveRoommate(id string) {
	for i := range m.room.Roommates {
		if m.room.Roommates[i].ID == id {
			m.room.Roommates = append(m.room.Roommates[:i], m.room.Roommates[i+1:]...)
			return
		}
	}
}

// RecordBillPayment adds amount to the matching accumulator of the roommate.
// The amount arrives as raw user input and must parse to a finite number;
// empty or non-numeric input is rejected, never coerced to 0.
func (m *Manager) RecordBillPayment(roommateID string, kind models.BillKind, amount string) error {
	rm := m.room.Find(roommateID)
	if rm == nil {
		return ErrUnknownRoommate
	}
	if !kind.Valid() {
		return ErrUnknownBillKind
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidAmount
	}
	if v < 0 && !m.allowNegative {
		return ErrNegativeAmount
	}
	switch kind {
	case models.BillWater:
		rm.WaterPaid += v
	case models.BillEB:
		rm.EBPaid += v
	case models.BillOther:
		rm.OtherPaid += v
	}
	return nil
}

// ResetBillsForNewMonth zeroes all three accumulators of every roommate.
// Called exactly once, immediately after a successful month-close snapshot.
func (m *Manager) ResetBillsForNewMonth() {
	for i := range m.room.Roommates {
		m.room.Roommates[i].WaterPaid = 0
		m.room.Roommates[i].EBPaid = 0
		m.room.Roommates[i].OtherPaid = 0
	}
}

// Clear resets the live room to an empty, unnamed state.
func (m *Manager) Clear() {
	m.room = models.Room{}
}

// Restore replaces the live room with a previously persisted snapshot.
// Used only during startup, before any mutation.
func (m *Manager) Restore(room models.Room) {
	m.room = room.Clone()
}
