package entity

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusLocked    SlotStatus = "locked"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusConfirmed SlotStatus = "confirmed"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// Slot is one row of the slot ledger: the state of a single token number
// for a (session, appointment date) pair. The table is sparse - a token
// with no row has never been touched and counts as available.
type Slot struct {
	BaseNoDelete
	SessionID       uuid.UUID  `db:"session_id"`
	AppointmentDate time.Time  `db:"appointment_date"`
	TokenNumber     int        `db:"token_number"`
	Status          SlotStatus `db:"status"`
	EstimatedTime   string     `db:"estimated_time"` // HH:MM
	LockToken       *uuid.UUID `db:"lock_token"`
	LockExpiresAt   *time.Time `db:"lock_expires_at"`
	BookingID       *uuid.UUID `db:"booking_id"`
}

// LockExpired reports whether the slot holds a lock whose TTL has passed.
func (s *Slot) LockExpired(now time.Time) bool {
	return s.Status == SlotStatusLocked && s.LockExpiresAt != nil && s.LockExpiresAt.Before(now)
}

// EffectiveStatus is the status after lazy lock expiry: a stale lock counts
// as available even before the stored row has been healed.
func (s *Slot) EffectiveStatus(now time.Time) SlotStatus {
	if s.LockExpired(now) {
		return SlotStatusAvailable
	}
	return s.Status
}

// Taken reports whether the slot blocks a new allocation at the given time.
func (s *Slot) Taken(now time.Time) bool {
	switch s.EffectiveStatus(now) {
	case SlotStatusAvailable, SlotStatusCancelled:
		return false
	default:
		return true
	}
}
