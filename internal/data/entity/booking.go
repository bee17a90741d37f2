package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCompleted      BookingStatus = "completed"
)

type BookingType string

const (
	BookingTypeNext  BookingType = "next"
	BookingTypeTime  BookingType = "time"
	BookingTypeToken BookingType = "token"
	BookingTypeGrid  BookingType = "grid"
)

type Booking struct {
	Base
	BookingRef      string        `db:"booking_ref"`
	PatientID       uuid.UUID     `db:"patient_id"`
	SessionID       uuid.UUID     `db:"session_id"`
	HospitalID      uuid.UUID     `db:"hospital_id"`
	AppointmentDate time.Time     `db:"appointment_date"`
	TokenNumber     int           `db:"token_number"`
	EstimatedTime   string        `db:"estimated_time"` // HH:MM
	BookingType     BookingType   `db:"booking_type"`
	PatientName     string        `db:"patient_name"`
	PatientPhone    string        `db:"patient_phone"`
	PatientAge      *int          `db:"patient_age"`
	Status          BookingStatus `db:"status"`
	// Written by the consultation desk when the doctor actually starts and
	// finishes with the patient; the queue projector only reads them.
	ActualStart *time.Time `db:"actual_start"`
	ActualEnd   *time.Time `db:"actual_end"`
}
