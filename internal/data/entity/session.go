package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a doctor's recurring weekly time block at a hospital.
// The catalog owns these rows; the scheduling engine only reads them.
type Session struct {
	BaseNoDelete
	DoctorID             uuid.UUID    `db:"doctor_id"`
	HospitalID           uuid.UUID    `db:"hospital_id"`
	DayOfWeek            time.Weekday `db:"day_of_week"`
	StartTime            string       `db:"start_time"` // HH:MM
	EndTime              string       `db:"end_time"`   // HH:MM
	MaxTokens            int          `db:"max_tokens"`
	AvgMinutesPerPatient int          `db:"avg_minutes_per_patient"`
}
