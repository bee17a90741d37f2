package response

import (
	"time"

	"hospital-queue/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	BookingRef      string               `json:"booking_ref"`
	PatientID       string               `json:"patient_id"`
	SessionID       string               `json:"session_id"`
	HospitalID      string               `json:"hospital_id"`
	HospitalName    string               `json:"hospital_name,omitempty"`
	DoctorName      string               `json:"doctor_name,omitempty"`
	AppointmentDate string               `json:"appointment_date"`
	TokenNumber     int                  `json:"token_number"`
	EstimatedTime   string               `json:"estimated_time"`
	BookingType     entity.BookingType   `json:"booking_type"`
	PatientName     string               `json:"patient_name"`
	Status          entity.BookingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// BookingToResponse converts the entity without catalog decoration.
func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              booking.ID.String(),
		BookingRef:      booking.BookingRef,
		PatientID:       booking.PatientID.String(),
		SessionID:       booking.SessionID.String(),
		HospitalID:      booking.HospitalID.String(),
		AppointmentDate: booking.AppointmentDate.Format("2006-01-02"),
		TokenNumber:     booking.TokenNumber,
		EstimatedTime:   booking.EstimatedTime,
		BookingType:     booking.BookingType,
		PatientName:     booking.PatientName,
		Status:          booking.Status,
		CreatedAt:       booking.CreatedAt,
	}
}
