package response

import (
	"hospital-queue/internal/data/entity"
)

type HospitalResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

type DoctorResponse struct {
	ID         string `json:"id"`
	HospitalID string `json:"hospital_id"`
	Name       string `json:"name"`
	Specialty  string `json:"specialty"`
}

type SessionResponse struct {
	ID                   string `json:"id"`
	DoctorID             string `json:"doctor_id"`
	HospitalID           string `json:"hospital_id"`
	DayOfWeek            string `json:"day_of_week"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	MaxTokens            int    `json:"max_tokens"`
	AvgMinutesPerPatient int    `json:"avg_minutes_per_patient"`
}

func HospitalToResponse(h *entity.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:      h.ID.String(),
		Name:    h.Name,
		Address: h.Address,
		City:    h.City,
		Phone:   h.Phone,
	}
}

func DoctorToResponse(d *entity.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:         d.ID.String(),
		HospitalID: d.HospitalID.String(),
		Name:       d.Name,
		Specialty:  d.Specialty,
	}
}

func SessionToResponse(s *entity.Session) SessionResponse {
	return SessionResponse{
		ID:                   s.ID.String(),
		DoctorID:             s.DoctorID.String(),
		HospitalID:           s.HospitalID.String(),
		DayOfWeek:            s.DayOfWeek.String(),
		StartTime:            s.StartTime,
		EndTime:              s.EndTime,
		MaxTokens:            s.MaxTokens,
		AvgMinutesPerPatient: s.AvgMinutesPerPatient,
	}
}
