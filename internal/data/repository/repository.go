package repository

import (
	"hospital-queue/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Hospital HospitalRepository
	Doctor   DoctorRepository
	Session  SessionRepository
	Slot     SlotRepository
	Booking  BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Hospital: NewHospitalRepository(db, log),
		Doctor:   NewDoctorRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Slot:     NewSlotRepository(db, log),
		Booking:  NewBookingRepository(db, log),
	}
}
