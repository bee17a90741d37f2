package wire

import (
	"hospital-queue/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// The catalog and the availability grid are browsable without identity
	// so patients can window-shop before booking.

	// GET /api/hospitals - List hospitals (paginated)
	r.Get("/api/hospitals", catalogHandler.GetHospitals)

	// GET /api/hospitals/{id}/doctors - Doctors practicing at a hospital
	r.Get("/api/hospitals/{id}/doctors", catalogHandler.GetDoctorsByHospital)

	// GET /api/doctors/{id}/sessions - Weekly sessions of a doctor
	r.Get("/api/doctors/{id}/sessions", catalogHandler.GetSessionsByDoctor)

	// GET /api/sessions/{id} - Single session detail
	r.Get("/api/sessions/{id}", catalogHandler.GetSessionByID)

	// GET /api/sessions/{id}/availability?date= - Token grid for a date
	r.Get("/api/sessions/{id}/availability", availabilityHandler.GetAvailability)
}
