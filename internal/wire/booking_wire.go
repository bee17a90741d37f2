package wire

import (
	"hospital-queue/internal/adaptor"
	"hospital-queue/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require patient identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.PatientIdentity(log))

		// POST /api/booking - Create booking against a held lock
		r.Post("/api/booking", bookingHandler.CreateBooking)

		// GET /api/user/bookings - Patient's own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// PUT /api/booking/{id} - Move a confirmed booking to another slot
		r.Put("/api/booking/{id}", bookingHandler.ModifyBooking)

		// PUT /api/booking/{id}/cancel - Cancel own booking
		r.Put("/api/booking/{id}/cancel", bookingHandler.CancelBooking)
	})

	// ==================== PAYMENT GATEWAY CALLBACKS ====================
	// The gateway authenticates with the lock token it was handed, so these
	// routes carry no patient identity.

	// POST /api/payment/confirm - Payment success callback
	r.Post("/api/payment/confirm", bookingHandler.ConfirmPayment)

	// POST /api/payment/release - Payment failure/abandon callback
	r.Post("/api/payment/release", bookingHandler.ReleaseLock)

	// ==================== STAFF ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Staff(log))

		// GET /api/admin/bookings/{id} - View any booking (staff)
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/admin/bookings/{id}/complete - Desk marks consultation done
		r.Put("/{id}/complete", bookingHandler.CompleteBooking)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Staff(log))

		// GET /api/admin/sessions/{id}/bookings?date= - Day's queue for the desk
		r.Get("/api/admin/sessions/{id}/bookings", bookingHandler.GetSessionBookings)
	})
}
