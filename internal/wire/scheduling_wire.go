package wire

import (
	"hospital-queue/internal/adaptor"
	"hospital-queue/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireScheduling(
	r chi.Router,
	allocationHandler *adaptor.AllocationHandler,
	queueHandler *adaptor.QueueHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require patient identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.PatientIdentity(log))

		// POST /api/allocate - Compute a token and lock it for payment
		r.Post("/api/allocate", allocationHandler.Allocate)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/queue/status - Live queue metrics, shown on waiting-room displays
	r.Get("/api/queue/status", queueHandler.GetQueueStatus)
}
