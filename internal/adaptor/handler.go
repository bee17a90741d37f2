package adaptor

import (
	"errors"
	"net/http"

	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog      *CatalogHandler
	Availability *AvailabilityHandler
	Allocation   *AllocationHandler
	Queue        *QueueHandler
	Booking      *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Catalog:      NewCatalogHandler(service.Catalog, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Allocation:   NewAllocationHandler(service.Allocation, log),
		Queue:        NewQueueHandler(service.Queue, log),
		Booking:      NewBookingHandler(service.Booking, log),
	}
}

// handleServiceError maps scheduling failures to HTTP statuses. Anything
// that is not a SchedulingError is an infrastructure fault and stays a 500.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var schedErr *usecase.SchedulingError
	if !errors.As(err, &schedErr) {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(schedErr.Kind)))

	switch schedErr.Kind {
	case usecase.KindNotFound, usecase.KindSessionNotFound, usecase.KindBookingNotFound:
		utils.ResponseNotFound(w, schedErr.Message)

	case usecase.KindSessionFull, usecase.KindTimeConflict, usecase.KindSlotTaken:
		utils.ResponseConflict(w, schedErr.Message)

	case usecase.KindLockExpired:
		utils.ResponseGone(w, schedErr.Message)

	default:
		// validation, invalid date, day mismatch, token out of range,
		// outside window, invalid state
		utils.ResponseBadRequest(w, schedErr.Message, nil)
	}
}
