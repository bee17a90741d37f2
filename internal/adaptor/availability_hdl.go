package adaptor

import (
	"net/http"

	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// GetAvailability handles GET /api/sessions/{id}/availability?date=YYYY-MM-DD (public)
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	availability, err := h.service.Resolve(r.Context(), sessionID, date)
	if err != nil {
		handleServiceError(h.log, w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
