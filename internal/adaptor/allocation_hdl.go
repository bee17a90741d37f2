package adaptor

import (
	"encoding/json"
	"net/http"

	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

type AllocationHandler struct {
	service usecase.AllocationService
	log     *zap.Logger
}

func NewAllocationHandler(service usecase.AllocationService, log *zap.Logger) *AllocationHandler {
	return &AllocationHandler{
		service: service,
		log:     log.With(zap.String("handler", "allocation")),
	}
}

// Allocate handles POST /api/allocate (protected)
func (h *AllocationHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetPatientIDFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Patient identity required")
		return
	}

	var req request.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	allocation, err := h.service.Allocate(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "allocate token")
		return
	}

	utils.ResponseCreated(w, "success", allocation)
}
