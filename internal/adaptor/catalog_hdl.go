package adaptor

import (
	"net/http"

	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetHospitals handles GET /api/hospitals (public)
func (h *CatalogHandler) GetHospitals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	hospitals, err := h.service.GetHospitals(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get hospitals")
		return
	}

	utils.ResponseSuccess(w, "success", hospitals)
}

// GetDoctorsByHospital handles GET /api/hospitals/{id}/doctors (public)
func (h *CatalogHandler) GetDoctorsByHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "id")
	if hospitalID == "" {
		utils.ResponseBadRequest(w, "Hospital ID is required", nil)
		return
	}

	doctors, err := h.service.GetDoctorsByHospital(r.Context(), hospitalID)
	if err != nil {
		handleServiceError(h.log, w, err, "get doctors by hospital")
		return
	}

	utils.ResponseSuccess(w, "success", doctors)
}

// GetSessionsByDoctor handles GET /api/doctors/{id}/sessions (public)
func (h *CatalogHandler) GetSessionsByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		utils.ResponseBadRequest(w, "Doctor ID is required", nil)
		return
	}

	sessions, err := h.service.GetSessionsByDoctor(r.Context(), doctorID)
	if err != nil {
		handleServiceError(h.log, w, err, "get sessions by doctor")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// GetSessionByID handles GET /api/sessions/{id} (public)
func (h *CatalogHandler) GetSessionByID(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "Session ID is required", nil)
		return
	}

	session, err := h.service.GetSessionByID(r.Context(), sessionID)
	if err != nil {
		handleServiceError(h.log, w, err, "get session by ID")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}
