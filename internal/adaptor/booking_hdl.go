package adaptor

import (
	"encoding/json"
	"net/http"

	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/booking (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetPatientIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Patient identity required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), patientID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetPatientIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Patient identity required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), patientID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ModifyBooking handles PUT /api/booking/{id} (protected)
func (h *BookingHandler) ModifyBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetPatientIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Patient identity required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.ModifyBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	allocation, err := h.service.ModifyBooking(r.Context(), patientID.String(), bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "modify booking")
		return
	}

	utils.ResponseSuccess(w, "success", allocation)
}

// CancelBooking handles PUT /api/booking/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetPatientIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Patient identity required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), patientID.String(), bookingID); err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== PAYMENT GATEWAY CALLBACKS ====================

// ConfirmPayment handles POST /api/payment/confirm
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ReleaseLock handles POST /api/payment/release
func (h *BookingHandler) ReleaseLock(w http.ResponseWriter, r *http.Request) {
	var req request.ReleaseLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ReleaseLock(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "release lock")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== STAFF METHODS ====================

// GetBookingByID handles GET /api/admin/bookings/{id} (staff only)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetSessionBookings handles GET /api/admin/sessions/{id}/bookings?date= (staff only)
func (h *BookingHandler) GetSessionBookings(w http.ResponseWriter, r *http.Request) {
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

	bookings, err := h.service.GetSessionBookings(r.Context(), sessionID, date)
	if err != nil {
		handleServiceError(h.log, w, err, "get session bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CompleteBooking handles PUT /api/admin/bookings/{id}/complete (staff only)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.CompleteBooking(r.Context(), bookingID); err != nil {
		handleServiceError(h.log, w, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
