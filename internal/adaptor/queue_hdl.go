package adaptor

import (
	"net/http"

	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

type QueueHandler struct {
	service usecase.QueueService
	log     *zap.Logger
}

func NewQueueHandler(service usecase.QueueService, log *zap.Logger) *QueueHandler {
	return &QueueHandler{
		service: service,
		log:     log.With(zap.String("handler", "queue")),
	}
}

// GetQueueStatus handles GET /api/queue/status?session_id=&date=&token= (public)
func (h *QueueHandler) GetQueueStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sessionID := query.Get("session_id")
	if sessionID == "" {
		utils.ResponseBadRequest(w, "session_id query parameter is required", nil)
		return
	}

	date := query.Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date query parameter is required", nil)
		return
	}

	token := utils.ParseInt(query.Get("token"), 0)
	if token < 1 {
		utils.ResponseBadRequest(w, "token query parameter is required", nil)
		return
	}

	status, err := h.service.Project(r.Context(), sessionID, date, token)
	if err != nil {
		handleServiceError(h.log, w, err, "get queue status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}
