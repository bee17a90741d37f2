package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/dto/response"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubAllocationService struct {
	resp *response.AllocationResponse
	err  error
}

func (s *stubAllocationService) Allocate(ctx context.Context, req *request.AllocateRequest) (*response.AllocationResponse, error) {
	return s.resp, s.err
}

func (s *stubAllocationService) AllocateForModification(ctx context.Context, session *entity.Session, day time.Time, bookingType entity.BookingType, requestedTime string, tokenNumber int, excludeBookingID uuid.UUID) (*response.AllocationResponse, error) {
	return s.resp, s.err
}

func allocateRequestBody() string {
	return `{"session_id":"` + uuid.New().String() + `","date":"2026-01-05","type":"next"}`
}

func postAllocate(handler *AllocationHandler, body string, withIdentity bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/allocate", strings.NewReader(body))
	if withIdentity {
		req = req.WithContext(utils.SetPatientContext(req.Context(), uuid.New()))
	}
	rec := httptest.NewRecorder()
	handler.Allocate(rec, req)
	return rec
}

func TestAllocateStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"slot taken", &usecase.SchedulingError{Kind: usecase.KindSlotTaken, Message: "taken"}, http.StatusConflict},
		{"session full", &usecase.SchedulingError{Kind: usecase.KindSessionFull, Message: "full"}, http.StatusConflict},
		{"time conflict", &usecase.SchedulingError{Kind: usecase.KindTimeConflict, Message: "conflict"}, http.StatusConflict},
		{"lock expired", &usecase.SchedulingError{Kind: usecase.KindLockExpired, Message: "expired"}, http.StatusGone},
		{"session not found", &usecase.SchedulingError{Kind: usecase.KindSessionNotFound, Message: "missing"}, http.StatusNotFound},
		{"outside window", &usecase.SchedulingError{Kind: usecase.KindOutsideSessionWindow, Message: "outside"}, http.StatusBadRequest},
		{"infrastructure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		handler := NewAllocationHandler(&stubAllocationService{err: tt.err}, zap.NewNop())
		rec := postAllocate(handler, allocateRequestBody(), true)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

func TestAllocateSuccessEnvelope(t *testing.T) {
	handler := NewAllocationHandler(&stubAllocationService{
		resp: &response.AllocationResponse{TokenNumber: 5, EstimatedTime: "10:00"},
	}, zap.NewNop())

	rec := postAllocate(handler, allocateRequestBody(), true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var envelope utils.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Status {
		t.Error("expected status true in envelope")
	}
}

func TestAllocateRequiresIdentity(t *testing.T) {
	handler := NewAllocationHandler(&stubAllocationService{}, zap.NewNop())

	rec := postAllocate(handler, allocateRequestBody(), false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAllocateRejectsBadBody(t *testing.T) {
	handler := NewAllocationHandler(&stubAllocationService{}, zap.NewNop())

	rec := postAllocate(handler, "{not json", true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}

	rec = postAllocate(handler, `{"session_id":"nope","date":"2026-01-05","type":"next"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid session_id: status = %d, want 400", rec.Code)
	}
}

type stubQueueService struct {
	resp *response.QueueStatusResponse
	err  error
}

func (s *stubQueueService) Project(ctx context.Context, sessionID, date string, tokenNumber int) (*response.QueueStatusResponse, error) {
	return s.resp, s.err
}

func TestQueueStatusRequiresParams(t *testing.T) {
	handler := NewQueueHandler(&stubQueueService{resp: &response.QueueStatusResponse{}}, zap.NewNop())

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing session", "/api/queue/status?date=2026-01-05&token=3", http.StatusBadRequest},
		{"missing date", "/api/queue/status?session_id=abc&token=3", http.StatusBadRequest},
		{"missing token", "/api/queue/status?session_id=abc&date=2026-01-05", http.StatusBadRequest},
		{"complete", "/api/queue/status?session_id=abc&date=2026-01-05&token=3", http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		rec := httptest.NewRecorder()
		handler.GetQueueStatus(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}
