package usecase

import (
	"context"

	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService serves the hospital/doctor/session reference data.
// The catalog is maintained by hospital administration outside this
// service, so everything here is read-only.
type CatalogService interface {
	GetHospitals(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HospitalResponse], error)
	GetDoctorsByHospital(ctx context.Context, hospitalID string) ([]response.DoctorResponse, error)
	GetSessionsByDoctor(ctx context.Context, doctorID string) ([]response.SessionResponse, error)
	GetSessionByID(ctx context.Context, sessionID string) (*response.SessionResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetHospitals(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HospitalResponse], error) {
	hospitals, err := s.repo.Hospital.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Hospital.Count(ctx)
	if err != nil {
		return nil, err
	}

	hospitalResponses := make([]response.HospitalResponse, len(hospitals))
	for i, hospital := range hospitals {
		hospitalResponses[i] = response.HospitalToResponse(hospital)
	}

	return response.NewPaginatedResponse(hospitalResponses, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetDoctorsByHospital(ctx context.Context, hospitalID string) ([]response.DoctorResponse, error) {
	id, err := uuid.Parse(hospitalID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid hospital ID format %s", hospitalID)
	}

	hospital, err := s.repo.Hospital.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, schedErrorf(KindNotFound, "hospital %s not found", hospitalID)
	}

	doctors, err := s.repo.Doctor.FindByHospitalID(ctx, id)
	if err != nil {
		return nil, err
	}

	doctorResponses := make([]response.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		doctorResponses[i] = response.DoctorToResponse(doctor)
	}

	return doctorResponses, nil
}

func (s *catalogService) GetSessionsByDoctor(ctx context.Context, doctorID string) ([]response.SessionResponse, error) {
	id, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid doctor ID format %s", doctorID)
	}

	doctor, err := s.repo.Doctor.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, schedErrorf(KindNotFound, "doctor %s not found", doctorID)
	}

	sessions, err := s.repo.Session.FindByDoctorID(ctx, id)
	if err != nil {
		return nil, err
	}

	sessionResponses := make([]response.SessionResponse, len(sessions))
	for i, session := range sessions {
		sessionResponses[i] = response.SessionToResponse(session)
	}

	return sessionResponses, nil
}

func (s *catalogService) GetSessionByID(ctx context.Context, sessionID string) (*response.SessionResponse, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, schedErrorf(KindValidation, "invalid session ID format %s", sessionID)
	}

	session, err := s.repo.Session.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, schedErrorf(KindSessionNotFound, "session %s not found", sessionID)
	}

	resp := response.SessionToResponse(session)
	return &resp, nil
}
