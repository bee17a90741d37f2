package usecase

import (
	"context"
	"fmt"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/dto/response"
	"hospital-queue/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityService interface {
	// Resolve produces the full token grid for a (session, date) pair.
	// Read-only apart from the idempotent healing of expired locks.
	Resolve(ctx context.Context, sessionID, date string) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) Resolve(ctx context.Context, sessionID, date string) (*response.AvailabilityResponse, error) {
	session, day, err := resolveSessionDate(ctx, s.repo, sessionID, date)
	if err != nil {
		return nil, err
	}

	startMinutes, err := utils.ParseClock(session.StartTime)
	if err != nil {
		return nil, fmt.Errorf("session %s has invalid start time: %w", sessionID, err)
	}

	if !utils.SessionFitsDay(startMinutes, session.MaxTokens, session.AvgMinutesPerPatient) {
		return nil, fmt.Errorf("session %s token grid crosses midnight", sessionID)
	}

	now := time.Now()

	// Heal stale locks before reading so the grid never shows a hold whose
	// TTL has passed. Safe to run concurrently, the update is idempotent.
	healed, err := s.repo.Slot.ReleaseExpiredForSession(ctx, session.ID, day, now)
	if err != nil {
		return nil, err
	}
	if healed > 0 {
		s.log.Info("Healed expired slot locks",
			zap.String("session_id", session.ID.String()),
			zap.Time("appointment_date", day),
			zap.Int64("count", healed),
		)
	}

	slots, err := s.repo.Slot.FindBySessionDate(ctx, session.ID, day)
	if err != nil {
		return nil, err
	}

	byToken := make(map[int]*entity.Slot, len(slots))
	for _, slot := range slots {
		byToken[slot.TokenNumber] = slot
	}

	tokens := make([]response.TokenEntry, 0, session.MaxTokens)
	available := 0
	for n := 1; n <= session.MaxTokens; n++ {
		estimated := utils.FormatClock(utils.TokenMinutes(startMinutes, n, session.AvgMinutesPerPatient))

		status := entity.SlotStatusAvailable
		if slot, ok := byToken[n]; ok {
			status = slot.EffectiveStatus(now)
			if status == entity.SlotStatusCancelled {
				status = entity.SlotStatusAvailable
			}
		}

		isAvailable := status == entity.SlotStatusAvailable
		if isAvailable {
			available++
		}

		tokens = append(tokens, response.TokenEntry{
			TokenNumber:   n,
			Status:        status,
			EstimatedTime: estimated,
			IsAvailable:   isAvailable,
		})
	}

	return &response.AvailabilityResponse{
		SessionID:      session.ID.String(),
		Date:           day.Format("2006-01-02"),
		DayOfWeek:      session.DayOfWeek.String(),
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
		TotalTokens:    session.MaxTokens,
		AvailableCount: available,
		Tokens:         tokens,
	}, nil
}
