package usecase

import (
	"context"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/dto/response"

	"go.uber.org/zap"
)

type QueueService interface {
	// Project computes live queue metrics for one token. Pure read,
	// recomputed on every call so polling always sees the latest pace.
	Project(ctx context.Context, sessionID, date string, tokenNumber int) (*response.QueueStatusResponse, error)
}

type queueService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewQueueService(repo *repository.Repository, log *zap.Logger) QueueService {
	return &queueService{
		repo: repo,
		log:  log.With(zap.String("service", "queue")),
	}
}

func (s *queueService) Project(ctx context.Context, sessionID, date string, tokenNumber int) (*response.QueueStatusResponse, error) {
	session, day, err := resolveSessionDate(ctx, s.repo, sessionID, date)
	if err != nil {
		return nil, err
	}

	if tokenNumber < 1 || tokenNumber > session.MaxTokens {
		return nil, schedErrorf(KindInvalidTokenNumber,
			"token %d is outside 1..%d", tokenNumber, session.MaxTokens)
	}

	bookings, err := s.repo.Booking.FindActiveBySessionDate(ctx, session.ID, day)
	if err != nil {
		return nil, err
	}

	completed := 0
	currentlyServing := 0
	for _, booking := range bookings {
		switch booking.Status {
		case entity.BookingStatusCompleted:
			completed++
		case entity.BookingStatusConfirmed:
			if currentlyServing == 0 || booking.TokenNumber < currentlyServing {
				currentlyServing = booking.TokenNumber
			}
		}
	}

	// Ahead-count: confirmed tokens numbered from the one being served
	// (inclusive) up to the queried token (exclusive).
	tokensAhead := 0
	if currentlyServing > 0 {
		for _, booking := range bookings {
			if booking.Status != entity.BookingStatusConfirmed {
				continue
			}
			if booking.TokenNumber >= currentlyServing && booking.TokenNumber < tokenNumber {
				tokensAhead++
			}
		}
	}

	position := "waiting"
	if tokenNumber == currentlyServing {
		position = "current"
	}

	return &response.QueueStatusResponse{
		SessionID:               session.ID.String(),
		Date:                    day.Format("2006-01-02"),
		TokenNumber:             tokenNumber,
		CurrentlyServing:        currentlyServing,
		TokensAhead:             tokensAhead,
		CompletedToday:          completed,
		TotalTokensToday:        len(bookings),
		EstimatedWaitingMinutes: tokensAhead * session.AvgMinutesPerPatient,
		QueuePosition:           position,
	}, nil
}
