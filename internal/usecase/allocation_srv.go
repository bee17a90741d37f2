package usecase

import (
	"context"
	"fmt"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/dto/request"
	"hospital-queue/internal/dto/response"
	"hospital-queue/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AllocationService interface {
	// Allocate computes a token for one of the four booking strategies and
	// places a payment-window lock on it.
	Allocate(ctx context.Context, req *request.AllocateRequest) (*response.AllocationResponse, error)

	// AllocateForModification re-runs allocation for an existing booking.
	// The booking's own slot is excluded from conflict detection so a
	// booking never collides with itself.
	AllocateForModification(ctx context.Context, session *entity.Session, day time.Time, bookingType entity.BookingType, requestedTime string, tokenNumber int, excludeBookingID uuid.UUID) (*response.AllocationResponse, error)
}

type allocationService struct {
	repo  *repository.Repository
	locks LockManager
	log   *zap.Logger
}

func NewAllocationService(repo *repository.Repository, locks LockManager, log *zap.Logger) AllocationService {
	return &allocationService{
		repo:  repo,
		locks: locks,
		log:   log.With(zap.String("service", "allocation")),
	}
}

func (s *allocationService) Allocate(ctx context.Context, req *request.AllocateRequest) (*response.AllocationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Allocate validation failed", zap.Any("errors", errs))
		return nil, schedErrorf(KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	session, day, err := resolveSessionDate(ctx, s.repo, req.SessionID, req.Date)
	if err != nil {
		return nil, err
	}

	return s.allocate(ctx, session, day, entity.BookingType(req.Type), req.RequestedTime, req.TokenNumber, uuid.Nil)
}

func (s *allocationService) AllocateForModification(ctx context.Context, session *entity.Session, day time.Time, bookingType entity.BookingType, requestedTime string, tokenNumber int, excludeBookingID uuid.UUID) (*response.AllocationResponse, error) {
	return s.allocate(ctx, session, day, bookingType, requestedTime, tokenNumber, excludeBookingID)
}

func (s *allocationService) allocate(ctx context.Context, session *entity.Session, day time.Time, bookingType entity.BookingType, requestedTime string, tokenNumber int, excludeBookingID uuid.UUID) (*response.AllocationResponse, error) {
	startMinutes, err := utils.ParseClock(session.StartTime)
	if err != nil {
		return nil, fmt.Errorf("session %s has invalid start time: %w", session.ID.String(), err)
	}

	if !utils.SessionFitsDay(startMinutes, session.MaxTokens, session.AvgMinutesPerPatient) {
		return nil, fmt.Errorf("session %s token grid crosses midnight", session.ID.String())
	}

	// Heal stale locks up front so an expired hold does not shadow a free
	// token for the rest of this allocation.
	if _, err := s.repo.Slot.ReleaseExpiredForSession(ctx, session.ID, day, time.Now()); err != nil {
		return nil, err
	}

	var token int
	var lock *Lock

	switch bookingType {
	case entity.BookingTypeNext:
		token, lock, err = s.allocateNext(ctx, session, day, startMinutes)
	case entity.BookingTypeTime:
		token, lock, err = s.allocateByTime(ctx, session, day, startMinutes, requestedTime, excludeBookingID)
	case entity.BookingTypeToken, entity.BookingTypeGrid:
		// A grid pick is an explicit token chosen from a possibly stale
		// snapshot; the CAS acquire below is the re-validation that makes
		// the staleness harmless.
		token, lock, err = s.allocateByToken(ctx, session, day, startMinutes, tokenNumber)
	default:
		return nil, schedErrorf(KindValidation, "unknown booking type %q", bookingType)
	}

	if err != nil {
		return nil, err
	}

	estimated := utils.FormatClock(utils.TokenMinutes(startMinutes, token, session.AvgMinutesPerPatient))

	s.log.Info("Token allocated",
		zap.String("session_id", session.ID.String()),
		zap.Time("appointment_date", day),
		zap.String("booking_type", string(bookingType)),
		zap.Int("token_number", token),
		zap.String("estimated_time", estimated),
	)

	return &response.AllocationResponse{
		SessionID:     session.ID.String(),
		Date:          day.Format("2006-01-02"),
		TokenNumber:   token,
		EstimatedTime: estimated,
		BookingType:   string(bookingType),
		LockToken:     lock.Token.String(),
		LockExpiresAt: lock.ExpiresAt,
	}, nil
}

// allocateNext scans for the lowest free token and retries on races.
// Contention on the lowest free token is the expected hot path, so losing
// the CAS is handled by re-reading the grid rather than failing the caller.
func (s *allocationService) allocateNext(ctx context.Context, session *entity.Session, day time.Time, startMinutes int) (int, *Lock, error) {
	for attempt := 0; attempt < session.MaxTokens; attempt++ {
		token, err := s.firstFreeToken(ctx, session, day)
		if err != nil {
			return 0, nil, err
		}
		if token == 0 {
			return 0, nil, schedErrorf(KindSessionFull, "no tokens left for %s", day.Format("2006-01-02"))
		}

		estimated := utils.FormatClock(utils.TokenMinutes(startMinutes, token, session.AvgMinutesPerPatient))
		lock, err := s.locks.Acquire(ctx, session.ID, day, token, estimated)
		if err == nil {
			return token, lock, nil
		}
		if !IsKind(err, KindSlotTaken) {
			return 0, nil, err
		}

		s.log.Debug("Lost race for next token, retrying",
			zap.Int("token_number", token),
			zap.Int("attempt", attempt+1),
		)
	}

	return 0, nil, schedErrorf(KindSessionFull, "no tokens left for %s", day.Format("2006-01-02"))
}

func (s *allocationService) allocateByTime(ctx context.Context, session *entity.Session, day time.Time, startMinutes int, requestedTime string, excludeBookingID uuid.UUID) (int, *Lock, error) {
	requestedMinutes, err := utils.ParseClock(requestedTime)
	if err != nil {
		return 0, nil, schedErrorf(KindValidation, "requested time %q is not HH:MM", requestedTime)
	}

	endMinutes, err := utils.ParseClock(session.EndTime)
	if err != nil {
		return 0, nil, fmt.Errorf("session %s has invalid end time: %w", session.ID.String(), err)
	}

	if requestedMinutes < startMinutes || requestedMinutes >= endMinutes {
		return 0, nil, schedErrorf(KindOutsideSessionWindow,
			"%s is outside the session window %s-%s", requestedTime, session.StartTime, session.EndTime)
	}

	token := utils.TokenForMinutes(startMinutes, requestedMinutes, session.AvgMinutesPerPatient)
	if token > session.MaxTokens {
		return 0, nil, schedErrorf(KindOutsideSessionWindow,
			"%s falls past the last token of the session", requestedTime)
	}

	slots, err := s.repo.Slot.FindBySessionDate(ctx, session.ID, day)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now()
	for _, slot := range slots {
		status := slot.EffectiveStatus(now)
		if status != entity.SlotStatusBooked && status != entity.SlotStatusConfirmed {
			continue
		}
		if excludeBookingID != uuid.Nil && slot.BookingID != nil && *slot.BookingID == excludeBookingID {
			continue
		}

		slotMinutes := utils.TokenMinutes(startMinutes, slot.TokenNumber, session.AvgMinutesPerPatient)
		delta := slotMinutes - requestedMinutes
		if delta < 0 {
			delta = -delta
		}
		if delta < session.AvgMinutesPerPatient {
			return 0, nil, schedErrorf(KindTimeConflict,
				"token %d is already booked around %s - pick a different time",
				slot.TokenNumber, utils.FormatClock(slotMinutes))
		}
	}

	estimated := utils.FormatClock(utils.TokenMinutes(startMinutes, token, session.AvgMinutesPerPatient))
	lock, err := s.locks.Acquire(ctx, session.ID, day, token, estimated)
	if err != nil {
		return 0, nil, err
	}

	return token, lock, nil
}

func (s *allocationService) allocateByToken(ctx context.Context, session *entity.Session, day time.Time, startMinutes, tokenNumber int) (int, *Lock, error) {
	if tokenNumber < 1 || tokenNumber > session.MaxTokens {
		return 0, nil, schedErrorf(KindInvalidTokenNumber,
			"token %d is outside 1..%d", tokenNumber, session.MaxTokens)
	}

	estimated := utils.FormatClock(utils.TokenMinutes(startMinutes, tokenNumber, session.AvgMinutesPerPatient))
	lock, err := s.locks.Acquire(ctx, session.ID, day, tokenNumber, estimated)
	if err != nil {
		return 0, nil, err
	}

	return tokenNumber, lock, nil
}

// firstFreeToken returns the lowest token with no blocking ledger row,
// or 0 when the session is full.
func (s *allocationService) firstFreeToken(ctx context.Context, session *entity.Session, day time.Time) (int, error) {
	slots, err := s.repo.Slot.FindBySessionDate(ctx, session.ID, day)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	taken := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if slot.Taken(now) {
			taken[slot.TokenNumber] = true
		}
	}

	for n := 1; n <= session.MaxTokens; n++ {
		if !taken[n] {
			return n, nil
		}
	}

	return 0, nil
}

// resolveSessionDate loads the session and validates the appointment date
// against its weekday.
func resolveSessionDate(ctx context.Context, repo *repository.Repository, sessionID, date string) (*entity.Session, time.Time, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, time.Time{}, schedErrorf(KindValidation, "invalid session ID format %s", sessionID)
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, time.Time{}, schedErrorf(KindInvalidDate, "date %q is not YYYY-MM-DD", date)
	}

	session, err := repo.Session.FindByID(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}
	if session == nil {
		return nil, time.Time{}, schedErrorf(KindSessionNotFound, "session %s not found", sessionID)
	}

	if day.Weekday() != session.DayOfWeek {
		return nil, time.Time{}, schedErrorf(KindInvalidDate,
			"%s is a %s but this session runs on %s", date, day.Weekday(), session.DayOfWeek)
	}

	return session, day, nil
}
