package usecase

import (
	"context"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lock is the handle returned to a requester that won a slot. The token is
// the only credential needed to confirm or release the hold.
type Lock struct {
	Token     uuid.UUID
	ExpiresAt time.Time
}

// LockManager owns every status mutation of the slot ledger. Acquire is an
// atomic compare-and-swap in the store; expiry is enforced lazily by readers
// and allocations, so correctness never depends on a background sweep.
type LockManager interface {
	Acquire(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int, estimatedTime string) (*Lock, error)
	Release(ctx context.Context, lockToken uuid.UUID) error
	Confirm(ctx context.Context, lockToken uuid.UUID, bookingID uuid.UUID, status entity.SlotStatus) error
	TTL() time.Duration
}

type lockManager struct {
	slots repository.SlotRepository
	ttl   time.Duration
	log   *zap.Logger
}

func NewLockManager(slots repository.SlotRepository, ttl time.Duration, log *zap.Logger) LockManager {
	return &lockManager{
		slots: slots,
		ttl:   ttl,
		log:   log.With(zap.String("service", "lock_manager")),
	}
}

func (m *lockManager) Acquire(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int, estimatedTime string) (*Lock, error) {
	lockToken := uuid.New()
	expiresAt := time.Now().Add(m.ttl)

	acquired, err := m.slots.AcquireLock(ctx, sessionID, date, tokenNumber, estimatedTime, lockToken, expiresAt)
	if err != nil {
		return nil, err
	}

	if !acquired {
		return nil, schedErrorf(KindSlotTaken, "token %d is already taken - choose another", tokenNumber)
	}

	m.log.Info("Slot lock acquired",
		zap.String("session_id", sessionID.String()),
		zap.Time("appointment_date", date),
		zap.Int("token_number", tokenNumber),
		zap.String("lock_token", lockToken.String()),
		zap.Time("expires_at", expiresAt),
	)

	return &Lock{Token: lockToken, ExpiresAt: expiresAt}, nil
}

func (m *lockManager) Release(ctx context.Context, lockToken uuid.UUID) error {
	released, err := m.slots.ReleaseByLockToken(ctx, lockToken)
	if err != nil {
		return err
	}

	// Releasing a lock that already expired or was never held is a no-op;
	// the caller wanted the slot free and it is.
	if !released {
		m.log.Debug("Release found no live lock", zap.String("lock_token", lockToken.String()))
		return nil
	}

	m.log.Info("Slot lock released", zap.String("lock_token", lockToken.String()))
	return nil
}

func (m *lockManager) Confirm(ctx context.Context, lockToken uuid.UUID, bookingID uuid.UUID, status entity.SlotStatus) error {
	confirmed, err := m.slots.ConfirmLock(ctx, lockToken, bookingID, status, time.Now())
	if err != nil {
		return err
	}

	if !confirmed {
		return schedErrorf(KindLockExpired, "lock %s has expired - start the booking again", lockToken.String())
	}

	m.log.Info("Slot lock confirmed",
		zap.String("lock_token", lockToken.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(status)),
	)

	return nil
}

func (m *lockManager) TTL() time.Duration {
	return m.ttl
}
