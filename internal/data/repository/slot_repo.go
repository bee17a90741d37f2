package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-queue/internal/data/entity"
	"hospital-queue/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SlotRepository interface {
	// AcquireLock is the compare-and-swap that underpins per-slot
	// exclusivity. It succeeds only when the slot row is absent, available,
	// cancelled, or holds an expired lock. Exactly one of any set of
	// concurrent callers for the same (session, date, token) wins.
	AcquireLock(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, lockToken uuid.UUID, expiresAt time.Time) (bool, error)

	FindBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Slot, error)
	FindByToken(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int) (*entity.Slot, error)
	FindByLockToken(ctx context.Context, lockToken uuid.UUID) (*entity.Slot, error)

	// ConfirmLock converts a still-valid lock to the given settled status.
	// Returns false when the lock no longer stands (expired or replaced).
	ConfirmLock(ctx context.Context, lockToken uuid.UUID, bookingID uuid.UUID, status entity.SlotStatus, now time.Time) (bool, error)

	// ReleaseByLockToken reverts an unconfirmed lock to available.
	ReleaseByLockToken(ctx context.Context, lockToken uuid.UUID) (bool, error)

	// ReleaseSlot frees a booked or confirmed slot (cancellation, modify).
	ReleaseSlot(ctx context.Context, slotID uuid.UUID) error

	// ReleaseExpiredForSession heals stale locks for one (session, date)
	// before a read or allocation touches the grid.
	ReleaseExpiredForSession(ctx context.Context, sessionID uuid.UUID, date time.Time, now time.Time) (int64, error)

	// ReleaseAllExpired is the reaper's table-wide sweep.
	ReleaseAllExpired(ctx context.Context, now time.Time) (int64, error)
}

type slotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSlotRepository(db database.PgxIface, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

func (r *slotRepository) AcquireLock(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, lockToken uuid.UUID, expiresAt time.Time) (bool, error) {
	// Single atomic statement: insert the row, or take over an existing row
	// only while its current state permits it. Losers affect zero rows.
	query := `
		INSERT INTO slots (id, session_id, appointment_date, token_number, status, estimated_time, lock_token, lock_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'locked', $5, $6, $7, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT uq_slots_session_date_token DO UPDATE
		SET status = 'locked',
		    estimated_time = EXCLUDED.estimated_time,
		    lock_token = EXCLUDED.lock_token,
		    lock_expires_at = EXCLUDED.lock_expires_at,
		    booking_id = NULL,
		    updated_at = NOW()
		WHERE slots.status IN ('available', 'cancelled')
		   OR (slots.status = 'locked' AND slots.lock_expires_at < NOW())
	`

	result, err := r.db.Exec(ctx, query,
		uuid.New(),
		sessionID,
		date,
		tokenNumber,
		estimatedTime,
		lockToken,
		expiresAt,
	)

	if err != nil {
		r.log.Error("Failed to acquire slot lock",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Time("appointment_date", date),
			zap.Int("token_number", tokenNumber),
		)
		return false, fmt.Errorf("acquire lock for token %d: %w", tokenNumber, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *slotRepository) FindBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Slot, error) {
	query := `
		SELECT id, session_id, appointment_date, token_number, status, estimated_time, lock_token, lock_expires_at, booking_id, created_at, updated_at
		FROM slots
		WHERE session_id = $1 AND appointment_date = $2
		ORDER BY token_number
	`

	rows, err := r.db.Query(ctx, query, sessionID, date)
	if err != nil {
		r.log.Error("Failed to find slots by session and date",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Time("appointment_date", date),
		)
		return nil, fmt.Errorf("find slots for session %s: %w", sessionID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (r *slotRepository) FindByToken(ctx context.Context, sessionID uuid.UUID, date time.Time, tokenNumber int) (*entity.Slot, error) {
	query := `
		SELECT id, session_id, appointment_date, token_number, status, estimated_time, lock_token, lock_expires_at, booking_id, created_at, updated_at
		FROM slots
		WHERE session_id = $1 AND appointment_date = $2 AND token_number = $3
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, sessionID, date, tokenNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by token",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Int("token_number", tokenNumber),
		)
		return nil, fmt.Errorf("find slot for token %d: %w", tokenNumber, err)
	}

	return slot, nil
}

func (r *slotRepository) FindByLockToken(ctx context.Context, lockToken uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, session_id, appointment_date, token_number, status, estimated_time, lock_token, lock_expires_at, booking_id, created_at, updated_at
		FROM slots
		WHERE lock_token = $1
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, lockToken))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by lock token",
			zap.Error(err),
			zap.String("lock_token", lockToken.String()),
		)
		return nil, fmt.Errorf("find slot by lock token %s: %w", lockToken.String(), err)
	}

	return slot, nil
}

func (r *slotRepository) ConfirmLock(ctx context.Context, lockToken uuid.UUID, bookingID uuid.UUID, status entity.SlotStatus, now time.Time) (bool, error) {
	query := `
		UPDATE slots
		SET status = $3, booking_id = $4, lock_token = NULL, lock_expires_at = NULL, updated_at = NOW()
		WHERE lock_token = $1 AND status = 'locked' AND lock_expires_at >= $2
	`

	result, err := r.db.Exec(ctx, query, lockToken, now, status, bookingID)
	if err != nil {
		r.log.Error("Failed to confirm slot lock",
			zap.Error(err),
			zap.String("lock_token", lockToken.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("confirm lock %s: %w", lockToken.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *slotRepository) ReleaseByLockToken(ctx context.Context, lockToken uuid.UUID) (bool, error) {
	query := `
		UPDATE slots
		SET status = 'available', lock_token = NULL, lock_expires_at = NULL, booking_id = NULL, updated_at = NOW()
		WHERE lock_token = $1 AND status = 'locked'
	`

	result, err := r.db.Exec(ctx, query, lockToken)
	if err != nil {
		r.log.Error("Failed to release slot lock",
			zap.Error(err),
			zap.String("lock_token", lockToken.String()),
		)
		return false, fmt.Errorf("release lock %s: %w", lockToken.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *slotRepository) ReleaseSlot(ctx context.Context, slotID uuid.UUID) error {
	query := `
		UPDATE slots
		SET status = 'available', lock_token = NULL, lock_expires_at = NULL, booking_id = NULL, updated_at = NOW()
		WHERE id = $1 AND status IN ('booked', 'confirmed')
	`

	result, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("slot_id", slotID.String()),
		)
		return fmt.Errorf("release slot %s: %w", slotID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot %s not in a releasable state", slotID.String())
	}

	return nil
}

func (r *slotRepository) ReleaseExpiredForSession(ctx context.Context, sessionID uuid.UUID, date time.Time, now time.Time) (int64, error) {
	query := `
		UPDATE slots
		SET status = 'available', lock_token = NULL, lock_expires_at = NULL, booking_id = NULL, updated_at = NOW()
		WHERE session_id = $1 AND appointment_date = $2 AND status = 'locked' AND lock_expires_at < $3
	`

	result, err := r.db.Exec(ctx, query, sessionID, date, now)
	if err != nil {
		r.log.Error("Failed to release expired locks for session",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Time("appointment_date", date),
		)
		return 0, fmt.Errorf("release expired locks for session %s: %w", sessionID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *slotRepository) ReleaseAllExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE slots
		SET status = 'available', lock_token = NULL, lock_expires_at = NULL, booking_id = NULL, updated_at = NOW()
		WHERE status = 'locked' AND lock_expires_at < $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to release expired locks", zap.Error(err))
		return 0, fmt.Errorf("release expired locks: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanSlot reads one slot row from either a pgx.Row or pgx.Rows
func scanSlot(row pgx.Row) (*entity.Slot, error) {
	var slot entity.Slot
	err := row.Scan(
		&slot.ID,
		&slot.SessionID,
		&slot.AppointmentDate,
		&slot.TokenNumber,
		&slot.Status,
		&slot.EstimatedTime,
		&slot.LockToken,
		&slot.LockExpiresAt,
		&slot.BookingID,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
