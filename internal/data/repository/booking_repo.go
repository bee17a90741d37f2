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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByPatientID(ctx context.Context, patientID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	// UpdateSchedule rewrites the slot coordinates after a modification.
	UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, bookingType entity.BookingType) error
	MarkCompleted(ctx context.Context, id uuid.UUID, finishedAt time.Time) error

	// FindActiveBySessionDate returns confirmed and completed bookings for
	// one day's queue, ordered by token number. The queue projector's input.
	FindActiveBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_ref, patient_id, session_id, hospital_id, appointment_date, token_number, estimated_time, booking_type, patient_name, patient_phone, patient_age, status, actual_start, actual_end, created_at, updated_at, deleted_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_ref, patient_id, session_id, hospital_id, appointment_date, token_number, estimated_time, booking_type, patient_name, patient_phone, patient_age, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingRef,
		booking.PatientID,
		booking.SessionID,
		booking.HospitalID,
		booking.AppointmentDate,
		booking.TokenNumber,
		booking.EstimatedTime,
		booking.BookingType,
		booking.PatientName,
		booking.PatientPhone,
		booking.PatientAge,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_ref", booking.BookingRef),
			zap.String("session_id", booking.SessionID.String()),
			zap.Int("token_number", booking.TokenNumber),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingRef, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY appointment_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, patientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by patient ID",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return nil, fmt.Errorf("find bookings by patient ID %s: %w", patientID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByPatientID(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE patient_id = $1 AND deleted_at IS NULL`

	var total int64
	if err := r.db.QueryRow(ctx, query, patientID).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings by patient ID",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
		return 0, fmt.Errorf("count bookings by patient ID %s: %w", patientID.String(), err)
	}

	return total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, tokenNumber int, estimatedTime string, bookingType entity.BookingType) error {
	query := `
		UPDATE bookings
		SET appointment_date = $2, token_number = $3, estimated_time = $4, booking_type = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, date, tokenNumber, estimatedTime, bookingType)
	if err != nil {
		r.log.Error("Failed to update booking schedule",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Int("token_number", tokenNumber),
		)
		return fmt.Errorf("update booking %s schedule: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) MarkCompleted(ctx context.Context, id uuid.UUID, finishedAt time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'completed', actual_start = COALESCE(actual_start, $2), actual_end = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed' AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, finishedAt)
	if err != nil {
		r.log.Error("Failed to mark booking completed",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("mark booking %s completed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found or not confirmed", id.String())
	}

	return nil
}

func (r *bookingRepository) FindActiveBySessionDate(ctx context.Context, sessionID uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE session_id = $1 AND appointment_date = $2
		  AND status IN ('confirmed', 'completed') AND deleted_at IS NULL
		ORDER BY token_number
	`

	rows, err := r.db.Query(ctx, query, sessionID, date)
	if err != nil {
		r.log.Error("Failed to find active bookings by session and date",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.Time("appointment_date", date),
		)
		return nil, fmt.Errorf("find active bookings for session %s: %w", sessionID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingRef,
		&booking.PatientID,
		&booking.SessionID,
		&booking.HospitalID,
		&booking.AppointmentDate,
		&booking.TokenNumber,
		&booking.EstimatedTime,
		&booking.BookingType,
		&booking.PatientName,
		&booking.PatientPhone,
		&booking.PatientAge,
		&booking.Status,
		&booking.ActualStart,
		&booking.ActualEnd,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
