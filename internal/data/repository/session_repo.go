package repository

import (
	"context"
	"fmt"

	"hospital-queue/internal/data/entity"
	"hospital-queue/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SessionRepository reads the doctor session catalog. The catalog service
// owns writes; the scheduling engine never mutates these rows.
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]*entity.Session, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, doctor_id, hospital_id, day_of_week, start_time, end_time,
		       max_tokens, avg_minutes_per_patient, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.DoctorID,
		&session.HospitalID,
		&session.DayOfWeek,
		&session.StartTime,
		&session.EndTime,
		&session.MaxTokens,
		&session.AvgMinutesPerPatient,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session by ID",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("find session by ID %s: %w", id.String(), err)
	}

	return &session, nil
}

func (r *sessionRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]*entity.Session, error) {
	query := `
		SELECT id, doctor_id, hospital_id, day_of_week, start_time, end_time,
		       max_tokens, avg_minutes_per_patient, created_at, updated_at
		FROM sessions
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.db.Query(ctx, query, doctorID)
	if err != nil {
		r.log.Error("Failed to find sessions by doctor ID",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
		)
		return nil, fmt.Errorf("find sessions by doctor ID %s: %w", doctorID.String(), err)
	}
	defer rows.Close()

	var sessions []*entity.Session
	for rows.Next() {
		var session entity.Session
		err := rows.Scan(
			&session.ID,
			&session.DoctorID,
			&session.HospitalID,
			&session.DayOfWeek,
			&session.StartTime,
			&session.EndTime,
			&session.MaxTokens,
			&session.AvgMinutesPerPatient,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan session row", zap.Error(err))
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}
