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

type DoctorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByHospitalID(ctx context.Context, hospitalID uuid.UUID) ([]*entity.Doctor, error)
}

type doctorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDoctorRepository(db database.PgxIface, log *zap.Logger) DoctorRepository {
	return &doctorRepository{
		db:  db,
		log: log.With(zap.String("repository", "doctor")),
	}
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `
		SELECT id, hospital_id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`

	var doctor entity.Doctor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&doctor.ID,
		&doctor.HospitalID,
		&doctor.Name,
		&doctor.Specialty,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find doctor by ID",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return nil, fmt.Errorf("find doctor by ID %s: %w", id.String(), err)
	}

	return &doctor, nil
}

func (r *doctorRepository) FindByHospitalID(ctx context.Context, hospitalID uuid.UUID) ([]*entity.Doctor, error) {
	query := `
		SELECT id, hospital_id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE hospital_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, hospitalID)
	if err != nil {
		r.log.Error("Failed to find doctors by hospital ID",
			zap.Error(err),
			zap.String("hospital_id", hospitalID.String()),
		)
		return nil, fmt.Errorf("find doctors by hospital ID %s: %w", hospitalID.String(), err)
	}
	defer rows.Close()

	var doctors []*entity.Doctor
	for rows.Next() {
		var doctor entity.Doctor
		err := rows.Scan(
			&doctor.ID,
			&doctor.HospitalID,
			&doctor.Name,
			&doctor.Specialty,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan doctor row", zap.Error(err))
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, &doctor)
	}

	return doctors, nil
}
