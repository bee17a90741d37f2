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

type HospitalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hospital, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Hospital, error)
	Count(ctx context.Context) (int64, error)
}

type hospitalRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHospitalRepository(db database.PgxIface, log *zap.Logger) HospitalRepository {
	return &hospitalRepository{
		db:  db,
		log: log.With(zap.String("repository", "hospital")),
	}
}

func (r *hospitalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hospital, error) {
	query := `
		SELECT id, name, address, city, phone, created_at, updated_at
		FROM hospitals
		WHERE id = $1
	`

	var hospital entity.Hospital
	err := r.db.QueryRow(ctx, query, id).Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Address,
		&hospital.City,
		&hospital.Phone,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hospital by ID",
			zap.Error(err),
			zap.String("hospital_id", id.String()),
		)
		return nil, fmt.Errorf("find hospital by ID %s: %w", id.String(), err)
	}

	return &hospital, nil
}

func (r *hospitalRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Hospital, error) {
	query := `
		SELECT id, name, address, city, phone, created_at, updated_at
		FROM hospitals
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find hospitals", zap.Error(err))
		return nil, fmt.Errorf("find hospitals: %w", err)
	}
	defer rows.Close()

	var hospitals []*entity.Hospital
	for rows.Next() {
		var hospital entity.Hospital
		err := rows.Scan(
			&hospital.ID,
			&hospital.Name,
			&hospital.Address,
			&hospital.City,
			&hospital.Phone,
			&hospital.CreatedAt,
			&hospital.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan hospital row", zap.Error(err))
			return nil, fmt.Errorf("scan hospital row: %w", err)
		}
		hospitals = append(hospitals, &hospital)
	}

	return hospitals, nil
}

func (r *hospitalRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM hospitals`

	var total int64
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		r.log.Error("Failed to count hospitals", zap.Error(err))
		return 0, fmt.Errorf("count hospitals: %w", err)
	}

	return total, nil
}
