package entity

import (
	"github.com/google/uuid"
)

type Doctor struct {
	BaseNoDelete
	HospitalID uuid.UUID `db:"hospital_id"`
	Name       string    `db:"name"`
	Specialty  string    `db:"specialty"`
}
