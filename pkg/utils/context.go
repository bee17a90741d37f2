package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	PatientIDKey contextKey = "patient_id"
	StaffRoleKey contextKey = "staff_role"
)

func GetPatientIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	patientIDVal := ctx.Value(PatientIDKey)
	if patientIDVal == nil {
		return uuid.Nil, false
	}

	patientIDStr, ok := patientIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	patientID, err := uuid.Parse(patientIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return patientID, true
}

func SetPatientContext(ctx context.Context, patientID uuid.UUID) context.Context {
	return context.WithValue(ctx, PatientIDKey, patientID.String())
}

func GetStaffRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(StaffRoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetStaffRoleContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, StaffRoleKey, role)
}
