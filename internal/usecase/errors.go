package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scheduling failures. Every kind is recoverable by
// retrying with different input; infrastructure failures are ordinary
// wrapped errors and deliberately stay outside this taxonomy.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindSessionNotFound      ErrorKind = "session_not_found"
	KindBookingNotFound      ErrorKind = "booking_not_found"
	KindInvalidDate          ErrorKind = "invalid_date"
	KindSessionFull          ErrorKind = "session_full"
	KindOutsideSessionWindow ErrorKind = "outside_session_window"
	KindTimeConflict         ErrorKind = "time_conflict"
	KindInvalidTokenNumber   ErrorKind = "invalid_token_number"
	KindSlotTaken            ErrorKind = "slot_taken"
	KindLockExpired          ErrorKind = "lock_expired"
	KindDayMismatch          ErrorKind = "day_mismatch"
	KindInvalidState         ErrorKind = "invalid_state"
	KindValidation           ErrorKind = "validation"
)

// SchedulingError carries the kind plus a message specific enough for the
// UI to offer a corrective action.
type SchedulingError struct {
	Kind    ErrorKind
	Message string
}

func (e *SchedulingError) Error() string {
	return e.Message
}

func schedErrorf(kind ErrorKind, format string, args ...any) *SchedulingError {
	return &SchedulingError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsKind reports whether err is a SchedulingError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var schedErr *SchedulingError
	return errors.As(err, &schedErr) && schedErr.Kind == kind
}
