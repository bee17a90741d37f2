package request

type CreateBookingRequest struct {
	LockToken    string `json:"lock_token" validate:"required,uuid4"`
	PatientName  string `json:"patient_name" validate:"required,min=2,max=255"`
	PatientPhone string `json:"patient_phone" validate:"omitempty,min=7,max=20"`
	PatientAge   *int   `json:"patient_age,omitempty" validate:"omitempty,min=0,max=130"`
	BookingType  string `json:"booking_type" validate:"required,oneof=next time token grid"`
}

type ConfirmPaymentRequest struct {
	LockToken string `json:"lock_token" validate:"required,uuid4"`
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

type ReleaseLockRequest struct {
	LockToken string `json:"lock_token" validate:"required,uuid4"`
	// Optional pending booking to void together with the lock.
	BookingID string `json:"booking_id,omitempty" validate:"omitempty,uuid4"`
}

// ModifyBookingRequest re-runs allocation for an existing confirmed booking.
type ModifyBookingRequest struct {
	NewDate       string `json:"new_date" validate:"required,datetime=2006-01-02"`
	Type          string `json:"type" validate:"required,oneof=next time token grid"`
	RequestedTime string `json:"requested_time,omitempty" validate:"omitempty,datetime=15:04"`
	TokenNumber   int    `json:"token_number,omitempty" validate:"omitempty,min=1"`
}
