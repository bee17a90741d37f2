package response

import "time"

type AllocationResponse struct {
	SessionID     string    `json:"session_id"`
	Date          string    `json:"date"`
	TokenNumber   int       `json:"token_number"`
	EstimatedTime string    `json:"estimated_time"`
	BookingType   string    `json:"booking_type"`
	LockToken     string    `json:"lock_token,omitempty"`
	LockExpiresAt time.Time `json:"lock_expires_at,omitzero"`
}
