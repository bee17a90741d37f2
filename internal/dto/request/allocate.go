package request

// AllocateRequest is the single entry point for all four booking strategies.
// Type selects the branch; RequestedTime and TokenNumber are only read for
// the branches that need them.
type AllocateRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Type      string `json:"type" validate:"required,oneof=next time token grid"`
	// Requested consultation time, HH:MM. Required for type=time.
	RequestedTime string `json:"requested_time,omitempty" validate:"omitempty,datetime=15:04"`
	// Explicit token pick. Required for type=token and type=grid.
	TokenNumber int `json:"token_number,omitempty" validate:"omitempty,min=1"`
}
