package response

import (
	"hospital-queue/internal/data/entity"
)

type TokenEntry struct {
	TokenNumber   int               `json:"token_number"`
	Status        entity.SlotStatus `json:"status"`
	EstimatedTime string            `json:"estimated_time"`
	IsAvailable   bool              `json:"is_available"`
}

type AvailabilityResponse struct {
	SessionID      string       `json:"session_id"`
	Date           string       `json:"date"`
	DayOfWeek      string       `json:"day_of_week"`
	StartTime      string       `json:"start_time"`
	EndTime        string       `json:"end_time"`
	TotalTokens    int          `json:"total_tokens"`
	AvailableCount int          `json:"available_count"`
	Tokens         []TokenEntry `json:"tokens"`
}
