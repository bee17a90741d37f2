package response

type QueueStatusResponse struct {
	SessionID               string `json:"session_id"`
	Date                    string `json:"date"`
	TokenNumber             int    `json:"token_number"`
	CurrentlyServing        int    `json:"currently_serving"`
	TokensAhead             int    `json:"tokens_ahead"`
	CompletedToday          int    `json:"completed_today"`
	TotalTokensToday        int    `json:"total_tokens_today"`
	EstimatedWaitingMinutes int    `json:"estimated_waiting_minutes"`
	QueuePosition           string `json:"queue_position"` // "current" or "waiting"
}
