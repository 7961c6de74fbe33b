package entities

import "time"

// SearchEvent captures one executed hospital search for analytics.
type SearchEvent struct {
	ID          string    `json:"id"`
	Condition   string    `json:"condition"`
	Location    string    `json:"location"`
	Degraded    bool      `json:"degraded"`
	ResultCount int       `json:"result_count"`
	DurationMs  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}
