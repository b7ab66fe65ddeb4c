package domain

import "time"

// Event is one recorded pixel open or link click. Events are append-only.
type Event struct {
	ID         string    `json:"id"`
	ArtifactID string    `json:"artifact_id"`
	OccurredAt time.Time `json:"occurred_at"`
	SourceIP   string    `json:"source_ip"`
	Header     string    `json:"header"`
	UserAgent  string    `json:"user_agent"`
	Device     string    `json:"device"`
}
