package events

import (
	"time"

	"github.com/spec-kit/department-summary/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSummaryRefreshed EventType = "summary_refreshed"
	EventFetchFailed      EventType = "fetch_failed"
	EventBatchRejected    EventType = "batch_rejected"
)

// Event represents a cycle event emitted by the summary service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CycleID   string      `json:"cycle_id"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SummaryRefreshedPayload payload.
type SummaryRefreshedPayload struct {
	Records     int                    `json:"records"`
	Processed   int                    `json:"processed"`
	Departments int                    `json:"departments"`
	Skipped     []domain.SkippedRecord `json:"skipped,omitempty"`
}

// FetchFailedPayload payload.
type FetchFailedPayload struct {
	Error string `json:"error"`
}

// BatchRejectedPayload payload.
type BatchRejectedPayload struct {
	Index  int    `json:"index"`
	UserID int    `json:"user_id"`
	Reason string `json:"reason"`
}
