package payroll

import (
	"context"
	"time"
)

const (
	EventRunCompleted = "payroll.run.completed"
	EventFinalized    = "payroll.finalized"
)

type RunCompletedEvent struct {
	EventType      string    `json:"event_type"`
	OrganizationID string    `json:"organization_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	RecordCount    int       `json:"record_count"`
	SkippedCount   int       `json:"skipped_count"`
	TriggeredBy    string    `json:"triggered_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type FinalizedEvent struct {
	EventType      string    `json:"event_type"`
	OrganizationID string    `json:"organization_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	ApprovedCount  int64     `json:"approved_count"`
	TriggeredBy    string    `json:"triggered_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, event RunCompletedEvent) error
	PublishFinalized(ctx context.Context, event FinalizedEvent) error
}
