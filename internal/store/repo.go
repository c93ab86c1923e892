package store

import (
	"context"
	"time"
)

// EngagementEventData records one block-complete observation.
type EngagementEventData struct {
	LearnerID  string
	BlockID    string
	BlockType  string
	ExpectedMs int
	ActualMs   int
	WasSkipped bool
	SkipStreak int
	Ratio      float64
}

// InterventionEventData records a queue lifecycle transition for one
// intervention: created, accepted, or dismissed.
type InterventionEventData struct {
	LearnerID      string
	InterventionID string
	Type           string
	Trigger        string
	Priority       string
	Severity       string
	Action         string
	Message        string
}

// BridgeEventData records micro-bridge generation or completion.
type BridgeEventData struct {
	LearnerID    string
	BridgeID     string
	SkillIDs     []string
	DurationSecs int
	Status       string
}

// LLMRequestEventData captures a single LLM API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EngagementSummary aggregates a learner's recorded engagement events.
type EngagementSummary struct {
	Blocks        int
	SkippedBlocks int
	AvgRatio      float64
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// InterventionEventRecord is a stored intervention event with its global
// sequence and timestamp.
type InterventionEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	InterventionEventData
}

// EventRepo provides append and query access to the behavioral event log.
// Appends are best-effort from the engine's point of view: a failed append
// never fails the triggering operation.
type EventRepo interface {
	AppendEngagement(ctx context.Context, data EngagementEventData) error
	AppendIntervention(ctx context.Context, data InterventionEventData) error
	AppendBridge(ctx context.Context, data BridgeEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// InterventionCounts returns event counts per action (created,
	// accepted, dismissed) for a learner.
	InterventionCounts(ctx context.Context, learnerID string) (map[string]int, error)

	// QueryInterventionEvents returns a learner's intervention events in
	// sequence order.
	QueryInterventionEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]InterventionEventRecord, error)

	// EngagementSummary aggregates a learner's engagement events.
	EngagementSummary(ctx context.Context, learnerID string) (EngagementSummary, error)
}
