package intervention

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of remediation an intervention asks for.
type Type string

const (
	TypeSpeedBump       Type = "speed_bump"
	TypeConfidenceCheck Type = "confidence_check"
	TypeMicroBridge     Type = "micro_bridge"
)

// Trigger names the detector that produced an intervention.
type Trigger string

const (
	TriggerDoomScroll      Trigger = "doom_scroll"
	TriggerFalseConfidence Trigger = "false_confidence"
)

// Priority orders interventions for the presentation layer.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Severity grades how strongly a detector fired.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// PriorityFor maps a detector severity to a queue priority.
func PriorityFor(s Severity) Priority {
	switch s {
	case SeveritySevere:
		return PriorityHigh
	case SeverityModerate:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Intervention is a queued prompt for the learner. It is created by a
// generator, held in a Store with a TTL, and removed on accept, dismiss,
// or expiry.
type Intervention struct {
	ID       string
	Type     Type
	Trigger  Trigger
	Priority Priority
	Severity Severity

	// Message is the learner-facing prompt text.
	Message string

	// ActionLabel is the call-to-action shown on the prompt, if any.
	ActionLabel string

	// TargetContentID is the content block that triggered the intervention.
	TargetContentID string

	// TargetSkillIDs are the skills a confidence check or bridge addresses.
	TargetSkillIDs []string

	CreatedAt   time.Time
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	DismissedAt *time.Time
}

// New creates an intervention with a fresh ID. ExpiresAt is assigned by the
// Store when the intervention is enqueued.
func New(typ Type, trigger Trigger, sev Severity, message string) Intervention {
	return Intervention{
		ID:        uuid.NewString(),
		Type:      typ,
		Trigger:   trigger,
		Priority:  PriorityFor(sev),
		Severity:  sev,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
