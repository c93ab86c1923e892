package microbridge

import "time"

// Status is the bridge lifecycle state.
//
// generated → in_progress → completed is the normal path. skipped exists
// for callers that abandon a bridge; nothing in this package sets it.
type Status string

const (
	StatusGenerated  Status = "generated"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// ContentType classifies a bridge block's pedagogical role.
type ContentType string

const (
	ContentExplanation ContentType = "explanation"
	ContentExample     ContentType = "example"
	ContentPractice    ContentType = "practice"
	ContentSummary     ContentType = "summary"
)

// Block is one unit of remedial content inside a bridge. Blocks are ordered
// 0..n-1 via Order.
type Block struct {
	ID           string
	SkillID      string
	ContentType  ContentType
	Content      string
	DurationSecs int
	Order        int
}

// Quiz is an optional verification attached to a bridge, administered by
// the rendering layer after the learner works through the blocks.
type Quiz struct {
	Question    string
	Answer      string
	Explanation string
}

// Bridge is a short, duration-budgeted remediation sequence targeting only
// the learner's identified gaps, instead of a full content redo.
type Bridge struct {
	ID           string
	LearnerID    string
	TargetSkills []string
	Blocks       []Block

	// EstimatedDurationSecs is the sum of block durations.
	EstimatedDurationSecs int

	VerificationQuiz *Quiz

	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}
