package signals

import "time"

// SignalType classifies a behavioral signal.
type SignalType string

const (
	// SignalClickThroughRate measures how quickly a learner moves through
	// content relative to expected time. Value is 1 − engagement ratio.
	SignalClickThroughRate SignalType = "click_through_rate"
)

// BehavioralSignal is an ephemeral observation about learner behavior.
// Signals are emitted to callers, never stored by the engine.
type BehavioralSignal struct {
	Type      SignalType
	Timestamp time.Time
	Value     float64
	Metadata  map[string]string
}

// ConfidenceLevel is the response-capture layer's read of how sure the
// learner looked while answering.
type ConfidenceLevel string

const (
	ConfidenceHigh      ConfidenceLevel = "high"
	ConfidenceMedium    ConfidenceLevel = "medium"
	ConfidenceLow       ConfidenceLevel = "low"
	ConfidenceUncertain ConfidenceLevel = "uncertain"
)

// Hesitation is a behavioral proxy for uncertainty, independent of whether
// the answer was correct. Produced by the external response-capture layer.
type Hesitation struct {
	LatencyMs     int
	Confidence    ConfidenceLevel
	PossibleGuess bool
}

// KnowledgeState is the external mastery estimator's per-skill output
// (e.g. Bayesian Knowledge Tracing). Read-only here.
type KnowledgeState struct {
	// MasteryProbability is the estimated probability the learner has
	// mastered the skill, in [0,1].
	MasteryProbability float64
}
