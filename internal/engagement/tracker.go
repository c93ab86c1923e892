package engagement

import (
	"sync"
	"time"

	"github.com/attunelabs/attune/internal/content"
	"github.com/attunelabs/attune/internal/signals"
)

const (
	// ReadingWordsPerMinute is the assumed reading speed for text blocks.
	ReadingWordsPerMinute = 200

	// SkipFraction: a block counts as skipped when actual time is under
	// this fraction of expected time.
	SkipFraction = 0.3

	// SkimRatioThreshold: session ratio below this flags skimming.
	SkimRatioThreshold = 0.3

	// SkimStreakThreshold: this many consecutive skips flags skimming
	// regardless of the cumulative ratio.
	SkimStreakThreshold = 3
)

// typeMultipliers scale expected time by how demanding a block type is.
var typeMultipliers = map[content.BlockType]float64{
	content.TypeText:        1.0,
	content.TypeVideo:       1.2,
	content.TypeInteractive: 1.5,
	content.TypeAssessment:  2.0,
}

// ExpectedTime computes how long a learner should plausibly spend on a
// block, in milliseconds. For text blocks with a word count, the expected
// reading time floors the author's estimate.
func ExpectedTime(block content.Block) int {
	base := float64(block.EstimatedDurationSecs) * 1000

	if block.Type == content.TypeText && block.WordCount > 0 {
		readingMs := float64(block.WordCount) / ReadingWordsPerMinute * 60000
		if readingMs > base {
			base = readingMs
		}
	}

	mult, ok := typeMultipliers[block.Type]
	if !ok {
		mult = 1.0
	}
	return int(base * mult)
}

// Tracker maintains per-learner engagement sessions and derives skim
// metrics from them. It is the doom-scroll detector's state store.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// SetClock overrides the tracker's wall clock. Test hook.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Record registers time spent on a block and returns metrics computed over
// the learner's entire session history. A session is created lazily on the
// first record.
func (t *Tracker) Record(learnerID string, block content.Block, actualMs int) Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[learnerID]
	if !ok {
		s = &Session{
			LearnerID:    learnerID,
			SessionStart: t.now(),
		}
		t.sessions[learnerID] = s
	}

	expected := ExpectedTime(block)
	skipped := float64(actualMs) < float64(expected)*SkipFraction

	if skipped {
		s.SkipStreak++
	} else {
		s.SkipStreak = 0
	}

	s.Blocks = append(s.Blocks, BlockEngagement{
		BlockID:    block.ID,
		ExpectedMs: expected,
		ActualMs:   actualMs,
		Timestamp:  t.now(),
		WasSkipped: skipped,
	})

	return computeMetrics(s)
}

// Signal derives a click-through-rate signal from the learner's session,
// or nil if the learner has no session.
func (t *Tracker) Signal(learnerID string) *signals.BehavioralSignal {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[learnerID]
	if !ok {
		return nil
	}

	m := computeMetrics(s)
	return &signals.BehavioralSignal{
		Type:      signals.SignalClickThroughRate,
		Timestamp: t.now(),
		Value:     1 - m.Ratio,
		Metadata:  map[string]string{"learner_id": learnerID},
	}
}

// Metrics returns the current metrics for a learner without recording
// anything. ok is false if the learner has no session.
func (t *Tracker) Metrics(learnerID string) (Metrics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[learnerID]
	if !ok {
		return Metrics{Ratio: 1.0}, false
	}
	return computeMetrics(s), true
}

// ResetSession drops the learner's session. Called when a speed bump is
// accepted so the learner starts over with a clean slate.
func (t *Tracker) ResetSession(learnerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, learnerID)
}
