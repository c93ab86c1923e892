package engagement

import "time"

// BlockEngagement records time spent on one content block.
type BlockEngagement struct {
	BlockID    string
	ExpectedMs int
	ActualMs   int
	Timestamp  time.Time
	WasSkipped bool
}

// Session is the per-learner engagement history for the current sitting.
//
// Invariant: SkipStreak resets to 0 the instant a non-skipped block is
// recorded; it only grows on skipped blocks.
type Session struct {
	LearnerID    string
	SessionStart time.Time
	Blocks       []BlockEngagement
	SkipStreak   int
}

// Metrics is derived from a session on every record; it is never persisted.
type Metrics struct {
	// AvgActualMs and AvgExpectedMs are per-block averages over the session.
	AvgActualMs   float64
	AvgExpectedMs float64

	// Ratio is total actual over total expected time. An empty session
	// reads as fully engaged (1.0).
	Ratio float64

	// SkippedBlocks counts blocks the learner blew past.
	SkippedBlocks int

	// SkipStreak is the current run of consecutive skipped blocks.
	SkipStreak int

	// IsSkimming flags doom-scroll behavior: sustained low ratio or a run
	// of consecutive skips.
	IsSkimming bool
}

func computeMetrics(s *Session) Metrics {
	if s == nil || len(s.Blocks) == 0 {
		return Metrics{Ratio: 1.0}
	}

	var totalActual, totalExpected int
	skipped := 0
	for _, b := range s.Blocks {
		totalActual += b.ActualMs
		totalExpected += b.ExpectedMs
		if b.WasSkipped {
			skipped++
		}
	}

	ratio := 1.0
	if totalExpected > 0 {
		ratio = float64(totalActual) / float64(totalExpected)
	}

	n := float64(len(s.Blocks))
	return Metrics{
		AvgActualMs:   float64(totalActual) / n,
		AvgExpectedMs: float64(totalExpected) / n,
		Ratio:         ratio,
		SkippedBlocks: skipped,
		SkipStreak:    s.SkipStreak,
		IsSkimming:    ratio < SkimRatioThreshold || s.SkipStreak >= SkimStreakThreshold,
	}
}
