package engine

import (
	"github.com/attunelabs/attune/internal/microbridge"
	"github.com/attunelabs/attune/internal/signals"
)

// MaxRecentGaps bounds how many skill gaps a learner context remembers.
const MaxRecentGaps = 10

// LearnerContext carries the per-learner state the engine needs across
// events: the mastery estimates supplied by the caller and the most
// recently detected skill gaps.
type LearnerContext struct {
	LearnerID string
	SessionID string

	// SkillStates holds the external mastery estimator's output per skill.
	// The caller keeps this current; the engine only reads it.
	SkillStates map[string]signals.KnowledgeState

	gaps gapRing
}

// NewContext creates a learner context.
func NewContext(learnerID, sessionID string) *LearnerContext {
	return &LearnerContext{
		LearnerID:   learnerID,
		SessionID:   sessionID,
		SkillStates: make(map[string]signals.KnowledgeState),
	}
}

// SetSkillState records the mastery estimate for a skill.
func (c *LearnerContext) SetSkillState(skillID string, ks signals.KnowledgeState) {
	c.SkillStates[skillID] = ks
}

// AddGap remembers a detected skill gap. Only the last MaxRecentGaps are
// kept; older ones fall off.
func (c *LearnerContext) AddGap(gap microbridge.SkillGap) {
	c.gaps.push(gap)
}

// RecentGaps returns the remembered gaps, oldest first.
func (c *LearnerContext) RecentGaps() []microbridge.SkillGap {
	return c.gaps.items()
}

// gapRing is a fixed-capacity circular buffer. Pushing beyond capacity
// overwrites the oldest entry in O(1).
type gapRing struct {
	buf   [MaxRecentGaps]microbridge.SkillGap
	head  int
	count int
}

func (r *gapRing) push(gap microbridge.SkillGap) {
	r.buf[(r.head+r.count)%MaxRecentGaps] = gap
	if r.count < MaxRecentGaps {
		r.count++
	} else {
		r.head = (r.head + 1) % MaxRecentGaps
	}
}

func (r *gapRing) items() []microbridge.SkillGap {
	if r.count == 0 {
		return nil
	}
	out := make([]microbridge.SkillGap, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%MaxRecentGaps]
	}
	return out
}
