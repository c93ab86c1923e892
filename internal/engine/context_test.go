package engine

import (
	"fmt"
	"testing"

	"github.com/attunelabs/attune/internal/microbridge"
	"github.com/attunelabs/attune/internal/signals"
)

func TestLearnerContext_SkillStates(t *testing.T) {
	lc := NewContext("learner", "session")
	lc.SetSkillState("fractions", signals.KnowledgeState{MasteryProbability: 0.4})

	ks, ok := lc.SkillStates["fractions"]
	if !ok || ks.MasteryProbability != 0.4 {
		t.Errorf("got %+v, want mastery 0.4", ks)
	}
}

func TestGapRing_KeepsInsertionOrder(t *testing.T) {
	lc := NewContext("learner", "session")
	for i := 0; i < 3; i++ {
		lc.AddGap(microbridge.SkillGap{SkillID: fmt.Sprintf("s%d", i)})
	}

	gaps := lc.RecentGaps()
	if len(gaps) != 3 {
		t.Fatalf("got %d gaps, want 3", len(gaps))
	}
	for i, g := range gaps {
		if want := fmt.Sprintf("s%d", i); g.SkillID != want {
			t.Errorf("gap %d: got %q, want %q", i, g.SkillID, want)
		}
	}
}

func TestGapRing_EvictsOldestBeyondCapacity(t *testing.T) {
	lc := NewContext("learner", "session")
	for i := 0; i < MaxRecentGaps+3; i++ {
		lc.AddGap(microbridge.SkillGap{SkillID: fmt.Sprintf("s%d", i)})
	}

	gaps := lc.RecentGaps()
	if len(gaps) != MaxRecentGaps {
		t.Fatalf("got %d gaps, want %d", len(gaps), MaxRecentGaps)
	}
	if gaps[0].SkillID != "s3" {
		t.Errorf("oldest surviving gap should be s3, got %q", gaps[0].SkillID)
	}
	if gaps[len(gaps)-1].SkillID != fmt.Sprintf("s%d", MaxRecentGaps+2) {
		t.Errorf("newest gap missing, got %q", gaps[len(gaps)-1].SkillID)
	}
}

func TestGapRing_Empty(t *testing.T) {
	lc := NewContext("learner", "session")
	if gaps := lc.RecentGaps(); gaps != nil {
		t.Errorf("got %v, want nil for empty ring", gaps)
	}
}
