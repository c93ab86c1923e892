package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) EventRepo {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo, err := st.EventRepo()
	require.NoError(t, err)
	return repo
}

func TestSequenceIsMonotonicAcrossEventTypes(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEngagement(ctx, EngagementEventData{LearnerID: "l", BlockID: "b"}))
	require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{LearnerID: "l", Action: "created"}))
	require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{LearnerID: "l", Action: "accepted"}))

	events, err := repo.QueryInterventionEvents(ctx, "l", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Engagement took sequence 1, so the intervention events start at 2.
	require.Equal(t, int64(2), events[0].Sequence)
	require.Equal(t, int64(3), events[1].Sequence)
}

func TestQueryInterventionEvents(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, action := range []string{"created", "accepted", "created", "dismissed"} {
		require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{
			LearnerID:      "l",
			InterventionID: "iv-" + action,
			Type:           "speed_bump",
			Trigger:        "doom_scroll",
			Priority:       "high",
			Severity:       "severe",
			Action:         action,
			Message:        "slow down",
		}))
	}
	require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{
		LearnerID: "other", Action: "created",
	}))

	events, err := repo.QueryInterventionEvents(ctx, "l", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	require.Equal(t, "created", events[0].Action)
	require.Equal(t, "doom_scroll", events[0].Trigger)
	require.False(t, events[0].Timestamp.IsZero())

	limited, err := repo.QueryInterventionEvents(ctx, "l", QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestInterventionCounts(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, action := range []string{"created", "created", "accepted"} {
		require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{
			LearnerID: "l", Action: action,
		}))
	}

	counts, err := repo.InterventionCounts(ctx, "l")
	require.NoError(t, err)
	require.Equal(t, 2, counts["created"])
	require.Equal(t, 1, counts["accepted"])
	require.Equal(t, 0, counts["dismissed"])
}

func TestEngagementSummary(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEngagement(ctx, EngagementEventData{
		LearnerID: "l", BlockID: "b1", Ratio: 0.9,
	}))
	require.NoError(t, repo.AppendEngagement(ctx, EngagementEventData{
		LearnerID: "l", BlockID: "b2", WasSkipped: true, SkipStreak: 1, Ratio: 0.5,
	}))

	summary, err := repo.EngagementSummary(ctx, "l")
	require.NoError(t, err)
	require.Equal(t, 2, summary.Blocks)
	require.Equal(t, 1, summary.SkippedBlocks)
	require.InDelta(t, 0.7, summary.AvgRatio, 1e-9)
}

func TestEngagementSummary_NoEvents(t *testing.T) {
	repo := openTestRepo(t)

	summary, err := repo.EngagementSummary(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, 0, summary.Blocks)
	require.Equal(t, 0.0, summary.AvgRatio)
}

func TestAppendBridgeAndLLMRequest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendBridge(ctx, BridgeEventData{
		LearnerID:    "l",
		BridgeID:     "bridge-1",
		SkillIDs:     []string{"fractions", "decimals"},
		DurationSecs: 120,
		Status:       "generated",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "mock",
		Purpose:      "microbridge",
		InputTokens:  100,
		OutputTokens: 50,
		LatencyMs:    12,
		Success:      true,
	}))
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	st, err := Open(path)
	require.NoError(t, err)
	repo, err := st.EventRepo()
	require.NoError(t, err)
	require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{LearnerID: "l", Action: "created"}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	repo, err = st.EventRepo()
	require.NoError(t, err)
	require.NoError(t, repo.AppendIntervention(ctx, InterventionEventData{LearnerID: "l", Action: "dismissed"}))

	events, err := repo.QueryInterventionEvents(ctx, "l", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Greater(t, events[1].Sequence, events[0].Sequence)
}
