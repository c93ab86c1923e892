package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attunelabs/attune/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <learner-id>",
	Short: "Show a learner's intervention and engagement history",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	learnerID := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	repo, err := st.EventRepo()
	if err != nil {
		return err
	}

	ctx := context.Background()

	summary, err := repo.EngagementSummary(ctx, learnerID)
	if err != nil {
		return err
	}
	fmt.Printf("Engagement: %d blocks recorded, %d skipped, avg ratio %.2f\n",
		summary.Blocks, summary.SkippedBlocks, summary.AvgRatio)

	counts, err := repo.InterventionCounts(ctx, learnerID)
	if err != nil {
		return err
	}
	fmt.Printf("Interventions: %d created, %d accepted, %d dismissed\n",
		counts["created"], counts["accepted"], counts["dismissed"])

	events, err := repo.QueryInterventionEvents(ctx, learnerID, store.QueryOpts{Limit: 20})
	if err != nil {
		return err
	}
	if len(events) > 0 {
		fmt.Println("\nRecent intervention events:")
		for _, ev := range events {
			fmt.Printf("  #%d %s  %-9s [%s/%s] %s\n",
				ev.Sequence, ev.Timestamp.Format("2006-01-02 15:04"),
				ev.Action, ev.Type, ev.Severity, ev.Message)
		}
	}

	return nil
}
