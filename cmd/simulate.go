package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/attunelabs/attune/internal/content"
	"github.com/attunelabs/attune/internal/engine"
	"github.com/attunelabs/attune/internal/microbridge"
	"github.com/attunelabs/attune/internal/signals"
	"github.com/attunelabs/attune/internal/speedbump"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a scripted learner session through the engine",
	Long: "Runs a canned doom-scroll and false-confidence scenario through the\n" +
		"intervention pipeline and prints every signal, intervention, and\n" +
		"micro-bridge it produces. Useful for eyeballing threshold changes.",
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	repo, err := st.EventRepo()
	if err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(cfg, repo, log)
	if err != nil {
		return err
	}
	defer cleanup()

	enricher, err := buildEnricher(cfg, repo, log)
	if err != nil {
		return err
	}

	lc := engine.NewContext("sim-learner", "sim-session")
	lc.SetSkillState("fractions", signals.KnowledgeState{MasteryProbability: 0.45})

	fmt.Println("— Phase 1: learner reads the first block properly —")
	block := content.Block{ID: "intro", Type: content.TypeText, EstimatedDurationSecs: 60, WordCount: 300}
	res, err := eng.OnBlockComplete(lc, block, 85_000)
	if err != nil {
		return err
	}
	printBlockResult(res)

	fmt.Println("\n— Phase 2: learner starts doom-scrolling —")
	for i := 1; i <= 4; i++ {
		blk := content.Block{
			ID:                    fmt.Sprintf("section-%d", i),
			Type:                  content.TypeVideo,
			EstimatedDurationSecs: 90,
		}
		res, err = eng.OnBlockComplete(lc, blk, 3_000)
		if err != nil {
			return err
		}
		printBlockResult(res)
	}

	fmt.Println("\n— Phase 3: overconfident assessment answer —")
	ares, err := eng.OnAssessmentResponse(lc, "fractions", "Fractions", false, 0.95, signals.Hesitation{
		LatencyMs:     900,
		Confidence:    signals.ConfidenceUncertain,
		PossibleGuess: true,
	})
	if err != nil {
		return err
	}
	if ares.Intervention != nil {
		fmt.Printf("  intervention: [%s/%s] %s\n", ares.Intervention.Type, ares.Intervention.Priority, ares.Intervention.Message)
	}
	if ares.Bridge != nil {
		if enricher != nil {
			names := map[string]string{"fractions": "Fractions"}
			if err := enricher.Enrich(cmd.Context(), ares.Bridge, names); err != nil {
				log.Warn("bridge enrichment failed, keeping templates", zap.Error(err))
			}
		}
		printBridge(ares.Bridge)
	}

	fmt.Println("\n— Pending queue —")
	for _, iv := range eng.Pending(lc.LearnerID) {
		fmt.Printf("  %s  [%s/%s] %s\n", iv.ID[:8], iv.Type, iv.Priority, iv.Message)
	}

	return nil
}

func printBlockResult(res engine.BlockResult) {
	fmt.Printf("  ratio=%.2f streak=%d skimming=%v\n", res.Metrics.Ratio, res.Metrics.SkipStreak, res.Metrics.IsSkimming)
	if res.Intervention != nil {
		fmt.Printf("  intervention: [%s/%s] %s\n", res.Intervention.Type, res.Intervention.Priority, res.Intervention.Message)
		fmt.Printf("  why: %s\n", speedbump.Explain(res.Metrics))
	}
	if res.Bridge != nil {
		printBridge(res.Bridge)
	}
}

func printBridge(b *microbridge.Bridge) {
	fmt.Printf("  micro-bridge %s (%ds, %d blocks):\n", b.ID[:8], b.EstimatedDurationSecs, len(b.Blocks))
	for _, blk := range b.Blocks {
		fmt.Printf("    %d. [%s] %s (%ds)\n", blk.Order, blk.ContentType, blk.Content, blk.DurationSecs)
	}
	if b.VerificationQuiz != nil {
		fmt.Printf("    quiz: %s\n", b.VerificationQuiz.Question)
	}
}
