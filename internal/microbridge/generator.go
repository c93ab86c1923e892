// Package microbridge assembles short remediation sequences from ranked
// skill gaps, budgeted to a fixed duration so they never balloon into a
// full content redo.
package microbridge

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxDurationSecs bounds a bridge to two minutes.
	DefaultMaxDurationSecs = 120

	// MaxGapsPerBridge caps how many skills one bridge addresses.
	MaxGapsPerBridge = 5

	// passScore is the verification score needed to complete a bridge.
	passScore = 0.8
)

// Generator builds micro-bridges.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// SetClock overrides the generator's wall clock. Test hook.
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate assembles a bridge from the learner's gaps, worst mastery first,
// within maxDurationSecs (DefaultMaxDurationSecs when non-positive).
// Returns nil if gaps is empty.
func (g *Generator) Generate(learnerID string, gaps []SkillGap, maxDurationSecs int) *Bridge {
	if len(gaps) == 0 {
		return nil
	}
	if maxDurationSecs <= 0 {
		maxDurationSecs = DefaultMaxDurationSecs
	}

	ordered := make([]SkillGap, len(gaps))
	copy(ordered, gaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CurrentMastery < ordered[j].CurrentMastery
	})

	count := len(ordered)
	if count > MaxGapsPerBridge {
		count = MaxGapsPerBridge
	}
	durationPerSkill := maxDurationSecs / count

	bridge := &Bridge{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		Status:    StatusGenerated,
		CreatedAt: g.now(),
	}

	total := 0
	order := 0
	for _, gap := range ordered[:count] {
		if total+durationPerSkill > maxDurationSecs {
			break
		}
		total += durationPerSkill

		blocks := buildBlocks(gap, durationPerSkill, &order)
		bridge.Blocks = append(bridge.Blocks, blocks...)
		bridge.TargetSkills = append(bridge.TargetSkills, gap.SkillID)
	}

	for _, b := range bridge.Blocks {
		bridge.EstimatedDurationSecs += b.DurationSecs
	}
	return bridge
}

// buildBlocks expands one gap into its template blocks, splitting the
// per-skill budget evenly with the remainder on the first block.
func buildBlocks(gap SkillGap, budgetSecs int, order *int) []Block {
	severity := 1 - gap.CurrentMastery
	types := templatesForSeverity(severity)

	per := budgetSecs / len(types)
	remainder := budgetSecs - per*len(types)

	blocks := make([]Block, 0, len(types))
	for i, ct := range types {
		dur := per
		if i == 0 {
			dur += remainder
		}
		blocks = append(blocks, Block{
			ID:           uuid.NewString(),
			SkillID:      gap.SkillID,
			ContentType:  ct,
			Content:      templateContent(ct, gap.SkillName),
			DurationSecs: dur,
			Order:        *order,
		})
		*order++
	}
	return blocks
}

// Complete applies a verification outcome to a bridge. A nil score counts
// as a pass (no quiz was administered); otherwise the learner needs ≥ 0.8.
// Returns true on pass. On failure the bridge drops back to in_progress.
func (g *Generator) Complete(bridge *Bridge, verificationScore *float64) bool {
	if bridge == nil {
		return false
	}

	passed := verificationScore == nil || *verificationScore >= passScore
	if passed {
		now := g.now()
		bridge.Status = StatusCompleted
		bridge.CompletedAt = &now
		return true
	}

	bridge.Status = StatusInProgress
	return false
}

// Explain produces the glass-box rationale for a bridge: which skills it
// targets (first three) and how long it takes. skillNames maps skill IDs to
// display names; missing entries fall back to the ID.
func Explain(bridge *Bridge, skillNames map[string]string) string {
	if bridge == nil {
		return ""
	}

	names := make([]string, 0, 3)
	for _, id := range bridge.TargetSkills {
		if len(names) == 3 {
			break
		}
		name, ok := skillNames[id]
		if !ok {
			name = id
		}
		names = append(names, name)
	}

	mins := float64(bridge.EstimatedDurationSecs) / 60
	return fmt.Sprintf(
		"This %.1f-minute refresher targets %s — the areas your recent answers flagged.",
		mins,
		joinNames(names),
	)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "your flagged skills"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return names[0] + ", " + names[1] + ", and " + names[2]
	}
}
