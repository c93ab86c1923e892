// Package speedbump turns engagement metrics into friction interventions
// that interrupt doom-scrolling before the learner outruns the content.
package speedbump

import (
	"fmt"

	"github.com/attunelabs/attune/internal/engagement"
	"github.com/attunelabs/attune/internal/intervention"
)

const (
	severeRatio   = 0.1
	severeSkips   = 5
	moderateRatio = 0.2
	moderateSkips = 3
)

// messages holds three canned prompts per severity tier. One is picked per
// intervention so repeated bumps don't read identically.
var messages = map[intervention.Severity][]string{
	intervention.SeverityMild: {
		"Taking a moment on this one could pay off — want a quick recap first?",
		"You're moving fast! A short pause here might help things stick.",
		"Quick check: feeling good about the last few sections?",
	},
	intervention.SeverityModerate: {
		"You've skipped past a few sections. Want to slow down and review?",
		"This pace makes it hard to absorb the material. How about a short checkpoint?",
		"Heads up — the next part builds on what you just passed. Worth a second look?",
	},
	intervention.SeveritySevere: {
		"Let's pause. You've moved through this much faster than it can sink in.",
		"Speed check: almost everything so far was skipped. A quick reset will save time later.",
		"Stop and stretch — then let's revisit the key ideas before moving on.",
	},
}

// DetermineSeverity grades how badly the learner is skimming.
func DetermineSeverity(m engagement.Metrics) intervention.Severity {
	switch {
	case m.Ratio < severeRatio || m.SkippedBlocks > severeSkips:
		return intervention.SeveritySevere
	case m.Ratio < moderateRatio || m.SkippedBlocks > moderateSkips:
		return intervention.SeverityModerate
	default:
		return intervention.SeverityMild
	}
}

// ShouldTrigger reports whether the metrics warrant a speed bump.
func ShouldTrigger(m engagement.Metrics) bool {
	return m.IsSkimming
}

// Generator produces speed-bump interventions. The picker decides which
// canned message is used; inject intervention.FixedPicker in tests.
type Generator struct {
	picker intervention.Picker
}

// NewGenerator creates a speed-bump generator. A nil picker falls back to
// a random one.
func NewGenerator(picker intervention.Picker) *Generator {
	if picker == nil {
		picker = intervention.NewRandPicker(1)
	}
	return &Generator{picker: picker}
}

// Generate builds a speed-bump intervention for the given metrics. blockID
// is the content block whose completion triggered the bump; it may be empty.
func (g *Generator) Generate(learnerID string, m engagement.Metrics, blockID string) intervention.Intervention {
	sev := DetermineSeverity(m)

	iv := intervention.New(
		intervention.TypeSpeedBump,
		intervention.TriggerDoomScroll,
		sev,
		g.picker.Pick(messages[sev]),
	)
	iv.ActionLabel = "Review"
	iv.TargetContentID = blockID
	return iv
}

// Explain produces the glass-box rationale for a speed bump: what was
// measured and why it fired. Deterministic, for audit surfaces.
func Explain(m engagement.Metrics) string {
	return fmt.Sprintf(
		"You spent an average of %.1fs per block where about %.1fs was expected (%.0f%% engagement).",
		m.AvgActualMs/1000,
		m.AvgExpectedMs/1000,
		m.Ratio*100,
	)
}
