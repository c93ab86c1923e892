// Package confidence detects learners who report more certainty than their
// estimated mastery supports, adjusting for hesitation observed while they
// answered.
package confidence

import (
	"fmt"

	"github.com/attunelabs/attune/internal/intervention"
	"github.com/attunelabs/attune/internal/signals"
)

const (
	// DivergenceThreshold is the gap between self-reported confidence and
	// adjusted mastery that flags false confidence. Exactly at the
	// threshold does not flag.
	DivergenceThreshold = 0.15

	severeDivergence   = 0.4
	moderateDivergence = 0.25

	guessPenalty = 0.1
	maxPenalty   = 0.3
)

// basePenalties maps observed hesitation to a mastery discount.
var basePenalties = map[signals.ConfidenceLevel]float64{
	signals.ConfidenceHigh:      0,
	signals.ConfidenceMedium:    0.05,
	signals.ConfidenceLow:       0.15,
	signals.ConfidenceUncertain: 0.25,
}

// Signal is the detector's verdict for a single assessment response.
//
// Severity is always computed, even when IsFalseConfidence is false; a
// non-flagged response still reads as "mild". Callers must gate on
// IsFalseConfidence, not Severity.
type Signal struct {
	LearnerID              string
	SkillID                string
	SelfReportedConfidence float64
	BKTMastery             float64
	HesitationPenalty      float64
	Divergence             float64
	IsFalseConfidence      bool
	Severity               intervention.Severity
}

// HesitationPenalty converts a hesitation observation into a mastery
// discount: base penalty by confidence level, +0.1 for a possible guess,
// capped at 0.3.
func HesitationPenalty(h signals.Hesitation) float64 {
	penalty := basePenalties[h.Confidence]
	if h.PossibleGuess {
		penalty += guessPenalty
	}
	if penalty > maxPenalty {
		penalty = maxPenalty
	}
	return penalty
}

// Detect compares self-reported confidence against hesitation-adjusted
// mastery and grades the divergence.
func Detect(learnerID, skillID string, selfReported float64, ks signals.KnowledgeState, h signals.Hesitation) Signal {
	penalty := HesitationPenalty(h)
	adjusted := ks.MasteryProbability - penalty
	divergence := selfReported - adjusted

	var sev intervention.Severity
	switch {
	case divergence > severeDivergence:
		sev = intervention.SeveritySevere
	case divergence > moderateDivergence:
		sev = intervention.SeverityModerate
	default:
		sev = intervention.SeverityMild
	}

	return Signal{
		LearnerID:              learnerID,
		SkillID:                skillID,
		SelfReportedConfidence: selfReported,
		BKTMastery:             ks.MasteryProbability,
		HesitationPenalty:      penalty,
		Divergence:             divergence,
		IsFalseConfidence:      divergence > DivergenceThreshold,
		Severity:               sev,
	}
}

// messages holds canned confidence-check prompts per severity tier.
var messages = map[intervention.Severity][]string{
	intervention.SeverityMild: {
		"Quick gut check: could you explain %s to someone else right now?",
		"You rated yourself confident on %s — fancy a short challenge to confirm it?",
		"Nice confidence on %s! One quick question to lock it in?",
	},
	intervention.SeverityModerate: {
		"Your answers on %s suggest a bit more practice would help. Try a review round?",
		"There's a gap between how %s feels and how it's going. A short check could close it.",
		"Let's make sure %s is as solid as it feels — two-minute confidence check?",
	},
	intervention.SeveritySevere: {
		"Before moving on from %s, let's verify the fundamentals — your recent answers say they need attention.",
		"Your confidence on %s is running well ahead of your results. A focused review will fix that fast.",
		"Stop here: %s needs shoring up before the next section builds on it.",
	},
}

// Detector generates confidence-check interventions from flagged signals.
type Detector struct {
	picker intervention.Picker
}

// NewDetector creates a detector. A nil picker falls back to a random one.
func NewDetector(picker intervention.Picker) *Detector {
	if picker == nil {
		picker = intervention.NewRandPicker(2)
	}
	return &Detector{picker: picker}
}

// GenerateIntervention builds a confidence-check intervention for a flagged
// signal. Priority is high only for severe divergence.
func (d *Detector) GenerateIntervention(sig Signal, skillName string) intervention.Intervention {
	iv := intervention.New(
		intervention.TypeConfidenceCheck,
		intervention.TriggerFalseConfidence,
		sig.Severity,
		fmt.Sprintf(d.picker.Pick(messages[sig.Severity]), skillName),
	)
	if sig.Severity != intervention.SeveritySevere {
		iv.Priority = intervention.PriorityMedium
	}
	iv.ActionLabel = "Check my understanding"
	iv.TargetSkillIDs = []string{sig.SkillID}
	return iv
}

// Explain produces the glass-box rationale for a confidence check.
func Explain(sig Signal, skillName string) string {
	adjusted := sig.BKTMastery - sig.HesitationPenalty
	return fmt.Sprintf(
		"You rated your confidence in %s at %.0f%%, but your recent answers put it closer to %.0f%%.",
		skillName,
		sig.SelfReportedConfidence*100,
		adjusted*100,
	)
}
