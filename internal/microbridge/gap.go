package microbridge

// GapPriority ranks how urgently a skill gap needs closing.
type GapPriority string

const (
	GapCritical GapPriority = "critical"
	GapHigh     GapPriority = "high"
	GapMedium   GapPriority = "medium"
	GapLow      GapPriority = "low"
)

// DefaultTargetMastery is the mastery level a bridge aims for.
const DefaultTargetMastery = 0.8

// secsPerGapUnit converts a mastery gap into remediation seconds.
const secsPerGapUnit = 300

// SkillGap describes the distance between a learner's current and target
// mastery for one skill. Gap is assumed non-negative; callers supply
// current ≤ target.
type SkillGap struct {
	SkillID        string
	SkillName      string
	CurrentMastery float64
	TargetMastery  float64
	Gap            float64
	Priority       GapPriority

	// EstimatedTimeToCloseSecs is a rough budget for closing the gap.
	EstimatedTimeToCloseSecs int
}

// NewSkillGap builds a gap record from current mastery. A non-positive
// target falls back to DefaultTargetMastery.
func NewSkillGap(skillID, skillName string, currentMastery, targetMastery float64) SkillGap {
	if targetMastery <= 0 {
		targetMastery = DefaultTargetMastery
	}
	gap := targetMastery - currentMastery

	var prio GapPriority
	switch {
	case gap > 0.5:
		prio = GapCritical
	case gap > 0.3:
		prio = GapHigh
	case gap > 0.15:
		prio = GapMedium
	default:
		prio = GapLow
	}

	return SkillGap{
		SkillID:                  skillID,
		SkillName:                skillName,
		CurrentMastery:           currentMastery,
		TargetMastery:            targetMastery,
		Gap:                      gap,
		Priority:                 prio,
		EstimatedTimeToCloseSecs: int(gap * secsPerGapUnit),
	}
}
