package microbridge

import "fmt"

// templatesForSeverity maps gap severity (1 − current mastery) to the
// sequence of block types a learner needs. Deep gaps get the full
// explanation→example→practice arc; shallow ones get a summary refresher.
func templatesForSeverity(severity float64) []ContentType {
	switch {
	case severity > 0.7:
		return []ContentType{ContentExplanation, ContentExample, ContentPractice}
	case severity > 0.4:
		return []ContentType{ContentExample, ContentPractice}
	default:
		return []ContentType{ContentSummary}
	}
}

// templateContent renders placeholder content for a block. When an LLM
// enricher is attached, it rewrites this into learner-facing prose; without
// one, the rendering layer resolves the referenced material itself.
func templateContent(ct ContentType, skillName string) string {
	switch ct {
	case ContentExplanation:
		return fmt.Sprintf("A focused explanation of the core idea behind %s.", skillName)
	case ContentExample:
		return fmt.Sprintf("A worked example applying %s step by step.", skillName)
	case ContentPractice:
		return fmt.Sprintf("A short practice exercise on %s with immediate feedback.", skillName)
	default:
		return fmt.Sprintf("A quick summary of the key points of %s.", skillName)
	}
}
