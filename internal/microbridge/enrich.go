package microbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/attunelabs/attune/internal/llm"
)

const enrichSystemPrompt = `You are a tutor writing ultra-short remedial content for a learner who
skimmed or struggled with specific skills. You receive an outline of content
blocks (type, skill, time budget) and must write the actual content for each.

Rules:
- Each block's content must be readable within its time budget.
- Explanations teach the one core idea, nothing else.
- Examples are fully worked, step by step.
- Practice blocks pose one exercise and include the answer.
- Summaries are 2-3 sentences of key points.
- Plain language, second person, no headings.

Respond with JSON only, in this exact shape:
{"blocks": [{"content": "..."}], "quiz": {"question": "...", "answer": "...", "explanation": "..."}}
The blocks array must have one entry per outline block, in order.`

// enrichOutput is the JSON shape the LLM must return.
type enrichOutput struct {
	Blocks []struct {
		Content string `json:"content"`
	} `json:"blocks"`
	Quiz struct {
		Question    string `json:"question"`
		Answer      string `json:"answer"`
		Explanation string `json:"explanation"`
	} `json:"quiz"`
}

// Enricher rewrites a bridge's template blocks into learner-facing prose
// and attaches a verification quiz, using an LLM provider. Bridges work
// without enrichment; this is an optional upgrade.
type Enricher struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// NewEnricher creates an enricher around the given provider.
func NewEnricher(provider llm.Provider) *Enricher {
	return &Enricher{
		provider:    provider,
		maxTokens:   1500,
		temperature: 0.4,
	}
}

// Enrich fills the bridge's block content and verification quiz in place.
// On error the bridge keeps its template content.
func (e *Enricher) Enrich(ctx context.Context, bridge *Bridge, skillNames map[string]string) error {
	if bridge == nil || len(bridge.Blocks) == 0 {
		return nil
	}

	ctx = llm.WithPurpose(ctx, "microbridge")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: enrichSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildOutline(bridge, skillNames)},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return fmt.Errorf("enrich bridge: %w", err)
	}

	var out enrichOutput
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		return &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if len(out.Blocks) != len(bridge.Blocks) {
		return &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("got %d blocks, want %d", len(out.Blocks), len(bridge.Blocks)),
		}
	}

	for i := range bridge.Blocks {
		if c := strings.TrimSpace(out.Blocks[i].Content); c != "" {
			bridge.Blocks[i].Content = c
		}
	}
	if out.Quiz.Question != "" {
		bridge.VerificationQuiz = &Quiz{
			Question:    out.Quiz.Question,
			Answer:      out.Quiz.Answer,
			Explanation: out.Quiz.Explanation,
		}
	}
	return nil
}

// buildOutline describes the bridge's blocks for the LLM.
func buildOutline(bridge *Bridge, skillNames map[string]string) string {
	var b strings.Builder
	b.WriteString("Content outline:\n")
	for i, blk := range bridge.Blocks {
		name, ok := skillNames[blk.SkillID]
		if !ok {
			name = blk.SkillID
		}
		fmt.Fprintf(&b, "%d. type=%s skill=%q budget=%ds\n", i+1, blk.ContentType, name, blk.DurationSecs)
	}
	b.WriteString("\nWrite the content for each block and one verification quiz question covering the weakest skill.")
	return b.String()
}
