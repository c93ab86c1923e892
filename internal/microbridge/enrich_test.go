package microbridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/attunelabs/attune/internal/llm"
)

func twoBlockBridge() *Bridge {
	return &Bridge{
		ID:        "bridge-1",
		LearnerID: "learner",
		Blocks: []Block{
			{SkillID: "fractions", ContentType: ContentExample, Content: "template example", DurationSecs: 60},
			{SkillID: "fractions", ContentType: ContentPractice, Content: "template practice", DurationSecs: 60},
		},
		TargetSkills: []string{"fractions"},
	}
}

func TestEnrich_FillsBlocksAndQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: `{"blocks":[{"content":"Think of a fraction as division."},{"content":"Try 3/4 of 20. Answer: 15."}],` +
			`"quiz":{"question":"What is 1/2 of 10?","answer":"5","explanation":"Half of ten."}}`,
	})

	bridge := twoBlockBridge()
	if err := NewEnricher(mock).Enrich(context.Background(), bridge, map[string]string{"fractions": "Fractions"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}

	if bridge.Blocks[0].Content != "Think of a fraction as division." {
		t.Errorf("block 0 not rewritten: %q", bridge.Blocks[0].Content)
	}
	if bridge.VerificationQuiz == nil || bridge.VerificationQuiz.Answer != "5" {
		t.Errorf("quiz not attached: %+v", bridge.VerificationQuiz)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("got %d calls, want 1", mock.CallCount())
	}
	outline := mock.Calls[0].Messages[0].Content
	if !strings.Contains(outline, `skill="Fractions"`) || !strings.Contains(outline, "budget=60s") {
		t.Errorf("outline should carry skill names and budgets, got %q", outline)
	}
}

func TestEnrich_BlockCountMismatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: `{"blocks":[{"content":"only one"}]}`,
	})

	bridge := twoBlockBridge()
	err := NewEnricher(mock).Enrich(context.Background(), bridge, nil)

	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidResponse", err)
	}
	if bridge.Blocks[0].Content != "template example" {
		t.Error("template content must survive a failed enrichment")
	}
}

func TestEnrich_MalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "not json"})

	err := NewEnricher(mock).Enrich(context.Background(), twoBlockBridge(), nil)

	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidResponse", err)
	}
}

func TestEnrich_EmptyContentKeepsTemplate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: `{"blocks":[{"content":"  "},{"content":"real content"}]}`,
	})

	bridge := twoBlockBridge()
	if err := NewEnricher(mock).Enrich(context.Background(), bridge, nil); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if bridge.Blocks[0].Content != "template example" {
		t.Errorf("blank content should keep the template, got %q", bridge.Blocks[0].Content)
	}
	if bridge.Blocks[1].Content != "real content" {
		t.Errorf("got %q", bridge.Blocks[1].Content)
	}
	if bridge.VerificationQuiz != nil {
		t.Error("no quiz in response means no quiz on the bridge")
	}
}

func TestEnrich_NilBridgeIsNoop(t *testing.T) {
	mock := llm.NewMockProvider()
	if err := NewEnricher(mock).Enrich(context.Background(), nil, nil); err != nil {
		t.Fatalf("nil bridge: %v", err)
	}
	if mock.CallCount() != 0 {
		t.Error("nil bridge must not hit the provider")
	}
}
