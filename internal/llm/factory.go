package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/attunelabs/attune/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry and
// event-logging middleware. eventRepo may be nil to skip request logging.
func NewProvider(cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	wrapped := base
	if eventRepo != nil {
		wrapped = WithLogging(wrapped, eventRepo, log)
	}
	return WithRetry(wrapped, cfg.Retry), nil
}
