package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/attunelabs/attune/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	log       *zap.Logger
}

// WithLogging wraps a Provider with event logging. A nil logger falls back
// to zap.NewNop.
func WithLogging(p Provider, repo store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn("failed to log LLM request event", zap.Error(logErr))
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
