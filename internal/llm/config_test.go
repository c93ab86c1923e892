package llm

import "testing"

func TestConfigFromEnv_Defaults(t *testing.T) {
	for _, v := range []string{
		"ATTUNE_LLM_PROVIDER", "ATTUNE_ANTHROPIC_API_KEY", "ATTUNE_ANTHROPIC_MODEL",
		"ATTUNE_OPENAI_API_KEY", "ATTUNE_OPENAI_MODEL", "ATTUNE_OPENAI_BASE_URL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(v, "")
	}

	cfg := ConfigFromEnv()
	if cfg.Provider != "anthropic" {
		t.Errorf("got provider %q, want anthropic", cfg.Provider)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("got model %q, want claude-haiku", cfg.Anthropic.Model)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("got %d retry attempts, want 3", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("ATTUNE_LLM_PROVIDER", "openai")
	t.Setenv("ATTUNE_OPENAI_API_KEY", "key-1")
	t.Setenv("ATTUNE_OPENAI_MODEL", "gpt-4o")
	t.Setenv("ATTUNE_OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" {
		t.Errorf("got provider %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "key-1" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("got %+v, want env overrides applied", cfg.OpenAI)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("got base url %q", cfg.OpenAI.BaseURL)
	}
}

func TestConfigFromEnv_StandardKeyFallback(t *testing.T) {
	t.Setenv("ATTUNE_ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "standard-key")

	cfg := ConfigFromEnv()
	if cfg.Anthropic.APIKey != "standard-key" {
		t.Errorf("got %q, want fallback to ANTHROPIC_API_KEY", cfg.Anthropic.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("anthropic provider without an API key must fail validation")
	}

	cfg.Anthropic.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}

	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider needs no key: %v", err)
	}

	cfg.Provider = "llama"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider must fail validation")
	}
}
