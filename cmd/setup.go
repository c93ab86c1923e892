package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/attunelabs/attune/internal/config"
	"github.com/attunelabs/attune/internal/engine"
	"github.com/attunelabs/attune/internal/intervention"
	"github.com/attunelabs/attune/internal/llm"
	"github.com/attunelabs/attune/internal/microbridge"
	"github.com/attunelabs/attune/internal/store"
)

// loadConfig resolves the configuration from the --config flag and env.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// openStore opens the SQLite event log at the configured path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	} else if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

// buildEngine wires an engine from configuration. The returned cleanup
// closes the queue backend if it owns resources.
func buildEngine(cfg config.Config, repo store.EventRepo, log *zap.Logger) (*engine.Engine, func(), error) {
	opts := []engine.Option{
		engine.WithLogger(log),
	}
	if repo != nil {
		opts = append(opts, engine.WithEventRepo(repo))
	}

	cleanup := func() {}
	if cfg.Queue.Backend == config.QueueBadger {
		bs, err := intervention.OpenBadgerStore(cfg.Queue.Path, cfg.Queue.TTL.Std())
		if err != nil {
			return nil, nil, fmt.Errorf("open queue store: %w", err)
		}
		opts = append(opts, engine.WithStore(bs))
		cleanup = func() { bs.Close() }
	}

	eng := engine.New(engine.Config{
		QueueTTL:              cfg.Queue.TTL.Std(),
		MaxBridgeDurationSecs: cfg.Engine.MaxBridgeDurationSecs,
		TargetMastery:         cfg.Engine.TargetMastery,
	}, opts...)

	return eng, cleanup, nil
}

// buildEnricher wires a bridge enricher when an LLM provider is configured.
// Returns nil when enrichment is disabled.
func buildEnricher(cfg config.Config, repo store.EventRepo, log *zap.Logger) (*microbridge.Enricher, error) {
	if cfg.LLMProvider == "" {
		return nil, nil
	}

	llmCfg := llm.ConfigFromEnv()
	llmCfg.Provider = cfg.LLMProvider
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(llmCfg, repo, log)
	if err != nil {
		return nil, err
	}
	return microbridge.NewEnricher(provider), nil
}
