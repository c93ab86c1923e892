// Package config loads the attune configuration file: where state lives,
// which queue backend holds interventions, and the engine tunables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "5m" or
// "90s". Plain integers are read as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs int64
	if err := value.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// QueueBackend selects the intervention queue implementation.
type QueueBackend string

const (
	QueueMemory QueueBackend = "memory"
	QueueBadger QueueBackend = "badger"
)

// Config is the top-level configuration.
type Config struct {
	// DBPath is the SQLite event log location. Empty means the default
	// XDG path.
	DBPath string `yaml:"db_path"`

	Queue  QueueConfig  `yaml:"queue"`
	Engine EngineConfig `yaml:"engine"`

	// LLMProvider selects the enrichment backend: "anthropic", "openai",
	// "mock", or empty to disable enrichment.
	LLMProvider string `yaml:"llm_provider"`
}

// QueueConfig configures the intervention queue.
type QueueConfig struct {
	Backend QueueBackend `yaml:"backend"`

	// Path is the Badger directory. Ignored for the memory backend;
	// empty means in-memory Badger.
	Path string `yaml:"path"`

	// TTL is how long interventions stay pending.
	TTL Duration `yaml:"ttl"`
}

// EngineConfig holds engine tunables.
type EngineConfig struct {
	MaxBridgeDurationSecs int     `yaml:"max_bridge_duration_secs"`
	TargetMastery         float64 `yaml:"target_mastery"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Queue: QueueConfig{
			Backend: QueueMemory,
			TTL:     Duration(5 * time.Minute),
		},
		Engine: EngineConfig{
			MaxBridgeDurationSecs: 120,
			TargetMastery:         0.8,
		},
	}
}

// Load reads the config file at path, layering it over defaults. A missing
// file is not an error; defaults are returned. Environment variables
// override file values: ATTUNE_DB, ATTUNE_QUEUE_BACKEND, ATTUNE_QUEUE_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("ATTUNE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ATTUNE_QUEUE_BACKEND"); v != "" {
		cfg.Queue.Backend = QueueBackend(v)
	}
	if v := os.Getenv("ATTUNE_QUEUE_PATH"); v != "" {
		cfg.Queue.Path = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Queue.Backend {
	case QueueMemory, QueueBadger:
	default:
		return fmt.Errorf("unknown queue backend: %q", c.Queue.Backend)
	}
	if c.Engine.TargetMastery < 0 || c.Engine.TargetMastery > 1 {
		return fmt.Errorf("target_mastery %.2f outside [0,1]", c.Engine.TargetMastery)
	}
	return nil
}
