package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection behind the event log.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas,
// and creates the event tables if they don't exist.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() (EventRepo, error) {
	seq, err := newSequenceCounter(s.db)
	if err != nil {
		return nil, err
	}
	return &eventRepo{db: s.db, seq: seq}, nil
}

// applyPragmas configures SQLite for single-writer append workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			learner_id TEXT NOT NULL,
			block_id TEXT NOT NULL,
			block_type TEXT NOT NULL,
			expected_ms INTEGER NOT NULL,
			actual_ms INTEGER NOT NULL,
			was_skipped INTEGER NOT NULL,
			skip_streak INTEGER NOT NULL,
			ratio REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_learner
			ON engagement_events (learner_id, sequence)`,
		`CREATE TABLE IF NOT EXISTS intervention_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			learner_id TEXT NOT NULL,
			intervention_id TEXT NOT NULL,
			type TEXT NOT NULL,
			trigger_name TEXT NOT NULL,
			priority TEXT NOT NULL,
			severity TEXT NOT NULL,
			action TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_intervention_learner
			ON intervention_events (learner_id, sequence)`,
		`CREATE TABLE IF NOT EXISTS bridge_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			learner_id TEXT NOT NULL,
			bridge_id TEXT NOT NULL,
			skill_ids TEXT NOT NULL,
			duration_secs INTEGER NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_request_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ATTUNE_DB environment variable
// 2. $XDG_DATA_HOME/attune/attune.db
// 3. ~/.local/share/attune/attune.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ATTUNE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "attune", "attune.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
