// Package store persists wenyan state in SQLite: the key-value records
// behind the passage library and the log of LLM calls. A Redis KV is
// offered for sharing the library between machines.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is the SQLite database holding saved passages and the LLM call log.
type Store struct {
	db *sql.DB
}

// pragmas are applied on every open. WAL lets `wenyan llm list` read while
// the reader is writing.
var pragmas = []string{
	"journal_mode = WAL",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"synchronous = NORMAL",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		session_id    TEXT NOT NULL DEFAULT '',
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_model ON llm_request_events (model)`,
}

// Open opens or creates the database at dsn and brings its tables up to
// date. Every failure is an *UnavailableError.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &UnavailableError{Op: "open", Err: err}
	}
	if err := setup(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func setup(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, "PRAGMA "+p); err != nil {
			return &UnavailableError{Op: "pragma " + p, Err: err}
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			head, _, _ := strings.Cut(stmt, "\n")
			return &UnavailableError{Op: "migrate", Err: fmt.Errorf("%s: %w", head, err)}
		}
	}
	return nil
}

// DB exposes the connection for diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// KV returns the kv table as a KV.
func (s *Store) KV() KV { return &sqliteKV{db: s.db} }

// EventRepo returns the LLM call log.
func (s *Store) EventRepo() EventRepo { return &eventRepo{db: s.db} }

// DefaultDBPath returns $WENYAN_DB, else wenyan/wenyan.db under
// $XDG_DATA_HOME or ~/.local/share. The parent directory is created.
func DefaultDBPath() (string, error) {
	path := os.Getenv("WENYAN_DB")
	if path == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("locate home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		path = filepath.Join(base, "wenyan", "wenyan.db")
	}
	return path, EnsureDir(path)
}

// EnsureDir creates the directory that will hold path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
