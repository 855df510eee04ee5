// Package eventlog provides a durable, append-only SQLite log of the
// start/end notifications the engine emits.
//
// The log is an audit trail, not the source of truth for completion state:
// the in-memory sink keeps deciding, the log keeps the evidence. The trace
// CLI reads it to reconstruct what initialized, in what order, for which
// keys.
package eventlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/preflight/internal/state"
)

//go:embed schema.sql
var schemaSQL string

// Log provides durable storage for initialization notifications.
// Uses SQLite with WAL mode for concurrent read access.
type Log struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY on the append path.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Append writes one notification to the log.
func (l *Log) Append(ctx context.Context, n state.Notification) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO init_events (key, prepare_pass, complete)
		VALUES (?, ?, ?)
	`, n.Key, boolInt(n.PreparePass), boolInt(n.Complete))
	if err != nil {
		return fmt.Errorf("append init event: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
