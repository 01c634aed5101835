// Package archive persists terminal task snapshots to SQLite before the
// retention sweeper evicts them from memory (SPEC_FULL.md §2/§3),
// adapted from the teacher's internal/persistence.SQLiteStore: same WAL
// pragma, same in-memory-for-tests constructor, same upsert-by-id
// shape, retargeted at terminal task snapshots (Record) instead of
// scheduler.Task.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists and queries terminal task snapshots.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite-backed archive at dbPath, enabling WAL
// mode and a busy timeout the same way the teacher's NewSQLiteStore does.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating parent directories: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(2)

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory archive, for tests and hosts that
// don't want a durable audit trail.
func OpenMemory(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?mode=memory&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("opening memory database: %w", err)
	}
	db.SetMaxOpenConns(2)

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }
