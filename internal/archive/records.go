package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Record is a terminal task snapshot, independent of the root
// frameloop package's Task type to avoid an import cycle (the
// scheduler imports archive, not the other way around). Callers
// convert their own Task into a Record at the call site.
type Record struct {
	ID                string
	Type              string
	OriginalPriority  int
	EffectivePriority int
	Status            int
	Attempts          int
	Result            string
	Error             string
	EnqueuedAt        time.Time
	StartedAt         time.Time
	FinishedAt        time.Time
}

// Save upserts a terminal task record.
func (s *Store) Save(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO terminal_tasks (id, type, original_priority, effective_priority, status, attempts, result, error, enqueued_at, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			attempts = excluded.attempts,
			result = excluded.result,
			error = excluded.error,
			finished_at = excluded.finished_at
	`, r.ID, r.Type, r.OriginalPriority, r.EffectivePriority, r.Status, r.Attempts, r.Result, r.Error, r.EnqueuedAt, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("archiving task %q: %w", r.ID, err)
	}
	return nil
}

// Get retrieves an archived record by id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, original_priority, effective_priority, status, attempts, result, error, enqueued_at, started_at, finished_at
		FROM terminal_tasks WHERE id = ?
	`, id).Scan(&r.ID, &r.Type, &r.OriginalPriority, &r.EffectivePriority, &r.Status, &r.Attempts, &r.Result, &r.Error, &r.EnqueuedAt, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("archived task not found: %s", id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("querying archived task %q: %w", id, err)
	}
	return r, nil
}

// PruneOlderThan deletes archived records that finished before cutoff,
// returning the count removed. This is a separate retention policy
// from the live scheduler's own sweeper: it bounds the archive's own
// growth, it does not feed back into live scheduling state.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM terminal_tasks WHERE finished_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning archive: %w", err)
	}
	return res.RowsAffected()
}
