package archive

import "context"

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS terminal_tasks (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		original_priority INTEGER NOT NULL,
		effective_priority INTEGER NOT NULL,
		status INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		result TEXT,
		error TEXT,
		enqueued_at DATETIME NOT NULL,
		started_at DATETIME,
		finished_at DATETIME NOT NULL,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_terminal_tasks_finished_at ON terminal_tasks(finished_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
