package frameloop

import "context"

// runSweeper periodically evicts terminal tasks whose FinishedAt is
// older than opts.RetentionPeriod (spec §4.9). Archiving happens
// eagerly when a task first reaches a terminal state (attempt.go's
// maybeArchive); the sweeper's only job is bounding live registry
// memory.
func (s *Scheduler) runSweeper(ctx context.Context) {
	ticker := s.clock.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	s.mu.Lock()
	cutoff := s.now().Add(-s.opts.RetentionPeriod)
	var evicted []string
	for id, t := range s.tasks {
		if t.status.IsTerminal() && t.finishedAt.Before(cutoff) {
			evicted = append(evicted, id)
		}
	}
	for _, id := range evicted {
		delete(s.tasks, id)
	}
	s.mu.Unlock()
}
