// Package frameloop implements a cooperative, priority-aware task
// scheduler for a single host frame loop: callers submit tasks with
// priorities, dependencies, and retry policy; the scheduler dispatches
// them within a per-frame time and concurrency budget and reports
// their lifecycle through synchronous events.
//
// It is grounded on the teacher's internal/scheduler +
// internal/orchestrator packages (DAG validation, dependency
// resolution, retry/backoff), restructured around a single mutex and
// an explicit per-frame dispatch loop instead of the teacher's
// goroutine-per-wave workflow runner, per SPEC_FULL.md §0.
package frameloop

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/coopsched/frameloop/internal/archive"
	"github.com/coopsched/frameloop/internal/clock"
	"github.com/coopsched/frameloop/internal/resilience"
)

// Scheduler is the top-level coordinator described by spec §4. All
// mutable state lives behind mu; event listeners are always invoked
// after mu is released, so a listener that calls back into AddTask or
// CancelTask reenters as an ordinary top-level call instead of
// deadlocking (SPEC_FULL.md §0 design note).
type Scheduler struct {
	opts   Options
	clock  clock.Clock
	frames clock.Frames

	mu        sync.Mutex
	tasks     map[string]*task
	executors map[string]ExecutorFunc
	ready     *readyQueue
	nextSeq   uint64

	sem      *semaphore.Weighted
	events   *emitter
	breakers *resilience.Registry
	archive  *archive.Store

	frameStart *atomic.Int64

	lifecycle struct {
		mu      sync.Mutex
		started bool
		cancel  context.CancelFunc
		group   *errgroup.Group
	}
}

// New constructs a Scheduler. opts.withDefaults() fills in any zero
// fields with spec §6's recognized defaults. The scheduler does not
// begin dispatching until Start is called.
func New(opts Options) *Scheduler {
	return newScheduler(opts, clock.System{}, nil)
}

// newScheduler is the internal constructor used by tests to inject a
// fake clock; frames nil means Start will build a
// clock.TickerFrames from opts.FrameTimeBudget.
func newScheduler(opts Options, c clock.Clock, frames clock.Frames) *Scheduler {
	opts = opts.withDefaults()
	s := &Scheduler{
		opts:       opts,
		clock:      c,
		frames:     frames,
		tasks:      make(map[string]*task),
		executors:  make(map[string]ExecutorFunc),
		ready:      newReadyQueue(),
		sem:        semaphore.NewWeighted(int64(opts.MaxConcurrentTasks)),
		events:     newEmitter(),
		breakers:   resilience.NewRegistry(),
		frameStart: new(atomic.Int64),
	}
	for taskType, cfg := range opts.CircuitBreakers {
		s.breakers.Configure(taskType, resilience.Config{MaxFailures: cfg.MaxFailures, OpenTimeout: cfg.OpenTimeout})
	}
	return s
}

// Subscription identifies one listener registered via On, so Off can
// remove that listener specifically rather than every listener for its
// event type (spec §6's on(event, listener)/off(event, listener) pair).
type Subscription struct {
	eventType EventType
	id        uint64
}

// On registers a lifecycle event listener (spec §4.10). The returned
// Subscription is what Off takes to unregister this listener alone.
func (s *Scheduler) On(t EventType, l Listener) Subscription {
	id := s.events.On(t, l)
	return Subscription{eventType: t, id: id}
}

// Off removes the single listener sub identifies. A no-op if it was
// already removed.
func (s *Scheduler) Off(sub Subscription) { s.events.Off(sub.eventType, sub.id) }

// Start opens the archive (if configured) and launches the frame-loop
// dispatcher and retention sweeper as independent goroutines
// coordinated through an errgroup, mirroring the teacher's use of
// errgroup in internal/orchestrator/runner.go to bound a group of
// concurrently running loops under one cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	s.lifecycle.mu.Lock()
	defer s.lifecycle.mu.Unlock()
	if s.lifecycle.started {
		return nil
	}

	if s.opts.ArchivePath != "" {
		store, err := archive.Open(ctx, s.opts.ArchivePath)
		if err != nil {
			return err
		}
		s.archive = store
	}

	if s.frames == nil {
		s.frames = clock.NewTickerFrames(s.opts.FrameTimeBudget)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { s.runFrameLoop(gCtx); return nil })
	g.Go(func() error { s.runSweeper(gCtx); return nil })

	s.lifecycle.cancel = cancel
	s.lifecycle.group = g
	s.lifecycle.started = true
	return nil
}

// Stop halts the dispatcher and sweeper and waits for both to return,
// then closes the archive if one was opened.
func (s *Scheduler) Stop() error {
	s.lifecycle.mu.Lock()
	defer s.lifecycle.mu.Unlock()
	if !s.lifecycle.started {
		return nil
	}
	s.lifecycle.cancel()
	err := s.lifecycle.group.Wait()
	s.lifecycle.started = false

	if s.archive != nil {
		if cerr := s.archive.Close(); cerr == nil {
			// keep the first error, if any
		} else if err == nil {
			err = cerr
		}
		s.archive = nil
	}
	return err
}

// GetTaskStatus returns the current status of id, or StatusUnknown if
// the registry does not (or no longer) track it.
func (s *Scheduler) GetTaskStatus(id string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return StatusUnknown
	}
	return t.status
}

// GetTask returns an immutable snapshot of id, if tracked.
func (s *Scheduler) GetTask(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return t.snapshot(), true
}

// GetStats aggregates counts across every tracked task (spec §4.1).
func (s *Scheduler) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	st.TotalTasks = len(s.tasks)
	for _, t := range s.tasks {
		switch t.status {
		case StatusPending:
			st.PendingTasks++
		case StatusRunning:
			st.RunningTasks++
		case StatusCompleted:
			st.CompletedTasks++
		case StatusFailed:
			st.FailedTasks++
		case StatusCancelled:
			st.CancelledTasks++
		}
	}
	return st
}

// Clear removes every task from the registry immediately, regardless
// of status (spec §4.9/§6). PENDING tasks are evicted from the ready
// queue along with everything else. It does not stop attempts already
// in flight; a RUNNING task's goroutine keeps executing and its
// eventual resolution finds no task in the registry to update, so it
// is silently dropped by finishAttempt/scheduleRetryLocked's map
// lookups instead of panicking.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*task)
	s.ready = newReadyQueue()
}
