package frameloop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/coopsched/frameloop/internal/archive"
	"github.com/coopsched/frameloop/internal/retry"
)

// runAttempt executes one attempt of t: builds its Context, invokes
// the registered executor (through the circuit breaker registry, if
// one is configured for t's type), and routes the outcome to
// finishAttempt. It always releases the concurrency semaphore slot
// tick acquired before dispatching t. The executor call is
// panic-isolated the same way the teacher's worker pool guards
// task execution (internal/EBal0vGG worker_pool.go worker/Submit): a
// panicking ExecutorFunc is recovered and converted to an error inside
// the breaker's closure, so gobreaker still counts it as a failure and
// it flows through the normal retry/terminal classification below
// instead of crashing the host process.
func (s *Scheduler) runAttempt(t *task) {
	defer s.sem.Release(1)

	base, baseCancel := context.WithCancelCause(context.Background())
	execCtx := context.Context(base)
	if t.timeout > 0 {
		var timeoutCancel context.CancelFunc
		execCtx, timeoutCancel = context.WithTimeout(base, t.timeout)
		defer timeoutCancel()
	}

	s.mu.Lock()
	t.cancel = baseCancel
	if t.interruptible && t.cancelRequested {
		baseCancel(&CancelledError{TaskID: t.id})
	}
	fn, hasExecutor := s.executors[t.typ]
	s.mu.Unlock()

	if !hasExecutor {
		s.finishAttempt(t, nil, &NoExecutorError{Type: t.typ}, execCtx)
		return
	}

	rc := Context{
		Context:     execCtx,
		taskID:      t.id,
		taskStartAt: t.startedAt,
		frameStart:  s.frameStart,
		frameBudget: s.opts.FrameTimeBudget,
		nowFunc:     s.clock.Now,
		reportFn:    s.reportProgress,
	}

	result, err := s.breakers.Execute(t.typ, func() (res any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("executor panicked: %v\n%s", r, debug.Stack())
			}
		}()
		return fn(rc, t.data)
	})
	baseCancel(nil)

	s.finishAttempt(t, result, err, execCtx)
}

// finishAttempt classifies the outcome of one attempt and transitions
// t accordingly: COMPLETED on success, back to PENDING with a
// scheduled retry on a retryable failure, or a terminal FAILED /
// CANCELLED with dependency cascade otherwise (spec §4.7, §4.8).
func (s *Scheduler) finishAttempt(t *task, result any, err error, execCtx context.Context) {
	s.mu.Lock()

	if t.status.IsTerminal() {
		// CancelTask already flipped this task to a terminal status (spec
		// §4.7/§5: cancelling a RUNNING interruptible task sets CANCELLED
		// immediately) while this attempt was still in flight. Its eventual
		// resolution, success or failure, is discarded rather than
		// overwriting the already-observed status.
		s.mu.Unlock()
		return
	}

	if cur, ok := s.tasks[t.id]; !ok || cur != t {
		// Clear() dropped this task from the registry while the attempt
		// was in flight; there is no tracked task left to update.
		s.mu.Unlock()
		return
	}

	if err == nil {
		t.status = StatusCompleted
		t.result = result
		t.err = nil
		t.finishedAt = s.now()
		readyIDs := dependentsReadyAfterCompletion(s.tasks, t.id)
		for _, id := range readyIDs {
			s.ready.enqueue(s.tasks[id])
		}
		snap := t.snapshot()
		s.mu.Unlock()

		s.events.Emit(Event{Type: EventTaskCompleted, TaskID: t.id, Result: result})
		s.maybeArchive(snap)
		return
	}

	cause := context.Cause(execCtx)
	var cancelled *CancelledError
	switch {
	case errors.As(cause, &cancelled):
		s.finishTerminal(t, StatusCancelled, cancelled)
		return
	case errors.Is(cause, context.DeadlineExceeded):
		timeoutErr := &TaskTimeoutError{TaskID: t.id, Timeout: t.timeout.String()}
		if t.attempts <= t.retryCount {
			s.scheduleRetryLocked(t, timeoutErr)
			return
		}
		s.finishTerminal(t, StatusFailed, timeoutErr)
		return
	default:
		execErr := &ExecutorError{TaskID: t.id, Err: err}
		if t.attempts <= t.retryCount {
			s.scheduleRetryLocked(t, execErr)
			return
		}
		s.finishTerminal(t, StatusFailed, execErr)
		return
	}
}

// scheduleRetryLocked returns t to PENDING and arms a timer for the
// next attempt's delay. Called with s.mu held; unlocks before
// returning.
func (s *Scheduler) scheduleRetryLocked(t *task, attemptErr error) {
	t.err = attemptErr
	delay := retry.Delay(toRetryStrategy(t.retryStrategy), t.attempts, t.baseDelay, t.maxDelay)
	attempt := t.attempts
	s.mu.Unlock()

	timer := s.clock.NewTimer(delay)
	s.events.Emit(Event{Type: EventTaskRetry, TaskID: t.id, Attempt: attempt, Delay: delay.String(), Err: attemptErr})

	go func() {
		<-timer.C()
		s.mu.Lock()
		if t.status.IsTerminal() {
			s.mu.Unlock()
			return
		}
		if cur, ok := s.tasks[t.id]; !ok || cur != t {
			// Clear() dropped this task from the registry while the retry
			// timer was armed; do not resurrect it into the fresh ready
			// queue Clear() installed.
			s.mu.Unlock()
			return
		}
		t.status = StatusPending
		s.ready.enqueue(t)
		s.mu.Unlock()
	}()
}

// finishTerminal marks t FAILED or CANCELLED, cascades
// DEPENDENCY_FAILED to every transitive dependent, and emits the
// terminal event for t and each cascaded dependent (spec §4.8). Called
// with s.mu held; unlocks before returning.
func (s *Scheduler) finishTerminal(t *task, status Status, terminalErr error) {
	t.status = status
	t.err = terminalErr
	t.finishedAt = s.now()

	cascaded := cascadeDependencyFailure(s.tasks, t.id)
	type failedDependent struct {
		id  string
		err error
	}
	var events []failedDependent
	for _, id := range cascaded {
		dep, ok := s.tasks[id]
		if !ok || dep.status.IsTerminal() {
			continue
		}
		s.ready.remove(dep)
		dep.status = StatusFailed
		depErr := &DependencyFailedError{TaskID: id, DependencyID: t.id}
		dep.err = depErr
		dep.finishedAt = s.now()
		events = append(events, failedDependent{id, depErr})
	}

	snap := t.snapshot()
	s.mu.Unlock()

	terminalEvent := EventTaskFailed
	if status == StatusCancelled {
		terminalEvent = EventTaskCancelled
	}
	s.events.Emit(Event{Type: terminalEvent, TaskID: t.id, Err: terminalErr})
	for _, f := range events {
		s.events.Emit(Event{Type: EventTaskFailed, TaskID: f.id, Err: f.err})
	}
	s.maybeArchive(snap)
}

// CancelTask requests cancellation of id. A PENDING task is cancelled
// immediately and cascades to its dependents. A RUNNING interruptible
// task's status flips to CANCELLED synchronously, right here, before
// CancelTask returns (spec §4.7: "sets status := CANCELLED"; spec §5:
// "the task's observed status flips to CANCELLED immediately and the
// eventual resolution is discarded") — its attempt's context is then
// aborted so a cooperative executor unwinds promptly, but whatever that
// attempt eventually returns is discarded by finishAttempt regardless
// of whether the executor honors the signal. A RUNNING non-interruptible
// task ignores the request outright (spec §4.7/§9: it continues and is
// never marked cancelled). Cancelling an unknown or already-terminal id
// is a no-op. The return reports whether the request had any effect.
func (s *Scheduler) CancelTask(id string) bool {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok || t.status.IsTerminal() {
		s.mu.Unlock()
		return false
	}

	if t.status == StatusPending {
		s.ready.remove(t)
		s.finishTerminal(t, StatusCancelled, &CancelledError{TaskID: id})
		return true
	}

	// RUNNING
	if !t.interruptible {
		s.mu.Unlock()
		return false
	}
	cancelErr := &CancelledError{TaskID: id}
	cancel := t.cancel
	if cancel == nil {
		// runAttempt hasn't installed its cancel func yet; flag it so
		// runAttempt aborts the context itself the moment it does.
		t.cancelRequested = true
	}
	s.finishTerminal(t, StatusCancelled, cancelErr)
	if cancel != nil {
		cancel(cancelErr)
	}
	return true
}

func (s *Scheduler) reportProgress(taskID string, n float64) {
	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if !ok || t.status != StatusRunning {
		s.mu.Unlock()
		return
	}
	t.progress = n
	onProgress := t.onProgress
	s.mu.Unlock()

	if onProgress != nil {
		onProgress(n)
	}
	s.events.Emit(Event{Type: EventTaskProgress, TaskID: taskID, Progress: n})
}

func (s *Scheduler) maybeArchive(snap Task) {
	if s.archive == nil || !snap.Status.IsTerminal() {
		return
	}
	errStr := ""
	if snap.Err != nil {
		errStr = snap.Err.Error()
	}
	resultStr := ""
	if snap.Result != nil {
		resultStr = "set"
	}
	rec := archive.Record{
		ID:                snap.ID,
		Type:              snap.Type,
		OriginalPriority:  int(snap.OriginalPriority),
		EffectivePriority: int(snap.EffectivePriority),
		Status:            int(snap.Status),
		Attempts:          snap.Attempts,
		Result:            resultStr,
		Error:             errStr,
		EnqueuedAt:        snap.EnqueuedAt,
		StartedAt:         snap.StartedAt,
		FinishedAt:        snap.FinishedAt,
	}
	_ = s.archive.Save(context.Background(), rec)
}

func toRetryStrategy(rs RetryStrategy) retry.Strategy {
	switch rs {
	case RetryImmediate:
		return retry.Immediate
	case RetryExponential:
		return retry.Exponential
	default:
		return retry.Fixed
	}
}
