package frameloop

import (
	"context"
	"sync/atomic"
	"time"
)

// Context is the per-attempt runtime handle injected into executors
// (spec §4.6). It embeds context.Context so executors can pass it
// straight through to anything context-aware; cancellation via
// CancelTask is delivered through Done()/Err() exactly like a normal
// context cancellation. Err() reports context.Canceled or
// context.DeadlineExceeded; context.Cause reports the specific reason
// (a *CancelledError for CancelTask, context.DeadlineExceeded for a
// per-attempt timeout).
type Context struct {
	context.Context

	taskID       string
	taskStartAt  time.Time
	frameStart   *atomic.Int64 // unix nanos of the frame tick that dispatched this task's scheduler
	frameBudget  time.Duration
	nowFunc      func() time.Time
	reportFn     func(taskID string, n float64)
}

// TaskID returns the id of the task this context was created for.
func (c Context) TaskID() string { return c.taskID }

// TaskStartedAt returns the wall-clock time the current attempt began.
func (c Context) TaskStartedAt() time.Time { return c.taskStartAt }

// ReportProgress records progress and emits TASK_PROGRESS (spec §4.6).
// Monotonicity is the caller's contract, not enforced here.
func (c Context) ReportProgress(n float64) {
	if c.reportFn != nil {
		c.reportFn(c.taskID, n)
	}
}

// ShouldYield reports whether the current frame's dispatch budget has
// elapsed. Executors consult this voluntarily; the scheduler never
// preempts based on it (spec §4.6, §9 "Cooperative yield").
func (c Context) ShouldYield() bool {
	if c.frameStart == nil || c.frameBudget <= 0 {
		return false
	}
	start := time.Unix(0, c.frameStart.Load())
	now := c.nowFunc()
	return now.Sub(start) >= c.frameBudget
}
