package frameloop

import "time"

// Options are the constructor options from spec §6, all optional with
// the recognized defaults.
type Options struct {
	MaxTasksPerFrame   int
	FrameTimeBudget    time.Duration
	MaxConcurrentTasks int
	RetentionPeriod    time.Duration
	QueueSizeLimit     int // 0 means unlimited
	BaseRetryDelay     time.Duration

	// SweepInterval is how often the retention sweeper scans for
	// expired terminal tasks (spec §9 open question: exposed as an
	// option rather than hard-coded, default matches the 10s the spec
	// text observes).
	SweepInterval time.Duration

	// ArchivePath, when non-empty, enables the SQLite-backed terminal
	// task archive (SPEC_FULL.md §2/§3) at the given file path. Empty
	// disables archiving entirely.
	ArchivePath string

	// CircuitBreakers configures the opt-in per-task-type circuit
	// breaker (SPEC_FULL.md §2/§3), keyed by task type. A type absent
	// from this map is never protected by a breaker.
	CircuitBreakers map[string]CircuitBreakerConfig
}

// CircuitBreakerConfig configures the resilience.Registry entry for one
// task type.
type CircuitBreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DefaultOptions returns the recognized defaults from spec §6.
func DefaultOptions() Options {
	return Options{
		MaxTasksPerFrame:   10,
		FrameTimeBudget:    16 * time.Millisecond,
		MaxConcurrentTasks: 5,
		RetentionPeriod:    60 * time.Second,
		QueueSizeLimit:     0,
		BaseRetryDelay:     100 * time.Millisecond,
		SweepInterval:      10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxTasksPerFrame <= 0 {
		o.MaxTasksPerFrame = d.MaxTasksPerFrame
	}
	if o.FrameTimeBudget <= 0 {
		o.FrameTimeBudget = d.FrameTimeBudget
	}
	if o.MaxConcurrentTasks <= 0 {
		o.MaxConcurrentTasks = d.MaxConcurrentTasks
	}
	if o.RetentionPeriod <= 0 {
		o.RetentionPeriod = d.RetentionPeriod
	}
	if o.BaseRetryDelay <= 0 {
		o.BaseRetryDelay = d.BaseRetryDelay
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = d.SweepInterval
	}
	return o
}
