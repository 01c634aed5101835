// Package config loads and saves frameloop.Options as JSON, mirroring
// the teacher's internal/config package (types.go/defaults.go/loader.go/
// save.go), scoped down to the scheduler's own tunables per SPEC_FULL.md
// §1.3. It does not parse CLI flags or discover config paths beyond what
// the caller supplies — that remains the host application's job (spec
// §1 keeps "CLI/config loading" as an external collaborator).
package config

import "time"

// File is the on-disk JSON shape for Options. Durations are stored as
// milliseconds so the file stays human-editable without a custom
// unmarshaler for every field.
type File struct {
	MaxTasksPerFrame   int                    `json:"max_tasks_per_frame,omitempty"`
	FrameTimeBudgetMS  int64                  `json:"frame_time_budget_ms,omitempty"`
	MaxConcurrentTasks int                    `json:"max_concurrent_tasks,omitempty"`
	RetentionPeriodMS  int64                  `json:"retention_period_ms,omitempty"`
	QueueSizeLimit     int                    `json:"queue_size_limit,omitempty"`
	BaseRetryDelayMS   int64                  `json:"base_retry_delay_ms,omitempty"`
	SweepIntervalMS    int64                  `json:"sweep_interval_ms,omitempty"`
	ArchivePath        string                 `json:"archive_path,omitempty"`
	CircuitBreakers    map[string]BreakerFile `json:"circuit_breakers,omitempty"`
}

// BreakerFile is the on-disk shape for one CircuitBreakerConfig entry.
type BreakerFile struct {
	MaxFailures   uint32 `json:"max_failures"`
	OpenTimeoutMS int64  `json:"open_timeout_ms"`
}

func msToDuration(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }
func durationToMS(d time.Duration) int64  { return d.Milliseconds() }
