package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coopsched/frameloop"
)

// Load reads a JSON options file at path and overlays it on top of
// frameloop.DefaultOptions(). A missing file is not an error, matching
// the teacher's mergeConfigFile; a malformed one is.
func Load(path string) (frameloop.Options, error) {
	opts := frameloop.DefaultOptions()

	if path == "" {
		return opts, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}

	if f.MaxTasksPerFrame != 0 {
		opts.MaxTasksPerFrame = f.MaxTasksPerFrame
	}
	if f.FrameTimeBudgetMS != 0 {
		opts.FrameTimeBudget = msToDuration(f.FrameTimeBudgetMS)
	}
	if f.MaxConcurrentTasks != 0 {
		opts.MaxConcurrentTasks = f.MaxConcurrentTasks
	}
	if f.RetentionPeriodMS != 0 {
		opts.RetentionPeriod = msToDuration(f.RetentionPeriodMS)
	}
	if f.QueueSizeLimit != 0 {
		opts.QueueSizeLimit = f.QueueSizeLimit
	}
	if f.BaseRetryDelayMS != 0 {
		opts.BaseRetryDelay = msToDuration(f.BaseRetryDelayMS)
	}
	if f.SweepIntervalMS != 0 {
		opts.SweepInterval = msToDuration(f.SweepIntervalMS)
	}
	if f.ArchivePath != "" {
		opts.ArchivePath = f.ArchivePath
	}
	if len(f.CircuitBreakers) > 0 {
		opts.CircuitBreakers = make(map[string]frameloop.CircuitBreakerConfig, len(f.CircuitBreakers))
		for typ, b := range f.CircuitBreakers {
			opts.CircuitBreakers[typ] = frameloop.CircuitBreakerConfig{
				MaxFailures: b.MaxFailures,
				OpenTimeout: msToDuration(b.OpenTimeoutMS),
			}
		}
	}

	return opts, nil
}
