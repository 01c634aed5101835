package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coopsched/frameloop"
)

// Save persists opts to a JSON file, creating parent directories if
// needed, exactly as the teacher's config.Save does for
// OrchestratorConfig.
func Save(opts frameloop.Options, path string) error {
	f := File{
		MaxTasksPerFrame:   opts.MaxTasksPerFrame,
		FrameTimeBudgetMS:  durationToMS(opts.FrameTimeBudget),
		MaxConcurrentTasks: opts.MaxConcurrentTasks,
		RetentionPeriodMS:  durationToMS(opts.RetentionPeriod),
		QueueSizeLimit:     opts.QueueSizeLimit,
		BaseRetryDelayMS:   durationToMS(opts.BaseRetryDelay),
		SweepIntervalMS:    durationToMS(opts.SweepInterval),
		ArchivePath:        opts.ArchivePath,
	}
	if len(opts.CircuitBreakers) > 0 {
		f.CircuitBreakers = make(map[string]BreakerFile, len(opts.CircuitBreakers))
		for typ, b := range opts.CircuitBreakers {
			f.CircuitBreakers[typ] = BreakerFile{
				MaxFailures:   b.MaxFailures,
				OpenTimeoutMS: durationToMS(b.OpenTimeout),
			}
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling options: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing options to %s: %w", path, err)
	}

	return nil
}
