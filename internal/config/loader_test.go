package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if opts.MaxTasksPerFrame != 10 {
		t.Errorf("expected default MaxTasksPerFrame 10, got %d", opts.MaxTasksPerFrame)
	}
	if opts.FrameTimeBudget != 16*time.Millisecond {
		t.Errorf("expected default FrameTimeBudget 16ms, got %v", opts.FrameTimeBudget)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if opts.MaxConcurrentTasks != 5 {
		t.Errorf("expected default MaxConcurrentTasks 5, got %d", opts.MaxConcurrentTasks)
	}
}

func TestLoadOverlaysProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	body := `{
		"max_tasks_per_frame": 25,
		"max_concurrent_tasks": 8,
		"queue_size_limit": 100,
		"circuit_breakers": {"flaky": {"max_failures": 3, "open_timeout_ms": 5000}}
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.MaxTasksPerFrame != 25 {
		t.Errorf("expected MaxTasksPerFrame 25, got %d", opts.MaxTasksPerFrame)
	}
	if opts.MaxConcurrentTasks != 8 {
		t.Errorf("expected MaxConcurrentTasks 8, got %d", opts.MaxConcurrentTasks)
	}
	if opts.QueueSizeLimit != 100 {
		t.Errorf("expected QueueSizeLimit 100, got %d", opts.QueueSizeLimit)
	}
	// Unset fields still fall back to defaults.
	if opts.RetentionPeriod != 60*time.Second {
		t.Errorf("expected default RetentionPeriod, got %v", opts.RetentionPeriod)
	}
	b, ok := opts.CircuitBreakers["flaky"]
	if !ok {
		t.Fatalf("expected circuit breaker config for %q", "flaky")
	}
	if b.MaxFailures != 3 || b.OpenTimeout != 5*time.Second {
		t.Errorf("unexpected breaker config: %+v", b)
	}
}

func TestLoadMalformedJSONErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
