package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/coopsched/frameloop"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "opts.json")

	opts := frameloop.DefaultOptions()
	opts.MaxTasksPerFrame = 42
	opts.FrameTimeBudget = 33 * time.Millisecond
	opts.ArchivePath = "archive.db"
	opts.CircuitBreakers = map[string]frameloop.CircuitBreakerConfig{
		"cpu-bound": {MaxFailures: 4, OpenTimeout: 2 * time.Second},
	}

	if err := Save(opts, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.MaxTasksPerFrame != opts.MaxTasksPerFrame {
		t.Errorf("MaxTasksPerFrame: got %d, want %d", loaded.MaxTasksPerFrame, opts.MaxTasksPerFrame)
	}
	if loaded.FrameTimeBudget != opts.FrameTimeBudget {
		t.Errorf("FrameTimeBudget: got %v, want %v", loaded.FrameTimeBudget, opts.FrameTimeBudget)
	}
	if loaded.ArchivePath != opts.ArchivePath {
		t.Errorf("ArchivePath: got %q, want %q", loaded.ArchivePath, opts.ArchivePath)
	}
	b, ok := loaded.CircuitBreakers["cpu-bound"]
	if !ok || b.MaxFailures != 4 || b.OpenTimeout != 2*time.Second {
		t.Errorf("unexpected round-tripped breaker config: %+v (ok=%v)", b, ok)
	}
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "opts.json")
	if err := Save(frameloop.DefaultOptions(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
}
