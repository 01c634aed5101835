// Package resilience wraps executor invocation in a per-task-type
// circuit breaker, adapted from the teacher's
// internal/orchestrator/resilience.go CircuitBreakerRegistry. It is an
// opt-in supplement (SPEC_FULL.md §2/§3): a scheduler with no
// registered breakers behaves exactly as spec.md describes.
package resilience

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config configures the breaker for one task type.
type Config struct {
	// MaxFailures trips the breaker after this many consecutive
	// executor failures for the type.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before allowing a
	// trial request through (half-open).
	OpenTimeout time.Duration
}

// DefaultConfig mirrors the teacher's registry defaults.
func DefaultConfig() Config {
	return Config{MaxFailures: 5, OpenTimeout: 30 * time.Second}
}

// ErrCircuitOpen is returned by Execute when the type's breaker is open.
var ErrCircuitOpen = errors.New("resilience: circuit open for task type")

// Registry manages one circuit breaker per task type.
type Registry struct {
	mu       sync.Mutex
	configs  map[string]Config
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewRegistry creates an empty registry; types without a configured
// breaker pass straight through Execute unprotected.
func NewRegistry() *Registry {
	return &Registry{
		configs:  make(map[string]Config),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Configure enables a circuit breaker for taskType.
func (r *Registry) Configure(taskType string, cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[taskType] = cfg
	delete(r.breakers, taskType) // re-create lazily with the new config
}

func (r *Registry) get(taskType string) (*gobreaker.CircuitBreaker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, configured := r.configs[taskType]
	if !configured {
		return nil, false
	}

	if cb, ok := r.breakers[taskType]; ok {
		return cb, true
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        taskType,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("frameloop: circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	r.breakers[taskType] = cb
	return cb, true
}

// Execute runs fn through taskType's breaker, if one is configured;
// otherwise it calls fn directly.
func (r *Registry) Execute(taskType string, fn func() (any, error)) (any, error) {
	cb, ok := r.get(taskType)
	if !ok {
		return fn()
	}

	result, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}
