package frameloop

import (
	"time"

	"github.com/google/uuid"
)

// RegisterExecutor associates an executor function with a task type.
// Registering again for the same type replaces the previous executor;
// tasks already attempted under the old function are unaffected.
func (s *Scheduler) RegisterExecutor(taskType string, fn ExecutorFunc) {
	s.mu.Lock()
	s.executors[taskType] = fn
	s.mu.Unlock()
}

// AddTask validates and inserts d into the registry, returning its
// assigned id. Validation runs entirely under the lock so a batch of
// concurrent AddTask calls sees a consistent view of the dependency
// graph (spec §4.1, §7 validation-error taxonomy).
func (s *Scheduler) AddTask(d Descriptor) (string, error) {
	s.mu.Lock()

	if s.opts.QueueSizeLimit > 0 && len(s.tasks) >= s.opts.QueueSizeLimit {
		s.mu.Unlock()
		return "", &QueueFullError{Limit: s.opts.QueueSizeLimit}
	}

	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.tasks[id]; exists {
		s.mu.Unlock()
		return "", &DuplicateIDError{ID: id}
	}
	if _, ok := s.executors[d.Type]; !ok {
		s.mu.Unlock()
		return "", &NoExecutorError{Type: d.Type}
	}

	baseDelay := d.BaseDelay
	if baseDelay <= 0 {
		baseDelay = s.opts.BaseRetryDelay
	}

	t := &task{
		id:            id,
		typ:           d.Type,
		data:          d.Data,
		originalPrio:  d.Priority,
		effectivePrio: d.Priority,
		dependencies:  append([]string(nil), d.Dependencies...),
		retryCount:    d.RetryCount,
		retryStrategy: d.RetryStrategy,
		baseDelay:     baseDelay,
		maxDelay:      d.MaxDelay,
		timeout:       d.Timeout,
		interruptible: d.Interruptible,
		onProgress:    d.OnProgress,
		status:        StatusPending,
		enqueueSeq:    s.nextSeq,
		enqueuedAt:    s.now(),
		heapIndex:     -1,
	}
	s.nextSeq++

	if err := validateDependencies(s.tasks, t); err != nil {
		s.mu.Unlock()
		return "", err
	}

	s.tasks[id] = t
	wireDependents(s.tasks, t)

	if err := detectCycle(s.tasks); err != nil {
		delete(s.tasks, id)
		for _, depID := range t.dependencies {
			if dep, ok := s.tasks[depID]; ok {
				dep.dependents = removeString(dep.dependents, id)
			}
		}
		s.mu.Unlock()
		return "", &DependencyCycleError{TaskID: id, Err: err}
	}

	for _, changedID := range inheritPriority(s.tasks, id) {
		if changed := s.tasks[changedID]; changed.inHeap {
			s.ready.fix(changed)
		}
	}

	ready := s.dependenciesSatisfied(t)
	if ready {
		s.ready.enqueue(t)
	}

	s.mu.Unlock()

	s.events.Emit(Event{Type: EventTaskAdded, TaskID: id})
	return id, nil
}

// dependenciesSatisfied reports whether every one of t's dependencies
// has already resolved as COMPLETED. Called with s.mu held.
func (s *Scheduler) dependenciesSatisfied(t *task) bool {
	for _, depID := range t.dependencies {
		dep, ok := s.tasks[depID]
		if !ok || dep.status != StatusCompleted {
			return false
		}
	}
	return true
}

func removeString(ss []string, target string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

// now returns the scheduler's current time, routed through its clock
// so tests can drive it deterministically (internal/faketime).
func (s *Scheduler) now() time.Time {
	return s.clock.Now()
}
