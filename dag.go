package frameloop

import (
	"fmt"

	"github.com/gammazero/toposort"
)

// validateDependencies checks that every id t depends on already exists
// in tasks, returning an UnknownDependencyError for the first that
// doesn't (spec §4.4 edge case: reject before the task ever enters the
// registry).
func validateDependencies(tasks map[string]*task, t *task) error {
	for _, depID := range t.dependencies {
		if _, ok := tasks[depID]; !ok {
			return &UnknownDependencyError{TaskID: t.id, DependencyID: depID}
		}
	}
	return nil
}

// detectCycle runs a topological sort over the current task set,
// grounded on the teacher's DAG.Validate, which uses the same library
// the same way: one edge per (dependency, dependent) pair, plus a
// nil-rooted edge for tasks with no dependencies so isolated nodes
// still appear in the result.
func detectCycle(tasks map[string]*task) error {
	edges := make([]toposort.Edge, 0, len(tasks))
	for id, t := range tasks {
		if len(t.dependencies) == 0 {
			edges = append(edges, toposort.Edge{nil, id})
			continue
		}
		for _, depID := range t.dependencies {
			edges = append(edges, toposort.Edge{depID, id})
		}
	}
	_, err := toposort.Toposort(edges)
	if err != nil {
		return fmt.Errorf("dependency graph contains a cycle: %w", err)
	}
	return nil
}

// wireDependents records t as a dependent of each of its dependencies,
// so completion/failure cascades (dependentsReadyAfterCompletion,
// cascadeDependencyFailure below) can walk forward from a finished
// task instead of scanning the whole registry.
func wireDependents(tasks map[string]*task, t *task) {
	for _, depID := range t.dependencies {
		if dep, ok := tasks[depID]; ok {
			dep.dependents = append(dep.dependents, t.id)
		}
	}
}

// inheritPriority propagates a task's effective priority down onto its
// transitive dependencies whenever it is higher than what they
// currently carry, so a HIGH-priority task never sits ready-queued
// behind a LOW-priority dependency that could otherwise dawdle (spec
// §4.4 priority inheritance). Already-terminal ancestors are left alone
// and the walk does not continue past them: their priority no longer
// affects dispatch order, and re-deriving anything from their own
// already-resolved dependencies would just be wasted work (spec §4.3).
// The walk is bounded by len(tasks) visits since the graph is
// guaranteed acyclic by the time this runs.
//
// It returns the ids whose effectivePrio actually changed, so the
// caller can re-position them in the ready-queue index.
func inheritPriority(tasks map[string]*task, startID string) []string {
	start, ok := tasks[startID]
	if !ok {
		return nil
	}

	var changed []string
	visited := make(map[string]bool, len(tasks))
	var walk func(id string, floor Priority)
	walk = func(id string, floor Priority) {
		if visited[id] {
			return
		}
		visited[id] = true
		t, ok := tasks[id]
		if !ok || t.status.IsTerminal() {
			return
		}
		if id != startID && t.effectivePrio < floor {
			t.effectivePrio = floor
			changed = append(changed, id)
		}
		for _, depID := range t.dependencies {
			walk(depID, floor)
		}
	}
	walk(startID, start.effectivePrio)
	return changed
}

// dependentsReadyAfterCompletion returns the ids of completedID's
// direct dependents that are now fully satisfied: still PENDING, and
// every one of their own dependencies has resolved as COMPLETED. It
// does not recurse past direct dependents; a dependent that becomes
// ready enqueues and its own completion will trigger the next hop.
func dependentsReadyAfterCompletion(tasks map[string]*task, completedID string) []string {
	completed, ok := tasks[completedID]
	if !ok {
		return nil
	}

	var ready []string
	for _, depID := range completed.dependents {
		dependent, ok := tasks[depID]
		if !ok || dependent.status != StatusPending {
			continue
		}
		allDone := true
		for _, id := range dependent.dependencies {
			d, ok := tasks[id]
			if !ok || d.status != StatusCompleted {
				allDone = false
				break
			}
		}
		if allDone {
			ready = append(ready, depID)
		}
	}
	return ready
}

// cascadeDependencyFailure walks every transitive dependent of
// failedID and returns them in breadth-first order, so the caller can
// mark each DEPENDENCY_FAILED and continue the cascade outward (spec
// §4.8: a FAILED or CANCELLED task poisons its whole downstream
// subtree, with no retry).
func cascadeDependencyFailure(tasks map[string]*task, failedID string) []string {
	var out []string
	queue := []string{failedID}
	visited := map[string]bool{failedID: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		t, ok := tasks[id]
		if !ok {
			continue
		}
		for _, depID := range t.dependents {
			if visited[depID] {
				continue
			}
			visited[depID] = true
			out = append(out, depID)
			queue = append(queue, depID)
		}
	}
	return out
}
