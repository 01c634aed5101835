package frameloop

import "testing"

func newTask(id string, deps ...string) *task {
	return &task{id: id, dependencies: deps, status: StatusPending, heapIndex: -1}
}

func TestDetectCycleAcceptsLinearChain(t *testing.T) {
	tasks := map[string]*task{
		"A": newTask("A"),
		"B": newTask("B", "A"),
		"C": newTask("C", "B"),
	}
	if err := detectCycle(tasks); err != nil {
		t.Errorf("expected no cycle, got %v", err)
	}
}

func TestDetectCycleRejectsCycle(t *testing.T) {
	tasks := map[string]*task{
		"A": newTask("A", "C"),
		"B": newTask("B", "A"),
		"C": newTask("C", "B"),
	}
	if err := detectCycle(tasks); err == nil {
		t.Error("expected a cycle error, got nil")
	}
}

func TestValidateDependenciesRejectsUnknown(t *testing.T) {
	tasks := map[string]*task{"A": newTask("A")}
	b := newTask("B", "missing")
	err := validateDependencies(tasks, b)
	var unknownErr *UnknownDependencyError
	if err == nil {
		t.Fatal("expected an error")
	}
	if uErr, ok := err.(*UnknownDependencyError); !ok {
		t.Fatalf("expected *UnknownDependencyError, got %T", err)
	} else {
		unknownErr = uErr
	}
	if unknownErr.DependencyID != "missing" {
		t.Errorf("expected dependency id %q, got %q", "missing", unknownErr.DependencyID)
	}
}

func TestInheritPriorityRaisesTransitiveDependencies(t *testing.T) {
	a := newTask("A")
	a.effectivePrio = PriorityLow
	b := newTask("B", "A")
	b.effectivePrio = PriorityLow
	c := newTask("C", "B")
	c.effectivePrio = PriorityHigh

	tasks := map[string]*task{"A": a, "B": b, "C": c}
	wireDependents(tasks, b)
	wireDependents(tasks, c)

	changed := inheritPriority(tasks, "C")

	if a.effectivePrio != PriorityHigh {
		t.Errorf("expected A's priority raised to HIGH, got %v", a.effectivePrio)
	}
	if b.effectivePrio != PriorityHigh {
		t.Errorf("expected B's priority raised to HIGH, got %v", b.effectivePrio)
	}
	if len(changed) != 2 {
		t.Errorf("expected 2 changed ids, got %d: %v", len(changed), changed)
	}
}

func TestInheritPriorityDoesNotLowerHigherDependency(t *testing.T) {
	a := newTask("A")
	a.effectivePrio = PriorityHigh
	b := newTask("B", "A")
	b.effectivePrio = PriorityLow

	tasks := map[string]*task{"A": a, "B": b}
	wireDependents(tasks, b)

	inheritPriority(tasks, "B")

	if a.effectivePrio != PriorityHigh {
		t.Errorf("expected A to remain HIGH, got %v", a.effectivePrio)
	}
}

func TestInheritPriorityStopsAtTerminalAncestor(t *testing.T) {
	// A already resolved, then D is added with deps=[A] at HIGH priority.
	// A's own (already-resolved) dependency grandparent must not be
	// touched either, since the walk should never step past A.
	grandparent := newTask("G")
	grandparent.effectivePrio = PriorityLow

	a := newTask("A", "G")
	a.effectivePrio = PriorityLow
	a.status = StatusCompleted

	d := newTask("D", "A")
	d.effectivePrio = PriorityHigh

	tasks := map[string]*task{"G": grandparent, "A": a, "D": d}
	wireDependents(tasks, a)
	wireDependents(tasks, d)

	changed := inheritPriority(tasks, "D")

	if a.effectivePrio != PriorityLow {
		t.Errorf("expected completed A's priority left untouched, got %v", a.effectivePrio)
	}
	if grandparent.effectivePrio != PriorityLow {
		t.Errorf("expected the walk not to recurse past terminal A, got %v", grandparent.effectivePrio)
	}
	for _, id := range changed {
		if id == "A" || id == "G" {
			t.Errorf("expected %s not to be reported as changed", id)
		}
	}
}

func TestDependentsReadyAfterCompletionRequiresAllDeps(t *testing.T) {
	a := newTask("A")
	a.status = StatusCompleted
	b := newTask("B")
	b.status = StatusPending
	c := newTask("C", "A", "B")
	c.status = StatusPending

	tasks := map[string]*task{"A": a, "B": b, "C": c}
	wireDependents(tasks, c)

	ready := dependentsReadyAfterCompletion(tasks, "A")
	if len(ready) != 0 {
		t.Errorf("expected C not ready while B is pending, got %v", ready)
	}

	b.status = StatusCompleted
	ready = dependentsReadyAfterCompletion(tasks, "B")
	if len(ready) != 1 || ready[0] != "C" {
		t.Errorf("expected C ready once both deps completed, got %v", ready)
	}
}

func TestCascadeDependencyFailureWalksTransitively(t *testing.T) {
	a := newTask("A")
	b := newTask("B", "A")
	c := newTask("C", "B")
	tasks := map[string]*task{"A": a, "B": b, "C": c}
	wireDependents(tasks, b)
	wireDependents(tasks, c)

	cascaded := cascadeDependencyFailure(tasks, "A")
	if len(cascaded) != 2 {
		t.Fatalf("expected 2 cascaded dependents, got %d: %v", len(cascaded), cascaded)
	}
	seen := map[string]bool{}
	for _, id := range cascaded {
		seen[id] = true
	}
	if !seen["B"] || !seen["C"] {
		t.Errorf("expected B and C both cascaded, got %v", cascaded)
	}
}
