package frameloop

import "container/heap"

// readyQueue orders PENDING-and-eligible tasks by (-effectivePriority,
// enqueueSequence): higher priority first, FIFO among equal priorities
// (spec §4.3). It is a plain container/heap min-heap over a comparator
// that inverts priority; no priority-queue library appears anywhere in
// the retrieved corpus, so this is the one place SPEC_FULL.md accepts
// a stdlib-only implementation (recorded in DESIGN.md).
//
// A task's effectivePrio can rise after it is already queued (priority
// inheritance, dag.go's inheritPriority). Re-heapifying in place via
// heap.Fix keeps the index correct instead of falling back to lazy
// deletion, since every queued task's heapIndex is tracked on the task
// itself.
type readyQueue struct {
	items []*task
}

func newReadyQueue() *readyQueue {
	return &readyQueue{}
}

func (q *readyQueue) Len() int { return len(q.items) }

func (q *readyQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.effectivePrio != b.effectivePrio {
		return a.effectivePrio > b.effectivePrio
	}
	return a.enqueueSeq < b.enqueueSeq
}

func (q *readyQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].heapIndex = i
	q.items[j].heapIndex = j
}

func (q *readyQueue) Push(x any) {
	t := x.(*task)
	t.heapIndex = len(q.items)
	t.inHeap = true
	q.items = append(q.items, t)
}

func (q *readyQueue) Pop() any {
	old := q.items
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.heapIndex = -1
	t.inHeap = false
	q.items = old[:n-1]
	return t
}

// enqueue inserts t into the ready index. Callers must not enqueue a
// task already in the heap.
func (q *readyQueue) enqueue(t *task) {
	heap.Push(q, t)
}

// dequeue removes and returns the highest-priority, earliest-enqueued
// task, or nil if the queue is empty.
func (q *readyQueue) dequeue() *task {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*task)
}

// fix re-establishes heap order for t after its effectivePrio changed
// while it was already queued.
func (q *readyQueue) fix(t *task) {
	if t.inHeap {
		heap.Fix(q, t.heapIndex)
	}
}

// remove pulls t out of the queue ahead of its turn, used when a
// pending task is cancelled directly.
func (q *readyQueue) remove(t *task) {
	if t.inHeap {
		heap.Remove(q, t.heapIndex)
	}
}
