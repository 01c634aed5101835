package frameloop

import "testing"

func TestReadyQueueOrdersByPriorityThenFIFO(t *testing.T) {
	q := newReadyQueue()
	low1 := &task{id: "low1", effectivePrio: PriorityLow, enqueueSeq: 1, heapIndex: -1}
	high1 := &task{id: "high1", effectivePrio: PriorityHigh, enqueueSeq: 2, heapIndex: -1}
	normal1 := &task{id: "normal1", effectivePrio: PriorityNormal, enqueueSeq: 3, heapIndex: -1}
	high2 := &task{id: "high2", effectivePrio: PriorityHigh, enqueueSeq: 4, heapIndex: -1}

	q.enqueue(low1)
	q.enqueue(high1)
	q.enqueue(normal1)
	q.enqueue(high2)

	want := []string{"high1", "high2", "normal1", "low1"}
	for _, id := range want {
		got := q.dequeue()
		if got == nil || got.id != id {
			t.Fatalf("expected %q next, got %v", id, got)
		}
	}
	if q.dequeue() != nil {
		t.Error("expected empty queue")
	}
}

func TestReadyQueueFixReordersOnPriorityChange(t *testing.T) {
	q := newReadyQueue()
	a := &task{id: "a", effectivePrio: PriorityLow, enqueueSeq: 1, heapIndex: -1}
	b := &task{id: "b", effectivePrio: PriorityLow, enqueueSeq: 2, heapIndex: -1}
	q.enqueue(a)
	q.enqueue(b)

	b.effectivePrio = PriorityHigh
	q.fix(b)

	got := q.dequeue()
	if got.id != "b" {
		t.Fatalf("expected b to have moved to the front after priority raise, got %q", got.id)
	}
}

func TestReadyQueueRemove(t *testing.T) {
	q := newReadyQueue()
	a := &task{id: "a", effectivePrio: PriorityNormal, enqueueSeq: 1, heapIndex: -1}
	b := &task{id: "b", effectivePrio: PriorityNormal, enqueueSeq: 2, heapIndex: -1}
	q.enqueue(a)
	q.enqueue(b)

	q.remove(a)
	if q.Len() != 1 {
		t.Fatalf("expected 1 item after remove, got %d", q.Len())
	}
	if got := q.dequeue(); got.id != "b" {
		t.Errorf("expected b to remain, got %q", got.id)
	}
}
