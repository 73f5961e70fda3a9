package memstore

import "testing"

func TestTTLHeapOrdersByDeadline(t *testing.T) {
	h := newTTLHeap()
	h.add("late", 300)
	h.add("early", 100)
	h.add("mid", 200)

	want := []string{"early", "mid", "late"}
	for _, key := range want {
		it, ok := h.popExpired(1_000)
		if !ok || it.key != key {
			t.Fatalf("popExpired = %v, %v; want key %q", it, ok, key)
		}
	}
	if _, ok := h.popExpired(1_000); ok {
		t.Error("drained heap must report no expired items")
	}
}

func TestTTLHeapPopExpiredRespectsNow(t *testing.T) {
	h := newTTLHeap()
	h.add("k", 500)

	if _, ok := h.popExpired(499); ok {
		t.Error("deadline in the future must not pop")
	}
	if it, ok := h.popExpired(500); !ok || it.key != "k" {
		t.Error("deadline at now must pop")
	}
}

func TestTTLHeapReschedule(t *testing.T) {
	h := newTTLHeap()
	h.add("a", 100)
	h.add("b", 200)
	h.add("a", 300) // move a behind b

	if it, _ := h.popExpired(1_000); it.key != "b" {
		t.Errorf("first pop = %q, want b", it.key)
	}
	if it, _ := h.popExpired(1_000); it.key != "a" {
		t.Errorf("second pop = %q, want a", it.key)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestTTLHeapRemove(t *testing.T) {
	h := newTTLHeap()
	h.add("a", 100)
	h.add("b", 200)
	h.remove("a")
	h.remove("missing") // no-op

	if it, ok := h.popExpired(1_000); !ok || it.key != "b" {
		t.Errorf("pop after remove = %v, %v", it, ok)
	}
}

func TestTTLHeapPeek(t *testing.T) {
	h := newTTLHeap()
	if _, ok := h.peek(); ok {
		t.Error("empty heap must not peek")
	}
	h.add("k", 42)
	it, ok := h.peek()
	if !ok || it.key != "k" || it.atMs != 42 {
		t.Errorf("peek = %v, %v", it, ok)
	}
	if h.Len() != 1 {
		t.Error("peek must not remove the item")
	}
}
