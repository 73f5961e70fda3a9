package memstore

import (
	"container/heap"
)

// item is one scheduled expiration: a key and its absolute deadline.
type item struct {
	key   string
	atMs  int64
	index int // index in the heap, maintained by the heap package
}

// ttlHeap is a min-heap of expiration deadlines combined with a map for
// O(1) key access, so deadlines can be replaced or cancelled when a key is
// rewritten or deleted before it expires.
//
// Thread-safety: not safe for concurrent use; the store serializes access
// with its own mutex.
type ttlHeap struct {
	items    []*item
	itemsMap map[string]*item
}

func newTTLHeap() *ttlHeap {
	return &ttlHeap{
		itemsMap: make(map[string]*item),
	}
}

// Len, Less, Swap, Push and Pop implement heap.Interface.

func (h *ttlHeap) Len() int { return len(h.items) }

func (h *ttlHeap) Less(i, j int) bool { return h.items[i].atMs < h.items[j].atMs }

func (h *ttlHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *ttlHeap) Push(x interface{}) {
	it := x.(*item)
	it.index = len(h.items)
	h.items = append(h.items, it)
	h.itemsMap[it.key] = it
}

func (h *ttlHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // avoid memory leak
	it.index = -1
	h.items = old[:n-1]
	delete(h.itemsMap, it.key)
	return it
}

// add schedules or reschedules a deadline for a key.
func (h *ttlHeap) add(key string, atMs int64) {
	if it, exists := h.itemsMap[key]; exists {
		it.atMs = atMs
		heap.Fix(h, it.index)
		return
	}
	heap.Push(h, &item{key: key, atMs: atMs})
}

// remove cancels the deadline for a key, if one is scheduled.
func (h *ttlHeap) remove(key string) {
	if it, exists := h.itemsMap[key]; exists {
		heap.Remove(h, it.index)
	}
}

// peek returns the earliest scheduled deadline without removing it.
func (h *ttlHeap) peek() (*item, bool) {
	if len(h.items) == 0 {
		return nil, false
	}
	return h.items[0], true
}

// popExpired removes and returns the earliest item if its deadline is at
// or before now.
func (h *ttlHeap) popExpired(nowMs int64) (*item, bool) {
	it, ok := h.peek()
	if !ok || it.atMs > nowMs {
		return nil, false
	}
	return heap.Pop(h).(*item), true
}
