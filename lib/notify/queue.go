package notify

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node is a single element of the queue's linked list.
type node[T any] struct {
	value *T
	next  atomic.Pointer[node[T]]
}

// mpscQueue is a lock-free multi-producer single-consumer queue: any
// number of goroutines may push concurrently, one dispatcher consumes via
// the Recv channel. It is unbounded; ordering between concurrent pushes is
// decided by whichever producer links its node first.
type mpscQueue[T any] struct {
	head     atomic.Pointer[node[T]]
	tail     atomic.Pointer[node[T]]
	out      chan *T
	consumer sync.WaitGroup
	closed   atomic.Bool

	mu   sync.Mutex
	cond *sync.Cond
}

func newMPSCQueue[T any]() *mpscQueue[T] {
	sentinel := &node[T]{}
	q := &mpscQueue[T]{out: make(chan *T)}
	q.cond = sync.NewCond(&q.mu)
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	q.consumer.Add(1)
	go q.consume()
	return q
}

// push adds an item. Returns false if the queue is closed.
//
// Thread-safety: safe for concurrent use.
func (q *mpscQueue[T]) push(value *T) bool {
	if value == nil || q.closed.Load() {
		return false
	}

	newNode := &node[T]{value: value}
	var backoff uint8

	for {
		tailNode := q.tail.Load()
		next := tailNode.next.Load()
		if next == nil {
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// CAS on tail may fail if another producer helped;
				// the tail still converges
				q.tail.CompareAndSwap(tailNode, newNode)
				q.cond.Signal()
				return true
			}
		} else {
			// help a stalled producer move the tail forward
			q.tail.CompareAndSwap(tailNode, next)
		}

		// exponential backoff under contention
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// consume moves items from the linked list to the output channel.
func (q *mpscQueue[T]) consume() {
	defer q.consumer.Done()
	defer close(q.out)

	for {
		hasItems := false

		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}
			hasItems = true

			value := next.value
			q.head.Store(next)
			q.out <- value
			next.value = nil // help the gc
		}

		if !hasItems && q.closed.Load() {
			return
		}

		if !hasItems {
			q.mu.Lock()
			if q.head.Load().next.Load() == nil && !q.closed.Load() {
				q.cond.Wait()
			}
			q.mu.Unlock()
		}
	}
}

// recv returns the consumer channel.
func (q *mpscQueue[T]) recv() <-chan *T {
	return q.out
}

// close stops the queue for writes; queued items are still delivered.
func (q *mpscQueue[T]) close() {
	q.closed.Store(true)
	q.cond.Signal()
}
