package notify

import "sync"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Event classes, mirroring the two channels the engine emits on.
const (
	ClassString  = "string"
	ClassGeneric = "generic"
)

// Event is one keyspace notification.
type Event struct {
	Class string // ClassString or ClassGeneric
	Name  string // e.g. "set", "incrby", "expire"
	Key   string
}

// INotifier receives keyspace events. Emit is fire-and-forget: callers
// never consult a return value and implementations must not block the
// command path.
type INotifier interface {
	Emit(class, event, key string)
}

// Subscriber consumes dispatched events. Subscribers run on the
// dispatcher goroutine and should return quickly.
type Subscriber func(Event)

// --------------------------------------------------------------------------
// Nop Notifier
// --------------------------------------------------------------------------

// NewNop returns a notifier that discards all events. Useful for tests and
// tools that don't care about the event stream.
func NewNop() INotifier {
	return nopNotifier{}
}

type nopNotifier struct{}

func (nopNotifier) Emit(string, string, string) {}

// --------------------------------------------------------------------------
// Async Notifier
// --------------------------------------------------------------------------

// asyncNotifier fans events out to a fixed subscriber list through an
// MPSC queue, so Emit costs one queue push regardless of subscriber count.
type asyncNotifier struct {
	queue       *mpscQueue[Event]
	subscribers []Subscriber
	done        sync.WaitGroup
}

// NewAsync creates a notifier that dispatches every event to all given
// subscribers on a single background goroutine. Close it to flush and stop.
func NewAsync(subscribers ...Subscriber) *asyncNotifier {
	n := &asyncNotifier{
		queue:       newMPSCQueue[Event](),
		subscribers: subscribers,
	}
	n.done.Add(1)
	go n.dispatch()
	return n
}

// Emit queues the event for dispatch. Never blocks on subscribers.
//
// Thread-safety: safe for concurrent use.
func (n *asyncNotifier) Emit(class, event, key string) {
	n.queue.push(&Event{Class: class, Name: event, Key: key})
}

// Close stops the notifier. Events already queued are still delivered.
func (n *asyncNotifier) Close() {
	n.queue.close()
	n.done.Wait()
}

func (n *asyncNotifier) dispatch() {
	defer n.done.Done()
	for ev := range n.queue.recv() {
		for _, sub := range n.subscribers {
			sub(*ev)
		}
	}
}
