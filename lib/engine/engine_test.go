package engine

import (
	"time"

	"github.com/strandkv/strand/lib/store/memstore"
)

// --------------------------------------------------------------------------
// Test Helpers
// --------------------------------------------------------------------------

// testClock is a manually advanced time source.
type testClock struct {
	nowMs int64
}

func (c *testClock) now() time.Time { return time.UnixMilli(c.nowMs) }

func (c *testClock) advance(d time.Duration) { c.nowMs += d.Milliseconds() }

// newTestEngine builds an engine over a fresh in-memory store with a fake
// clock, so expiration can be tested without sleeping. The background
// sweeper never fires (huge interval); tests rely on lazy expiration.
func newTestEngine() (*Engine, *testClock) {
	clock := &testClock{nowMs: 1_000_000}
	s := memstore.New(&memstore.Options{
		Clock:         func() int64 { return clock.nowMs },
		SweepInterval: time.Hour,
	})
	return New(s, nil, clock.now), clock
}

// otherKind is a non-string object used to provoke WrongType errors.
type otherKind struct{}

func (otherKind) Kind() string { return "list" }
