package memstore

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/strandkv/strand/lib/store"
)

// --------------------------------------------------------------------------
// Constants and Options
// --------------------------------------------------------------------------

const defaultSweepInterval = 100 * time.Millisecond

// Clock returns the current wall-clock time in milliseconds. Injectable so
// TTL behavior is testable without sleeping.
type Clock func() int64

// Options configures the memstore behavior during initialization.
type Options struct {
	Clock         Clock         // nil = wall clock
	SweepInterval time.Duration // 0 = use default
}

// DefaultOptions returns the default memstore options.
func DefaultOptions() *Options {
	return &Options{
		Clock:         func() int64 { return time.Now().UnixMilli() },
		SweepInterval: defaultSweepInterval,
	}
}

// --------------------------------------------------------------------------
// Core store structure
// --------------------------------------------------------------------------

// entry pairs an object with its absolute expiration (0 = none).
type entry struct {
	obj      store.Object
	expireAt int64
}

// expired reports whether the entry is logically dead at the given time.
func (e entry) expired(nowMs int64) bool {
	return e.expireAt != 0 && nowMs >= e.expireAt
}

// storeImpl is an in-memory IStore: a concurrent map of entries plus a
// deadline heap drained by a background sweeper. Lookups additionally
// expire lazily, so a stopped sweeper only costs memory, never
// correctness.
type storeImpl struct {
	data  *xsync.MapOf[string, entry]
	clock Clock

	// sweeper
	mu             sync.Mutex // guards deadlines
	deadlines      *ttlHeap
	sweepInterval  time.Duration
	sweeperRunning atomic.Bool
	done           chan struct{}
}

// New creates a new in-memory store with the specified options (optional).
func New(opts *Options) store.IStore {
	if opts == nil {
		opts = DefaultOptions()
	}
	clock := opts.Clock
	if clock == nil {
		clock = DefaultOptions().Clock
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	s := &storeImpl{
		data:          xsync.NewMapOf[string, entry](),
		clock:         clock,
		deadlines:     newTTLHeap(),
		sweepInterval: interval,
		done:          make(chan struct{}),
	}
	s.startSweeper()
	return s
}

// --------------------------------------------------------------------------
// Interface Methods - Lookups
// --------------------------------------------------------------------------

// lookup applies lazy expiration: a logically dead entry is removed on
// sight and reported as absent.
//
// Thread-safety: safe for concurrent use.
func (s *storeImpl) lookup(key string) (store.Object, bool) {
	e, ok := s.data.Load(key)
	if !ok {
		return nil, false
	}
	if e.expired(s.clock()) {
		s.Delete(key)
		return nil, false
	}
	return e.obj, true
}

func (s *storeImpl) LookupRead(key string) (store.Object, bool) { return s.lookup(key) }

func (s *storeImpl) LookupWrite(key string) (store.Object, bool) { return s.lookup(key) }

func (s *storeImpl) Exists(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// --------------------------------------------------------------------------
// Interface Methods - Writes
// --------------------------------------------------------------------------

func (s *storeImpl) Add(key string, obj store.Object) {
	s.data.Store(key, entry{obj: obj})
}

func (s *storeImpl) Overwrite(key string, obj store.Object) {
	s.data.Compute(key, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return entry{obj: obj}, false
		}
		// keep the expiration, replace the object
		return entry{obj: obj, expireAt: old.expireAt}, false
	})
}

func (s *storeImpl) SetExpire(key string, atMs int64) {
	changed := false
	s.data.Compute(key, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return old, true // don't create a key as a side effect
		}
		changed = true
		return entry{obj: old.obj, expireAt: atMs}, false
	})
	if changed {
		s.mu.Lock()
		s.deadlines.add(key, atMs)
		s.mu.Unlock()
	}
}

func (s *storeImpl) ClearExpire(key string) {
	s.data.Compute(key, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return old, true
		}
		return entry{obj: old.obj}, false
	})
	s.mu.Lock()
	s.deadlines.remove(key)
	s.mu.Unlock()
}

func (s *storeImpl) Delete(key string) bool {
	_, existed := s.data.LoadAndDelete(key)
	if existed {
		s.mu.Lock()
		s.deadlines.remove(key)
		s.mu.Unlock()
	}
	return existed
}

func (s *storeImpl) Close() error {
	s.stopSweeper()
	return nil
}

// --------------------------------------------------------------------------
// Background Sweeper
// --------------------------------------------------------------------------

func (s *storeImpl) startSweeper() {
	if s.sweeperRunning.CompareAndSwap(false, true) {
		go s.sweeper()
	}
}

func (s *storeImpl) stopSweeper() {
	if s.sweeperRunning.CompareAndSwap(true, false) {
		close(s.done)
	}
}

// sweeper drains due deadlines on a fixed interval. Each popped deadline
// is re-checked against the live entry because the key may have been
// rewritten (new TTL) or deleted since it was scheduled.
func (s *storeImpl) sweeper() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *storeImpl) sweep() {
	now := s.clock()
	for {
		s.mu.Lock()
		it, ok := s.deadlines.popExpired(now)
		s.mu.Unlock()
		if !ok {
			return
		}

		// double-check: the entry's own deadline wins over the stale
		// heap entry
		s.data.Compute(it.key, func(e entry, loaded bool) (entry, bool) {
			if !loaded {
				return e, true
			}
			if !e.expired(now) {
				return e, false
			}
			return entry{}, true
		})
	}
}
