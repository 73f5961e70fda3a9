package engine

import (
	"time"

	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/store"
	"github.com/strandkv/strand/lib/value"
)

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine executes string commands against a Store. It holds no state of
// its own beyond its collaborators: all values live in the store, all
// side effects are returned per command in an Effects bundle (and mirrored
// to the notifier).
//
// Thread-safety: the engine assumes a single logical writer, exactly like
// the dispatcher it is built for. Reads may run concurrently with other
// reads but not with a mutating command.
type Engine struct {
	store    store.IStore
	notifier notify.INotifier
	clock    func() time.Time
}

// New creates an engine over the given store. A nil notifier discards
// events; a nil clock uses wall-clock time.
func New(s store.IStore, n notify.INotifier, clock func() time.Time) *Engine {
	if n == nil {
		n = notify.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Engine{store: s, notifier: n, clock: clock}
}

// Store exposes the underlying store, e.g. for replay and tests.
func (e *Engine) Store() store.IStore { return e.store }

// nowMs reads the external time source once per command.
func (e *Engine) nowMs() int64 { return e.clock().UnixMilli() }

// --------------------------------------------------------------------------
// Shared Lookup / Write-Back Helpers
// --------------------------------------------------------------------------

// lookupString resolves a key to its string value using the given lookup.
// Returns (nil, nil) when the key is absent and errWrongType when it holds
// some other kind of object.
func lookupString(lookup func(string) (store.Object, bool), key string) (*value.Value, error) {
	obj, ok := lookup(key)
	if !ok {
		return nil, nil
	}
	v, isString := obj.(*value.Value)
	if !isString {
		return nil, errWrongType
	}
	return v, nil
}

func (e *Engine) lookupReadString(key string) (*value.Value, error) {
	return lookupString(e.store.LookupRead, key)
}

func (e *Engine) lookupWriteString(key string) (*value.Value, error) {
	return lookupString(e.store.LookupWrite, key)
}

// setKey replaces the key's value wholesale and clears any previous
// expiration - the overwrite-style write path (SET, GETSET, MSET).
func (e *Engine) setKey(key string, v *value.Value, existed bool) {
	if existed {
		e.store.Overwrite(key, v)
	} else {
		e.store.Add(key, v)
	}
	e.store.ClearExpire(key)
}

// unshared returns an exclusively owned, mutable version of v, replacing
// the key's reference when a copy had to be made. Expiration is untouched.
func (e *Engine) unshared(key string, v *value.Value) *value.Value {
	nv := v.Unshare()
	if nv != v {
		e.store.Overwrite(key, nv)
	}
	return nv
}
