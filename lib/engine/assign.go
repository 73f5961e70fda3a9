package engine

import (
	"math"
	"strconv"

	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/value"
)

// --------------------------------------------------------------------------
// Set Options
// --------------------------------------------------------------------------

// ExpireUnit is the unit of a relative expiry amount.
type ExpireUnit uint8

const (
	UnitSeconds ExpireUnit = iota
	UnitMilliseconds
)

// SetOptions carries the optional parts of an assignment. Expire holds the
// raw expiry amount as received (nil = no expiration); the engine
// validates it itself so that a malformed TTL rejects the whole command
// before any mutation.
type SetOptions struct {
	NX     bool // only set if the key does not exist
	XX     bool // only set if the key exists
	Expire []byte
	Unit   ExpireUnit
}

// expireMillis validates and converts the expiry amount. cmd names the
// command for the error message, as the original does.
func (o SetOptions) expireMillis(cmd string) (int64, error) {
	n, err := strconv.ParseInt(string(o.Expire), 10, 64)
	if err != nil || n <= 0 {
		return 0, NewError(CodeInvalidExpire, "invalid expire time in '"+cmd+"' command")
	}
	if o.Unit == UnitSeconds {
		// the conversion itself must not wrap into a negative deadline
		if n > math.MaxInt64/1000 {
			return 0, NewError(CodeInvalidExpire, "invalid expire time in '"+cmd+"' command")
		}
		n *= 1000
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Assignment Family
// --------------------------------------------------------------------------

// Set implements the SET command: classify value, replace the key's value
// and expiration wholesale. The boolean result distinguishes "stored" from
// "condition not met" (NX on an existing key, XX on a missing one), which
// is an outcome, not an error. The caller transfers ownership of val.
func (e *Engine) Set(key string, val []byte, opts SetOptions) (bool, *Effects, error) {
	return e.setGeneric(key, val, opts, "set")
}

// SetNX is SET with the NX flag: store only if the key does not exist.
func (e *Engine) SetNX(key string, val []byte) (bool, *Effects, error) {
	return e.setGeneric(key, val, SetOptions{NX: true}, "setnx")
}

// SetEX is SET with a mandatory TTL in seconds.
func (e *Engine) SetEX(key string, expire, val []byte) (bool, *Effects, error) {
	return e.setGeneric(key, val, SetOptions{Expire: expire, Unit: UnitSeconds}, "setex")
}

// PSetEX is SET with a mandatory TTL in milliseconds.
func (e *Engine) PSetEX(key string, expire, val []byte) (bool, *Effects, error) {
	return e.setGeneric(key, val, SetOptions{Expire: expire, Unit: UnitMilliseconds}, "psetex")
}

func (e *Engine) setGeneric(key string, val []byte, opts SetOptions, cmd string) (bool, *Effects, error) {
	// all validation happens before any state is touched
	if opts.NX && opts.XX {
		return false, nil, errSyntax
	}

	var expireMs int64
	if opts.Expire != nil {
		ms, err := opts.expireMillis(cmd)
		if err != nil {
			return false, nil, err
		}
		expireMs = ms
	}

	_, exists := e.store.LookupWrite(key)
	if (opts.NX && exists) || (opts.XX && !exists) {
		return false, nil, nil
	}

	e.setKey(key, value.Classify(val), exists)

	fx := &Effects{Dirty: 1}
	e.event(fx, notify.ClassString, "set", key)
	if opts.Expire != nil {
		e.store.SetExpire(key, e.nowMs()+expireMs)
		e.event(fx, notify.ClassGeneric, "expire", key)
	}
	return true, fx, nil
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

// Get returns the value bytes for a key. The boolean is false when the key
// is absent; a key holding another kind of object is a WrongType error.
func (e *Engine) Get(key string) ([]byte, bool, error) {
	v, err := e.lookupReadString(key)
	if err != nil {
		return nil, false, err
	}
	if v == nil {
		return nil, false, nil
	}
	return v.CopyBytes(), true, nil
}

// StrLen returns the byte length of the value (integers measured as their
// decimal text), or 0 for an absent key.
func (e *Engine) StrLen(key string) (int64, error) {
	v, err := e.lookupReadString(key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return int64(v.Len()), nil
}

// MGet returns one entry per key, nil marking both absent keys and keys
// holding another kind of value. Unlike every other read command MGet
// deliberately never raises WrongType - a documented exception carried
// over from the original, not a pattern to copy.
func (e *Engine) MGet(keys ...string) [][]byte {
	out := make([][]byte, len(keys))
	for i, key := range keys {
		obj, ok := e.store.LookupRead(key)
		if !ok {
			continue
		}
		if v, isString := obj.(*value.Value); isString {
			out[i] = v.CopyBytes()
		}
	}
	return out
}

// --------------------------------------------------------------------------
// Read-Then-Replace
// --------------------------------------------------------------------------

// GetSet returns the previous value (ok=false for an absent key) and
// unconditionally overwrites the key, clearing any prior TTL. A key
// holding another kind of value fails before anything is written.
func (e *Engine) GetSet(key string, val []byte) ([]byte, bool, *Effects, error) {
	prev, err := e.lookupWriteString(key)
	if err != nil {
		return nil, false, nil, err
	}

	var prevBytes []byte
	existed := prev != nil
	if existed {
		prevBytes = prev.CopyBytes()
	}

	e.setKey(key, value.Classify(val), existed)

	fx := &Effects{Dirty: 1}
	e.event(fx, notify.ClassString, "set", key)
	return prevBytes, existed, fx, nil
}

// --------------------------------------------------------------------------
// Bulk Assignment
// --------------------------------------------------------------------------

// MSet assigns every key/value pair unconditionally. pairs must have even
// length (key1, val1, key2, val2, ...).
func (e *Engine) MSet(pairs ...[]byte) (*Effects, error) {
	fx, _, err := e.msetGeneric(pairs, false)
	return fx, err
}

// MSetNX assigns every pair only if none of the target keys exist. The
// batch is all-or-nothing: a single existing key aborts it with no
// mutation, reported by the boolean result.
func (e *Engine) MSetNX(pairs ...[]byte) (bool, *Effects, error) {
	fx, ok, err := e.msetGeneric(pairs, true)
	return ok, fx, err
}

func (e *Engine) msetGeneric(pairs [][]byte, nx bool) (*Effects, bool, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, false, NewError(CodeWrongArgCount, "wrong number of arguments for MSET")
	}

	if nx {
		// check every target before assigning anything
		for i := 0; i < len(pairs); i += 2 {
			if _, exists := e.store.LookupWrite(string(pairs[i])); exists {
				return nil, false, nil
			}
		}
	}

	fx := &Effects{}
	for i := 0; i < len(pairs); i += 2 {
		key := string(pairs[i])
		_, exists := e.store.LookupWrite(key)
		e.setKey(key, value.Classify(pairs[i+1]), exists)
		e.event(fx, notify.ClassString, "set", key)
	}
	fx.Dirty = len(pairs) / 2
	return fx, true, nil
}
