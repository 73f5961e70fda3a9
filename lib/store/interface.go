package store

// --------------------------------------------------------------------------
// Object Type
// --------------------------------------------------------------------------

// Object is anything a key can hold. The string engine only ever creates
// *value.Value objects, but the store is kind-agnostic so that commands
// can detect keys holding some other kind of value (WrongType surface).
type Object interface {
	// Kind returns the object's type name, e.g. "string".
	Kind() string
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the key-to-object dictionary the string engine runs against.
// Implementations own expiration bookkeeping; both lookup variants must
// apply lazy-expiration semantics before returning, so the engine never
// observes a logically expired object.
//
// All timestamps are absolute wall-clock milliseconds.
type IStore interface {
	// LookupRead returns the object for a key in a read context.
	// The boolean indicates whether a live (non-expired) object was found.
	LookupRead(key string) (obj Object, ok bool)
	// LookupWrite returns the object for a key in a write context.
	LookupWrite(key string) (obj Object, ok bool)
	// Add inserts an object for a key that does not currently exist.
	Add(key string, obj Object)
	// Overwrite replaces the object for an existing key. Any expiration
	// attached to the key is preserved.
	Overwrite(key string, obj Object)
	// SetExpire attaches an absolute expiration timestamp to a key.
	SetExpire(key string, atMs int64)
	// ClearExpire removes any expiration attached to a key.
	ClearExpire(key string)
	// Delete removes a key and its object. Returns whether a key existed.
	Delete(key string) bool
	// Exists reports whether a live key exists (lazy expiration applies).
	Exists(key string) bool
	// Close releases background resources held by the store.
	Close() error
}
