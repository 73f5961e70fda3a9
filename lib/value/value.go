package value

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// MaxLen is the maximum byte length of any raw value (512 MiB).
	// Operations that would grow a value past this limit must be rejected
	// before any allocation happens.
	MaxLen = 512 * 1024 * 1024

	// KindString is the object kind reported by every Value.
	KindString = "string"
)

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encoding is the physical representation tag of a Value.
type Encoding uint8

const (
	// EncRaw values hold an arbitrary byte sequence.
	EncRaw Encoding = iota
	// EncInt values hold a signed 64-bit integer.
	EncInt
)

func (e Encoding) String() string {
	switch e {
	case EncRaw:
		return "raw"
	case EncInt:
		return "int"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Value Type
// --------------------------------------------------------------------------

// Value is an encoding-tagged scalar. The zero Value is an empty raw value.
//
// Thread-safety: a shared Value (see Shared) is immutable and safe for
// concurrent reads. An exclusively owned Value follows the usual rule of
// one writer at a time - the engine's single-writer execution model.
type Value struct {
	enc    Encoding
	num    int64  // payload when enc == EncInt
	buf    []byte // payload when enc == EncRaw
	shared bool   // true for pool singletons, which must never be mutated
}

// Classify builds a Value from raw bytes, choosing the integer encoding
// when the bytes form a canonical signed decimal (no leading zeros except
// the literal "0", at most one leading '-', no '+', within int64 range).
// The caller transfers ownership of b.
func Classify(b []byte) *Value {
	if n, ok := parseCanonicalInt(b); ok {
		return NewInt(n)
	}
	return NewRaw(b)
}

// NewInt returns a Value holding n. Numbers inside the shared pool range
// resolve to the process-wide singleton for that number; all other numbers
// get a fresh exclusively owned Value.
func NewInt(n int64) *Value {
	if n >= 0 && n < SharedIntegers {
		return &sharedPool[n]
	}
	return &Value{enc: EncInt, num: n}
}

// NewRaw returns an exclusively owned raw Value. The caller transfers
// ownership of b.
func NewRaw(b []byte) *Value {
	return &Value{enc: EncRaw, buf: b}
}

// Kind reports the object kind ("string"). It satisfies the store's
// Object interface.
func (v *Value) Kind() string { return KindString }

// Encoding returns the physical representation tag.
func (v *Value) Encoding() Encoding { return v.enc }

// Shared reports whether this instance is a pool singleton and therefore
// possibly aliased by many keys.
func (v *Value) Shared() bool { return v.shared }

// Int returns the numeric payload. The boolean is false for raw values.
func (v *Value) Int() (int64, bool) {
	if v.enc != EncInt {
		return 0, false
	}
	return v.num, true
}

// AsInt returns the integer meaning of the value regardless of encoding:
// the numeric payload for int values, or a canonical-integer parse of the
// bytes for raw values. ok is false when the bytes do not spell a
// canonical int64.
func (v *Value) AsInt() (int64, bool) {
	if v.enc == EncInt {
		return v.num, true
	}
	return parseCanonicalInt(v.buf)
}

// Len returns the logical byte length of the value. Int-encoded values are
// measured as their decimal text.
func (v *Value) Len() int {
	if v.enc == EncInt {
		return len(strconv.AppendInt(nil, v.num, 10))
	}
	return len(v.buf)
}

// Bytes returns the logical byte sequence of the value. For raw values the
// returned slice is the internal buffer and must not be modified by the
// caller; int-encoded values are rendered to a fresh decimal text slice.
func (v *Value) Bytes() []byte {
	if v.enc == EncInt {
		return strconv.AppendInt(nil, v.num, 10)
	}
	return v.buf
}

// CopyBytes returns a fresh copy of the logical byte sequence, safe to
// retain and modify.
func (v *Value) CopyBytes() []byte {
	if v.enc == EncInt {
		return strconv.AppendInt(nil, v.num, 10)
	}
	out := make([]byte, len(v.buf))
	copy(out, v.buf)
	return out
}

func (v *Value) String() string {
	return fmt.Sprintf("Value{enc: %s, shared: %t, len: %d}", v.enc, v.shared, v.Len())
}

// --------------------------------------------------------------------------
// Unshare and Mutation
// --------------------------------------------------------------------------

// Unshare returns an exclusively owned, raw-encoded Value with identical
// content. If v is already an exclusively owned raw value it is returned
// unchanged; otherwise (pool singleton or int encoding) a fresh owned
// buffer is allocated. Every mutating operation must go through Unshare
// before touching bytes.
func (v *Value) Unshare() *Value {
	if v.enc == EncRaw && !v.shared {
		return v
	}
	return NewRaw(v.CopyBytes())
}

// mutable panics when the value may be aliased or is not byte-addressable.
// Mutation without Unshare is a programming error, not a user error.
func (v *Value) mutable() {
	if v.shared || v.enc != EncRaw {
		panic(fmt.Sprintf("value: mutation of non-exclusive value %s", v))
	}
}

// GrowZeroFill extends the buffer to n bytes, padding with zeros and
// preserving prior content. Shorter n is a no-op. The value must be
// exclusively owned and raw-encoded.
func (v *Value) GrowZeroFill(n int) {
	v.mutable()
	if n <= len(v.buf) {
		return
	}
	grown := make([]byte, n)
	copy(grown, v.buf)
	v.buf = grown
}

// WriteAt copies data into the buffer starting at off. The buffer must
// already be large enough (callers grow first via GrowZeroFill).
func (v *Value) WriteAt(off int, data []byte) {
	v.mutable()
	copy(v.buf[off:], data)
}

// AppendBytes concatenates data onto the buffer.
func (v *Value) AppendBytes(data []byte) {
	v.mutable()
	v.buf = append(v.buf, data...)
}

// SetInt overwrites the numeric payload in place. Only legal on an
// exclusively owned int-encoded value - the counter fast path.
func (v *Value) SetInt(n int64) {
	if v.shared || v.enc != EncInt {
		panic(fmt.Sprintf("value: in-place integer write on %s", v))
	}
	v.num = n
}

// --------------------------------------------------------------------------
// Canonical Integer Parsing
// --------------------------------------------------------------------------

// parseCanonicalInt accepts exactly the canonical decimal renderings of
// int64: what strconv.FormatInt produces. "012", "+1", "-0", "" and
// out-of-range magnitudes are all rejected.
func parseCanonicalInt(b []byte) (int64, bool) {
	// int64 needs at most 20 characters including the sign
	if len(b) == 0 || len(b) > 20 {
		return 0, false
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	// round-trip comparison rules out every non-canonical spelling
	if string(strconv.AppendInt(nil, n, 10)) != string(b) {
		return 0, false
	}
	return n, true
}
