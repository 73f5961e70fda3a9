package engine

import (
	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/value"
)

// --------------------------------------------------------------------------
// Range Reads
// --------------------------------------------------------------------------

// GetRange returns the substring of the value between byte offsets start
// and end, both inclusive. Negative offsets count from the end of the
// value (-1 is the last byte). Out-of-range offsets are clamped, never
// errors; an absent key yields an empty slice.
func (e *Engine) GetRange(key string, start, end int64) ([]byte, error) {
	v, err := e.lookupReadString(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []byte{}, nil
	}

	// an inverted all-negative range can be rejected before translation
	if start < 0 && end < 0 && start > end {
		return []byte{}, nil
	}

	buf := v.Bytes()
	n := int64(len(buf))

	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end += n
		if end < 0 {
			end = 0
		}
	}
	if end >= n {
		end = n - 1
	}

	if n == 0 || start > end || start >= n {
		return []byte{}, nil
	}
	out := make([]byte, end-start+1)
	copy(out, buf[start:end+1])
	return out, nil
}

// --------------------------------------------------------------------------
// Range Writes
// --------------------------------------------------------------------------

// SetRange overwrites part of the value starting at offset, zero-padding
// the gap when the value is shorter than offset. The new total length is
// returned. Writing an empty patch to an absent key is a no-op reporting
// length 0.
func (e *Engine) SetRange(key string, offset int64, patch []byte) (int64, *Effects, error) {
	if offset < 0 {
		return 0, nil, errInvalidOffset
	}

	v, err := e.lookupWriteString(key)
	if err != nil {
		return 0, nil, err
	}

	if v == nil {
		if len(patch) == 0 {
			return 0, nil, nil
		}
		if offset+int64(len(patch)) > value.MaxLen {
			return 0, nil, errStringTooLong
		}
		nv := value.NewRaw(make([]byte, offset+int64(len(patch))))
		nv.WriteAt(int(offset), patch)
		e.store.Add(key, nv)

		fx := &Effects{Dirty: 1}
		e.event(fx, notify.ClassString, "setrange", key)
		return int64(nv.Len()), fx, nil
	}

	if len(patch) == 0 {
		return int64(v.Len()), nil, nil
	}
	if offset+int64(len(patch)) > value.MaxLen {
		return 0, nil, errStringTooLong
	}

	v = e.unshared(key, v)
	if need := int(offset) + len(patch); need > v.Len() {
		v.GrowZeroFill(need)
	}
	v.WriteAt(int(offset), patch)

	fx := &Effects{Dirty: 1}
	e.event(fx, notify.ClassString, "setrange", key)
	return int64(v.Len()), fx, nil
}

// Append concatenates suffix to the value at key, creating the key if
// absent. The new total length is returned. Appending to an absent key is
// equivalent to a plain assignment, including integer classification.
func (e *Engine) Append(key string, suffix []byte) (int64, *Effects, error) {
	v, err := e.lookupWriteString(key)
	if err != nil {
		return 0, nil, err
	}

	fx := &Effects{Dirty: 1}
	if v == nil {
		nv := value.Classify(suffix)
		e.store.Add(key, nv)
		e.event(fx, notify.ClassString, "append", key)
		return int64(nv.Len()), fx, nil
	}

	if int64(v.Len())+int64(len(suffix)) > value.MaxLen {
		return 0, nil, errStringTooLong
	}

	v = e.unshared(key, v)
	v.AppendBytes(suffix)
	e.event(fx, notify.ClassString, "append", key)
	return int64(v.Len()), fx, nil
}
