package engine

import (
	"math"
	"strconv"

	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/value"
)

// --------------------------------------------------------------------------
// Integer Counters
// --------------------------------------------------------------------------

// Incr adds one to the integer stored at key.
func (e *Engine) Incr(key string) (int64, *Effects, error) {
	return e.incrBy(key, 1)
}

// Decr subtracts one from the integer stored at key.
func (e *Engine) Decr(key string) (int64, *Effects, error) {
	return e.incrBy(key, -1)
}

// IncrBy adds delta to the integer stored at key, creating it as delta if
// absent. The new value is returned.
func (e *Engine) IncrBy(key string, delta int64) (int64, *Effects, error) {
	return e.incrBy(key, delta)
}

// DecrBy subtracts delta from the integer stored at key.
//
// Note the asymmetry around the minimum: DecrBy(key, math.MinInt64) always
// overflows because the negation of the delta is itself unrepresentable.
func (e *Engine) DecrBy(key string, delta int64) (int64, *Effects, error) {
	if delta == math.MinInt64 {
		return 0, nil, errOverflow
	}
	return e.incrBy(key, -delta)
}

func (e *Engine) incrBy(key string, delta int64) (int64, *Effects, error) {
	v, err := e.lookupWriteString(key)
	if err != nil {
		return 0, nil, err
	}

	var old int64
	if v != nil {
		// raw values count too when their bytes spell a canonical integer,
		// e.g. text left behind by APPEND or a whole-number float result
		n, ok := v.AsInt()
		if !ok {
			return 0, nil, errNotInteger
		}
		old = n
	}

	// detect overflow before performing the addition
	if (delta < 0 && old < 0 && delta < math.MinInt64-old) ||
		(delta > 0 && old > 0 && delta > math.MaxInt64-old) {
		return 0, nil, errOverflow
	}
	sum := old + delta

	if v != nil && canReuseInPlace(v, sum) {
		v.SetInt(sum)
	} else {
		nv := value.NewInt(sum)
		if v != nil {
			e.store.Overwrite(key, nv) // keeps any TTL
		} else {
			e.store.Add(key, nv)
		}
	}

	fx := &Effects{Dirty: 1}
	e.event(fx, notify.ClassString, "incrby", key)
	return sum, fx, nil
}

// canReuseInPlace reports whether the counter result may be written back
// into the existing value object. Shared pool objects must never be
// mutated, and results inside the pool range should alias the pool instead
// of holding a private object.
func canReuseInPlace(v *value.Value, sum int64) bool {
	if v.Encoding() != value.EncInt || v.Shared() {
		return false
	}
	return sum < 0 || sum >= value.SharedIntegers
}

// --------------------------------------------------------------------------
// Float Counter
// --------------------------------------------------------------------------

// IncrByFloat adds a float delta to the value stored at key, creating it
// if absent. The result is stored as the shortest decimal text that
// round-trips, and returned verbatim. Because float formatting may differ
// across platforms, the returned Effects carry a replay rewrite that
// records the operation as a plain SET of the final text.
func (e *Engine) IncrByFloat(key string, delta []byte) ([]byte, *Effects, error) {
	d, err := strconv.ParseFloat(string(delta), 64)
	if err != nil {
		return nil, nil, errNotFloat
	}

	v, lookupErr := e.lookupWriteString(key)
	if lookupErr != nil {
		return nil, nil, lookupErr
	}

	var cur float64
	if v != nil {
		f, parseErr := strconv.ParseFloat(string(v.Bytes()), 64)
		if parseErr != nil {
			return nil, nil, errNotFloat
		}
		cur = f
	}

	sum := cur + d
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, nil, errNaNOrInfinity
	}

	text := strconv.AppendFloat(nil, sum, 'f', -1, 64)
	nv := value.NewRaw(text)
	if v != nil {
		e.store.Overwrite(key, nv) // keeps any TTL
	} else {
		e.store.Add(key, nv)
	}

	fx := &Effects{Dirty: 1}
	e.event(fx, notify.ClassString, "incrbyfloat", key)
	fx.Rewrite = &ReplayOp{Name: "SET", Args: [][]byte{[]byte(key), text}}
	return text, fx, nil
}
