package engine

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/strandkv/strand/lib/value"
)

func TestIncrOnAbsentKey(t *testing.T) {
	e, _ := newTestEngine()

	n, fx, err := e.Incr("visits")
	if err != nil || n != 1 {
		t.Fatalf("Incr = %d, %v", n, err)
	}
	if fx.Dirty != 1 || fx.Events[0].Name != "incrby" {
		t.Errorf("unexpected effects: %+v", fx)
	}

	if n, _, _ = e.Incr("visits"); n != 2 {
		t.Errorf("second Incr = %d, want 2", n)
	}
	if got, _, _ := e.Get("visits"); string(got) != "2" {
		t.Errorf("counter text = %q, want %q", got, "2")
	}
}

func TestDecrAndNegativeDeltas(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("n", []byte("10"), SetOptions{})

	if n, _, _ := e.Decr("n"); n != 9 {
		t.Errorf("Decr = %d, want 9", n)
	}
	if n, _, _ := e.IncrBy("n", -4); n != 5 {
		t.Errorf("IncrBy(-4) = %d, want 5", n)
	}
	if n, _, _ := e.DecrBy("n", 7); n != -2 {
		t.Errorf("DecrBy(7) = %d, want -2", n)
	}
}

func TestIncrOverflowLeavesValueIntact(t *testing.T) {
	e, _ := newTestEngine()
	maxText := strconv.FormatInt(math.MaxInt64, 10)
	e.Set("n", []byte(maxText), SetOptions{})

	_, _, err := e.Incr("n")
	if CodeOf(err) != CodeOverflow {
		t.Fatalf("Incr at max = %v, want overflow", err)
	}
	if got, _, _ := e.Get("n"); string(got) != maxText {
		t.Errorf("value after failed Incr = %q, want untouched %q", got, maxText)
	}

	e.Set("m", []byte(strconv.FormatInt(math.MinInt64, 10)), SetOptions{})
	if _, _, err = e.Decr("m"); CodeOf(err) != CodeOverflow {
		t.Errorf("Decr at min = %v, want overflow", err)
	}
}

func TestDecrByMinInt64Overflows(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("n", []byte("0"), SetOptions{})

	if _, _, err := e.DecrBy("n", math.MinInt64); CodeOf(err) != CodeOverflow {
		t.Errorf("DecrBy(MinInt64) = %v, want overflow", err)
	}
}

func TestIncrOnNonNumericValue(t *testing.T) {
	e, _ := newTestEngine()

	// non-canonical text never counts, even when it parses as a number
	for _, raw := range []string{"abc", "3.5", " 1", "012", "+7"} {
		e.Set("n", []byte(raw), SetOptions{})
		if _, _, err := e.Incr("n"); CodeOf(err) != CodeNotANumber {
			t.Errorf("Incr over %q = %v, want not-a-number", raw, err)
		}
	}
}

func TestIncrOnRawNumericText(t *testing.T) {
	e, _ := newTestEngine()

	// a whole-number float result is stored as raw text but still counts
	if got, _, err := e.IncrByFloat("n", []byte("41")); err != nil || string(got) != "41" {
		t.Fatalf("IncrByFloat = %q, %v", got, err)
	}
	if n, _, err := e.Incr("n"); err != nil || n != 42 {
		t.Errorf("Incr over raw %q = %d, %v; want 42", "41", n, err)
	}

	// same for integer text assembled byte-wise
	e.Set("m", []byte("1"), SetOptions{})
	e.Append("m", []byte("7"))
	if n, _, err := e.IncrBy("m", 3); err != nil || n != 20 {
		t.Errorf("IncrBy over appended text = %d, %v; want 20", n, err)
	}
}

func TestIncrWrongType(t *testing.T) {
	e, _ := newTestEngine()
	e.Store().Add("l", otherKind{})

	if _, _, err := e.Incr("l"); CodeOf(err) != CodeWrongType {
		t.Errorf("Incr on a non-string = %v, want wrong type", err)
	}
}

func TestIncrPreservesTTL(t *testing.T) {
	e, clock := newTestEngine()
	e.SetEX("n", []byte("10"), []byte("1"))

	if n, _, err := e.Incr("n"); err != nil || n != 2 {
		t.Fatalf("Incr = %d, %v", n, err)
	}
	clock.advance(11 * time.Second)
	if _, ok, _ := e.Get("n"); ok {
		t.Error("counter writes must keep the existing TTL")
	}
}

func TestCanReuseInPlace(t *testing.T) {
	shared := value.NewInt(5)
	private := value.NewInt(value.SharedIntegers + 1)
	raw := value.NewRaw([]byte("100"))

	cases := []struct {
		name string
		v    *value.Value
		sum  int64
		want bool
	}{
		{"shared pool object", shared, 20000, false},
		{"raw encoding", raw, 200, false},
		{"result inside pool range", private, 42, false},
		{"result negative", private, -1, true},
		{"result above pool range", private, value.SharedIntegers + 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canReuseInPlace(tc.v, tc.sum); got != tc.want {
				t.Errorf("canReuseInPlace = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIncrNeverMutatesSharedPool(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("a", []byte("7"), SetOptions{})
	e.Set("b", []byte("7"), SetOptions{})

	if n, _, _ := e.Incr("a"); n != 8 {
		t.Fatalf("Incr(a) = %d, want 8", n)
	}
	// b aliases the same pool object as a did; it must still read 7
	if got, _, _ := e.Get("b"); string(got) != "7" {
		t.Errorf("shared pool object mutated: b = %q, want 7", got)
	}
}

func TestIncrByFloat(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("f", []byte("10.50"), SetOptions{})

	got, fx, err := e.IncrByFloat("f", []byte("0.1"))
	if err != nil {
		t.Fatalf("IncrByFloat: %v", err)
	}
	if string(got) != "10.6" {
		t.Errorf("result = %q, want %q", got, "10.6")
	}
	if fx.Rewrite == nil || fx.Rewrite.Name != "SET" || string(fx.Rewrite.Args[1]) != "10.6" {
		t.Errorf("float increments must rewrite to a SET of the result, got %+v", fx.Rewrite)
	}

	// exponent notation is accepted for both operands
	e.Set("g", []byte("5.0e3"), SetOptions{})
	got, _, err = e.IncrByFloat("g", []byte("2.0e2"))
	if err != nil || string(got) != "5200" {
		t.Errorf("exponent operands: %q, %v; want 5200", got, err)
	}

	// an exponent delta over plain decimal text
	e.Set("h", []byte("10.50"), SetOptions{})
	got, _, err = e.IncrByFloat("h", []byte("5.0e3"))
	if err != nil || string(got) != "5010.5" {
		t.Errorf("IncrByFloat(10.50, 5.0e3) = %q, %v; want 5010.5", got, err)
	}
}

func TestIncrByFloatAbsentKey(t *testing.T) {
	e, _ := newTestEngine()

	got, _, err := e.IncrByFloat("f", []byte("-2.5"))
	if err != nil || string(got) != "-2.5" {
		t.Errorf("IncrByFloat on absent key = %q, %v", got, err)
	}
}

func TestIncrByFloatErrors(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("f", []byte("not a number"), SetOptions{})

	if _, _, err := e.IncrByFloat("f", []byte("1")); CodeOf(err) != CodeNotANumber {
		t.Errorf("non-numeric current value = %v, want not-a-number", err)
	}

	e.Set("f", []byte("1"), SetOptions{})
	if _, _, err := e.IncrByFloat("f", []byte("nope")); CodeOf(err) != CodeNotANumber {
		t.Errorf("non-numeric delta = %v, want not-a-number", err)
	}

	maxText := strconv.FormatFloat(math.MaxFloat64, 'f', -1, 64)
	e.Set("f", []byte(maxText), SetOptions{})
	if _, _, err := e.IncrByFloat("f", []byte(maxText)); CodeOf(err) != CodeNaNOrInfinity {
		t.Errorf("overflow to +Inf = %v, want NaN-or-infinity", err)
	}
}

func TestIncrByFloatPreservesTTL(t *testing.T) {
	e, clock := newTestEngine()
	e.SetEX("f", []byte("10"), []byte("1.5"))

	e.IncrByFloat("f", []byte("1"))
	clock.advance(11 * time.Second)
	if _, ok, _ := e.Get("f"); ok {
		t.Error("float counter writes must keep the existing TTL")
	}
}
