package engine

import (
	"bytes"
	"testing"
	"time"
)

func TestGetRange(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("s", []byte("This is a string"), SetOptions{})

	cases := []struct {
		name       string
		start, end int64
		want       string
	}{
		{"prefix", 0, 3, "This"},
		{"negative suffix", -3, -1, "ing"},
		{"full via big end", 0, 1 << 30, "This is a string"},
		{"mixed signs", 10, 100, "string"},
		{"single byte", 0, 0, "T"},
		{"start past end of value", 100, 200, ""},
		{"inverted", 5, 3, ""},
		{"inverted negative", -1, -5, ""},
		{"negative start clamped", -100, 3, "This"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.GetRange("s", tc.start, tc.end)
			if err != nil {
				t.Fatalf("GetRange: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("GetRange(%d, %d) = %q, want %q", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestGetRangeAbsentAndWrongType(t *testing.T) {
	e, _ := newTestEngine()
	e.Store().Add("l", otherKind{})

	got, err := e.GetRange("missing", 0, 10)
	if err != nil || len(got) != 0 {
		t.Errorf("GetRange on absent key = %q, %v", got, err)
	}
	if _, err = e.GetRange("l", 0, 10); CodeOf(err) != CodeWrongType {
		t.Errorf("GetRange on a non-string = %v, want wrong type", err)
	}
}

func TestGetRangeOnIntegerValue(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("n", []byte("12345"), SetOptions{})

	got, err := e.GetRange("n", 1, 3)
	if err != nil || string(got) != "234" {
		t.Errorf("GetRange over integer text = %q, %v", got, err)
	}
}

func TestSetRangeExtendsAndPatches(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("s", []byte("Hello World"), SetOptions{})

	n, _, err := e.SetRange("s", 6, []byte("Strand"))
	if err != nil || n != 12 {
		t.Fatalf("SetRange = %d, %v", n, err)
	}
	if got, _, _ := e.Get("s"); string(got) != "Hello Strand" {
		t.Errorf("patched value = %q", got)
	}

	// writing past the end zero-pads the gap
	n, _, err = e.SetRange("s", 14, []byte("!!"))
	if err != nil || n != 16 {
		t.Fatalf("extending SetRange = %d, %v", n, err)
	}
	got, _, _ := e.Get("s")
	if !bytes.Equal(got, []byte("Hello Strand\x00\x00!!")) {
		t.Errorf("extended value = %q", got)
	}
}

func TestSetRangeOnAbsentKey(t *testing.T) {
	e, _ := newTestEngine()

	n, _, err := e.SetRange("k", 5, []byte("hi"))
	if err != nil || n != 7 {
		t.Fatalf("SetRange = %d, %v", n, err)
	}
	got, _, _ := e.Get("k")
	if !bytes.Equal(got, []byte("\x00\x00\x00\x00\x00hi")) {
		t.Errorf("zero-padded value = %q", got)
	}
}

func TestSetRangeEmptyPatchIsNoOp(t *testing.T) {
	e, _ := newTestEngine()

	if n, _, err := e.SetRange("k", 100, nil); err != nil || n != 0 {
		t.Errorf("empty patch on absent key = %d, %v", n, err)
	}
	if _, ok, _ := e.Get("k"); ok {
		t.Error("empty patch must not create the key")
	}

	e.Set("k", []byte("abc"), SetOptions{})
	if n, _, err := e.SetRange("k", 100, nil); err != nil || n != 3 {
		t.Errorf("empty patch on existing key = %d, %v", n, err)
	}
	if got, _, _ := e.Get("k"); string(got) != "abc" {
		t.Errorf("empty patch changed the value: %q", got)
	}
}

func TestSetRangeErrors(t *testing.T) {
	e, _ := newTestEngine()
	e.Store().Add("l", otherKind{})

	if _, _, err := e.SetRange("k", -1, []byte("x")); CodeOf(err) != CodeInvalidOffset {
		t.Errorf("negative offset = %v, want invalid offset", err)
	}
	if _, _, err := e.SetRange("l", 0, []byte("x")); CodeOf(err) != CodeWrongType {
		t.Errorf("SetRange on a non-string = %v, want wrong type", err)
	}
	if _, _, err := e.SetRange("k", 512*1024*1024, []byte("x")); CodeOf(err) != CodeStringTooLong {
		t.Errorf("oversized SetRange = %v, want string too long", err)
	}
}

func TestSetRangeOnIntegerValueUnshares(t *testing.T) {
	e, _ := newTestEngine()
	e.Set("a", []byte("123"), SetOptions{})
	e.Set("b", []byte("123"), SetOptions{})

	if _, _, err := e.SetRange("a", 0, []byte("9")); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	if got, _, _ := e.Get("a"); string(got) != "923" {
		t.Errorf("patched integer value = %q", got)
	}
	// the pool object behind b must be untouched
	if got, _, _ := e.Get("b"); string(got) != "123" {
		t.Errorf("shared value mutated through SetRange: %q", got)
	}
}

func TestAppend(t *testing.T) {
	e, _ := newTestEngine()

	// appending to an absent key behaves like a plain assignment
	n, _, err := e.Append("k", []byte("Hello "))
	if err != nil || n != 6 {
		t.Fatalf("Append on absent key = %d, %v", n, err)
	}
	n, _, err = e.Append("k", []byte("World"))
	if err != nil || n != 11 {
		t.Fatalf("Append = %d, %v", n, err)
	}
	if got, _, _ := e.Get("k"); string(got) != "Hello World" {
		t.Errorf("value = %q", got)
	}
}

func TestAppendToAbsentKeyClassifies(t *testing.T) {
	e, _ := newTestEngine()

	if _, _, err := e.Append("n", []byte("41")); err != nil {
		t.Fatal(err)
	}
	// the created value is integer-encoded, so counters work on it
	if n, _, err := e.Incr("n"); err != nil || n != 42 {
		t.Errorf("Incr after Append = %d, %v", n, err)
	}
}

func TestAppendPreservesTTL(t *testing.T) {
	e, clock := newTestEngine()
	e.SetEX("k", []byte("10"), []byte("a"))

	e.Append("k", []byte("b"))
	if got, _, _ := e.Get("k"); string(got) != "ab" {
		t.Errorf("value = %q", got)
	}
	clock.advance(11 * time.Second)
	if _, ok, _ := e.Get("k"); ok {
		t.Error("Append must keep the existing TTL")
	}
}

func TestAppendWrongType(t *testing.T) {
	e, _ := newTestEngine()
	e.Store().Add("l", otherKind{})

	if _, _, err := e.Append("l", []byte("x")); CodeOf(err) != CodeWrongType {
		t.Errorf("Append on a non-string = %v, want wrong type", err)
	}
}
