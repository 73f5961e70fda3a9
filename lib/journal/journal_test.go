package journal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendReplayRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHeader(&buf); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(&buf)

	records := [][]byte{
		[]byte("first"),
		[]byte(""),
		[]byte("third record with more content"),
	}
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Sync(); err != nil {
		t.Fatal(err)
	}

	var got [][]byte
	err := Replay(&buf, func(record []byte) error {
		cp := make([]byte, len(record))
		copy(cp, record)
		got = append(got, cp)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(records) {
		t.Fatalf("replayed %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if !bytes.Equal(got[i], records[i]) {
			t.Errorf("record[%d] = %q, want %q", i, got[i], records[i])
		}
	}
}

func TestReplayStopsAtTruncatedTail(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf)
	w := NewWriter(&buf)
	w.Append([]byte("complete"))
	w.Sync()

	// simulate a crash mid-append: length prefix without full payload
	buf.Write([]byte{0xff, 0x00, 0x00, 0x00})
	buf.Write([]byte("only part"))

	count := 0
	if err := Replay(&buf, func([]byte) error { count++; return nil }); err != nil {
		t.Fatalf("truncated tail must end replay cleanly, got %v", err)
	}
	if count != 1 {
		t.Errorf("replayed %d records, want 1", count)
	}
}

func TestReplayRejectsForeignFile(t *testing.T) {
	buf := bytes.NewBufferString("this is not a journal at all")
	if err := Replay(buf, func([]byte) error { return nil }); err == nil {
		t.Error("foreign file must be rejected")
	}
}

func TestReplayPropagatesCallbackError(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf)
	w := NewWriter(&buf)
	w.Append([]byte("a"))
	w.Append([]byte("b"))
	w.Sync()

	wantErr := fmt.Errorf("stop here")
	count := 0
	err := Replay(&buf, func([]byte) error {
		count++
		return wantErr
	})
	if err != wantErr || count != 1 {
		t.Errorf("err = %v after %d records; want %v after 1", err, count, wantErr)
	}
}

func TestOpenFileCreatesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.log")

	w, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	w.Append([]byte("one"))
	if err = w.Close(); err != nil {
		t.Fatal(err)
	}

	// reopening appends after the existing records
	w, err = OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	w.Append([]byte("two"))
	if err = w.Close(); err != nil {
		t.Fatal(err)
	}

	var got []string
	err = ReplayFile(path, func(record []byte) error {
		got = append(got, string(record))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("replayed %v, want [one two]", got)
	}
}

func TestOpenFileRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.dat")
	if err := os.WriteFile(path, []byte("different format"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Error("foreign file must be rejected")
	}
}
