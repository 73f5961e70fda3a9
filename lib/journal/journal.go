// Package journal implements the write-ahead mutation log. Records are
// opaque byte payloads framed with a length prefix behind a magic/version
// file header; replay tolerates a truncated tail so a crash mid-append
// loses at most the last record.
package journal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for journal file format and structure
const (
	magicNum       = "STRNDLOG"       // File format identifier
	journalVersion = 1                // Journal format version
	writerBufSize  = 64 * 1024        // Buffered writer size
	maxRecordSize  = 64 * 1024 * 1024 // Upper bound on a single record
)

// --------------------------------------------------------------------------
// Writer
// --------------------------------------------------------------------------

// Writer appends opaque records to a log. Records are the serialized
// mutation messages of the server; the journal itself never interprets
// them. Each record is a little-endian uint32 length followed by the
// payload.
type Writer struct {
	mu  sync.Mutex
	bw  *bufio.Writer
	f   *os.File // nil when writing to a plain io.Writer
	len [4]byte
}

// NewWriter wraps an already positioned writer. The header must have been
// written (or skipped) by the caller; use OpenFile for the common case.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, writerBufSize)}
}

// OpenFile opens (or creates) a journal file for appending. A fresh or
// empty file gets the format header; an existing file is verified against
// it so a foreign file is never silently appended to.
func OpenFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() == 0 {
		if err := writeHeader(f); err != nil {
			f.Close()
			return nil, err
		}
	} else {
		if err := verifyHeader(f); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}

	w := NewWriter(f)
	w.f = f
	return w, nil
}

// Append writes one record. The record is buffered; call Sync to force it
// to stable storage.
//
// Thread-safety: safe for concurrent use.
func (w *Writer) Append(record []byte) error {
	if len(record) > maxRecordSize {
		return fmt.Errorf("journal: record of %d bytes exceeds limit", len(record))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	binary.LittleEndian.PutUint32(w.len[:], uint32(len(record)))
	if _, err := w.bw.Write(w.len[:]); err != nil {
		return err
	}
	_, err := w.bw.Write(record)
	return err
}

// Sync flushes the buffer and, for file-backed journals, fsyncs.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.f != nil {
		return w.f.Sync()
	}
	return nil
}

// Close flushes and releases the underlying file, if any.
func (w *Writer) Close() error {
	if err := w.Sync(); err != nil {
		return err
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

func writeHeader(w io.Writer) error {
	if _, err := io.WriteString(w, magicNum); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint8(journalVersion))
}

func verifyHeader(r io.Reader) error {
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(r, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("journal: invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != journalVersion {
		return fmt.Errorf("journal: unsupported version %d", version)
	}
	return nil
}

// --------------------------------------------------------------------------
// Replay
// --------------------------------------------------------------------------

// Replay reads every record from r in write order and hands it to fn. A
// truncated trailing record (a crash mid-append) ends the replay cleanly;
// any other corruption or an fn error aborts it.
func Replay(r io.Reader, fn func(record []byte) error) error {
	br := bufio.NewReaderSize(r, writerBufSize)

	if err := verifyHeader(br); err != nil {
		return err
	}

	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			if err == io.ErrUnexpectedEOF {
				return nil // partial length prefix, crash mid-append
			}
			return err
		}

		n := binary.LittleEndian.Uint32(lenBuf[:])
		if n > maxRecordSize {
			return fmt.Errorf("journal: corrupt record length %d", n)
		}

		record := make([]byte, n)
		if _, err := io.ReadFull(br, record); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil // partial payload, crash mid-append
			}
			return err
		}

		if err := fn(record); err != nil {
			return err
		}
	}
}

// ReplayFile replays a journal file from disk.
func ReplayFile(path string, fn func(record []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Replay(f, fn)
}
