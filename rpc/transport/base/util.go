package base

import (
	"encoding/binary"
	"io"
	"net"
)

// frameHeaderSize is the fixed frame prefix: dbID (8 bytes, big endian),
// requestID (8 bytes, big endian) and payload length (4 bytes, big endian).
const frameHeaderSize = 20

// writeFrame sends one header-prefixed frame over the connection.
// Header and payload go out in a single writev call.
func writeFrame(conn net.Conn, dbID uint64, requestID uint64, payload []byte) error {
	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint64(header[0:], dbID)
	binary.BigEndian.PutUint64(header[8:], requestID)
	binary.BigEndian.PutUint32(header[16:], uint32(len(payload)))

	bufs := net.Buffers{header[:], payload}
	_, err := bufs.WriteTo(conn)
	return err
}

// readFrame reads one frame. The caller may pass a reusable buffer; if it is
// nil or too small for the payload a fresh one is allocated. The returned
// payload aliases the buffer and is only valid until the next read.
func readFrame(conn net.Conn, buf []byte) (dbID, requestID uint64, payload []byte, err error) {
	if len(buf) < frameHeaderSize {
		buf = make([]byte, frameHeaderSize)
	}

	if _, err := io.ReadFull(conn, buf[:frameHeaderSize]); err != nil {
		return 0, 0, nil, err
	}

	dbID = binary.BigEndian.Uint64(buf[0:])
	requestID = binary.BigEndian.Uint64(buf[8:])
	length := binary.BigEndian.Uint32(buf[16:])

	if length == 0 {
		return dbID, requestID, []byte{}, nil
	}

	if len(buf) < int(length) {
		buf = make([]byte, length)
	}
	if _, err := io.ReadFull(conn, buf[:length]); err != nil {
		return 0, 0, nil, err
	}

	return dbID, requestID, buf[:length], nil
}
