package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/strandkv/strand/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey    uint16 = 1 << 0
	hasValue  uint16 = 1 << 1
	hasKeys   uint16 = 1 << 2
	hasPairs  uint16 = 1 << 3
	hasDelta  uint16 = 1 << 4
	hasExpire uint16 = 1 << 5
	hasRange  uint16 = 1 << 6 // Start and End together
	hasOffset uint16 = 1 << 7
	hasNum    uint16 = 1 << 8
	hasVals   uint16 = 1 << 9 // Vals plus the parallel Present slice
	hasErr    uint16 = 1 << 10
)

// Bit positions in the always-present bools byte
const (
	boolNX     byte = 1 << 0
	boolXX     byte = 1 << 1
	boolUnitMs byte = 1 << 2
	boolOk     byte = 1 << 3
)

// Wire layout:
//   [0]    message type
//   [1]    bools byte (NX, XX, UnitMs, Ok)
//   [2:4]  field flags (uint16, big endian)
//   ...    present fields in flag-bit order
//
// Variable-length fields carry a uint32 length prefix. Vals entries carry
// one presence byte each so that missing entries survive the round trip.

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Write bools byte
	var bools byte
	if msg.NX {
		bools |= boolNX
	}
	if msg.XX {
		bools |= boolXX
	}
	if msg.UnitMs {
		bools |= boolUnitMs
	}
	if msg.Ok {
		bools |= boolOk
	}
	result[1] = bools

	// Initialize flags
	var flags uint16

	// Set position for writing (after type, bools and flags)
	pos := 4

	writeBytes := func(data []byte) {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(data)))
		pos += 4
		copy(result[pos:pos+len(data)], data)
		pos += len(data)
	}

	writeUint64 := func(v uint64) {
		binary.BigEndian.PutUint64(result[pos:pos+8], v)
		pos += 8
	}

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		writeBytes([]byte(msg.Key))
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		writeBytes(msg.Value)
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Keys)))
		pos += 4
		for _, key := range msg.Keys {
			writeBytes([]byte(key))
		}
	}

	// Handle Pairs
	if msg.Pairs != nil {
		flags |= hasPairs
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Pairs)))
		pos += 4
		for _, pair := range msg.Pairs {
			writeBytes(pair)
		}
	}

	// Handle Delta (two's complement for negative values)
	if msg.Delta != 0 {
		flags |= hasDelta
		writeUint64(uint64(msg.Delta))
	}

	// Handle Expire
	if msg.Expire != nil {
		flags |= hasExpire
		writeBytes(msg.Expire)
	}

	// Handle Start/End
	if msg.Start != 0 || msg.End != 0 {
		flags |= hasRange
		writeUint64(uint64(msg.Start))
		writeUint64(uint64(msg.End))
	}

	// Handle Offset
	if msg.Offset != 0 {
		flags |= hasOffset
		writeUint64(uint64(msg.Offset))
	}

	// Handle Num
	if msg.Num != 0 {
		flags |= hasNum
		writeUint64(uint64(msg.Num))
	}

	// Handle Vals and Present
	if msg.Vals != nil {
		flags |= hasVals
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Vals)))
		pos += 4
		for i, val := range msg.Vals {
			present := i < len(msg.Present) && msg.Present[i]
			if present {
				result[pos] = 1
				pos++
				writeBytes(val)
			} else {
				result[pos] = 0
				pos++
			}
		}
	}

	// Handle Err and ErrCode
	if msg.Err != "" {
		flags |= hasErr
		writeBytes([]byte(msg.Err))
		result[pos] = msg.ErrCode
		pos++
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(result[2:4], flags)

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + bools + flags)
	if len(data) < 4 {
		return fmt.Errorf("data too short for message header")
	}

	// Start from a clean message so absent fields read as zero values
	*msg = common.Message{}

	// Read message type and bools
	msg.MsgType = common.MessageType(data[0])
	bools := data[1]
	msg.NX = bools&boolNX != 0
	msg.XX = bools&boolXX != 0
	msg.UnitMs = bools&boolUnitMs != 0
	msg.Ok = bools&boolOk != 0

	// Read flags
	flags := binary.BigEndian.Uint16(data[2:4])

	// Initialize read position
	pos := 4

	readBytes := func(field string) ([]byte, error) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("data too short for %s length", field)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, fmt.Errorf("data too short for %s data", field)
		}
		out := make([]byte, n)
		copy(out, data[pos:pos+n])
		pos += n
		return out, nil
	}

	readUint64 := func(field string) (uint64, error) {
		if pos+8 > len(data) {
			return 0, fmt.Errorf("data too short for %s", field)
		}
		v := binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
		return v, nil
	}

	readCount := func(field string) (int, error) {
		if pos+4 > len(data) {
			return 0, fmt.Errorf("data too short for %s count", field)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		return n, nil
	}

	if flags&hasKey != 0 {
		key, err := readBytes("key")
		if err != nil {
			return err
		}
		msg.Key = string(key)
	}

	if flags&hasValue != 0 {
		value, err := readBytes("value")
		if err != nil {
			return err
		}
		msg.Value = value
	}

	if flags&hasKeys != 0 {
		count, err := readCount("keys")
		if err != nil {
			return err
		}
		msg.Keys = make([]string, count)
		for i := 0; i < count; i++ {
			key, err := readBytes("keys entry")
			if err != nil {
				return err
			}
			msg.Keys[i] = string(key)
		}
	}

	if flags&hasPairs != 0 {
		count, err := readCount("pairs")
		if err != nil {
			return err
		}
		msg.Pairs = make([][]byte, count)
		for i := 0; i < count; i++ {
			pair, err := readBytes("pairs entry")
			if err != nil {
				return err
			}
			msg.Pairs[i] = pair
		}
	}

	if flags&hasDelta != 0 {
		v, err := readUint64("delta")
		if err != nil {
			return err
		}
		msg.Delta = int64(v)
	}

	if flags&hasExpire != 0 {
		expire, err := readBytes("expire")
		if err != nil {
			return err
		}
		msg.Expire = expire
	}

	if flags&hasRange != 0 {
		start, err := readUint64("start")
		if err != nil {
			return err
		}
		end, err := readUint64("end")
		if err != nil {
			return err
		}
		msg.Start = int64(start)
		msg.End = int64(end)
	}

	if flags&hasOffset != 0 {
		v, err := readUint64("offset")
		if err != nil {
			return err
		}
		msg.Offset = int64(v)
	}

	if flags&hasNum != 0 {
		v, err := readUint64("num")
		if err != nil {
			return err
		}
		msg.Num = int64(v)
	}

	if flags&hasVals != 0 {
		count, err := readCount("vals")
		if err != nil {
			return err
		}
		msg.Vals = make([][]byte, count)
		msg.Present = make([]bool, count)
		for i := 0; i < count; i++ {
			if pos+1 > len(data) {
				return fmt.Errorf("data too short for vals presence byte")
			}
			present := data[pos] != 0
			pos++
			msg.Present[i] = present
			if present {
				val, err := readBytes("vals entry")
				if err != nil {
					return err
				}
				msg.Vals[i] = val
			}
		}
	}

	if flags&hasErr != 0 {
		errText, err := readBytes("error")
		if err != nil {
			return err
		}
		msg.Err = string(errText)
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for error code")
		}
		msg.ErrCode = data[pos]
		pos++
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte MsgType + 1 byte bools + 2 bytes flags
	size := 4

	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Keys != nil {
		size += 4
		for _, key := range msg.Keys {
			size += 4 + len(key)
		}
	}
	if msg.Pairs != nil {
		size += 4
		for _, pair := range msg.Pairs {
			size += 4 + len(pair)
		}
	}
	if msg.Delta != 0 {
		size += 8
	}
	if msg.Expire != nil {
		size += 4 + len(msg.Expire)
	}
	if msg.Start != 0 || msg.End != 0 {
		size += 16
	}
	if msg.Offset != 0 {
		size += 8
	}
	if msg.Num != 0 {
		size += 8
	}
	if msg.Vals != nil {
		size += 4
		for i, val := range msg.Vals {
			size++ // presence byte
			if i < len(msg.Present) && msg.Present[i] {
				size += 4 + len(val)
			}
		}
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) + 1
	}

	return size
}
