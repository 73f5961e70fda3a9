package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/strandkv/strand/lib/engine"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	Key string `json:"key,omitempty"` // Used for: all single-key operations

	// Value and Expire must not be omitempty: an empty-but-present value
	// (SET k "") and an empty TTL amount (rejected server-side) both carry
	// meaning that a nil would erase.
	Value  []byte `json:"value"`  // Used for: Set, GetSet, Append, SetRange (requests); Get, GetSet, IncrByFloat, GetRange (responses)
	Expire []byte `json:"expire"` // Used for: Set (raw TTL amount, validated server-side)

	Keys  []string `json:"keys,omitempty"`  // Used for: MGet
	Pairs [][]byte `json:"pairs,omitempty"` // Used for: MSet, MSetNX (key1, val1, key2, val2, ...)
	Delta int64    `json:"delta,omitempty"` // Used for: IncrBy, DecrBy
	UnitMs bool     `json:"unit_ms,omitempty"`
	NX     bool     `json:"nx,omitempty"`
	XX     bool     `json:"xx,omitempty"`
	Start  int64    `json:"start,omitempty"`  // Used for: GetRange
	End    int64    `json:"end,omitempty"`    // Used for: GetRange
	Offset int64    `json:"offset,omitempty"` // Used for: SetRange

	// Response only fields
	Ok      bool     `json:"ok,omitempty"`      // Used for: Set, GetSet, MSetNX responses
	Num     int64    `json:"num,omitempty"`     // Used for: counter and length responses
	Vals    [][]byte `json:"vals,omitempty"`    // Used for: MGet responses
	Present []bool   `json:"present,omitempty"` // Parallel to Vals; false marks a missing entry
	Err     string   `json:"err,omitempty"`     // Empty if no error, otherwise contains the error message
	ErrCode uint8    `json:"err_code,omitempty"`
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetNXRequest creates a Set request that only stores absent keys
func NewSetNXRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
		NX:      true,
	}
}

// NewSetXXRequest creates a Set request that only stores existing keys
func NewSetXXRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
		XX:      true,
	}
}

// NewSetEXRequest creates a Set request with a TTL in seconds
func NewSetEXRequest(key string, expire, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
		Expire:  expire,
	}
}

// NewPSetEXRequest creates a Set request with a TTL in milliseconds
func NewPSetEXRequest(key string, expire, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
		Expire:  expire,
		UnitMs:  true,
	}
}

// NewSetResponse creates a new Set response. stored is false when an
// NX/XX condition was not met.
func NewSetResponse(stored bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTSet,
		Ok:      stored,
	}
	msg.setError(err)
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTGet,
		Ok:      ok,
		Value:   value,
	}
	msg.setError(err)
	return msg
}

// NewGetSetRequest creates a new GetSet request
func NewGetSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTGetSet,
		Key:     key,
		Value:   value,
	}
}

// NewGetSetResponse creates a new GetSet response carrying the previous value
func NewGetSetResponse(prev []byte, existed bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTGetSet,
		Ok:      existed,
		Value:   prev,
	}
	msg.setError(err)
	return msg
}

// NewMGetRequest creates a new MGet request
func NewMGetRequest(keys []string) *Message {
	return &Message{
		MsgType: MsgTMGet,
		Keys:    keys,
	}
}

// NewMGetResponse creates a new MGet response. Missing entries of vals are
// encoded through the parallel Present slice because not every wire format
// keeps nil and empty apart.
func NewMGetResponse(vals [][]byte) *Message {
	present := make([]bool, len(vals))
	for i, v := range vals {
		present[i] = v != nil
	}
	return &Message{
		MsgType: MsgTMGet,
		Vals:    vals,
		Present: present,
	}
}

// MGetValues reconstructs the per-key result slice of an MGet response,
// nil marking missing entries.
func (m *Message) MGetValues() [][]byte {
	out := make([][]byte, len(m.Vals))
	for i := range m.Vals {
		if i < len(m.Present) && m.Present[i] {
			v := m.Vals[i]
			if v == nil {
				v = []byte{}
			}
			out[i] = v
		}
	}
	return out
}

// NewMSetRequest creates a new MSet request
func NewMSetRequest(pairs [][]byte) *Message {
	return &Message{
		MsgType: MsgTMSet,
		Pairs:   pairs,
	}
}

// NewMSetResponse creates a new MSet response
func NewMSetResponse(err error) *Message {
	msg := &Message{MsgType: MsgTMSet}
	msg.setError(err)
	return msg
}

// NewMSetNXRequest creates a new MSetNX request
func NewMSetNXRequest(pairs [][]byte) *Message {
	return &Message{
		MsgType: MsgTMSetNX,
		Pairs:   pairs,
	}
}

// NewMSetNXResponse creates a new MSetNX response
func NewMSetNXResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTMSetNX,
		Ok:      ok,
	}
	msg.setError(err)
	return msg
}

// NewIncrByRequest creates a new IncrBy request
func NewIncrByRequest(key string, delta int64) *Message {
	return &Message{
		MsgType: MsgTIncrBy,
		Key:     key,
		Delta:   delta,
	}
}

// NewDecrByRequest creates a new DecrBy request
func NewDecrByRequest(key string, delta int64) *Message {
	return &Message{
		MsgType: MsgTDecrBy,
		Key:     key,
		Delta:   delta,
	}
}

// NewCounterResponse creates a counter response of the given type
// (MsgTIncrBy or MsgTDecrBy)
func NewCounterResponse(msgType MessageType, num int64, err error) *Message {
	msg := &Message{
		MsgType: msgType,
		Num:     num,
	}
	msg.setError(err)
	return msg
}

// NewIncrByFloatRequest creates a new IncrByFloat request. The delta is
// carried as text so the server controls parsing and formatting.
func NewIncrByFloatRequest(key string, delta []byte) *Message {
	return &Message{
		MsgType: MsgTIncrByFloat,
		Key:     key,
		Value:   delta,
	}
}

// NewIncrByFloatResponse creates a new IncrByFloat response
func NewIncrByFloatResponse(value []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTIncrByFloat,
		Value:   value,
	}
	msg.setError(err)
	return msg
}

// NewAppendRequest creates a new Append request
func NewAppendRequest(key string, suffix []byte) *Message {
	return &Message{
		MsgType: MsgTAppend,
		Key:     key,
		Value:   suffix,
	}
}

// NewAppendResponse creates a new Append response carrying the new length
func NewAppendResponse(num int64, err error) *Message {
	msg := &Message{
		MsgType: MsgTAppend,
		Num:     num,
	}
	msg.setError(err)
	return msg
}

// NewStrLenRequest creates a new StrLen request
func NewStrLenRequest(key string) *Message {
	return &Message{
		MsgType: MsgTStrLen,
		Key:     key,
	}
}

// NewStrLenResponse creates a new StrLen response
func NewStrLenResponse(num int64, err error) *Message {
	msg := &Message{
		MsgType: MsgTStrLen,
		Num:     num,
	}
	msg.setError(err)
	return msg
}

// NewGetRangeRequest creates a new GetRange request
func NewGetRangeRequest(key string, start, end int64) *Message {
	return &Message{
		MsgType: MsgTGetRange,
		Key:     key,
		Start:   start,
		End:     end,
	}
}

// NewGetRangeResponse creates a new GetRange response
func NewGetRangeResponse(value []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTGetRange,
		Value:   value,
	}
	msg.setError(err)
	return msg
}

// NewSetRangeRequest creates a new SetRange request
func NewSetRangeRequest(key string, offset int64, patch []byte) *Message {
	return &Message{
		MsgType: MsgTSetRange,
		Key:     key,
		Offset:  offset,
		Value:   patch,
	}
}

// NewSetRangeResponse creates a new SetRange response carrying the new length
func NewSetRangeResponse(num int64, err error) *Message {
	msg := &Message{
		MsgType: MsgTSetRange,
		Num:     num,
	}
	msg.setError(err)
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Error Transport
// --------------------------------------------------------------------------

// setError records an error on a response. Typed engine errors keep their
// code so clients can reconstruct them across the wire.
func (m *Message) setError(err error) {
	if err == nil {
		return
	}
	m.Err = err.Error()
	m.ErrCode = uint8(engine.CodeOf(err))
}

// AsError reconstructs the error carried by a response, or nil. Engine
// errors come back typed; anything else degrades to a plain error with
// the original text.
func (m *Message) AsError() error {
	if m.Err == "" && m.MsgType != MsgTError {
		return nil
	}
	if m.ErrCode != 0 {
		return engine.NewError(engine.Code(m.ErrCode), m.Err)
	}
	return errors.New(m.Err)
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSet:
		return "set"
	case MsgTGet:
		return "get"
	case MsgTGetSet:
		return "getset"
	case MsgTMGet:
		return "mget"
	case MsgTMSet:
		return "mset"
	case MsgTMSetNX:
		return "msetnx"
	case MsgTIncrBy:
		return "incrby"
	case MsgTDecrBy:
		return "decrby"
	case MsgTIncrByFloat:
		return "incrbyfloat"
	case MsgTAppend:
		return "append"
	case MsgTStrLen:
		return "strlen"
	case MsgTGetRange:
		return "getrange"
	case MsgTSetRange:
		return "setrange"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "set":
		*t = MsgTSet
	case "get":
		*t = MsgTGet
	case "getset":
		*t = MsgTGetSet
	case "mget":
		*t = MsgTMGet
	case "mset":
		*t = MsgTMSet
	case "msetnx":
		*t = MsgTMSetNX
	case "incrby":
		*t = MsgTIncrBy
	case "decrby":
		*t = MsgTDecrBy
	case "incrbyfloat":
		*t = MsgTIncrByFloat
	case "append":
		*t = MsgTAppend
	case "strlen":
		*t = MsgTStrLen
	case "getrange":
		*t = MsgTGetRange
	case "setrange":
		*t = MsgTSetRange
	case "error":
		*t = MsgTError
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTError               // Indicates an error occurred

	// String operations

	MsgTSet         // Assign a value (with optional NX/XX/TTL)
	MsgTGet         // Read a value
	MsgTGetSet      // Swap a value, returning the previous one
	MsgTMGet        // Read several keys at once
	MsgTMSet        // Assign several pairs at once
	MsgTMSetNX      // Assign several pairs only if none exist
	MsgTIncrBy      // Add to an integer value
	MsgTDecrBy      // Subtract from an integer value
	MsgTIncrByFloat // Add to a float value
	MsgTAppend      // Concatenate to a value
	MsgTStrLen      // Length of a value
	MsgTGetRange    // Read a byte range
	MsgTSetRange    // Overwrite a byte range
)
