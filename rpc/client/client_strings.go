package client

import (
	"strconv"

	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/serializer"
	"github.com/strandkv/strand/rpc/transport"
)

// IStringsClient is the client-side view of one logical string database.
// All methods are safe for concurrent use.
type IStringsClient interface {
	// Set stores value under key, replacing any previous value and TTL.
	Set(key string, value []byte) error
	// SetNX stores value only if key does not exist. Returns whether the
	// value was stored.
	SetNX(key string, value []byte) (bool, error)
	// SetXX stores value only if key already exists. Returns whether the
	// value was stored.
	SetXX(key string, value []byte) (bool, error)
	// SetEX stores value with a TTL in seconds. The server rejects
	// non-positive TTLs.
	SetEX(key string, seconds int64, value []byte) error
	// PSetEX stores value with a TTL in milliseconds.
	PSetEX(key string, millis int64, value []byte) error

	// Get returns the value of key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// GetSet stores value and returns the previous value and whether one
	// existed.
	GetSet(key string, value []byte) ([]byte, bool, error)
	// MGet returns one entry per key; missing keys and keys holding
	// non-string values yield nil entries.
	MGet(keys ...string) ([][]byte, error)
	// MSet stores all key/value pairs (key1, val1, key2, val2, ...).
	MSet(pairs ...[]byte) error
	// MSetNX stores all pairs only if none of the keys exist. Returns
	// whether the pairs were stored.
	MSetNX(pairs ...[]byte) (bool, error)

	// Incr adds one to the integer value of key and returns the result.
	Incr(key string) (int64, error)
	// Decr subtracts one from the integer value of key.
	Decr(key string) (int64, error)
	// IncrBy adds delta to the integer value of key.
	IncrBy(key string, delta int64) (int64, error)
	// DecrBy subtracts delta from the integer value of key.
	DecrBy(key string, delta int64) (int64, error)
	// IncrByFloat adds a decimal delta (as text) to the value of key and
	// returns the resulting text.
	IncrByFloat(key string, delta []byte) ([]byte, error)

	// Append appends suffix to the value of key and returns the new length.
	Append(key string, suffix []byte) (int64, error)
	// StrLen returns the length of the value of key, 0 if absent.
	StrLen(key string) (int64, error)
	// GetRange returns the substring from start to end inclusive; negative
	// indices count from the end.
	GetRange(key string, start, end int64) ([]byte, error)
	// SetRange overwrites the value at offset with patch, zero-padding any
	// gap, and returns the new length.
	SetRange(key string, offset int64, patch []byte) (int64, error)

	// Close closes the underlying transport.
	Close() error
}

// NewStringsClient creates a new RPC strings client.
// The function takes a database ID, a config, a transport and a serializer
// as parameters.
func NewStringsClient(
	dbID uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IStringsClient, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new strings client
	c := stringsClient{
		rpcClientAdapter{
			dbID:       dbID,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the strings client
	return &c, nil
}

type stringsClient struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IStringsClient)
// --------------------------------------------------------------------------

func (c *stringsClient) Set(key string, value []byte) error {
	req := common.NewSetRequest(key, value)
	_, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	return err
}

func (c *stringsClient) SetNX(key string, value []byte) (bool, error) {
	req := common.NewSetNXRequest(key, value)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *stringsClient) SetXX(key string, value []byte) (bool, error) {
	req := common.NewSetXXRequest(key, value)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *stringsClient) SetEX(key string, seconds int64, value []byte) error {
	req := common.NewSetEXRequest(key, []byte(strconv.FormatInt(seconds, 10)), value)
	_, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	return err
}

func (c *stringsClient) PSetEX(key string, millis int64, value []byte) error {
	req := common.NewPSetEXRequest(key, []byte(strconv.FormatInt(millis, 10)), value)
	_, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	return err
}

func (c *stringsClient) Get(key string) ([]byte, bool, error) {
	req := common.NewGetRequest(key)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (c *stringsClient) GetSet(key string, value []byte) ([]byte, bool, error) {
	req := common.NewGetSetRequest(key, value)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (c *stringsClient) MGet(keys ...string) ([][]byte, error) {
	req := common.NewMGetRequest(keys)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.MGetValues(), nil
}

func (c *stringsClient) MSet(pairs ...[]byte) error {
	req := common.NewMSetRequest(pairs)
	_, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	return err
}

func (c *stringsClient) MSetNX(pairs ...[]byte) (bool, error) {
	req := common.NewMSetNXRequest(pairs)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *stringsClient) Incr(key string) (int64, error) {
	return c.IncrBy(key, 1)
}

func (c *stringsClient) Decr(key string) (int64, error) {
	return c.DecrBy(key, 1)
}

func (c *stringsClient) IncrBy(key string, delta int64) (int64, error) {
	req := common.NewIncrByRequest(key, delta)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Num, nil
}

func (c *stringsClient) DecrBy(key string, delta int64) (int64, error) {
	req := common.NewDecrByRequest(key, delta)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Num, nil
}

func (c *stringsClient) IncrByFloat(key string, delta []byte) ([]byte, error) {
	req := common.NewIncrByFloatRequest(key, delta)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (c *stringsClient) Append(key string, suffix []byte) (int64, error) {
	req := common.NewAppendRequest(key, suffix)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Num, nil
}

func (c *stringsClient) StrLen(key string) (int64, error) {
	req := common.NewStrLenRequest(key)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Num, nil
}

func (c *stringsClient) GetRange(key string, start, end int64) ([]byte, error) {
	req := common.NewGetRangeRequest(key, start, end)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (c *stringsClient) SetRange(key string, offset int64, patch []byte) (int64, error) {
	req := common.NewSetRangeRequest(key, offset, patch)
	resp, err := invokeRPCRequest(c.dbID, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Num, nil
}

func (c *stringsClient) Close() error {
	return c.transport.Close()
}
