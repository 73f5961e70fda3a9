package transport

import (
	"github.com/strandkv/strand/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc processes one raw request for one logical database and
// returns the raw response. Transports call it concurrently, so it must be
// safe for parallel use.
type ServerHandleFunc func(dbID uint64, req []byte) (resp []byte)

// IRPCServerTransport is the server side of a transport medium.
// Implementations only move bytes; message encoding is the serializer's job.
type IRPCServerTransport interface {
	// RegisterHandler installs the request handler. Must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)

	// Listen blocks and serves requests until the process exits
	Listen(config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the client side of a transport medium
type IRPCClientTransport interface {
	// Connect establishes connections per the given configuration
	Connect(config common.ClientConfig) error

	// Send performs one request/response round trip against a database
	Send(dbID uint64, req []byte) (resp []byte, err error)

	// Close releases all connections
	Close() error
}
