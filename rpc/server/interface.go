package server

import (
	"github.com/strandkv/strand/lib/engine"
	"github.com/strandkv/strand/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters.
// It is responsible for handling requests and responses.
type IRPCServerAdapter interface {
	// Handle handles a request against the given engine and returns a
	// response. If an error occurs, it is set in the response.
	//
	// The second return value is the operation that must be journaled to
	// make the mutation durable: nil for reads and for writes that changed
	// nothing, the request itself for plain mutations, and a rewritten
	// message for commands whose replay would not be deterministic.
	Handle(req *common.Message, eng *engine.Engine) (resp, replay *common.Message)
}
