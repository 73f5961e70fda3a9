package serializer

import "github.com/strandkv/strand/rpc/common"

// IRPCSerializer converts a Message to and from its wire representation.
// Implementations must round-trip every field, in particular the Present
// flags that distinguish nil from empty values.
type IRPCSerializer interface {
	// Serialize encodes the message into a byte slice
	Serialize(msg common.Message) ([]byte, error)

	// Deserialize decodes a byte slice into the given message
	Deserialize(b []byte, msg *common.Message) error
}
