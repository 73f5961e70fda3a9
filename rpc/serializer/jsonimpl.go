package serializer

import (
	"encoding/json"

	"github.com/strandkv/strand/rpc/common"
)

// jsonCodec is the human-readable codec. Byte slices come out as base64
// strings, which makes it the slowest and largest of the three but the
// easiest to inspect on the wire.
type jsonCodec struct{}

// NewJSONSerializer returns the json codec
func NewJSONSerializer() IRPCSerializer {
	return jsonCodec{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (jsonCodec) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Deserialize(b []byte, msg *common.Message) error {
	return json.Unmarshal(b, msg)
}
