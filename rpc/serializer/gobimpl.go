package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/strandkv/strand/rpc/common"
)

// gobCodec encodes messages with encoding/gob. Self-describing, so it
// survives field additions, at the cost of per-message type metadata.
type gobCodec struct{}

// NewGOBSerializer returns the gob codec
func NewGOBSerializer() IRPCSerializer {
	return gobCodec{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (gobCodec) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Deserialize(b []byte, msg *common.Message) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(msg)
}
