package serializer

import (
	"bytes"
	"testing"

	"github.com/strandkv/strand/lib/engine"
	"github.com/strandkv/strand/rpc/common"
)

func engineErr() error {
	return engine.NewError(engine.CodeNotANumber, "value is not a valid float")
}

// all serializers must satisfy the same behavioral contract
var serializers = map[string]IRPCSerializer{
	"json":   NewJSONSerializer(),
	"gob":    NewGOBSerializer(),
	"binary": NewBinarySerializer(),
}

func roundtrip(t *testing.T, s IRPCSerializer, msg common.Message) common.Message {
	t.Helper()
	data, err := s.Serialize(msg)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var got common.Message
	if err := s.Deserialize(data, &got); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return got
}

func TestSetRequestWithOptions(t *testing.T) {
	msg := *common.NewPSetEXRequest("session", []byte("1500"), []byte("token"))
	msg.NX = true

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			got := roundtrip(t, s, msg)
			if got.MsgType != common.MsgTSet || got.Key != "session" {
				t.Errorf("type/key = %v/%q", got.MsgType, got.Key)
			}
			if !bytes.Equal(got.Value, []byte("token")) || !bytes.Equal(got.Expire, []byte("1500")) {
				t.Errorf("value/expire = %q/%q", got.Value, got.Expire)
			}
			if !got.NX || got.XX || !got.UnitMs {
				t.Errorf("flags = NX:%v XX:%v UnitMs:%v", got.NX, got.XX, got.UnitMs)
			}
		})
	}
}

func TestNegativeNumbersSurvive(t *testing.T) {
	req := *common.NewGetRangeRequest("k", -100, -1)
	counter := *common.NewCounterResponse(common.MsgTIncrBy, -42, nil)

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			if got := roundtrip(t, s, req); got.Start != -100 || got.End != -1 {
				t.Errorf("range = %d..%d, want -100..-1", got.Start, got.End)
			}
			if got := roundtrip(t, s, counter); got.Num != -42 {
				t.Errorf("num = %d, want -42", got.Num)
			}
		})
	}
}

func TestEmptyValueStaysDistinctFromAbsent(t *testing.T) {
	withEmpty := *common.NewSetRequest("k", []byte{})
	withNone := *common.NewStrLenRequest("k")

	for name, s := range serializers {
		if name == "gob" {
			// gob conflates nil and empty slices; single-value messages
			// never rely on the distinction
			continue
		}
		t.Run(name, func(t *testing.T) {
			if got := roundtrip(t, s, withEmpty); got.Value == nil {
				t.Error("empty value must stay non-nil")
			}
			if got := roundtrip(t, s, withNone); got.Value != nil {
				t.Error("absent value must stay nil")
			}

			// same discipline for the raw TTL amount
			withExpire := withEmpty
			withExpire.Expire = []byte{}
			if got := roundtrip(t, s, withExpire); got.Expire == nil {
				t.Error("empty expire must stay non-nil")
			}
			if got := roundtrip(t, s, withEmpty); got.Expire != nil {
				t.Error("absent expire must stay nil")
			}
		})
	}
}

func TestMGetResponsePreservesMissingEntries(t *testing.T) {
	// entry 0 present, entry 1 missing, entry 2 present but empty
	msg := *common.NewMGetResponse([][]byte{[]byte("a"), nil, {}})

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			got := roundtrip(t, s, msg)
			vals := got.MGetValues()
			if len(vals) != 3 {
				t.Fatalf("len = %d, want 3", len(vals))
			}
			if string(vals[0]) != "a" {
				t.Errorf("vals[0] = %q", vals[0])
			}
			if vals[1] != nil {
				t.Errorf("vals[1] = %v, want nil", vals[1])
			}
			if vals[2] == nil || len(vals[2]) != 0 {
				t.Errorf("vals[2] = %v, want empty non-nil", vals[2])
			}
		})
	}
}

func TestPairsAndKeys(t *testing.T) {
	mset := *common.NewMSetRequest([][]byte{[]byte("a"), []byte("1"), []byte("b"), []byte("2")})
	mget := *common.NewMGetRequest([]string{"a", "b", "c"})

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			got := roundtrip(t, s, mset)
			if len(got.Pairs) != 4 || string(got.Pairs[3]) != "2" {
				t.Errorf("pairs = %q", got.Pairs)
			}
			got = roundtrip(t, s, mget)
			if len(got.Keys) != 3 || got.Keys[2] != "c" {
				t.Errorf("keys = %q", got.Keys)
			}
		})
	}
}

func TestErrorResponseKeepsCode(t *testing.T) {
	msg := *common.NewIncrByFloatResponse(nil, engineErr())

	for name, s := range serializers {
		t.Run(name, func(t *testing.T) {
			got := roundtrip(t, s, msg)
			err := got.AsError()
			if err == nil || got.ErrCode == 0 {
				t.Fatalf("err = %v code = %d", err, got.ErrCode)
			}
		})
	}
}

func TestBinaryRejectsTruncatedData(t *testing.T) {
	s := NewBinarySerializer()
	data, err := s.Serialize(*common.NewSetRequest("key", []byte("value")))
	if err != nil {
		t.Fatal(err)
	}

	var msg common.Message
	if err := s.Deserialize(data[:len(data)-2], &msg); err == nil {
		t.Error("truncated payload must be rejected")
	}
	if err := s.Deserialize(data[:3], &msg); err == nil {
		t.Error("truncated header must be rejected")
	}
}
