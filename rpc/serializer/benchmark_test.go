package serializer

import (
	"testing"

	"github.com/strandkv/strand/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"SmallKeyOnly": {
			MsgType: common.MsgTGet,
			Key:     "k",
		},
		"LargeKeyOnly": {
			MsgType: common.MsgTGet,
			Key:     "this-is-a-very-large-key-that-could-be-used-for-storing-data-or-as-a-document-id-in-some-cases",
		},
		"SmallValue": {
			MsgType: common.MsgTSet,
			Key:     "key",
			Value:   []byte("v"),
		},
		"LargeValue": {
			MsgType: common.MsgTSet,
			Key:     "key",
			Value:   make([]byte, 1024), // 1KB of data
		},
		"VeryLargeValue": {
			MsgType: common.MsgTSet,
			Key:     "key",
			Value:   make([]byte, 1024*16), // 16KB of data
		},
		"SetWithOptions": {
			MsgType: common.MsgTSet,
			Key:     "key",
			Value:   []byte("test-value-data"),
			Expire:  []byte("10000"),
			UnitMs:  true,
			NX:      true,
		},
		"MGetRequest": {
			MsgType: common.MsgTMGet,
			Keys:    []string{"alpha", "beta", "gamma", "delta"},
		},
		"MGetResponse": {
			MsgType: common.MsgTMGet,
			Vals:    [][]byte{[]byte("one"), nil, []byte("three"), nil},
			Present: []bool{true, false, true, false},
		},
		"CounterRequest": {
			MsgType: common.MsgTIncrBy,
			Key:     "counter",
			Delta:   -42,
		},
		"ErrorMessage": {
			MsgType: common.MsgTError,
			Err:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		},
	}
}

// forEachCase runs fn as a sub-benchmark for every codec/message combination
func forEachCase(b *testing.B, fn func(b *testing.B, s IRPCSerializer, msg common.Message)) {
	for codecName, s := range serializers {
		for caseName, msg := range benchmarkMessages() {
			b.Run(codecName+"_"+caseName, func(b *testing.B) {
				fn(b, s, msg)
			})
		}
	}
}

func BenchmarkSerialize(b *testing.B) {
	forEachCase(b, func(b *testing.B, s IRPCSerializer, msg common.Message) {
		for i := 0; i < b.N; i++ {
			if _, err := s.Serialize(msg); err != nil {
				b.Fatalf("Failed to serialize: %v", err)
			}
		}
	})
}

func BenchmarkDeserialize(b *testing.B) {
	forEachCase(b, func(b *testing.B, s IRPCSerializer, msg common.Message) {
		data, err := s.Serialize(msg)
		if err != nil {
			b.Fatalf("Failed to serialize: %v", err)
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			var out common.Message
			if err := s.Deserialize(data, &out); err != nil {
				b.Fatalf("Failed to deserialize: %v", err)
			}
		}
	})
}

// BenchmarkSize reports the encoded size of each message as a custom metric
func BenchmarkSize(b *testing.B) {
	forEachCase(b, func(b *testing.B, s IRPCSerializer, msg common.Message) {
		data, err := s.Serialize(msg)
		if err != nil {
			b.Fatalf("Failed to serialize: %v", err)
		}
		b.ReportMetric(float64(len(data)), "bytes")

		for i := 0; i < b.N; i++ {
			_ = data
		}
	})
}
