package server

import (
	"path/filepath"
	"testing"

	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/serializer"
	"github.com/strandkv/strand/rpc/transport"
)

// stubTransport captures the registered handler so tests can drive the
// server without a network.
type stubTransport struct {
	handler transport.ServerHandleFunc
}

func (t *stubTransport) RegisterHandler(h transport.ServerHandleFunc) { t.handler = h }
func (t *stubTransport) Listen(common.ServerConfig) error            { return nil }

func testServerConfig(journalPath string) common.ServerConfig {
	return common.ServerConfig{
		Databases:     []uint64{0, 1},
		JournalPath:   journalPath,
		TimeoutSecond: 5,
		LogLevel:      "error",
	}
}

// send drives one request through the registered transport handler.
func send(t *testing.T, tr *stubTransport, codec serializer.IRPCSerializer, dbID uint64, req *common.Message) *common.Message {
	t.Helper()

	reqBytes, err := codec.Serialize(*req)
	if err != nil {
		t.Fatalf("failed to serialize request: %v", err)
	}

	respBytes := tr.handler(dbID, reqBytes)

	resp := &common.Message{}
	if err := codec.Deserialize(respBytes, resp); err != nil {
		t.Fatalf("failed to deserialize response: %v", err)
	}
	return resp
}

func TestServerHandlesRequestsPerDatabase(t *testing.T) {
	codec := serializer.NewBinarySerializer()
	tr := &stubTransport{}

	s := NewRPCServer(testServerConfig(filepath.Join(t.TempDir(), "journal.wal")), tr, codec)
	if err := s.init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer s.Close()

	// Databases are isolated keyspaces
	resp := send(t, tr, codec, 0, common.NewSetRequest("k", []byte("zero")))
	if err := resp.AsError(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	resp = send(t, tr, codec, 1, common.NewGetRequest("k"))
	if err := resp.AsError(); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Ok {
		t.Fatalf("key set in database 0 is visible in database 1")
	}

	resp = send(t, tr, codec, 0, common.NewGetRequest("k"))
	if !resp.Ok || string(resp.Value) != "zero" {
		t.Fatalf("got (%q, %v), want (zero, true)", resp.Value, resp.Ok)
	}
}

func TestServerRejectsUnknownDatabase(t *testing.T) {
	codec := serializer.NewBinarySerializer()
	tr := &stubTransport{}

	s := NewRPCServer(testServerConfig(""), tr, codec)
	if err := s.init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	resp := send(t, tr, codec, 99, common.NewGetRequest("k"))
	if resp.AsError() == nil {
		t.Fatalf("expected an error for an unknown database")
	}
}

func TestServerRestoresStateFromJournal(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "journal.wal")
	codec := serializer.NewBinarySerializer()

	// First life: perform mutations and close
	tr := &stubTransport{}
	s := NewRPCServer(testServerConfig(journalPath), tr, codec)
	if err := s.init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	send(t, tr, codec, 0, common.NewSetRequest("k", []byte("v")))
	send(t, tr, codec, 0, common.NewIncrByRequest("n", 41))
	send(t, tr, codec, 0, common.NewIncrByRequest("n", 1))
	send(t, tr, codec, 1, common.NewSetRequest("k", []byte("other")))
	// Reads and failed conditions leave no journal records
	send(t, tr, codec, 0, common.NewGetRequest("k"))
	send(t, tr, codec, 0, common.NewSetNXRequest("k", []byte("ignored")))

	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Second life: state comes back from the journal
	tr2 := &stubTransport{}
	s2 := NewRPCServer(testServerConfig(journalPath), tr2, codec)
	if err := s2.init(); err != nil {
		t.Fatalf("restart init failed: %v", err)
	}
	defer s2.Close()

	resp := send(t, tr2, codec, 0, common.NewGetRequest("k"))
	if !resp.Ok || string(resp.Value) != "v" {
		t.Fatalf("got (%q, %v), want (v, true)", resp.Value, resp.Ok)
	}
	resp = send(t, tr2, codec, 0, common.NewGetRequest("n"))
	if !resp.Ok || string(resp.Value) != "42" {
		t.Fatalf("got (%q, %v), want (42, true)", resp.Value, resp.Ok)
	}
	resp = send(t, tr2, codec, 1, common.NewGetRequest("k"))
	if !resp.Ok || string(resp.Value) != "other" {
		t.Fatalf("got (%q, %v), want (other, true)", resp.Value, resp.Ok)
	}
}
