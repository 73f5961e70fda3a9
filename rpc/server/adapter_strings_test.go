package server

import (
	"errors"
	"testing"
	"time"

	"github.com/strandkv/strand/lib/engine"
	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/store/memstore"
	"github.com/strandkv/strand/rpc/common"
)

func newTestEngine() *engine.Engine {
	return engine.New(memstore.New(memstore.DefaultOptions()), notify.NewNop(), time.Now)
}

func TestAdapterSetGetRoundTrip(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	setReq := common.NewSetRequest("k", []byte("hello"))
	resp, replay := adapter.Handle(setReq, eng)
	if err := resp.AsError(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !resp.Ok {
		t.Fatalf("set reported not stored")
	}
	if replay != setReq {
		t.Fatalf("expected the set request itself to be journaled, got %+v", replay)
	}

	resp, replay = adapter.Handle(common.NewGetRequest("k"), eng)
	if err := resp.AsError(); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !resp.Ok || string(resp.Value) != "hello" {
		t.Fatalf("got (%q, %v), want (hello, true)", resp.Value, resp.Ok)
	}
	if replay != nil {
		t.Fatalf("reads must not be journaled, got %+v", replay)
	}
}

func TestAdapterConditionNotMetJournalsNothing(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	adapter.Handle(common.NewSetRequest("k", []byte("a")), eng)

	resp, replay := adapter.Handle(common.NewSetNXRequest("k", []byte("b")), eng)
	if err := resp.AsError(); err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if resp.Ok {
		t.Fatalf("setnx on existing key reported stored")
	}
	if replay != nil {
		t.Fatalf("a set whose condition failed must not be journaled")
	}
}

func TestAdapterIncrByFloatJournalsRewrite(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	adapter.Handle(common.NewSetRequest("f", []byte("10.50")), eng)

	req := common.NewIncrByFloatRequest("f", []byte("0.1"))
	resp, replay := adapter.Handle(req, eng)
	if err := resp.AsError(); err != nil {
		t.Fatalf("incrbyfloat failed: %v", err)
	}
	if string(resp.Value) != "10.6" {
		t.Fatalf("got %q, want 10.6", resp.Value)
	}

	if replay == nil {
		t.Fatalf("expected a journal record")
	}
	if replay == req {
		t.Fatalf("incrbyfloat must journal a rewritten set, not itself")
	}
	if replay.MsgType != common.MsgTSet || replay.Key != "f" || string(replay.Value) != "10.6" {
		t.Fatalf("unexpected rewrite: %+v", replay)
	}
}

func TestAdapterErrorKeepsCode(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	adapter.Handle(common.NewSetRequest("k", []byte("abc")), eng)

	resp, replay := adapter.Handle(common.NewIncrByRequest("k", 1), eng)
	err := resp.AsError()
	if err == nil {
		t.Fatalf("expected an error")
	}
	var engErr *engine.Error
	if !errors.As(err, &engErr) || engErr.Code != engine.CodeNotANumber {
		t.Fatalf("got %v, want a CodeNotANumber engine error", err)
	}
	if replay != nil {
		t.Fatalf("a failed command must not be journaled")
	}
}

func TestAdapterMGetNeverErrors(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	adapter.Handle(common.NewSetRequest("a", []byte("1")), eng)

	resp, _ := adapter.Handle(common.NewMGetRequest([]string{"a", "missing"}), eng)
	if err := resp.AsError(); err != nil {
		t.Fatalf("mget failed: %v", err)
	}
	vals := resp.MGetValues()
	if len(vals) != 2 || string(vals[0]) != "1" || vals[1] != nil {
		t.Fatalf("got %v, want [1 <nil>]", vals)
	}
}

func TestAdapterRejectsUnknownType(t *testing.T) {
	adapter := NewStringsServerAdapter()
	eng := newTestEngine()

	resp, replay := adapter.Handle(&common.Message{MsgType: common.MsgTUnknown}, eng)
	if resp.AsError() == nil {
		t.Fatalf("expected an error for an unknown message type")
	}
	if replay != nil {
		t.Fatalf("unknown requests must not be journaled")
	}
}
