package memstore

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/strandkv/strand/lib/store"
)

// obj is a minimal store object for these tests.
type obj string

func (obj) Kind() string { return "string" }

func newTestStore() (store.IStore, *int64) {
	now := int64(1_000_000)
	s := New(&Options{
		Clock:         func() int64 { return now },
		SweepInterval: time.Hour, // effectively disabled
	})
	return s, &now
}

func TestAddLookupDelete(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.Add("k", obj("v"))
	got, ok := s.LookupRead("k")
	if !ok || got.(obj) != "v" {
		t.Fatalf("LookupRead = %v, %v", got, ok)
	}
	if !s.Exists("k") {
		t.Error("Exists must report the key")
	}

	if !s.Delete("k") {
		t.Error("Delete must report a removed key")
	}
	if s.Delete("k") {
		t.Error("Delete of an absent key must report false")
	}
	if _, ok = s.LookupRead("k"); ok {
		t.Error("key must be gone after Delete")
	}
}

func TestOverwriteKeepsExpiration(t *testing.T) {
	s, now := newTestStore()
	defer s.Close()

	s.Add("k", obj("old"))
	s.SetExpire("k", *now+5_000)
	s.Overwrite("k", obj("new"))

	got, ok := s.LookupRead("k")
	if !ok || got.(obj) != "new" {
		t.Fatalf("after Overwrite: %v, %v", got, ok)
	}

	*now += 6_000
	if _, ok = s.LookupRead("k"); ok {
		t.Error("Overwrite must keep the scheduled expiration")
	}
}

func TestOverwriteOfAbsentKeyInserts(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.Overwrite("k", obj("v"))
	if got, ok := s.LookupRead("k"); !ok || got.(obj) != "v" {
		t.Errorf("Overwrite on absent key = %v, %v", got, ok)
	}
}

func TestLazyExpiration(t *testing.T) {
	s, now := newTestStore()
	defer s.Close()

	s.Add("k", obj("v"))
	s.SetExpire("k", *now+1_000)

	if _, ok := s.LookupRead("k"); !ok {
		t.Fatal("key must be visible before the deadline")
	}

	*now += 1_000
	// deadline reached; lookup must hide and remove the key even though
	// the background sweeper never ran
	if _, ok := s.LookupRead("k"); ok {
		t.Error("expired key must be invisible to lookups")
	}
	if s.Exists("k") {
		t.Error("expired key must be invisible to Exists")
	}
}

func TestClearExpire(t *testing.T) {
	s, now := newTestStore()
	defer s.Close()

	s.Add("k", obj("v"))
	s.SetExpire("k", *now+1_000)
	s.ClearExpire("k")

	*now += 10_000
	if _, ok := s.LookupRead("k"); !ok {
		t.Error("ClearExpire must make the key permanent again")
	}
}

func TestSetExpireReschedules(t *testing.T) {
	s, now := newTestStore()
	defer s.Close()

	s.Add("k", obj("v"))
	s.SetExpire("k", *now+1_000)
	s.SetExpire("k", *now+60_000)

	*now += 2_000
	if _, ok := s.LookupRead("k"); !ok {
		t.Error("a later deadline must replace the earlier one")
	}
}

func TestSetExpireOnAbsentKey(t *testing.T) {
	s, _ := newTestStore()
	defer s.Close()

	s.SetExpire("phantom", 1)
	if s.Exists("phantom") {
		t.Error("SetExpire must never create a key")
	}
}

func TestBackgroundSweep(t *testing.T) {
	var now atomic.Int64
	now.Store(1_000_000)
	s := New(&Options{
		Clock:         now.Load,
		SweepInterval: time.Millisecond,
	})
	defer s.Close()

	s.Add("k", obj("v"))
	s.SetExpire("k", now.Load()+10)
	now.Add(20)

	deadline := time.After(2 * time.Second)
	for s.Exists("k") {
		select {
		case <-deadline:
			t.Fatal("sweeper did not remove the expired key in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
