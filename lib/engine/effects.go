package engine

import "github.com/strandkv/strand/lib/notify"

// --------------------------------------------------------------------------
// Replay Form
// --------------------------------------------------------------------------

// ReplayOp is the canonical command representation handed to the
// durability/replication layer in place of the original command. It is
// produced when replaying the original would not be byte-deterministic:
// a successful float increment is always rewritten as an unconditional
// assignment of the exact resulting text.
type ReplayOp struct {
	Name string
	Args [][]byte
}

// --------------------------------------------------------------------------
// Effects Bundle
// --------------------------------------------------------------------------

// Effects is the structured side-effect bundle of one successful command:
// the keyspace events it produced, how many logical modifications it made,
// and an optional replay rewrite. A nil or zero Effects means the command
// changed nothing (e.g. a read, or a conditional set whose condition was
// not met).
type Effects struct {
	Events  []notify.Event
	Dirty   int
	Rewrite *ReplayOp
}

// event records a keyspace event and forwards it to the notifier.
func (e *Engine) event(fx *Effects, class, name, key string) {
	fx.Events = append(fx.Events, notify.Event{Class: class, Name: name, Key: key})
	e.notifier.Emit(class, name, key)
}
