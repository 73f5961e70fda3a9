// Package engine implements the string command surface on top of a key
// value store: assignment (SET and its conditional and expiring variants,
// GETSET, MSET, MSETNX), integer and float counters, and byte range
// operations (GETRANGE, SETRANGE, APPEND, STRLEN).
//
// Every command validates its inputs completely before touching the store,
// so a failed command never leaves a partial mutation behind. Commands
// return an *Effects describing what happened (keyspace events, a dirty
// count, and an optional replay rewrite) so that callers can journal and
// publish without the engine knowing about either.
//
// Thread-safety: the engine assumes a single writer per keyspace. Reads of
// value bytes are copied out, so returned slices never alias live store
// state.
package engine
