// Package memstore provides the in-memory IStore implementation: a
// concurrent hash map of key entries with absolute millisecond
// expirations. Expired keys are reclaimed two ways - lazily whenever a
// lookup touches them, and proactively by a background sweeper draining a
// min-heap of scheduled deadlines.
package memstore
