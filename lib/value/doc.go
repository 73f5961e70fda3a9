// Package value implements the physical representation of string values.
//
// A Value is a scalar with an encoding tag: either a signed 64-bit integer
// (EncInt) or an arbitrary byte sequence (EncRaw). Small non-negative
// integers are served from a process-wide pool of immutable singletons, so
// many keys may alias the same Value instance. Because of this aliasing,
// every mutation path must first obtain an exclusively owned copy via
// Unshare - a shared or int-encoded Value is never mutated in place.
package value
