// Package store defines the contract between the string engine and the
// key-to-object dictionary it runs against. The engine never manages
// expiration itself; it hands absolute timestamps to the store and relies
// on lazy expiration during lookups.
//
// The in-memory implementation lives in the memstore subpackage.
package store
