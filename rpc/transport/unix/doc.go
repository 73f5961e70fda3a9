// Package unix provides unix domain socket implementations of the RPC
// transport interfaces. The server removes stale socket files on startup.
package unix
