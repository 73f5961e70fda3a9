// Package server implements the RPC server for the string store. It provides
// the adapter that translates wire messages into engine calls, along with the
// core server implementation that manages logical databases, durability and
// request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for all string operations
//   - Adapter pattern to decouple engine logic from RPC mechanisms
//   - Hosting multiple logical databases in a single process
//   - Write-ahead journaling of mutations with replay on startup
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that processes incoming requests against an
//     engine.Engine and reports the operation to journal.
//
//   - NewStringsServerAdapter: Factory function creating the adapter for
//     string operations, translating RPC requests to engine method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Databases: []uint64{0, 1},
//	  JournalPath: "/var/lib/strand/journal.wal",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	  Transport: common.ServerTransportConfig{
//	    Endpoint: "0.0.0.0:8080",
//	  },
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//	if err := s.Serve(); err != nil {
//	  panic(err)
//	}
package server
