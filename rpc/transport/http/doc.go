// Package http implements an HTTP-based transport layer for RPC
// communication. It provides concrete implementations of the transport
// interfaces defined in the parent package, enabling communication between
// clients and servers over plain HTTP.
//
// The package focuses on:
//   - Client-side HTTP transport for sending RPC requests to servers
//   - Server-side HTTP transport for receiving and handling RPC requests
//   - Round-robin load balancing across multiple server endpoints
//   - Request routing based on database ids encoded in the URL path
//
// Key Components:
//
//   - httpClientTransport: Implements the IRPCClientTransport interface,
//     managing connections to server endpoints, request routing, and a simple
//     retry mechanism. Round-robin selection balances load across multiple
//     server endpoints.
//
//   - httpServerTransport: Implements the IRPCServerTransport interface,
//     setting up an HTTP server that routes incoming requests to the
//     registered handler based on the database id in the URL path.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter when selecting server
//	endpoints.
package http
