// Package transport defines the interfaces and abstractions for RPC
// communication with the string store. It provides a common contract that all
// transport implementations must fulfill, enabling protocol-agnostic
// communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Routing requests to logical databases by id
//   - Enabling multiple transport implementations (HTTP, TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations
//     that handle connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations
//     that receive requests and route them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
