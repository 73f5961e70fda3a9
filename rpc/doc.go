// Package rpc provides the remote procedure call framework of the string
// store. It acts as the communication layer between clients and servers,
// enabling string operations across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options
//     (Binary, JSON, GOB) for converting between Message objects and byte
//     arrays.
//
//   - client: The RPC client implementation of the strings interface,
//     allowing applications to interact with remote databases transparently.
//
//   - server: RPC server components that handle incoming requests, including
//     the adapter for string operations and write-ahead journaling.
package rpc
