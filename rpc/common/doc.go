// Package common provides core data structures and utilities shared across
// the string store's RPC system. It defines fundamental types, configuration
// structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging with a uniform format across the application
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, with a
//     flexible field set that adapts to the different string operations.
//     Includes factory methods for creating the request and response
//     messages of every operation.
//
//   - MessageType: Enumeration of all supported operations.
//
//   - ServerConfig / ClientConfig: Configuration for the two ends of the
//     wire, covering endpoints, timeouts, retry behavior, durability and
//     observability settings.
//
//   - Logger: Logging factory producing consistently formatted, per-package
//     leveled loggers.
package common
