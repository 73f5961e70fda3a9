// Package cmd implements the command-line interface for the strand string
// store. It provides a hierarchical command structure with operations for
// running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - str: Commands for string operations (get, set, incr, append, etc.)
//   - serve: Commands for starting and configuring the strand server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See strand -help for a list of all commands.
package cmd
