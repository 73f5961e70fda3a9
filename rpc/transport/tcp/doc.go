// Package tcp provides TCP socket implementations of the RPC transport
// interfaces. Both the server and client side support tuning of the socket
// buffers, TCP_NODELAY, keep-alive and linger via the transport config.
package tcp
