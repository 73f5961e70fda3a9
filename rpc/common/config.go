package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Shared transport tuning
// --------------------------------------------------------------------------

// SocketConf holds kernel socket buffer tuning shared by server and client.
type SocketConf struct {
	WriteBufferSize int // bytes, 0 = kernel default
	ReadBufferSize  int // bytes, 0 = kernel default
}

// TCPConf holds TCP-specific connection tuning. Ignored by other transports.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = keep-alive disabled
	TCPLingerSec    int // negative = default linger behavior
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerTransportConfig configures the listening side of a transport.
type ServerTransportConfig struct {
	// Endpoint is the listen address: host:port for tcp/http, a socket
	// path for unix
	Endpoint string
	// WorkersPerConn bounds the number of concurrently processed
	// requests per client connection
	WorkersPerConn int
	SocketConf
	TCPConf
}

// ServerConfig holds all configuration parameters for the server.
type ServerConfig struct {
	// Databases lists the logical keyspaces the server hosts; each gets
	// its own engine and is addressed by its ID on the wire
	Databases []uint64

	// JournalPath is the mutation log file; empty disables durability
	JournalPath string

	// MetricsEndpoint exposes Prometheus-style metrics over HTTP;
	// empty disables the endpoint
	MetricsEndpoint string

	// TimeoutSecond bounds per-request read/write on the connection
	TimeoutSecond int64

	// Logging configuration
	LogLevel string

	Transport ServerTransportConfig
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Connection", strconv.Itoa(c.Transport.WorkersPerConn))

	addSection("Databases")
	ids := make([]string, len(c.Databases))
	for i, id := range c.Databases {
		ids[i] = strconv.FormatUint(id, 10)
	}
	addField("IDs", strings.Join(ids, ", "))

	addSection("Durability")
	if c.JournalPath != "" {
		addField("Journal", c.JournalPath)
	} else {
		addField("Journal", "disabled")
	}

	addSection("Observability")
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig configures the connecting side of a transport.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// ClientConfig holds all configuration parameters for a client.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	connsPerEP := c.Transport.ConnectionsPerEndpoint
	if connsPerEP < 1 {
		connsPerEP = 1
	}
	addField("Connections Per Endpoint", strconv.Itoa(connsPerEP))

	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
