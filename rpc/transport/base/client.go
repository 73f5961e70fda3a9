package base

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/transport"
)

var Logger = logger.GetLogger("transport/rpc")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector abstracts the medium-specific half of a client transport.
// The base transport handles framing, multiplexing and retries; the connector
// only knows how to open and tune a single connection.
type IClientConnector interface {
	// Connect opens one connection to the given endpoint
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the transport name (e.g. "unix", "tcp")
	GetName() string

	// UpgradeConnection tunes a freshly opened connection (buffer sizes, keepalive, ...)
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// pendingResult is what a waiting Send call receives from the read loop
type pendingResult struct {
	payload []byte
	err     error
}

// endpointConn is one multiplexed connection to one endpoint. Many requests
// may be in flight on it at once; responses are matched back to their
// callers via the request ID in the frame header.
type endpointConn struct {
	conn     net.Conn
	endpoint string
	done     chan struct{} // closed to stop the read loop
	inflight *xsync.MapOf[uint64, chan pendingResult]
	writeMu  sync.Mutex // serializes frame writes and reconnects
	owner    *clientTransport
}

// clientTransport is the medium-independent client transport core
type clientTransport struct {
	connector  IClientConnector
	config     common.ClientConfig
	conns      []*endpointConn
	connsMu    sync.RWMutex
	rrCounter  atomic.Uint64 // round robin position
	reqCounter atomic.Uint64 // request ID source
	stopping   bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport wraps a connector into a full client transport
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{connector: connector}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	t.config = config
	t.stopping = false

	// drop whatever a previous Connect left behind
	t.closeConnections()

	perEndpoint := config.Transport.ConnectionsPerEndpoint
	if perEndpoint < 1 {
		perEndpoint = 1
	}

	want := len(config.Transport.Endpoints) * perEndpoint
	t.conns = make([]*endpointConn, 0, want)

	for _, endpoint := range config.Transport.Endpoints {
		for i := 0; i < perEndpoint; i++ {
			c := &endpointConn{
				endpoint: endpoint,
				done:     make(chan struct{}),
				inflight: xsync.NewMapOf[uint64, chan pendingResult](),
				owner:    t,
			}

			if err := c.reconnect(); err != nil {
				Logger.Warningf("Failed to connect to %s (connection %d/%d): %v", endpoint, i+1, perEndpoint, err)
				continue
			}

			t.connsMu.Lock()
			t.conns = append(t.conns, c)
			t.connsMu.Unlock()

			Logger.Infof("Connected to %s (connection %d/%d)", endpoint, i+1, perEndpoint)

			go c.readLoop()
		}
	}

	if len(t.conns) == 0 {
		return fmt.Errorf("failed to connect to any endpoint")
	}

	Logger.Infof("Connected to %d out of %d connections to %d endpoints using %s transport",
		len(t.conns), want, len(config.Transport.Endpoints), t.connector.GetName())

	return nil
}

func (t *clientTransport) Send(dbID uint64, req []byte) ([]byte, error) {
	requestID := t.reqCounter.Add(1)

	attempts := t.config.Transport.RetryCount
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	backoffMs := 50

	for i := 0; i < attempts; i++ {
		c := t.nextConn()
		if c == nil {
			return nil, fmt.Errorf("no active connections available")
		}

		payload, err := c.roundTrip(dbID, requestID, req)
		if err == nil {
			return payload, nil
		}

		lastErr = err
		Logger.Debugf("Request attempt %d/%d failed: %v", i+1, attempts, err)

		// exponential backoff with +-10% jitter, skipped after the last attempt
		if i < attempts-1 {
			jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter) * time.Millisecond)
			backoffMs *= 2
		}
	}

	return nil, fmt.Errorf("failed to send request after %d attempts: %v", attempts, lastErr)
}

func (t *clientTransport) Close() error {
	t.stopping = true
	t.closeConnections()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip writes one framed request and blocks until the read loop delivers
// the matching response or the configured timeout elapses
func (c *endpointConn) roundTrip(dbID, requestID uint64, req []byte) ([]byte, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("connection is closed")
	}

	respCh := make(chan pendingResult, 1)
	c.inflight.Store(requestID, respCh)
	defer c.inflight.Delete(requestID)

	timeout := time.Duration(c.owner.config.TimeoutSecond) * time.Second
	if timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(timeout))
	}

	// hold the mutex only for the write, reads run in the read loop
	c.writeMu.Lock()
	err := writeFrame(c.conn, dbID, requestID, req)
	c.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timeoutCh = time.After(timeout)
	}

	select {
	case result := <-respCh:
		return result.payload, result.err
	case <-timeoutCh:
		return nil, fmt.Errorf("request timed out")
	}
}

// nextConn picks a connection round robin
func (t *clientTransport) nextConn() *endpointConn {
	t.connsMu.RLock()
	defer t.connsMu.RUnlock()

	switch len(t.conns) {
	case 0:
		return nil
	case 1:
		return t.conns[0]
	default:
		return t.conns[t.rrCounter.Add(1)%uint64(len(t.conns))]
	}
}

// closeConnections tears down all connections and their read loops
func (t *clientTransport) closeConnections() {
	t.connsMu.Lock()
	defer t.connsMu.Unlock()

	for _, c := range t.conns {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	}
	t.conns = nil
}

// readLoop reads response frames and routes them to the in-flight requests
func (c *endpointConn) readLoop() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		if timeout := time.Duration(c.owner.config.TimeoutSecond) * time.Second; timeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(timeout))
		}

		dbID, requestID, payload, err := readFrame(c.conn, nil)

		respCh, waiting := c.inflight.Load(requestID)
		switch {
		case waiting && err != nil:
			respCh <- pendingResult{nil, fmt.Errorf("error reading response: %v", err)}
		case waiting:
			respCh <- pendingResult{payload, nil}
		case err != nil:
			// read failure with nobody waiting, the connection is likely gone
			Logger.Errorf("Error reading response with unknown request ID %d: %v", requestID, err)
			if err := c.reconnect(); err != nil {
				Logger.Errorf("Failed to reconnect to %s: %v", c.endpoint, err)
				return
			}
		default:
			Logger.Warningf("Received response for unknown request ID %d with database ID %d", requestID, dbID)
		}
	}
}

// reconnect (re)establishes the underlying connection
func (c *endpointConn) reconnect() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	conn, err := c.owner.connector.Connect(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", c.endpoint, err)
	}

	if err := c.owner.connector.UpgradeConnection(conn, c.owner.config); err != nil {
		conn.Close()
		return fmt.Errorf("failed to upgrade connection to %s: %v", c.endpoint, err)
	}

	c.conn = conn
	return nil
}
