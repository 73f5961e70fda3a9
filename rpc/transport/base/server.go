package base

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/transport"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector abstracts the medium-specific half of a server transport
type IServerConnector interface {
	// Listen opens the listener for the configured endpoint
	Listen(config common.ServerConfig) (net.Listener, error)

	// UpgradeConnection tunes a freshly accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error

	// GetName returns the transport name (e.g. "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport is the medium-independent server transport core
type serverTransport struct {
	connector IServerConnector
	handler   transport.ServerHandleFunc
	config    common.ServerConfig
	listener  net.Listener
	bufPool   *sync.Pool
}

// session bundles the per-connection state: a counting semaphore capping
// concurrent workers, a wait group draining them on shutdown, and a mutex
// so response frames never interleave on the wire.
type session struct {
	t       *serverTransport
	conn    net.Conn
	timeout time.Duration
	slots   chan struct{}
	wg      sync.WaitGroup
	writeMu sync.Mutex
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport wraps a connector into a full server transport.
// bufferSize is the per-frame read buffer handed out by the pool.
func NewBaseServerTransport(connector IServerConnector, bufferSize int) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
		bufPool: &sync.Pool{
			New: func() interface{} {
				return make([]byte, bufferSize)
			},
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	t.config = config

	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	t.listener = listener

	workers := config.Transport.WorkersPerConn
	if workers < 1 {
		workers = 1
	}

	Logger.Infof("Starting %s server on %s with %d workers per connection",
		t.connector.GetName(), config.Transport.Endpoint, workers)

	for {
		conn, err := listener.Accept()
		if err != nil {
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, config); err != nil {
			Logger.Errorf("Failed to upgrade connection: %v", err)
			conn.Close()
			continue
		}

		s := &session{
			t:       t,
			conn:    conn,
			timeout: time.Duration(config.TimeoutSecond) * time.Second,
			slots:   make(chan struct{}, workers),
		}
		go s.serve()
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// serve reads frames off the connection until it closes or errors, then
// waits for all in-flight workers before returning
func (s *session) serve() {
	defer s.conn.Close()

	for {
		err := s.readOne()
		if err == io.EOF {
			Logger.Infof("Connection closed by client")
			break
		}
		if err != nil {
			Logger.Errorf("Error handling request: %v", err)
			break
		}
	}

	s.wg.Wait()
}

// readOne reads a single request frame and dispatches it to a worker.
// Blocks while all worker slots are taken, which backpressures the client.
func (s *session) readOne() error {
	if s.timeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %v", err)
		}
	}

	buf := s.t.bufPool.Get().([]byte)

	dbID, requestID, payload, err := readFrame(s.conn, buf)
	if err != nil {
		s.t.bufPool.Put(buf)
		return err
	}

	s.slots <- struct{}{}
	s.wg.Add(1)

	go func() {
		defer s.t.bufPool.Put(buf)
		s.process(dbID, requestID, payload)
	}()

	return nil
}

// process runs the handler and writes the response frame back
func (s *session) process(dbID, requestID uint64, payload []byte) {
	defer func() {
		<-s.slots
		s.wg.Done()
	}()

	start := time.Now()
	resp := s.t.handler(dbID, payload)
	Logger.Debugf("Processed request for database %d with requestID %d took %s", dbID, requestID, time.Since(start))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			Logger.Errorf("Failed to set write deadline: %v", err)
			return
		}
	}

	if err := writeFrame(s.conn, dbID, requestID, resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
	}
}
