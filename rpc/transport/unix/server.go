package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/transport"
	"github.com/strandkv/strand/rpc/transport/base"
)

// default read buffer size for unix domain sockets
const defaultBufferSize = 64 * 1024 // 64KB

// serverConnector implements the IServerConnector interface for unix domain sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (s *serverConnector) GetName() string {
	return "unix"
}

func (s *serverConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	// remove a stale socket file from a previous run
	if err := os.RemoveAll(config.Transport.Endpoint); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket file: %w", err)
	}
	return net.Listen("unix", config.Transport.Endpoint)
}

func (s *serverConnector) UpgradeConnection(conn net.Conn, config common.ServerConfig) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil
	}
	return upgradeUnixConn(unixConn, config.Transport.SocketConf)
}

// --------------------------------------------------------------------------
// Server Transport Factory Methods
// --------------------------------------------------------------------------

// NewUnixDefaultServerTransport creates a new unix socket server transport
// with the default buffer size
func NewUnixDefaultServerTransport() transport.IRPCServerTransport {
	return NewUnixServerTransport(defaultBufferSize)
}

// NewUnixServerTransport creates a new unix socket server transport with a
// custom read buffer size
func NewUnixServerTransport(bufferSize int) transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{}, bufferSize)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// upgradeUnixConn applies the socket buffer settings to a unix domain socket
// connection. TCP specific options do not apply here.
func upgradeUnixConn(unixConn *net.UnixConn, socketConf common.SocketConf) error {
	if socketConf.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(socketConf.WriteBufferSize); err != nil {
			return fmt.Errorf("failed to set write buffer size: %w", err)
		}
	}

	if socketConf.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(socketConf.ReadBufferSize); err != nil {
			return fmt.Errorf("failed to set read buffer size: %w", err)
		}
	}

	return nil
}
