package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/serializer"
	"github.com/strandkv/strand/rpc/transport"
	"github.com/strandkv/strand/rpc/transport/http"
	"github.com/strandkv/strand/rpc/transport/tcp"
	"github.com/strandkv/strand/rpc/transport/unix"
)

// Wrap is the column at which flag help text is wrapped
const Wrap = 50

// WrapString reflows help text so no line exceeds Wrap characters
// (a single word longer than Wrap stays on its own line)
func WrapString(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(words[0])
	width := len(words[0])

	for _, word := range words[1:] {
		if width+1+len(word) > Wrap {
			sb.WriteByte('\n')
			width = 0
		} else {
			sb.WriteByte(' ')
			width++
		}
		sb.WriteString(word)
		width += len(word)
	}

	return sb.String()
}

// SetupRPCClientFlags adds the shared client connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("Client request timeout in seconds"))

	key = "database"
	cmd.PersistentFlags().Int(key, 0, WrapString("The id of the logical database to operate on"))

	key = "transport-endpoints"
	cmd.PersistentFlags().String(key, "http://localhost:8080", WrapString("Address of the strand server. Transports that load balance accept a comma-separated list"))

	key = "transport-conn-per-endpoint"
	cmd.PersistentFlags().Int(key, 1, WrapString("Parallel connections per endpoint, where the transport supports multiplexing"))

	key = "transport-retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("Attempts per request before giving up"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("Socket write buffer in KB (ignored for http)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("Socket read buffer in KB (ignored for http)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Enable TCP_NODELAY (tcp transport only)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("TCP keepalive interval in seconds (tcp transport only)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("TCP linger time in seconds (tcp transport only)"))
}

// InitClientConfig wires up configuration sources: .env files first,
// then STRAND_* environment variables, then flags via BindCommandFlags
func InitClientConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("strand")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetClientConfig assembles the client config from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		Transport: common.ClientTransportConfig{
			Endpoints:              strings.Split(viper.GetString("transport-endpoints"), ","),
			RetryCount:             viper.GetInt("transport-retries"),
			ConnectionsPerEndpoint: viper.GetInt("transport-conn-per-endpoint"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
				TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
			},
		},
	}
}

// GetSerializer resolves the configured wire codec
func GetSerializer() (serializer.IRPCSerializer, error) {
	name := viper.GetString("serializer")
	switch name {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// GetTransport resolves the configured client transport
func GetTransport() (transport.IRPCClientTransport, error) {
	name := viper.GetString("transport")
	switch name {
	case "http":
		return http.NewHTTPClientTransport(), nil
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", name)
	}
}

// GetDatabaseID returns the configured logical database id
func GetDatabaseID() uint64 {
	return uint64(viper.GetInt("database"))
}

// BindCommandFlags binds a command's flags into viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
