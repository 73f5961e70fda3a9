// Package client implements the RPC client for the string store. It provides
// an implementation of the IStringsClient interface that communicates with
// remote servers via RPC.
//
// The package focuses on:
//   - Transparent RPC access to all string operations
//   - Integration with the transport and serialization layers
//   - Reconstruction of typed engine errors from wire responses
//
// Key Components:
//
//   - IStringsClient: The client-side view of one logical string database
//     with typed methods for every operation.
//
//   - NewStringsClient: Factory function that creates a client bound to one
//     database id, forwarding all operations to remote servers via the
//     configured transport layer.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the client
//	c, err := client.NewStringsClient(
//	  0,
//	  config,
//	  tcp.NewTCPClientTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//	if err != nil {
//	  panic(err)
//	}
//	defer c.Close()
//
//	if err := c.Set("greeting", []byte("hello")); err != nil {
//	  panic(err)
//	}
package client
