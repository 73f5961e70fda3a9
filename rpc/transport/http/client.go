package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/transport"
)

// httpClientTransport posts serialized messages to /{dbID} and balances
// across endpoints round robin. Connection pooling is left to net/http.
type httpClientTransport struct {
	endpoints  []*url.URL
	client     *http.Client
	rr         atomic.Uint32
	retryCount int
}

func NewHTTPClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	endpoints := make([]*url.URL, len(config.Transport.Endpoints))
	for i, raw := range config.Transport.Endpoints {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		endpoints[i] = u
	}

	t.endpoints = endpoints
	t.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     time.Duration(config.TimeoutSecond) * time.Second,
		},
	}
	t.retryCount = max(config.Transport.RetryCount, 1)

	return nil
}

func (t *httpClientTransport) Send(dbID uint64, req []byte) ([]byte, error) {
	if t.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	endpoint := t.endpoints[t.rr.Add(1)%uint32(len(t.endpoints))]
	requestURL := fmt.Sprintf("%s/%v", endpoint, dbID)

	var resp *http.Response
	var err error
	for i := 0; i < t.retryCount; i++ {
		// the body reader must be fresh for every attempt
		httpReq, reqErr := http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(req))
		if reqErr != nil {
			return nil, reqErr
		}
		if resp, err = t.client.Do(httpReq); err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}
	t.client = nil
	t.endpoints = nil
	return nil
}
