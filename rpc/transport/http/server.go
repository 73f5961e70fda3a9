package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/transport"
)

var Logger = logger.GetLogger("transport/rpc")

// httpServerTransport serves serialized messages over plain HTTP POST.
// The logical database id is the request path, the message is the body.
type httpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig
}

func NewHTTPServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	t.config = config

	mux := http.NewServeMux()

	// request logging only in debug mode, it costs an allocation per request
	h := t.handleRequest
	if t.config.LogLevel == "debug" {
		h = loggerMiddleware(h)
	}
	mux.HandleFunc("POST /{dbID}", h)

	Logger.Infof("Starting HTTP server on %s", t.config.Transport.Endpoint)

	return http.ListenAndServe(t.config.Transport.Endpoint, mux)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleRequest decodes the database id from the path, feeds the body to the
// registered handler and writes the serialized response back
func (t *httpServerTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	dbID, err := strconv.ParseUint(r.PathValue("dbID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid database id", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	resp := t.handler(dbID, body)

	if _, err = w.Write(resp); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// statusRecorder remembers the status code a handler wrote
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware logs method, path, status and duration of each request
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	}
}
