package server

import (
	"encoding/binary"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/strandkv/strand/lib/engine"
	"github.com/strandkv/strand/lib/journal"
	"github.com/strandkv/strand/lib/notify"
	"github.com/strandkv/strand/lib/store/memstore"
	"github.com/strandkv/strand/rpc/common"
	"github.com/strandkv/strand/rpc/serializer"
	"github.com/strandkv/strand/rpc/transport"
)

var Logger = logger.GetLogger("server")

// serverDatabase is one logical database hosted by the RPC server. It
// bundles the string engine with the adapter that handles requests for it.
// The engine expects a single logical writer, so mu serializes mutating
// commands while read commands share the lock.
type serverDatabase struct {
	Engine  *engine.Engine
	Adapter IRPCServerAdapter

	mu sync.RWMutex
}

// handle dispatches one message under the database lock. journalFn, when
// non-nil, is called under the same lock so journal order matches apply
// order; a journal failure turns the response into an error.
func (d *serverDatabase) handle(msg *common.Message, journalFn func(*common.Message) error) *common.Message {
	if readOnly(msg.MsgType) {
		d.mu.RLock()
		defer d.mu.RUnlock()
	} else {
		d.mu.Lock()
		defer d.mu.Unlock()
	}

	resp, replay := d.Adapter.Handle(msg, d.Engine)
	if replay != nil && journalFn != nil {
		if err := journalFn(replay); err != nil {
			Logger.Errorf("failed to journal mutation: %v", err)
			return &common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to journal mutation: %s", err),
			}
		}
	}
	return resp
}

// readOnly reports whether a message type never mutates the database.
func readOnly(t common.MessageType) bool {
	switch t {
	case common.MsgTGet, common.MsgTMGet, common.MsgTStrLen, common.MsgTGetRange:
		return true
	default:
		return false
	}
}

// NewRPCServer creates a new RPC server.
// It takes a config, transport and serializer as parameters.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create databases map
	databases := xsync.NewMapOf[uint64, *serverDatabase]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		databases:  databases,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer

	databases *xsync.MapOf[uint64, *serverDatabase]

	// The journal always uses the binary codec regardless of the transport
	// serializer, so that changing the wire format between restarts does
	// not orphan existing journal files.
	journal      *journal.Writer
	journalMu    sync.Mutex
	journalCodec serializer.IRPCSerializer
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(dbID uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate database
		database, ok := s.databases.Load(dbID)

		// Case database does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "database not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				metrics.GetOrCreateCounter(
					fmt.Sprintf(`strand_requests_total{cmd=%q}`, msg.MsgType.String()),
				).Inc()

				// Make mutations durable before answering
				var journalFn func(*common.Message) error
				if s.journal != nil {
					journalFn = func(replay *common.Message) error {
						return s.journalAppend(dbID, replay)
					}
				}

				// Let the adapter handle the request
				respMsg = *database.handle(&msg, journalFn)
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			Logger.Errorf("failed to serialize response: %v", err)
			val, _ = s.serializer.Serialize(common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			})
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init loggers
	common.InitLoggers(s.config.LogLevel)

	// CREATE DATABASES

	/*
		Note: A single RPC server hosts any number of logical databases, each
		with its own keyspace. The following loop creates all the databases
		and stores them for the RPC server.
	*/

	for _, dbID := range s.config.Databases {
		st := memstore.New(memstore.DefaultOptions())
		s.databases.Store(dbID, &serverDatabase{
			Engine:  engine.New(st, notify.NewNop(), time.Now),
			Adapter: NewStringsServerAdapter(),
		})
		Logger.Infof("created database %d", dbID)
	}

	// SET UP DURABILITY

	if s.config.JournalPath != "" {
		s.journalCodec = serializer.NewBinarySerializer()

		// Replay existing records before the journal is opened for appends
		if _, err := os.Stat(s.config.JournalPath); err == nil {
			if err := s.replayJournal(); err != nil {
				return fmt.Errorf("failed to replay journal: %w", err)
			}
		}

		w, err := journal.OpenFile(s.config.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		s.journal = w
		Logger.Infof("journaling mutations to %s", s.config.JournalPath)
	}

	// METRICS

	if s.config.MetricsEndpoint != "" {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
				metrics.WritePrometheus(w, true)
			})
			Logger.Infof("serving metrics on %s", s.config.MetricsEndpoint)
			if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
				Logger.Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	Logger.Infof("strand setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server.
// This function will also initialize the server plus the databases and start
// the transport layer.
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// Close flushes and closes the journal. The transport listener is owned by
// Serve and stops with the process.
func (s *rpcServer) Close() error {
	s.journalMu.Lock()
	defer s.journalMu.Unlock()
	if s.journal == nil {
		return nil
	}
	err := s.journal.Close()
	s.journal = nil
	return err
}

// --------------------------------------------------------------------------
// Journal Helpers
// --------------------------------------------------------------------------

// journalAppend writes one mutation record: the target database id followed
// by the binary-encoded message. The record is synced before the caller
// answers the client.
func (s *rpcServer) journalAppend(dbID uint64, msg *common.Message) error {
	payload, err := s.journalCodec.Serialize(*msg)
	if err != nil {
		return err
	}

	record := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(record[:8], dbID)
	copy(record[8:], payload)

	s.journalMu.Lock()
	defer s.journalMu.Unlock()
	if err := s.journal.Append(record); err != nil {
		return err
	}
	return s.journal.Sync()
}

// replayJournal re-applies all journaled mutations to the freshly created
// databases. Records for unknown database ids are skipped with a warning so
// a config that drops a database does not brick the journal.
func (s *rpcServer) replayJournal() error {
	count := 0
	err := journal.ReplayFile(s.config.JournalPath, func(record []byte) error {
		if len(record) < 8 {
			return fmt.Errorf("journal record too short: %d bytes", len(record))
		}
		dbID := binary.BigEndian.Uint64(record[:8])

		database, ok := s.databases.Load(dbID)
		if !ok {
			Logger.Warningf("skipping journal record for unknown database %d", dbID)
			return nil
		}

		var msg common.Message
		if err := s.journalCodec.Deserialize(record[8:], &msg); err != nil {
			return fmt.Errorf("failed to decode journal record: %w", err)
		}

		resp := database.handle(&msg, nil)
		if err := resp.AsError(); err != nil {
			// A journaled mutation succeeded when it was recorded; an
			// error on replay means the journal and config diverged.
			return fmt.Errorf("journal replay of %s failed: %w", msg.MsgType, err)
		}

		count++
		return nil
	})
	if err != nil {
		return err
	}

	Logger.Infof("replayed %d journal records", count)
	return nil
}
