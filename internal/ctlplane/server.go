// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ctlplane implements the privileged control surface: the
// credential-checked unix socket serving request/response exchanges, and
// the reactor that drives policies for kernel link events.
package ctlplane

import (
	"io"
	"net"
	"os"

	"github.com/google/uuid"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
	"grimm.is/ifpolicyd/internal/netinfo"
)

// Server owns the control socket. It accepts connections in a background
// pump and hands them to the dispatcher via Connections; the dispatcher
// calls HandleConnection, which authorizes the peer and runs the exchange
// in the configured execution mode.
type Server struct {
	socketPath string
	trustedUID int

	// inline executes exchanges synchronously on the dispatcher instead
	// of in an isolated worker. Set by --no-fork.
	inline bool

	engine   netinfo.Engine
	logger   *logging.Logger
	listener *net.UnixListener
	conns    chan net.Conn

	// peerCreds is swappable for tests; the default reads SO_PEERCRED.
	peerCreds func(conn net.Conn) (uid, gid uint32, err error)
}

// NewServer creates an unstarted Server.
func NewServer(socketPath string, trustedUID int, inline bool, engine netinfo.Engine, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.WithComponent("ctl")
	}
	return &Server{
		socketPath: socketPath,
		trustedUID: trustedUID,
		inline:     inline,
		engine:     engine,
		logger:     logger,
		conns:      make(chan net.Conn),
		peerCreds:  unixPeerCreds,
	}
}

// Listen binds the control socket and starts the accept pump. Binding
// failure is an initialization failure and should be treated as fatal by
// the caller.
func (s *Server) Listen() error {
	// Remove a stale socket from a previous run.
	os.Remove(s.socketPath)

	addr, err := net.ResolveUnixAddr("unix", s.socketPath)
	if err != nil {
		return errors.Wrapf(err, errors.KindValidation, "bad socket path %s", s.socketPath)
	}
	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		return errors.Wrapf(err, errors.KindUnavailable, "failed to listen on %s", s.socketPath)
	}

	// The credential gate is the real protection; the mode keeps casual
	// traffic away from the socket.
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return errors.Wrapf(err, errors.KindInternal, "failed to set socket permissions on %s", s.socketPath)
	}

	s.listener = listener
	go s.acceptPump()

	s.logger.Info("control socket listening", "path", s.socketPath, "trusted_uid", s.trustedUID)
	return nil
}

// Connections returns the channel of accepted connections. The channel
// closes when the listener fails irrecoverably; the dispatcher treats that
// as a fatal poll error.
func (s *Server) Connections() <-chan net.Conn {
	return s.conns
}

// Close shuts the listener down.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
}

// acceptPump blocks in Accept so the dispatcher never does. One connection
// is forwarded per accept; backpressure is the listener backlog.
func (s *Server) acceptPump() {
	defer close(s.conns)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "error", err)
			return
		}
		s.conns <- conn
	}
}

// HandleConnection is the connection gate: it authorizes the peer by
// socket credentials and runs the request/response exchange in the
// configured execution mode. Exactly one connection is handled per call.
func (s *Server) HandleConnection(conn net.Conn) {
	uid, gid, err := s.peerCreds(conn)
	if err != nil {
		s.logger.Error("could not read peer credentials", "error", err)
		conn.Close()
		return
	}

	if int(uid) != s.trustedUID {
		// Denied peers get no response at all; nothing has been read.
		metrics.ConnectionsDenied.Inc()
		s.logger.Error("refusing attempted connection", "uid", uid, "gid", gid)
		conn.Close()
		return
	}

	id := uuid.NewString()
	metrics.ConnectionsAccepted.Inc()
	s.logger.Debug("accepted connection", "uid", uid, "request_id", id)

	if s.inline {
		s.serveConn(conn, id)
		return
	}
	go s.serveConn(conn, id)
}

// serveConn runs exactly one request/response exchange and closes the
// connection. In isolated mode it is the whole worker: a panic anywhere in
// parsing or execution is contained here and never reaches the dispatcher.
func (s *Server) serveConn(conn net.Conn, id string) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			metrics.WorkerFailures.Inc()
			s.logger.Error("request worker crashed", "request_id", id, "panic", r)
		}
	}()

	Process(s.engine, conn, s.logger, id)
}

// Process turns the bytes on one connection into exactly one request,
// executes it, and writes exactly one response back. A response is written
// for every accepted connection, whether or not parsing or execution
// succeeded.
func Process(engine netinfo.Engine, conn io.ReadWriter, logger *logging.Logger, id string) {
	req := ParseRequest(conn)

	var resp Response
	if req.Invalid() {
		resp = Response{Code: netinfo.CodeBadRequest, Body: req.ParseErr.Error() + "\n"}
		logger.Debug("request parse failed", "request_id", id, "error", req.ParseErr)
	} else {
		code, body := netinfo.ExecuteRequest(engine, req.Verb, req.Path, req.Body)
		resp = Response{Code: code, Body: body}
		logger.Debug("request executed", "request_id", id, "verb", req.Verb, "path", req.Path, "code", code)
	}

	metrics.RequestsServed.WithLabelValues(codeTag(resp.Code)).Inc()
	if err := resp.Write(conn); err != nil {
		logger.Warn("failed to write response", "request_id", id, "error", err)
	}
}
