// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ctlplane

import (
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/ifpolicyd/internal/ifdoc"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
	"grimm.is/ifpolicyd/internal/netinfo"
)

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logging.LevelError, Output: io.Discard})
}

// startServer binds a server on a throwaway socket with peer credentials
// stubbed out, and emulates the dispatcher by draining Connections into
// HandleConnection.
func startServer(t *testing.T, engine netinfo.Engine, trustedUID int, inline bool, creds func(net.Conn) (uint32, uint32, error)) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "ctl.sock")
	srv := NewServer(socketPath, trustedUID, inline, engine, quietLogger())
	srv.peerCreds = creds
	require.NoError(t, srv.Listen())
	t.Cleanup(srv.Close)

	go func() {
		for conn := range srv.Connections() {
			srv.HandleConnection(conn)
		}
	}()
	return socketPath
}

func asUID(uid uint32) func(net.Conn) (uint32, uint32, error) {
	return func(net.Conn) (uint32, uint32, error) { return uid, uid, nil }
}

func simWithEth0() *netinfo.SimEngine {
	engine := netinfo.NewSimEngine()
	engine.AddInterface(&netinfo.SimInterface{Name: "eth0", Index: 2, Up: true, MAC: "aa:bb:cc:dd:ee:ff"})
	return engine
}

func TestServerServesTrustedPeer(t *testing.T) {
	socketPath := startServer(t, simWithEth0(), 1234, false, asUID(1234))

	resp, err := Call(socketPath, "GET", "/system/interface", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeOK, resp.Code)
	assert.Contains(t, resp.Body, "eth0")

	resp, err = Call(socketPath, "GET", "/system/interface/eth0", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeOK, resp.Code)
	assert.Contains(t, resp.Body, `name="eth0"`)
}

func TestServerRefusesUntrustedPeer(t *testing.T) {
	socketPath := startServer(t, simWithEth0(), 0, false, asUID(1000))

	denied := promtest.ToFloat64(metrics.ConnectionsDenied)

	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	require.NoError(t, err)
	defer conn.Close()

	// A refused peer gets the connection closed with no response bytes,
	// whether or not it sent anything.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, denied+1, promtest.ToFloat64(metrics.ConnectionsDenied))
}

func TestServerClosesOnCredentialFailure(t *testing.T) {
	socketPath := startServer(t, simWithEth0(), 0, false, func(net.Conn) (uint32, uint32, error) {
		return 0, 0, io.ErrUnexpectedEOF
	})

	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	n, err := conn.Read(make([]byte, 64))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestServerAnswersMalformedRequest(t *testing.T) {
	socketPath := startServer(t, simWithEth0(), 0, false, asUID(0))

	// The lowercase verb never parses, but the peer still gets exactly one
	// response explaining why.
	resp, err := Call(socketPath, "get", "/system/interface", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeBadRequest, resp.Code)
	assert.Contains(t, resp.Body, "malformed verb")
}

func TestServerInlineMode(t *testing.T) {
	socketPath := startServer(t, simWithEth0(), 0, true, asUID(0))

	resp, err := Call(socketPath, "POST", "/system/interface", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeMethodNotAllowed, resp.Code)

	resp, err = Call(socketPath, "GET", "/system/interface/eth9", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeNotFound, resp.Code)
}

// panicEngine blows up inside request execution until disarmed.
type panicEngine struct {
	mu    sync.Mutex
	armed bool
	sim   *netinfo.SimEngine
}

func (e *panicEngine) disarm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.armed = false
}

func (e *panicEngine) check() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.armed {
		panic("injected worker failure")
	}
}

func (e *panicEngine) Interfaces() ([]string, error) {
	e.check()
	return e.sim.Interfaces()
}

func (e *panicEngine) InterfaceDocument(name string) (*ifdoc.Node, error) {
	e.check()
	return e.sim.InterfaceDocument(name)
}

func (e *panicEngine) IssueControlAction(action, resourcePath string, doc *ifdoc.Node) error {
	return e.sim.IssueControlAction(action, resourcePath, doc)
}

// A crash in one isolated worker must not take the daemon down: the next
// connection is served normally.
func TestServerContainsWorkerPanic(t *testing.T) {
	engine := &panicEngine{armed: true, sim: simWithEth0()}
	socketPath := startServer(t, engine, 0, false, asUID(0))

	failures := promtest.ToFloat64(metrics.WorkerFailures)

	// The crashed worker never writes a response; the client sees EOF.
	_, err := Call(socketPath, "GET", "/system/interface", "")
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		return promtest.ToFloat64(metrics.WorkerFailures) >= failures+1
	}, 5*time.Second, 10*time.Millisecond)

	engine.disarm()
	resp, err := Call(socketPath, "GET", "/system/interface", "")
	require.NoError(t, err)
	assert.Equal(t, netinfo.CodeOK, resp.Code)
}
