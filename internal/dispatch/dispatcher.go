// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package dispatch runs the daemon's single readiness loop. The loop owns
// both input sources — accepted control connections and kernel link events —
// and routes one ready item at a time to its handler. It holds no business
// state of its own.
package dispatch

import (
	"net"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/events"
	"grimm.is/ifpolicyd/internal/logging"
)

// ConnectionHandler gates and serves one accepted connection.
type ConnectionHandler interface {
	HandleConnection(conn net.Conn)
}

// EventHandler reacts to one kernel event.
type EventHandler interface {
	OnEvent(ev events.Event)
}

// Dispatcher multiplexes the two input sources.
type Dispatcher struct {
	conns  <-chan net.Conn
	events <-chan events.Event

	gate    ConnectionHandler
	reactor EventHandler
	logger  *logging.Logger
}

// New creates a Dispatcher over the given sources and handlers.
func New(conns <-chan net.Conn, evs <-chan events.Event, gate ConnectionHandler, reactor EventHandler, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.WithComponent("dispatch")
	}
	return &Dispatcher{conns: conns, events: evs, gate: gate, reactor: reactor, logger: logger}
}

// Run blocks indefinitely, suspending until a source is ready and invoking
// the matching handler once per ready item. Handlers never return errors
// here; per-connection and per-event failures are contained at their own
// boundaries. Run only returns when a source fails irrecoverably, which
// the caller must treat as fatal.
func (d *Dispatcher) Run() error {
	for {
		select {
		case conn, ok := <-d.conns:
			if !ok {
				return errors.New(errors.KindUnavailable, "control socket source failed")
			}
			d.gate.HandleConnection(conn)

		case ev, ok := <-d.events:
			if !ok {
				return errors.New(errors.KindUnavailable, "kernel event source failed")
			}
			d.reactor.OnEvent(ev)
		}
	}
}
