// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux
// +build !linux

package events

import (
	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/logging"
)

// Monitor is only functional on Linux; this stub keeps the tree building
// elsewhere for development.
type Monitor struct {
	out chan Event
}

// NewMonitor creates a stub monitor.
func NewMonitor(logger *logging.Logger) *Monitor {
	_ = logger
	return &Monitor{out: make(chan Event)}
}

// Start always fails off Linux.
func (m *Monitor) Start() error {
	return errors.New(errors.KindUnavailable, "rtnetlink events unsupported on this platform")
}

// Events returns the (never written) event channel.
func (m *Monitor) Events() <-chan Event {
	return m.out
}

// Stop closes the event channel.
func (m *Monitor) Stop() {
	close(m.out)
}
