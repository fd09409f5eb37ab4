// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package events

import (
	"sync"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
)

// Monitor subscribes to rtnetlink link updates and publishes classified
// events on its channel, strictly in kernel delivery order.
type Monitor struct {
	logger *logging.Logger

	updates chan netlink.LinkUpdate
	done    chan struct{}
	out     chan Event

	// last known flags per interface index, used to detect transitions
	flags map[int]uint32

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewMonitor creates an unstarted Monitor.
func NewMonitor(logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.WithComponent("events")
	}
	return &Monitor{
		logger:  logger,
		updates: make(chan netlink.LinkUpdate, 64),
		done:    make(chan struct{}),
		out:     make(chan Event, 64),
		flags:   map[int]uint32{},
	}
}

// Start opens the rtnetlink subscription. A subscription failure here is an
// initialization failure and should be treated as fatal by the caller.
func (m *Monitor) Start() error {
	if err := netlink.LinkSubscribe(m.updates, m.done); err != nil {
		return errors.Wrap(err, errors.KindUnavailable, "rtnetlink subscription failed")
	}

	// Seed the flag table so pre-existing interfaces do not replay
	// link-create on their first flag change.
	links, err := netlink.LinkList()
	if err != nil {
		m.logger.Warn("could not list existing links, events may replay creates", "error", err)
	}
	for _, link := range links {
		m.flags[link.Attrs().Index] = link.Attrs().RawFlags
	}

	m.wg.Add(1)
	go m.pump()

	m.logger.Info("listening for kernel link events", "known_links", len(m.flags))
	return nil
}

// Events returns the event channel. The channel closes only when the
// subscription fails irrecoverably or the monitor is stopped.
func (m *Monitor) Events() <-chan Event {
	return m.out
}

// Stop tears down the subscription and closes the event channel.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
	m.wg.Wait()
}

// pump drains the netlink channel, classifies each update and forwards the
// resulting events. It owns m.flags; no other goroutine touches it after
// Start.
func (m *Monitor) pump() {
	defer m.wg.Done()
	defer close(m.out)

	for update := range m.updates {
		attrs := update.Link.Attrs()
		if attrs == nil {
			continue
		}

		index := attrs.Index
		newFlags := uint32(update.IfInfomsg.Flags)
		oldFlags, known := m.flags[index]

		kinds := Classify(update.Header.Type, known, oldFlags, newFlags)
		if len(kinds) == 0 {
			m.logger.Debug("ignoring link update", "interface", attrs.Name, "msg_type", update.Header.Type)
			continue
		}

		for _, kind := range kinds {
			metrics.EventsSeen.WithLabelValues(kind.String()).Inc()
			m.out <- Event{Kind: kind, Interface: attrs.Name, Index: index}
		}

		if update.Header.Type == unix.RTM_DELLINK {
			delete(m.flags, index)
		} else {
			m.flags[index] = newFlags
		}
	}
}
