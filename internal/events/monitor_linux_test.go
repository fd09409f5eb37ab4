// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package events

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/testutil"
)

func TestMonitorStartStop(t *testing.T) {
	testutil.RequireVM(t)

	m := NewMonitor(logging.New(logging.Config{Level: logging.LevelError, Output: io.Discard}))
	require.NoError(t, m.Start())

	m.Stop()

	// Stop closes the event channel once the pump drains.
	for range m.Events() {
	}
}
