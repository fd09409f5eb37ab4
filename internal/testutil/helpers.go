// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package testutil

import (
	"os"
	"testing"
)

// RequireVM skips the test if the IFPOLICYD_VM_TEST environment variable is
// not set. Tests needing real kernel capabilities (netlink subscriptions,
// SO_PEERCRED against a live socket) only run in the proper environment.
func RequireVM(t *testing.T) {
	t.Helper()
	if os.Getenv("IFPOLICYD_VM_TEST") == "" {
		t.Skip("Skipping test: requires IFPOLICYD_VM_TEST environment")
	}
}
