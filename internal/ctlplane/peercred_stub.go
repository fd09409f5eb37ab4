// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux
// +build !linux

package ctlplane

import (
	"net"

	"grimm.is/ifpolicyd/internal/errors"
)

// unixPeerCreds is only implemented on Linux; elsewhere every connection
// is refused.
func unixPeerCreds(conn net.Conn) (uint32, uint32, error) {
	return 0, 0, errors.New(errors.KindPermission, "peer credentials unsupported on this platform")
}
