// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package ctlplane

import (
	"net"

	"golang.org/x/sys/unix"

	"grimm.is/ifpolicyd/internal/errors"
)

// unixPeerCreds reads the peer's uid/gid from the socket with SO_PEERCRED.
func unixPeerCreds(conn net.Conn) (uint32, uint32, error) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return 0, 0, errors.New(errors.KindPermission, "connection has no socket credentials")
	}

	raw, err := uc.SyscallConn()
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.KindInternal, "raw connection")
	}

	var cred *unix.Ucred
	var credErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if ctrlErr != nil {
		return 0, 0, errors.Wrap(ctrlErr, errors.KindInternal, "socket control")
	}
	if credErr != nil {
		return 0, 0, errors.Wrap(credErr, errors.KindPermission, "SO_PEERCRED")
	}
	return cred.Uid, cred.Gid, nil
}
