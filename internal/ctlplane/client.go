// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ctlplane

import (
	"io"
	"net"

	"grimm.is/ifpolicyd/internal/errors"
)

// Call performs one request/response exchange against the control socket.
// The write side is half-closed after the request so the server sees EOF
// as the body delimiter.
func Call(socketPath, verb, path, body string) (*Response, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "dial %s", socketPath)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, verb+" "+path+"\n"+body); err != nil {
		return nil, errors.Wrap(err, errors.KindUnavailable, "send request")
	}
	if err := conn.CloseWrite(); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "half-close")
	}

	return ReadResponse(conn)
}
