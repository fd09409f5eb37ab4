// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux
// +build !linux

package main

import "grimm.is/ifpolicyd/internal/errors"

func daemonize(args []string) error {
	return errors.New(errors.KindUnavailable, "backgrounding unsupported on this platform, use --foreground")
}
