// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux
// +build !linux

package netinfo

import "grimm.is/ifpolicyd/internal/logging"

// NewEngine returns an empty simulated engine off Linux; the live engine
// needs netlink and ethtool.
func NewEngine(logger *logging.Logger, enableActions bool) Engine {
	_ = logger
	_ = enableActions
	return NewSimEngine()
}
