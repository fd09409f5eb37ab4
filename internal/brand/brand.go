// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package brand provides centralized naming constants for the daemon.
// Keeping these in one place makes renaming or white-labeling a one-file change.
package brand

const (
	// Name is the product name.
	Name = "IfPolicyd"

	// LowerName is used for file names, syslog tags and socket names.
	LowerName = "ifpolicyd"

	// BinaryName is the name of the installed binary.
	BinaryName = "ifpolicyd"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "ifpolicyd.hcl"

	// DefaultConfigDir is where the config and policy files live.
	DefaultConfigDir = "/etc/ifpolicyd"

	// DefaultRunDir holds the control socket and pid file.
	DefaultRunDir = "/run/ifpolicyd"

	// DefaultLogDir is where the daemon log is written when backgrounded.
	DefaultLogDir = "/var/log/ifpolicyd"

	// SocketName is the control socket file name under the run dir.
	SocketName = "ifpolicyd.sock"
)

// Version is set at build time via -ldflags.
var Version = "dev"
