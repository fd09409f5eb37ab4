// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config provides HCL configuration handling for the daemon.
package config

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"grimm.is/ifpolicyd/internal/brand"
	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/logging"
)

// Config is the daemon configuration.
type Config struct {
	// SocketPath is the control socket location.
	SocketPath string `hcl:"socket_path,optional"`

	// TrustedUID is the single peer uid allowed to connect to the control
	// socket. Defaults to 0 (the superuser).
	TrustedUID int `hcl:"trusted_uid,optional"`

	// PolicyFile holds the ordered event policies.
	PolicyFile string `hcl:"policy_file,optional"`

	// EnableActions arms the control-action hook after a policy apply.
	// Disabled by default; the action dispatch is a collaborator interface
	// and the built-in engine only logs it.
	EnableActions bool `hcl:"enable_actions,optional"`

	// MetricsListen, when set, exposes prometheus metrics on this address.
	MetricsListen string `hcl:"metrics_listen,optional"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`

	Syslog *logging.SyslogConfig `hcl:"syslog,block"`
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(brand.DefaultConfigDir, brand.ConfigFileName)
}

// DefaultSocketPath returns the default control socket location.
func DefaultSocketPath() string {
	return filepath.Join(brand.DefaultRunDir, brand.SocketName)
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		SocketPath: DefaultSocketPath(),
		TrustedUID: 0,
		PolicyFile: filepath.Join(brand.DefaultConfigDir, "policies.hcl"),
		LogLevel:   "info",
	}
}

// Load reads and decodes the HCL configuration file at path, applying
// defaults for unset fields. A missing file is an error; callers that want
// to run without a file should use Default directly.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.KindNotFound, "configuration file %s", path)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to decode config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.SocketPath == "" {
		c.SocketPath = d.SocketPath
	}
	if c.PolicyFile == "" {
		c.PolicyFile = d.PolicyFile
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks field values that HCL decoding cannot.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf(errors.KindValidation, "invalid log_level %q", c.LogLevel)
	}
	if c.TrustedUID < 0 {
		return errors.Errorf(errors.KindValidation, "invalid trusted_uid %d", c.TrustedUID)
	}
	if c.Syslog != nil && c.Syslog.Enabled && c.Syslog.Host == "" {
		return errors.New(errors.KindValidation, "syslog enabled but host is unset")
	}
	return nil
}
