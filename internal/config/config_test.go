// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifpolicyd.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
trusted_uid = 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultSocketPath(), cfg.SocketPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0, cfg.TrustedUID)
	assert.False(t, cfg.EnableActions)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
socket_path    = "/tmp/test.sock"
trusted_uid    = 0
policy_file    = "/tmp/policies.hcl"
enable_actions = true
metrics_listen = "127.0.0.1:9360"
log_level      = "debug"

syslog {
  enabled  = true
  host     = "logs.example.com"
  port     = 1514
  protocol = "tcp"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.sock", cfg.SocketPath)
	assert.Equal(t, "/tmp/policies.hcl", cfg.PolicyFile)
	assert.True(t, cfg.EnableActions)
	assert.Equal(t, "127.0.0.1:9360", cfg.MetricsListen)
	require.NotNil(t, cfg.Syslog)
	assert.Equal(t, 1514, cfg.Syslog.Port)
	assert.Equal(t, "tcp", cfg.Syslog.Protocol)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	assert.Error(t, err)
}

func TestLoadBadHCL(t *testing.T) {
	path := writeConfig(t, `socket_path = `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateSyslogNeedsHost(t *testing.T) {
	path := writeConfig(t, `
syslog {
  enabled = true
}
`)
	_, err := Load(path)
	assert.Error(t, err)
}
