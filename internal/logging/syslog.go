// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"net"
	"os"
	"time"

	"grimm.is/ifpolicyd/internal/brand"
	"grimm.is/ifpolicyd/internal/errors"
)

// SyslogConfig configures forwarding of log output to a syslog collector.
type SyslogConfig struct {
	Enabled  bool   `hcl:"enabled,optional"`
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	Protocol string `hcl:"protocol,optional"` // "udp" or "tcp"
	Tag      string `hcl:"tag,optional"`
	Facility int    `hcl:"facility,optional"` // RFC 3164 facility code
}

// DefaultSyslogConfig returns the disabled default syslog configuration.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Enabled:  false,
		Port:     514,
		Protocol: "udp",
		Tag:      brand.LowerName,
		Facility: 1,
	}
}

// SyslogWriter is an io.Writer that frames each write as an RFC 3164
// message and sends it to the configured collector.
type SyslogWriter struct {
	conn     net.Conn
	tag      string
	priority int
	hostname string
}

// NewSyslogWriter connects to the collector described by cfg.
// Zero-valued fields are defaulted; a missing host is an error.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Host == "" {
		return nil, errors.New(errors.KindValidation, "syslog host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 514
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "udp"
	}
	if cfg.Tag == "" {
		cfg.Tag = brand.LowerName
	}
	if cfg.Facility == 0 {
		// facility 0 is the kernel; user daemons log as user-level
		cfg.Facility = 1
	}

	conn, err := net.DialTimeout(cfg.Protocol, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), 5*time.Second)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "syslog dial %s://%s:%d failed", cfg.Protocol, cfg.Host, cfg.Port)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "localhost"
	}

	return &SyslogWriter{
		conn: conn,
		tag:  cfg.Tag,
		// severity informational within the configured facility
		priority: cfg.Facility*8 + 6,
		hostname: hostname,
	}, nil
}

// Write frames p as one syslog message. Trailing newlines are preserved as
// message boundaries by the collector, so p is sent as-is.
func (w *SyslogWriter) Write(p []byte) (int, error) {
	ts := time.Now().Format(time.Stamp)
	msg := fmt.Sprintf("<%d>%s %s %s[%d]: %s", w.priority, ts, w.hostname, w.tag, os.Getpid(), p)
	if _, err := w.conn.Write([]byte(msg)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the collector connection.
func (w *SyslogWriter) Close() error {
	return w.conn.Close()
}
