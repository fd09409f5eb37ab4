// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides leveled, key-value structured logging for the
// daemon. Loggers are scoped to a component; per-component debug output can
// be enabled selectively via debug facilities (see debug.go).
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level controls which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string onto a Level. Unknown strings map to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config controls logger construction.
type Config struct {
	Level     Level
	Component string
	Output    io.Writer // defaults to stderr
}

// DefaultConfig returns the daemon's default logging configuration.
func DefaultConfig() Config {
	return Config{Level: LevelInfo}
}

// Logger is a leveled key-value logger bound to one component.
type Logger struct {
	backend   *logrus.Logger
	component string
	level     Level
}

// New creates a Logger from the given configuration.
func New(cfg Config) *Logger {
	backend := logrus.New()
	if cfg.Output != nil {
		backend.SetOutput(cfg.Output)
	} else {
		backend.SetOutput(os.Stderr)
	}
	// Level filtering happens in this package so that debug facilities can
	// selectively pass Debug messages through; the backend stays wide open.
	backend.SetLevel(logrus.DebugLevel)
	backend.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{backend: backend, component: cfg.Component, level: cfg.Level}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(DefaultConfig())
)

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// WithComponent returns a logger derived from the default logger, scoped to
// the named component. The component doubles as a debug facility name.
func WithComponent(name string) *Logger {
	d := Default()
	return &Logger{backend: d.backend, component: name, level: d.level}
}

// WithComponent returns a copy of this logger scoped to the named component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{backend: l.backend, component: name, level: l.level}
}

// SetOutput redirects the logger's backend output.
func (l *Logger) SetOutput(w io.Writer) {
	l.backend.SetOutput(w)
}

func (l *Logger) entry(kv []any) *logrus.Entry {
	fields := logrus.Fields{}
	if l.component != "" {
		fields["component"] = l.component
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return l.backend.WithFields(fields)
}

// Debug logs at debug level. The message is suppressed unless the logger's
// level is debug or the logger's component is an enabled debug facility.
func (l *Logger) Debug(msg string, kv ...any) {
	if l.level > LevelDebug && !Debugging(l.component) {
		return
	}
	l.entry(kv).Debug(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, kv ...any) {
	if l.level > LevelInfo {
		return
	}
	l.entry(kv).Info(msg)
}

// Warn logs at warning level.
func (l *Logger) Warn(msg string, kv ...any) {
	if l.level > LevelWarn {
		return
	}
	l.entry(kv).Warn(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, kv ...any) {
	l.entry(kv).Error(msg)
}

// Fatal logs at fatal level and terminates the process with a non-zero
// status. Reserved for unrecoverable startup and poll-loop failures.
func (l *Logger) Fatal(msg string, kv ...any) {
	l.entry(kv).Fatal(msg)
}
