// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"

	"grimm.is/ifpolicyd/internal/brand"
	"grimm.is/ifpolicyd/internal/errors"
)

// daemonize re-executes the binary detached from the controlling terminal
// with --foreground appended, redirecting output to the daemon log. The
// parent writes the pid file and exits.
func daemonize(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "failed to get executable path")
	}

	if err := os.MkdirAll(brand.DefaultLogDir, 0755); err != nil {
		return errors.Wrapf(err, errors.KindInternal, "failed to create log directory %s", brand.DefaultLogDir)
	}
	logPath := filepath.Join(brand.DefaultLogDir, brand.LowerName+".log")
	logF, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.KindInternal, "failed to open log file %s", logPath)
	}
	defer logF.Close()

	childArgs := append([]string{"--foreground"}, args...)
	cmd := exec.Command(exe, childArgs...)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, errors.KindInternal, "failed to start daemon process")
	}

	if err := os.MkdirAll(brand.DefaultRunDir, 0755); err == nil {
		pidFile := filepath.Join(brand.DefaultRunDir, brand.LowerName+".pid")
		if err := os.WriteFile(pidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write pid file %s: %v\n", pidFile, err)
		}
	}

	fmt.Printf("%s started (PID: %d), logging to %s\n", brand.Name, cmd.Process.Pid, logPath)
	return nil
}
