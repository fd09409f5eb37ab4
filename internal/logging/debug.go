// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"grimm.is/ifpolicyd/internal/errors"
)

// Debug facilities gate per-subsystem debug output. Facility names match
// the component names used by WithComponent.
var facilities = map[string]string{
	"ctl":     "control socket, connection gating and request handling",
	"events":  "kernel link events and the reaction pipeline",
	"policy":  "policy matching and transformations",
	"netinfo": "interface state snapshots and engine calls",
	"all":     "every facility",
}

var (
	debugMu      sync.RWMutex
	debugEnabled = map[string]bool{}
)

// EnableDebug turns on debug output for one facility (or "all").
// A comma-separated list is accepted.
func EnableDebug(names string) error {
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if _, ok := facilities[name]; !ok {
			return errors.Errorf(errors.KindValidation, "unknown debug facility %q", name)
		}
		debugMu.Lock()
		debugEnabled[name] = true
		debugMu.Unlock()
	}
	return nil
}

// Debugging reports whether debug output is enabled for the facility.
func Debugging(facility string) bool {
	debugMu.RLock()
	defer debugMu.RUnlock()
	return debugEnabled["all"] || debugEnabled[facility]
}

// DebugHelp writes the list of supported debug facilities to w.
func DebugHelp(w io.Writer) {
	names := make([]string, 0, len(facilities))
	for name := range facilities {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Supported debug facilities:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, facilities[name])
	}
}
