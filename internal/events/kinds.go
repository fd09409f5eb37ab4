// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package events turns rtnetlink link notifications into the daemon's
// closed set of network events.
package events

// Kind identifies a network event type.
type Kind int

const (
	KindUnknown Kind = iota
	LinkCreate
	LinkDelete
	LinkUp
	LinkDown
	NetworkUp
	NetworkDown
)

// kindNames is the exhaustive mapping from event kind to its wire name.
// Out-of-range kinds resolve to the empty string and are treated as a
// no-op by every consumer.
var kindNames = map[Kind]string{
	LinkCreate:  "link-create",
	LinkDelete:  "link-delete",
	LinkUp:      "link-up",
	LinkDown:    "link-down",
	NetworkUp:   "network-up",
	NetworkDown: "network-down",
}

// String returns the event kind's wire name, or "" for unrecognized kinds.
func (k Kind) String() string {
	return kindNames[k]
}

// Known reports whether k is within the recognized event set.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// KindFromName resolves a wire name back to its Kind.
func KindFromName(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// Event is one kernel notification for exactly one interface.
type Event struct {
	Kind      Kind
	Interface string // interface name at the time of the event
	Index     int    // kernel interface index
}
