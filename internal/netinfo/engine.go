// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package netinfo is the daemon's view of live network-interface state: the
// configuration engine the control plane executes requests against and the
// event path reads snapshots from.
package netinfo

import (
	"fmt"

	"grimm.is/ifpolicyd/internal/ifdoc"
)

// Result codes for request execution. The numbering follows HTTP for
// familiarity; the wire protocol is the daemon's own.
const (
	CodeOK               = 200
	CodeBadRequest       = 400
	CodeNotFound         = 404
	CodeMethodNotAllowed = 405
	CodeError            = 500
)

// Engine is the configuration-engine collaborator. The live implementation
// reads kernel state; the sim implementation backs tests.
type Engine interface {
	// Interfaces lists the names of all known interfaces.
	Interfaces() ([]string, error)

	// InterfaceDocument builds a structured snapshot of one interface.
	// Returns an error when the interface vanished or cannot be
	// serialized; callers discard the triggering event in that case.
	InterfaceDocument(name string) (*ifdoc.Node, error)

	// IssueControlAction dispatches a policy action against a resource
	// path. The action grammar is owned by this collaborator; the
	// built-in engines only record or log the call.
	IssueControlAction(action, resourcePath string, doc *ifdoc.Node) error
}

// ResourcePath derives the control resource path for an interface,
// mirroring the request routing in rest.go.
func ResourcePath(name string) string {
	return fmt.Sprintf("/system/interface/%s", name)
}
