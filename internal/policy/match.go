// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package policy

import (
	"grimm.is/ifpolicyd/internal/ifdoc"
)

// Match returns the first policy in set order whose predicate is satisfied
// by the event document, or nil when none matches. No match is a normal,
// silent outcome.
func Match(set *Set, doc *ifdoc.Node) *Policy {
	for _, p := range set.Policies() {
		if p.Matches(doc) {
			return p
		}
	}
	return nil
}

// Matches evaluates this policy's predicate against an event document.
// The document root carries the event kind in its "type" attribute and
// nests the interface representation.
func (p *Policy) Matches(doc *ifdoc.Node) bool {
	if doc == nil {
		return false
	}
	evType, ok := doc.Attr("type")
	if !ok || evType != p.Event {
		return false
	}
	if p.Match == nil {
		return true
	}

	iface := doc.Child("interface")
	if iface == nil {
		// Predicate constrains the interface but the document has none.
		return false
	}

	if p.ifaceGlob != nil {
		name, _ := iface.Attr("name")
		if !p.ifaceGlob.Match(name) {
			return false
		}
	}

	for key, want := range p.Match.Attrs {
		got, ok := iface.Attr(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}
