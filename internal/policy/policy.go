// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package policy implements the daemon's declarative event policies:
// ordered rules pairing a match predicate over event documents with a named
// action and a list of document transformations.
package policy

import (
	"os"

	"github.com/gobwas/glob"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/events"
)

// Transform rewrites one element of an event document.
type Transform struct {
	// Element is a slash path relative to the event root, e.g.
	// "interface/status".
	Element string `hcl:"element"`

	// Attr names an attribute on the element to set. When empty, the
	// element's text content is set instead.
	Attr string `hcl:"attr,optional"`

	Value string `hcl:"value"`

	// Create makes missing path elements on the way to Element.
	Create bool `hcl:"create,optional"`
}

// MatchSpec is the optional match predicate of a policy. All present
// fields must match; an absent block matches every interface.
type MatchSpec struct {
	// Interface is a glob over the interface name ("eth*", "wlan?").
	Interface string `hcl:"interface,optional"`

	// Attrs are attribute equality checks against the interface element.
	Attrs map[string]string `hcl:"attrs,optional"`
}

// Policy is one ordered rule. Policies are matched in file order; the
// first match wins.
type Policy struct {
	Name   string      `hcl:"name,label"`
	Event  string      `hcl:"event"`
	Match  *MatchSpec  `hcl:"match,block"`
	Action string      `hcl:"action"`
	Sets   []Transform `hcl:"set,block"`

	kind      events.Kind
	ifaceGlob glob.Glob
}

// Kind returns the compiled event kind this policy reacts to.
func (p *Policy) Kind() events.Kind {
	return p.kind
}

type policyFile struct {
	Policies []*Policy `hcl:"policy,block"`
}

// Set is an immutable ordered policy collection. Order is the file order
// and is part of the matching contract.
type Set struct {
	policies []*Policy
}

// NewSet compiles policies into a Set, preserving order.
func NewSet(policies []*Policy) (*Set, error) {
	for _, p := range policies {
		if err := p.compile(); err != nil {
			return nil, err
		}
	}
	return &Set{policies: policies}, nil
}

// Policies returns the ordered policies.
func (s *Set) Policies() []*Policy {
	if s == nil {
		return nil
	}
	return s.policies
}

// Len returns the number of policies in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.policies)
}

// Load reads and compiles the HCL policy file at path. A missing file
// yields an empty set: running without policies is a valid configuration.
func Load(path string) (*Set, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Set{}, nil
	}

	var f policyFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to decode policy file")
	}
	return NewSet(f.Policies)
}

func (p *Policy) compile() error {
	if p.Name == "" {
		return errors.New(errors.KindValidation, "policy without a name")
	}
	p.kind = events.KindFromName(p.Event)
	if !p.kind.Known() {
		return errors.Errorf(errors.KindValidation, "policy %q: unknown event %q", p.Name, p.Event)
	}
	if p.Action == "" {
		return errors.Errorf(errors.KindValidation, "policy %q: action is required", p.Name)
	}
	for i, t := range p.Sets {
		if t.Element == "" {
			return errors.Errorf(errors.KindValidation, "policy %q: set block %d has no element", p.Name, i)
		}
	}
	if p.Match != nil && p.Match.Interface != "" {
		g, err := glob.Compile(p.Match.Interface)
		if err != nil {
			return errors.Wrapf(err, errors.KindValidation, "policy %q: bad interface pattern %q", p.Name, p.Match.Interface)
		}
		p.ifaceGlob = g
	}
	return nil
}
