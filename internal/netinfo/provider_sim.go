// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netinfo

import (
	"sort"
	"strconv"
	"sync"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/ifdoc"
)

// SimInterface is one simulated interface.
type SimInterface struct {
	Name      string
	Index     int
	Type      string
	Up        bool
	MTU       int
	MAC       string
	Addresses []string // CIDR notation
	Attrs     map[string]string
}

// IssuedAction records one IssueControlAction call for assertions.
type IssuedAction struct {
	Action       string
	ResourcePath string
	Doc          *ifdoc.Node
}

// SimEngine is an in-memory Engine for tests and the simulator. It mirrors
// the live engine's document shape without touching the kernel.
type SimEngine struct {
	mu         sync.Mutex
	interfaces map[string]*SimInterface
	actions    []IssuedAction

	// FailDocuments makes InterfaceDocument fail for every interface,
	// simulating serialization failure.
	FailDocuments bool
}

// NewSimEngine creates an empty simulated engine.
func NewSimEngine() *SimEngine {
	return &SimEngine{interfaces: map[string]*SimInterface{}}
}

// AddInterface registers or replaces a simulated interface.
func (e *SimEngine) AddInterface(iface *SimInterface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if iface.MTU == 0 {
		iface.MTU = 1500
	}
	if iface.Type == "" {
		iface.Type = "ethernet"
	}
	e.interfaces[iface.Name] = iface
}

// RemoveInterface deletes a simulated interface.
func (e *SimEngine) RemoveInterface(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.interfaces, name)
}

// Interfaces lists simulated interface names in stable order.
func (e *SimEngine) Interfaces() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.interfaces))
	for name := range e.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// InterfaceDocument builds the snapshot document for one interface.
func (e *SimEngine) InterfaceDocument(name string) (*ifdoc.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.FailDocuments {
		return nil, errors.Errorf(errors.KindUnavailable, "interface %s cannot be serialized", name)
	}
	iface, ok := e.interfaces[name]
	if !ok {
		return nil, errors.Errorf(errors.KindNotFound, "interface %s", name)
	}

	doc := ifdoc.New("interface")
	doc.SetAttr("name", iface.Name)
	doc.SetAttr("type", iface.Type)
	// Sorted for structural idempotence of repeated snapshots.
	extra := make([]string, 0, len(iface.Attrs))
	for k := range iface.Attrs {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		doc.SetAttr(k, iface.Attrs[k])
	}

	status := doc.NewChild("status")
	if iface.Up {
		status.Text = "up"
	} else {
		status.Text = "down"
	}

	ln := doc.NewChild("link")
	ln.SetAttr("mtu", strconv.Itoa(iface.MTU))
	if iface.MAC != "" {
		ln.SetAttr("mac", iface.MAC)
	}

	if len(iface.Addresses) > 0 {
		addrs := doc.NewChild("addresses")
		for _, a := range iface.Addresses {
			addrs.NewChild("address").Text = a
		}
	}
	return doc, nil
}

// IssueControlAction records the dispatch.
func (e *SimEngine) IssueControlAction(action, resourcePath string, doc *ifdoc.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions = append(e.actions, IssuedAction{Action: action, ResourcePath: resourcePath, Doc: doc})
	return nil
}

// Actions returns the control actions issued so far.
func (e *SimEngine) Actions() []IssuedAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]IssuedAction(nil), e.actions...)
}

var _ Engine = (*SimEngine)(nil)
