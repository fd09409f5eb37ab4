// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ctlplane

import (
	"grimm.is/ifpolicyd/internal/events"
	"grimm.is/ifpolicyd/internal/ifdoc"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
	"grimm.is/ifpolicyd/internal/netinfo"
	"grimm.is/ifpolicyd/internal/policy"
)

// Reactor handles kernel link events end to end: encode the event into a
// document, match it against the current policy set, apply the matched
// policy's transformations, and hand the result to the engine's control
// action hook.
//
// The whole sequence runs on the dispatcher without any lock against
// request workers that may be reconfiguring the same interface. Snapshots
// are per-call copies, so the race is confined to kernel state.
type Reactor struct {
	engine   netinfo.Engine
	policies *policy.Store
	logger   *logging.Logger
}

// NewReactor creates a Reactor over the engine and policy store.
func NewReactor(engine netinfo.Engine, policies *policy.Store, logger *logging.Logger) *Reactor {
	if logger == nil {
		logger = logging.WithComponent("events")
	}
	return &Reactor{engine: engine, policies: policies, logger: logger}
}

// OnEvent reacts to one kernel event. Every failure is contained here:
// nothing propagates to the dispatcher.
func (r *Reactor) OnEvent(ev events.Event) {
	if !ev.Kind.Known() {
		metrics.EventsIgnored.Inc()
		r.logger.Debug("ignoring unrecognized event kind", "kind", int(ev.Kind), "interface", ev.Interface)
		return
	}

	r.logger.Debug("interface event", "interface", ev.Interface, "event", ev.Kind.String())

	doc := r.Encode(ev)
	if doc == nil {
		return
	}

	matched := policy.Match(r.policies.Current(), doc)
	if matched == nil {
		// No match is a normal, silent outcome.
		return
	}

	metrics.PolicyMatches.WithLabelValues(matched.Name).Inc()
	r.logger.Debug("matched a policy", "policy", matched.Name, "action", matched.Action)

	if err := policy.Apply(matched, doc); err != nil {
		metrics.PolicyApplyFailures.Inc()
		r.logger.Error("policy transformation failed, action suppressed",
			"policy", matched.Name, "interface", ev.Interface, "error", err)
		return
	}

	resource := netinfo.ResourcePath(ev.Interface)
	if err := r.engine.IssueControlAction(matched.Action, resource, doc.Child("interface")); err != nil {
		r.logger.Error("control action failed",
			"policy", matched.Name, "resource", resource, "error", err)
	}
}

// Encode builds the event document: a root node tagged with the event kind
// wrapping a snapshot of the affected interface. Returns nil when the
// interface representation cannot be produced; the event is discarded.
func (r *Reactor) Encode(ev events.Event) *ifdoc.Node {
	root := ifdoc.New("event")
	root.SetAttr("type", ev.Kind.String())

	iface, err := r.engine.InterfaceDocument(ev.Interface)
	if err != nil {
		metrics.EventsIgnored.Inc()
		r.logger.Debug("no interface representation, discarding event",
			"interface", ev.Interface, "event", ev.Kind.String(), "error", err)
		return nil
	}

	root.ReplaceChild(iface)
	return root
}
