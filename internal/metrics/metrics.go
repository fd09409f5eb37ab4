// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exposes the daemon's Prometheus counters. Exposition is
// optional and controlled by the metrics_listen config setting.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/ifpolicyd/internal/logging"
)

var (
	ConnectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_connections_accepted_total",
		Help: "Control connections accepted after credential checks.",
	})
	ConnectionsDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_connections_denied_total",
		Help: "Control connections refused by the credential gate.",
	})
	WorkerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_worker_failures_total",
		Help: "Isolated request workers that crashed or failed to spawn.",
	})
	RequestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifpolicyd_requests_served_total",
		Help: "Request/response exchanges completed, by result code.",
	}, []string{"code"})

	EventsSeen = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifpolicyd_events_total",
		Help: "Kernel link events observed, by kind.",
	}, []string{"kind"})
	EventsIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_events_ignored_total",
		Help: "Events discarded before policy evaluation.",
	})
	PolicyMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifpolicyd_policy_matches_total",
		Help: "Events matched to a policy, by policy name.",
	}, []string{"policy"})
	PolicyApplyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_policy_apply_failures_total",
		Help: "Policy transformations that failed and were suppressed.",
	})
	ActionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ifpolicyd_actions_issued_total",
		Help: "Control actions handed to the configuration engine.",
	})
)

// Serve exposes /metrics on addr in a background goroutine. Exposition
// failures are logged, never fatal; metrics are an auxiliary surface.
func Serve(addr string, logger *logging.Logger) {
	if logger == nil {
		logger = logging.WithComponent("metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("metrics exposition listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics listener failed", "addr", addr, "error", err)
		}
	}()
}
