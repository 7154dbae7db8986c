// Package metrics defines and registers the custom Prometheus metrics for
// the periodic table API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "periodic_table"

// ── Auth metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful account registrations.
// Label:
//   - role: "admin" or "student"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// TokenRejectionsTotal counts requests turned away by the access guard.
// Label:
//   - reason: "missing", "expired", "bad_signature" or "malformed"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the access guard, by reason.",
	},
	[]string{"reason"},
)

// ── Element metrics ──────────────────────────────────────────────────────────

// ElementMutationsTotal counts successful element mutations.
// Label:
//   - op: "create", "update" or "delete"
var ElementMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "element_mutations_total",
		Help:      "Total number of element mutations, by operation.",
	},
	[]string{"op"},
)
