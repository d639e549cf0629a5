// Package metrics defines and registers all custom Prometheus metrics for the
// friends API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at init
// time via promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "friends"

// ── Friend-request metrics ────────────────────────────────────────────────────

// RequestsSentTotal counts friend requests successfully created.
var RequestsSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_sent_total",
		Help:      "Total number of friend requests created.",
	},
)

// RequestsRejectedTotal counts sends refused by a business rule.
// Label:
//   - reason: "self", "duplicate", "rate_limited", "receiver_not_found",
//     or "error" for unexpected failures
var RequestsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_rejected_total",
		Help:      "Total number of friend request sends refused, by reason.",
	},
	[]string{"reason"},
)

// ResponsesTotal counts accept/reject responses applied to requests.
// Label:
//   - action: "accept" or "reject"
var ResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "responses_total",
		Help:      "Total number of friend request responses applied, by action.",
	},
	[]string{"action"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// SearchesTotal counts user directory searches.
// Label:
//   - result: "hit" (at least one match) or "miss" (zero matches)
var SearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of user searches, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationQueueDepth tracks the number of notifications waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
