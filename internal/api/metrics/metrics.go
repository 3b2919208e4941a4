// Package metrics defines and registers all custom Prometheus metrics for the
// Tracklight API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracklight"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDenialsTotal counts denied authorization decisions.
// Label:
//   - reason: the stable reason code (e.g. "NOT_OWNER", "CAPABILITY_MISSING")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of denied authorization decisions, by reason code.",
	},
	[]string{"reason"},
)

// ── Issue metrics ─────────────────────────────────────────────────────────────

// IssuesCreatedTotal counts newly created issues.
// Label:
//   - internal_priority: the normalized priority tier (P1..P5)
var IssuesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_created_total",
		Help:      "Total number of issues created, by internal priority.",
	},
	[]string{"internal_priority"},
)

// HierarchyRejectionsTotal counts subtask attach attempts rejected for
// violating the one-level hierarchy.
var HierarchyRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hierarchy_rejections_total",
		Help:      "Total number of rejected subtask attach attempts.",
	},
)

// SchemaDriftFallbacksTotal counts degraded-payload retries after a storage
// write rejected an unrecognized field.
// Label:
//   - outcome: "recovered" (retry succeeded) or "failed" (second drift error)
var SchemaDriftFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_drift_fallbacks_total",
		Help:      "Total number of degraded write retries after schema drift, by outcome.",
	},
	[]string{"outcome"},
)

// ── Activity trail metrics ────────────────────────────────────────────────────

// ActivityQueueDepth tracks the current number of records waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts audit records that could not be persisted.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity records lost to persistence failures.",
	},
)
