// Package metrics defines and registers all custom Prometheus metrics for the
// APRODMAYO management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All collectors are built with promauto, so importing the package is enough
// to register them with the default Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aprodmayo"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: short description of the rejection (e.g. "invalid_credentials", "user_inactive", "token_revoked")
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Finance metrics ───────────────────────────────────────────────────────────

// LedgerEntriesTotal counts ledger entries recorded through the API.
// Label:
//   - kind: "income" or "expense"
var LedgerEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_entries_total",
		Help:      "Total number of ledger entries recorded, by kind.",
	},
	[]string{"kind"},
)

// DuesPaymentsTotal counts member dues payments registered through the API.
var DuesPaymentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dues_payments_total",
		Help:      "Total number of member dues payments registered.",
	},
)

// ── Workshop metrics ──────────────────────────────────────────────────────────

// EnrollmentsTotal counts enrollment attempts.
// Label:
//   - result: "enrolled" on success, or the rejection reason ("full", "closed", "duplicate")
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workshop_enrollments_total",
		Help:      "Total number of workshop enrollment attempts, by result.",
	},
	[]string{"result"},
)

// CertificatesIssuedTotal counts completion certificates issued.
var CertificatesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_issued_total",
		Help:      "Total number of workshop completion certificates issued.",
	},
)

// WorkshopsAdvancedTotal counts workshops moved forward by the background
// status refresh (scheduled → in_progress, in_progress → completed).
var WorkshopsAdvancedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workshops_advanced_total",
		Help:      "Total number of workshop status transitions applied by the background refresh.",
	},
)

// StatusRefreshLastRun records when the background status refresh last
// completed successfully, as a Unix timestamp.
var StatusRefreshLastRun = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workshop_status_refresh_last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last successful workshop status refresh.",
	},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsGeneratedTotal counts report generations.
// Label:
//   - report: "financial", "beneficiaries", "workshops", or "dashboard"
var ReportsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Total number of reports generated, by report type.",
	},
	[]string{"report"},
)

// ReportDuration measures how long a single report takes to assemble.
// Label:
//   - report: "financial", "beneficiaries", "workshops", or "dashboard"
var ReportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_generation_duration_seconds",
		Help:      "Duration of report assembly, from request to response payload.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"report"},
)
