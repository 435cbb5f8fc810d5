// Package metrics holds Prometheus instruments that are used across the
// site backend.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Cumulative number of stored submissions, by kind.",
		}, []string{"kind"})

	SubmissionErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_errors_total",
			Help: "Cumulative number of failed submission writes.",
		})

	MirrorFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mirror_failures_total",
			Help: "Cumulative number of failed mirror POSTs (best-effort).",
		})

	MailFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mail_failures_total",
			Help: "Cumulative number of failed thank-you emails (best-effort).",
		})

	GateDenialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gate_denials_total",
			Help: "Cumulative number of admin requests denied by the access gate.",
		})

	SubmissionsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_deleted_total",
			Help: "Cumulative number of submissions removed by an operator, by kind.",
		}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionErrorsTotal,
		MirrorFailuresTotal,
		MailFailuresTotal,
		GateDenialsTotal,
		SubmissionsDeleted,
	)
}
