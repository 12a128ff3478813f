// Package metrics defines the Prometheus collectors exported by notificator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch run outcomes used as the "outcome" label of DispatchRuns.
const (
	OutcomeDelivered = "delivered"
	OutcomeUnsent    = "unsent"
	OutcomeError     = "error"
)

var (
	EmailsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notificator_emails_generated_total",
		Help: "Total number of notification emails rendered from content",
	})
	EmailsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notificator_emails_delivered_total",
		Help: "Total number of notification emails handed to the provider successfully",
	}, []string{"provider"})
	EmailsUnsent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notificator_emails_unsent_total",
		Help: "Total number of notification emails recorded as not sent",
	}, []string{"provider"})
	FailureNotices = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notificator_failure_notices_total",
		Help: "Total number of administrator failure notices, by delivery status",
	}, []string{"status"})
	DispatchRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notificator_dispatch_runs_total",
		Help: "Total number of dispatch runs, by outcome",
	}, []string{"trigger", "outcome"})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notificator_events_dropped_total",
		Help: "Total number of dispatch events dropped by the event bus",
	}, []string{"event"})
	PendingNotifications = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notificator_pending_notifications",
		Help: "Number of notification contents waiting for the next dispatch run",
	})
)

func init() {
	prometheus.MustRegister(EmailsGenerated)
	prometheus.MustRegister(EmailsDelivered)
	prometheus.MustRegister(EmailsUnsent)
	prometheus.MustRegister(FailureNotices)
	prometheus.MustRegister(DispatchRuns)
	prometheus.MustRegister(EventsDropped)
	prometheus.MustRegister(PendingNotifications)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
