package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meridian_logins_total",
		Help: "Total number of successful logins",
	})
	policyPublishesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meridian_policy_publishes_total",
		Help: "Total number of policies published",
	})
	acknowledgmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meridian_acknowledgments_total",
		Help: "Total number of policy acknowledgments recorded",
	})
	alertsRaisedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_alerts_raised_total",
		Help: "Total number of alerts raised by scheduled compliance checks",
	}, []string{"severity"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginsTotal, policyPublishesTotal, acknowledgmentsTotal, alertsRaisedTotal)
}

// IncLogin increments the successful login counter.
func IncLogin() { loginsTotal.Inc() }

// IncPolicyPublish increments the published policy counter.
func IncPolicyPublish() { policyPublishesTotal.Inc() }

// IncAcknowledgment increments the acknowledgment counter.
func IncAcknowledgment() { acknowledgmentsTotal.Inc() }

// IncAlertRaised increments the raised alert counter for a severity.
func IncAlertRaised(severity string) { alertsRaisedTotal.WithLabelValues(severity).Inc() }
