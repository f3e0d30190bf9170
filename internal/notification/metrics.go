// internal/notification/metrics.go

package notification

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_emails_total",
			Help: "Email send attempts by transport and outcome",
		},
		[]string{"transport", "outcome"},
	)

	emailLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tadhana_email_send_seconds",
			Help:    "Time spent in a single transport send",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)

	notificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_notifications_dropped_total",
			Help: "Best-effort notifications that no transport delivered",
		},
		[]string{"kind"},
	)
)

func recordSend(transport string, err error, took time.Duration) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	emailsTotal.WithLabelValues(transport, outcome).Inc()
	emailLatency.WithLabelValues(transport).Observe(took.Seconds())
}
