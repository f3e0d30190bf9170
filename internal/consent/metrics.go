// internal/consent/metrics.go

package consent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consentUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_consent_updates_total",
			Help: "Consent flags written by field and value",
		},
		[]string{"field", "value"},
	)

	unlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_consent_unlocks_total",
			Help: "Matches where both participants agreed, by field",
		},
		[]string{"field"},
	)
)

func RecordUpdate(field Field, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	consentUpdates.WithLabelValues(string(field), v).Inc()
}

func RecordUnlock(field Field) {
	unlocksTotal.WithLabelValues(string(field)).Inc()
}
