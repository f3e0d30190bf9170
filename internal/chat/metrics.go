// internal/chat/metrics.go

package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tadhana_chat_messages_total",
			Help: "Chat messages accepted",
		},
	)

	messagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_chat_rejections_total",
			Help: "Chat messages rejected by reason",
		},
		[]string{"reason"},
	)
)

func RecordSent() {
	messagesSent.Inc()
}

func RecordRejected(reason string) {
	messagesRejected.WithLabelValues(reason).Inc()
}
