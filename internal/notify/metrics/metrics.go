package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks notification delivery outcomes per template type.
type Metrics struct {
	Delivered *prometheus.CounterVec
	Failed    *prometheus.CounterVec
}

// New creates and registers the notification delivery metrics.
func New() *Metrics {
	return &Metrics{
		Delivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bestbosses_notifications_delivered_total",
			Help: "Total notifications delivered, by type",
		}, []string{"type"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bestbosses_notifications_failed_total",
			Help: "Total notification deliveries that failed, by type",
		}, []string{"type"}),
	}
}

func (m *Metrics) IncDelivered(t string) {
	if m != nil {
		m.Delivered.WithLabelValues(t).Inc()
	}
}

func (m *Metrics) IncFailed(t string) {
	if m != nil {
		m.Failed.WithLabelValues(t).Inc()
	}
}
