package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks lifecycle outcomes for the moderation dashboard alerts.
type Metrics struct {
	Submitted prometheus.Counter
	Approved  prometheus.Counter
	Rejected  prometheus.Counter
}

// New creates and registers the nomination lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		Submitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bestbosses_nominations_submitted_total",
			Help: "Total nominations submitted",
		}),
		Approved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bestbosses_nominations_approved_total",
			Help: "Total nominations approved by a moderator",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bestbosses_nominations_rejected_total",
			Help: "Total nominations rejected by a moderator",
		}),
	}
}

func (m *Metrics) IncSubmitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) IncApproved() {
	if m != nil {
		m.Approved.Inc()
	}
}

func (m *Metrics) IncRejected() {
	if m != nil {
		m.Rejected.Inc()
	}
}
