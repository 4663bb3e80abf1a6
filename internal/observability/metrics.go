// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package observability

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels shared by the counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Latchkey counters.
type Metrics struct {
	AuthOperations *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "latchkey_auth_operations_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "latchkey_notifications_total",
				Help: "Total number of notices handed to a transport by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}

	reg.MustRegister(m.AuthOperations, m.Notifications)
	return m
}

// ObserveOperation counts one auth operation. outcome is usually
// OutcomeSuccess or an error kind.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveNotification counts one notice delivery attempt.
func (m *Metrics) ObserveNotification(kind, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, outcome).Inc()
}
