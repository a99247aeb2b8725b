package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberm",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	appointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberm",
			Name:      "appointments_created_total",
			Help:      "Appointments accepted by the engine.",
		},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberm",
			Name:      "status_transitions_total",
			Help:      "Lifecycle transitions by from/to status.",
		},
		[]string{"from", "to"},
	)

	appointmentsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "barberm",
			Name:      "appointments_by_status",
			Help:      "Current appointment counts per status.",
		},
		[]string{"status"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberm",
			Name:      "slot_queries_total",
			Help:      "Slot generation requests served.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			appointmentsCreated,
			statusTransitions,
			appointmentsByStatus,
			slotQueries,
		)
	})
}

// IncHTTP increments the request counter for an endpoint/code pair.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// IncCreated counts a newly accepted appointment.
func IncCreated() {
	appointmentsCreated.Inc()
}

// IncTransition counts a lifecycle transition.
func IncTransition(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

// SetStatusCount publishes the per-status gauge from the latest snapshot.
func SetStatusCount(status string, n int) {
	appointmentsByStatus.WithLabelValues(status).Set(float64(n))
}

// IncSlotQuery counts one slot generation call.
func IncSlotQuery() {
	slotQueries.Inc()
}
