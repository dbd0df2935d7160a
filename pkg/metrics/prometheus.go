package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	TicksAdvanced       prometheus.Counter
	DaysAdvanced        prometheus.Counter
	BookingsCreated     prometheus.Counter
	TicketsReturned     prometheus.Counter
	FlightsRetired      prometheus.Counter
	MaintenanceSessions prometheus.Counter
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TicksAdvanced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_advanced_total",
			Help:      "The total number of time-advance ticks processed",
		}),
		DaysAdvanced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_advanced_total",
			Help:      "The total number of simulated days elapsed",
		}),
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		TicketsReturned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_returned_total",
			Help:      "The total number of tickets returned before departure",
		}),
		FlightsRetired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_retired_total",
			Help:      "The total number of flights moved to the past collection",
		}),
		MaintenanceSessions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_sessions_total",
			Help:      "The total number of completed maintenance assignments",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
