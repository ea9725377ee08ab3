// Package monitoring exposes Prometheus metrics for the reservation
// core.  Collectors are registered on the default registry via
// promauto and served at /metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_reservation_operations_total",
			Help: "Total reservation operations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	activeReservations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_reservations_active",
			Help: "Current number of active seat reservations",
		},
	)
)

// ObserveOp counts one reservation operation.  Operation is one of
// "reserve", "cancel", "my_reservation"; status is "success" or an
// error category such as "seat_taken".
func ObserveOp(operation, status string) {
	reservationOps.WithLabelValues(operation, status).Inc()
}

// SetActiveReservations records the current size of the store.
func SetActiveReservations(n int) {
	activeReservations.Set(float64(n))
}
