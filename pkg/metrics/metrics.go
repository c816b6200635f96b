// Package metrics exposes Prometheus counters for the booking engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Custom registry to avoid the default Go runtime collectors.
var registry = prometheus.NewRegistry()

var (
	BookingsCreated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "spoc_booking",
		Name:      "bookings_created_total",
		Help:      "Bookings created successfully.",
	})

	BookingsCancelled = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "spoc_booking",
		Name:      "bookings_cancelled_total",
		Help:      "Bookings cancelled.",
	})

	ClaimConflicts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "spoc_booking",
		Name:      "slot_claim_conflicts_total",
		Help:      "Booking attempts rejected because the slot was missing or already booked.",
	})

	ClaimRollbacks = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "spoc_booking",
		Name:      "slot_claim_rollbacks_total",
		Help:      "Claimed slots released again after a failed validation.",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
