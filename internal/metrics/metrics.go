// Package metrics registers the Prometheus collectors for both services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SiblingRequestsTotal counts calls across the sibling-service
	// boundary. target is "song" or "profile"; outcome is "ok",
	// "not_found", or "unavailable".
	SiblingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chorus_sibling_requests_total",
		Help: "Calls to the sibling service by target and outcome.",
	}, []string{"target", "outcome"})

	// FanoutDuration observes the wall time of a full friend-favourites
	// aggregation, successful or not.
	FanoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chorus_friend_fanout_duration_seconds",
		Help:    "Time to resolve a friend-favourites aggregation.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	// PartialFailuresTotal counts dual-store operations that succeeded on
	// one store and failed on the other, by operation name. A nonzero rate
	// means the stores are drifting and an operator should reconcile.
	PartialFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chorus_partial_failures_total",
		Help: "Dual-store operations left in a partially applied state.",
	}, []string{"operation"})
)
