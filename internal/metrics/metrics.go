// Package metrics exposes the prometheus collectors shared by the
// coordinator and worker, mounted at /metrics alongside each process's
// existing read-only HTTP API. This is additive instrumentation: it
// does not replace the spec's own /api/colony-info or /colony-stats
// surfaces.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colony_ticks_total",
		Help: "Total number of local kernel ticks run, by shard id.",
	}, []string{"shard"})

	TickLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colony_tick_latency_seconds",
		Help:    "Per-tick latency, by phase (core or full).",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	HaloDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colony_halo_deliveries_total",
		Help: "Total number of border exports delivered, by destination kind (local or remote).",
	}, []string{"destination"})

	EventsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colony_events_dispatched_total",
		Help: "Total number of colony events dispatched, by frequency class.",
	}, []string{"kind"})

	HostedShards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "colony_hosted_shards",
		Help: "Number of shards currently hosted by this worker.",
	})
)
