package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initProcessMetrics() {
	r.MachinesConfiguredTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_machines_configured_total",
			Help: "Total number of machine constructions by result",
		},
		[]string{"status"},
	)

	r.CharactersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_characters_total",
			Help: "Total number of processed characters by kind (letter or passthrough)",
		},
		[]string{"kind"},
	)

	r.ProcessDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enigma_process_duration_seconds",
			Help:    "Time spent enciphering one input",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"source"},
	)
}
