package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRotorMetrics() {
	r.KeystrokesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "enigma_keystrokes_total",
			Help: "Total number of stepping cycles across all observed machines",
		},
	)

	r.RotorStepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_rotor_steps_total",
			Help: "Total number of rotor advances by slot",
		},
		[]string{"slot"},
	)

	r.DoubleStepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "enigma_double_steps_total",
			Help: "Total number of keystrokes on which the middle rotor stepped off its own notch",
		},
	)
}
