package metrics

import (
	"time"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

var _ enigma.Observer = (*Registry)(nil)

// ObserveStep records one stepping cycle. Pass the registry to
// enigma.WithObserver to instrument a machine.
func (r *Registry) ObserveStep(ev enigma.StepEvent) {
	r.KeystrokesTotal.Inc()
	r.RotorStepsTotal.WithLabelValues("right").Inc()
	if ev.MiddleStepped {
		r.RotorStepsTotal.WithLabelValues("middle").Inc()
	}
	if ev.LeftStepped {
		r.RotorStepsTotal.WithLabelValues("left").Inc()
	}
	if ev.DoubleStep {
		r.DoubleStepsTotal.Inc()
	}
}

// RecordMachineConfigured counts a construction attempt
func (r *Registry) RecordMachineConfigured(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.MachinesConfiguredTotal.WithLabelValues(status).Inc()
}

// RecordProcess records one enciphered input
func (r *Registry) RecordProcess(source string, letters, passthrough int, duration time.Duration) {
	r.CharactersTotal.WithLabelValues("letter").Add(float64(letters))
	r.CharactersTotal.WithLabelValues("passthrough").Add(float64(passthrough))
	r.ProcessDuration.WithLabelValues(source).Observe(duration.Seconds())
}
