/*
Package observability provides Prometheus instrumentation for the workflow
engine: command outcomes, state transitions, and gate rejections.
*/
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// Recorder implements the dispatcher's metrics hook on Prometheus counters.
type Recorder struct {
	commands    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codemaster_commands_total",
				Help: "Commands executed, by action and outcome status",
			},
			[]string{"action", "status"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codemaster_workflow_transitions_total",
				Help: "Accepted workflow transitions, by edge",
			},
			[]string{"from", "to", "event"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codemaster_gate_rejections_total",
				Help: "Commands rejected by the workflow gate, by state and action",
			},
			[]string{"state", "action"},
		),
	}
	reg.MustRegister(r.commands, r.transitions, r.rejections)
	return r
}

func (r *Recorder) ObserveCommand(action string, status domain.Status) {
	r.commands.WithLabelValues(action, string(status)).Inc()
}

func (r *Recorder) ObserveTransition(from, to domain.State, event domain.Event) {
	r.transitions.WithLabelValues(string(from), string(to), string(event)).Inc()
}

func (r *Recorder) ObserveGateRejection(state domain.State, action string) {
	r.rejections.WithLabelValues(string(state), string(action)).Inc()
}
