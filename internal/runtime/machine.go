package runtime

import (
	"log/slog"

	"github.com/codemaster-ai/codemaster/internal/logging"
	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// transitionKey identifies one row of the workflow table.
type transitionKey struct {
	from  domain.State
	event domain.Event
}

// Machine is the workflow state machine: the single source of truth for what
// is allowed at any moment. It holds no state of its own; callers pass the
// from-state into every query, so one Machine safely serves concurrent
// sessions. The persisted session is the durable source of truth.
type Machine struct {
	order  []domain.Transition
	table  map[transitionKey]domain.Transition
	logger *slog.Logger
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMachineLogger sets the logger used for transition tracing.
func WithMachineLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a machine loaded with the default workflow table.
func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{
		table:  make(map[transitionKey]domain.Transition),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, t := range defaultTransitions() {
		m.add(t)
	}
	return m
}

func (m *Machine) add(t domain.Transition) {
	k := transitionKey{from: t.From, event: t.Event}
	if _, exists := m.table[k]; !exists {
		m.order = append(m.order, t)
	}
	m.table[k] = t
}

// Trigger attempts the transition for event from the given state. It returns
// the resulting state and true iff a transition exists whose guard (if any)
// accepts the context; otherwise it returns the from-state unchanged and
// false. The evaluation is atomic: no partial effects on rejection.
func (m *Machine) Trigger(from domain.State, event domain.Event, ctx domain.TransitionContext) (domain.State, bool) {
	t, ok := m.table[transitionKey{from: from, event: event}]
	if !ok {
		m.logger.Debug("no transition", "state", from, "event", event)
		return from, false
	}
	if t.Guard != nil && !t.Guard(ctx) {
		m.logger.Debug("guard rejected transition", "state", from, "event", event)
		return from, false
	}

	next := t.Target(ctx)
	m.logger.Info("state transition", "from", from, "to", next, "event", event)
	return next, true
}

// CanTrigger reports whether the event would be accepted from the given state.
func (m *Machine) CanTrigger(from domain.State, event domain.Event, ctx domain.TransitionContext) bool {
	t, ok := m.table[transitionKey{from: from, event: event}]
	if !ok {
		return false
	}
	return t.Guard == nil || t.Guard(ctx)
}

// PossibleTransitions returns the transitions leaving the given state whose
// guards accept the context, in table order. Used to build "what can I do
// now" guidance on rejection.
func (m *Machine) PossibleTransitions(state domain.State, ctx domain.TransitionContext) []domain.Transition {
	var out []domain.Transition
	for _, t := range m.order {
		if t.From != state {
			continue
		}
		if t.Guard != nil && !t.Guard(ctx) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PossibleEvents returns the event names accepted from the given state.
func (m *Machine) PossibleEvents(state domain.State, ctx domain.TransitionContext) []string {
	transitions := m.PossibleTransitions(state, ctx)
	seen := make(map[domain.Event]bool, len(transitions))
	events := make([]string, 0, len(transitions))
	for _, t := range transitions {
		if seen[t.Event] {
			continue
		}
		seen[t.Event] = true
		events = append(events, string(t.Event))
	}
	return events
}

// Transitions returns the full table in insertion order, for introspection
// and graph rendering.
func (m *Machine) Transitions() []domain.Transition {
	out := make([]domain.Transition, len(m.order))
	copy(out, m.order)
	return out
}
