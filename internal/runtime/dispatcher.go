package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemaster-ai/codemaster/internal/logging"
	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/session"
)

// Metrics is the instrumentation hook the dispatcher reports into.
// pkg/observability provides the Prometheus implementation.
type Metrics interface {
	ObserveCommand(action string, status domain.Status)
	ObserveTransition(from, to domain.State, event domain.Event)
	ObserveGateRejection(state domain.State, action string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveCommand(string, domain.Status)                       {}
func (nopMetrics) ObserveTransition(domain.State, domain.State, domain.Event) {}
func (nopMetrics) ObserveGateRejection(domain.State, string)                  {}

// handlerFunc performs one action against a session already loaded and locked
// by the dispatcher. Handlers mutate the session in place and must not persist
// it; the dispatcher saves exactly once after a successful handler run. For
// session-independent actions the session argument is nil.
type handlerFunc func(ctx context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error)

// Dispatcher routes decoded commands to their handlers, gated by the workflow
// state machine. It owns the ordering invariant: gate check, handler, state
// transition, persist. A command either fully applies or leaves the session
// untouched.
type Dispatcher struct {
	sessions *session.Manager
	machine  *Machine
	handlers map[string]handlerFunc
	metrics  Metrics
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMetrics sets the instrumentation sink.
func WithMetrics(m Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over the given session manager.
// The handler table is closed: one handler per action, registered here.
func NewDispatcher(sessions *session.Manager, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sessions: sessions,
		machine:  NewMachine(),
		metrics:  nopMetrics{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.machine.logger = d.logger
	d.handlers = map[string]handlerFunc{
		domain.ActionCreateSession:        d.handleCreateSession,
		domain.ActionDeclareCapabilities:  d.handleDeclareCapabilities,
		domain.ActionDefineSuccess:        d.handleDefineSuccess,
		domain.ActionCreateTasklist:       d.handleCreateTasklist,
		domain.ActionMapCapabilities:      d.handleMapCapabilities,
		domain.ActionExecuteNext:          d.handleExecuteNext,
		domain.ActionMarkComplete:         d.handleMarkComplete,
		domain.ActionGetStatus:            d.handleGetStatus,
		domain.ActionCollaborationRequest: d.handleCollaborationRequest,
		domain.ActionEditTask:             d.handleEditTask,
		domain.ActionEndSession:           d.handleEndSession,
	}
	return d
}

// Machine exposes the workflow table for introspection and graph rendering.
func (d *Dispatcher) Machine() *Machine {
	return d.machine
}

// Execute runs one command end to end. It never returns a nil response with a
// nil error: rejections, missing sessions, and validation failures all come
// back as structured responses so the caller always has guidance to relay.
func (d *Dispatcher) Execute(ctx context.Context, cmd *domain.Command) (*domain.Response, error) {
	h, ok := d.handlers[cmd.Action]
	if !ok {
		resp := unknownActionResponse(cmd.Action)
		d.metrics.ObserveCommand(cmd.Action, resp.Status)
		return resp, nil
	}

	var resp *domain.Response
	var err error
	switch cmd.Action {
	case domain.ActionCreateSession, domain.ActionGetStatus:
		// Session-independent: no gate, no lock.
		resp, err = h(ctx, cmd, nil)
	default:
		resp, err = d.executeGated(ctx, h, cmd)
	}
	if err != nil {
		d.metrics.ObserveCommand(cmd.Action, domain.StatusError)
		return nil, err
	}
	d.metrics.ObserveCommand(cmd.Action, resp.Status)
	return resp, nil
}

func (d *Dispatcher) executeGated(ctx context.Context, h handlerFunc, cmd *domain.Command) (*domain.Response, error) {
	peek, err := d.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) || errors.Is(err, domain.ErrSessionNotFound) {
			return noSessionResponse(cmd.Action), nil
		}
		return nil, fmt.Errorf("resolve current session: %w", err)
	}

	var resp *domain.Response
	lockErr := d.sessions.WithLock(ctx, peek.ID, func(ctx context.Context) error {
		// Re-read under the lock; the peek above raced other writers.
		sess, gerr := d.sessions.Store().Get(ctx, peek.ID)
		if gerr != nil {
			return fmt.Errorf("load session %s: %w", peek.ID, gerr)
		}
		resp, gerr = d.dispatch(ctx, h, cmd, sess)
		return gerr
	})
	if lockErr != nil {
		return nil, lockErr
	}
	return resp, nil
}

// dispatch runs the gate-handler-transition-persist sequence for one locked
// session. The event is resolved from the persisted state before the handler
// mutates anything, so context-aware actions see a consistent snapshot.
func (d *Dispatcher) dispatch(ctx context.Context, h handlerFunc, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	event, ok := d.resolveEvent(cmd, sess)
	if !ok {
		return noCurrentTaskResponse(cmd.Action, sess), nil
	}

	prev := sess.WorkflowState
	if event != "" && !d.machine.CanTrigger(prev, event, transitionContext(sess)) {
		d.metrics.ObserveGateRejection(prev, cmd.Action)
		d.logger.Info("workflow gate rejected command",
			"session_id", sess.ID, "action", cmd.Action, "event", event, "state", prev)
		return gateResponse(cmd.Action, sess, event, d.machine.PossibleEvents(prev, transitionContext(sess))), nil
	}

	resp, err := h(ctx, cmd, sess)
	if err != nil {
		return nil, err
	}

	if event != "" && transitions(resp.Status) {
		// Guard inputs are recomputed: the handler may have changed the
		// task counts the transition depends on.
		next, fired := d.machine.Trigger(prev, event, transitionContext(sess))
		if !fired {
			return nil, fmt.Errorf("transition %s from %s accepted by gate but rejected on fire", event, prev)
		}
		sess.WorkflowState = next
		switch {
		case event == domain.EventRequestCollaboration:
			sess.ResumeState = prev
		case event == domain.EventEditTask:
			sess.ResumeState = ""
		}
		d.metrics.ObserveTransition(prev, next, event)
	}

	sess.UpdatedAt = time.Now().UTC()
	if err := d.sessions.Store().Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sess.ID, err)
	}
	resp.SessionID = sess.ID
	resp.CurrentState = sess.WorkflowState
	return resp, nil
}

// transitions reports whether a handler outcome should fire the workflow
// event. Template, guidance, and error outcomes leave the state untouched.
func transitions(s domain.Status) bool {
	switch s {
	case domain.StatusSuccess, domain.StatusPaused, domain.StatusCompleted:
		return true
	}
	return false
}

// resolveEvent maps the command to its workflow event. An empty event means
// the action never touches the machine. The boolean is false only for
// mark_complete with nothing to complete.
func (d *Dispatcher) resolveEvent(cmd *domain.Command, sess *domain.Session) (domain.Event, bool) {
	switch cmd.Action {
	case domain.ActionExecuteNext:
		event, fallback := resolveExecuteNext(sess)
		if fallback {
			d.logger.Warn("execute_next from unexpected state, attempting start_task",
				"session_id", sess.ID, "state", sess.WorkflowState)
		}
		return event, true
	case domain.ActionMarkComplete:
		return resolveMarkComplete(sess)
	default:
		return actionEvents[cmd.Action], true
	}
}

func transitionContext(sess *domain.Session) domain.TransitionContext {
	return domain.TransitionContext{
		SessionID:      sess.ID,
		TaskCount:      len(sess.Tasks),
		CompletedTasks: sess.CompletedCount(),
		ResumeState:    sess.ResumeState,
	}
}
