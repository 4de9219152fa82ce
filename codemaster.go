package codemaster

import (
	"context"
	"log/slog"

	"github.com/codemaster-ai/codemaster/internal/logging"
	"github.com/codemaster-ai/codemaster/internal/runtime"
	"github.com/codemaster-ai/codemaster/pkg/adapters/memory"
	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/ports"
	"github.com/codemaster-ai/codemaster/pkg/schema"
	"github.com/codemaster-ai/codemaster/pkg/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Engine is the high-level entry point for the codemaster library.
// It wraps the internal dispatcher and provides a simplified API for
// consumers: transports hand it raw payloads or decoded commands and relay
// the structured response.
type Engine struct {
	dispatcher *runtime.Dispatcher
	sessions   *session.Manager
	store      ports.SessionStore
	locker     ports.DistributedLocker
	metrics    runtime.Metrics
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a session store, bypassing the default in-memory one.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking for multi-process deployments
// sharing one store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the instrumentation sink (see pkg/observability).
func WithMetrics(m runtime.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New initializes a new codemaster Engine. With no options it runs fully
// in memory, which is what the stdio MCP transport wants: one process, one
// agent, sessions that live as long as the conversation.
func New(opts ...Option) *Engine {
	eng := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	dispatcherOpts := []runtime.DispatcherOption{runtime.WithLogger(eng.logger)}
	if eng.metrics != nil {
		dispatcherOpts = append(dispatcherOpts, runtime.WithMetrics(eng.metrics))
	}
	eng.dispatcher = runtime.NewDispatcher(eng.sessions, dispatcherOpts...)
	return eng
}

// Execute runs one decoded command through the workflow.
func (e *Engine) Execute(ctx context.Context, cmd *domain.Command) (*domain.Response, error) {
	return e.dispatcher.Execute(ctx, cmd)
}

// ExecuteRaw decodes a loosely-typed wire payload and runs it. Decode
// failures come back as a guidance response, not an error: the calling agent
// can always act on what it gets back.
func (e *Engine) ExecuteRaw(ctx context.Context, raw map[string]any) (*domain.Response, error) {
	cmd, err := schema.DecodeCommand(raw)
	if err != nil {
		action, _ := raw["action"].(string)
		return &domain.Response{
			Action:               action,
			Status:               domain.StatusError,
			SuggestedNextActions: []string{domain.ActionGetStatus},
			CompletionGuidance:   "Parameters did not decode: " + err.Error(),
		}, nil
	}
	return e.dispatcher.Execute(ctx, cmd)
}

// Sessions exposes the session manager for CLI inspection commands.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Workflow exposes the state machine table for graph rendering.
func (e *Engine) Workflow() *runtime.Machine {
	return e.dispatcher.Machine()
}
