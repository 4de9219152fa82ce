package domain

// State is a workflow state. The set is closed; the state machine rejects any
// event with no transition from the current state.
type State string

const (
	StateInitialized          State = "initialized"
	StateCapabilitiesDeclared State = "capabilities_declared"
	StateSuccessDefined       State = "success_defined"
	StateTasklistCreated      State = "tasklist_created"
	StateCapabilitiesMapped   State = "capabilities_mapped"
	StateTaskPlanning         State = "task_planning"
	StateTaskExecuting        State = "task_executing"
	StateTaskCompleted        State = "task_completed"
	StateCollaborationPaused  State = "collaboration_paused"
	StateSessionEnded         State = "session_ended"
)

// States returns the closed state set in workflow order.
func States() []State {
	return []State{
		StateInitialized,
		StateCapabilitiesDeclared,
		StateSuccessDefined,
		StateTasklistCreated,
		StateCapabilitiesMapped,
		StateTaskPlanning,
		StateTaskExecuting,
		StateTaskCompleted,
		StateCollaborationPaused,
		StateSessionEnded,
	}
}

// Terminal reports whether no further work transitions leave this state.
func (s State) Terminal() bool {
	return s == StateSessionEnded
}

// Valid reports whether s belongs to the closed state set.
func (s State) Valid() bool {
	switch s {
	case StateInitialized, StateCapabilitiesDeclared, StateSuccessDefined,
		StateTasklistCreated, StateCapabilitiesMapped, StateTaskPlanning,
		StateTaskExecuting, StateTaskCompleted, StateCollaborationPaused,
		StateSessionEnded:
		return true
	}
	return false
}

// Event is a workflow event. Values double as the user-facing names listed in
// gate rejections, so they stay aligned with the action vocabulary.
type Event string

const (
	EventCreateSession        Event = "create_session"
	EventDeclareCapabilities  Event = "declare_capabilities"
	EventDefineSuccess        Event = "define_success_standards"
	EventCreateTasklist       Event = "create_tasklist"
	EventMapCapabilities      Event = "map_capabilities"
	EventStartTask            Event = "start_task"
	EventPlanTask             Event = "plan_task"
	EventCompleteTask         Event = "complete_task"
	EventRequestCollaboration Event = "request_collaboration"
	EventEditTask             Event = "edit_task"
	EventEndSession           Event = "end_session"
)

// TransitionContext carries the session snapshot a guard may inspect.
// Fields holds the raw command fields for guards that need payload data.
type TransitionContext struct {
	SessionID      string
	TaskCount      int
	CompletedTasks int
	ResumeState    State
	Fields         map[string]any
}

// Guard decides whether a transition may fire for the given context.
type Guard func(TransitionContext) bool

// Transition is one row of the workflow table. When ToResume is set the
// target state is taken from the context's ResumeState instead of To.
type Transition struct {
	From        State
	Event       Event
	To          State
	ToResume    bool
	Guard       Guard
	Description string
}

// Target resolves the destination state for the given context.
func (t Transition) Target(ctx TransitionContext) State {
	if t.ToResume {
		if ctx.ResumeState.Valid() && !ctx.ResumeState.Terminal() {
			return ctx.ResumeState
		}
		return StateTaskExecuting
	}
	return t.To
}
