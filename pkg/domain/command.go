package domain

// Action names accepted by the codemaster operation. The set is closed.
const (
	ActionCreateSession        = "create_session"
	ActionDeclareCapabilities  = "declare_capabilities"
	ActionDefineSuccess        = "define_success_and_standards"
	ActionCreateTasklist       = "create_tasklist"
	ActionMapCapabilities      = "map_capabilities"
	ActionExecuteNext          = "execute_next"
	ActionMarkComplete         = "mark_complete"
	ActionGetStatus            = "get_status"
	ActionCollaborationRequest = "collaboration_request"
	ActionEditTask             = "edit_task"
	ActionEndSession           = "end_session"

	// ActionWorkflowGate is the synthetic action name used on rejection
	// responses when the state machine refuses a transition.
	ActionWorkflowGate = "workflow_gate"
)

// Actions returns the closed action set in workflow order.
func Actions() []string {
	return []string{
		ActionCreateSession,
		ActionDeclareCapabilities,
		ActionDefineSuccess,
		ActionCreateTasklist,
		ActionMapCapabilities,
		ActionExecuteNext,
		ActionMarkComplete,
		ActionGetStatus,
		ActionCollaborationRequest,
		ActionEditTask,
		ActionEndSession,
	}
}

// PhaseInput is caller-supplied phase data, either inline on a raw task or in
// a capability mapping entry.
type PhaseInput struct {
	PhaseName            string           `json:"phase_name,omitempty" mapstructure:"phase_name"`
	Description          string           `json:"description,omitempty" mapstructure:"description"`
	AssignedBuiltinTools []ToolAssignment `json:"assigned_builtin_tools,omitempty" mapstructure:"assigned_builtin_tools"`
	AssignedMCPTools     []ToolAssignment `json:"assigned_mcp_tools,omitempty" mapstructure:"assigned_mcp_tools"`
}

// TaskInput is one raw task description from a create_tasklist payload.
type TaskInput struct {
	Description         string        `json:"description" mapstructure:"description"`
	PlanningPhase       *PhaseInput   `json:"planning_phase,omitempty" mapstructure:"planning_phase"`
	ExecutionPhase      *PhaseInput   `json:"execution_phase,omitempty" mapstructure:"execution_phase"`
	InitialToolThoughts *ToolThoughts `json:"initial_tool_thoughts,omitempty" mapstructure:"initial_tool_thoughts"`
}

// TaskMapping is one map_capabilities entry binding tools to a task's phases.
type TaskMapping struct {
	TaskID         string      `json:"task_id" mapstructure:"task_id"`
	PlanningPhase  *PhaseInput `json:"planning_phase,omitempty" mapstructure:"planning_phase"`
	ExecutionPhase *PhaseInput `json:"execution_phase,omitempty" mapstructure:"execution_phase"`
}

// Command is a fully decoded codemaster invocation. The transport adapters
// are responsible for turning loosely-typed wire payloads into this shape
// (see pkg/schema); the dispatcher consumes it as-is.
type Command struct {
	Action               string         `json:"action" mapstructure:"action"`
	SessionName          string         `json:"session_name,omitempty" mapstructure:"session_name"`
	AvailableTools       []DeclaredTool `json:"available_tools,omitempty" mapstructure:"available_tools"`
	SuccessMetrics       []string       `json:"success_metrics,omitempty" mapstructure:"success_metrics"`
	CodingStandards      []string       `json:"coding_standards,omitempty" mapstructure:"coding_standards"`
	Tasklist             []TaskInput    `json:"tasklist,omitempty" mapstructure:"tasklist"`
	TaskMappings         []TaskMapping  `json:"task_mappings,omitempty" mapstructure:"task_mappings"`
	CollaborationContext string         `json:"collaboration_context,omitempty" mapstructure:"collaboration_context"`
	TaskID               string         `json:"task_id,omitempty" mapstructure:"task_id"`
	UpdatedTaskData      map[string]any `json:"updated_task_data,omitempty" mapstructure:"updated_task_data"`
	DenoisedPlan         string         `json:"denoised_plan,omitempty" mapstructure:"denoised_plan"`
}

// Status classifies a response for the caller.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusTemplate  Status = "template"
	StatusGuidance  Status = "guidance"
	StatusError     Status = "error"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusNoSession Status = "no_session"
)

// Response is the envelope returned for every codemaster invocation.
// CompletionGuidance carries the human-readable next-step text; the remaining
// optional fields surface machine-readable facts for specific actions.
type Response struct {
	Action               string   `json:"action"`
	SessionID            string   `json:"session_id,omitempty"`
	Status               Status   `json:"status"`
	SuggestedNextActions []string `json:"suggested_next_actions"`
	CompletionGuidance   string   `json:"completion_guidance"`

	CurrentState           State    `json:"current_state,omitempty"`
	TasksCreated           int      `json:"tasks_created,omitempty"`
	RejectedTasks          []string `json:"rejected_tasks,omitempty"`
	MappingCompleted       bool     `json:"mapping_completed,omitempty"`
	CurrentTaskID          string   `json:"current_task_id,omitempty"`
	CurrentTaskDescription string   `json:"current_task_description,omitempty"`
	CurrentPhase           Phase    `json:"current_phase,omitempty"`
	TaskID                 string   `json:"task_id,omitempty"`
	TotalTasks             int      `json:"total_tasks,omitempty"`
	CompletedTasks         int      `json:"completed_tasks,omitempty"`
	Notices                []string `json:"notices,omitempty"`
}
