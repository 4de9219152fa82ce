package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskStatus defines the lifecycle position of a task.
// The status is monotonic: once completed, a task never reverts to pending.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Phase identifies one of the two work phases every task moves through.
type Phase string

const (
	PhasePlanning  Phase = "planning"
	PhaseExecution Phase = "execution"
)

// Complexity is the heuristic classification assigned at task creation.
type Complexity string

const (
	ComplexitySimple        Complexity = "simple"
	ComplexityComplex       Complexity = "complex"
	ComplexityArchitectural Complexity = "architectural"
)

// ToolAssignment binds a declared tool to a task phase with usage intent.
// ToolName is trusted on write; it is not re-validated against the declared
// capabilities on every read.
type ToolAssignment struct {
	ToolName        string   `json:"tool_name" mapstructure:"tool_name"`
	UsagePurpose    string   `json:"usage_purpose" mapstructure:"usage_purpose"`
	SpecificActions []string `json:"specific_actions,omitempty" mapstructure:"specific_actions"`
	ExpectedOutcome string   `json:"expected_outcome,omitempty" mapstructure:"expected_outcome"`
	Priority        string   `json:"priority,omitempty" mapstructure:"priority"`
}

// TaskPhase holds the description and tool assignments for one phase of a task.
type TaskPhase struct {
	PhaseName            string           `json:"phase_name" mapstructure:"phase_name"`
	Description          string           `json:"description" mapstructure:"description"`
	AssignedBuiltinTools []ToolAssignment `json:"assigned_builtin_tools" mapstructure:"assigned_builtin_tools"`
	AssignedMCPTools     []ToolAssignment `json:"assigned_mcp_tools" mapstructure:"assigned_mcp_tools"`
}

// ToolThoughts captures the optional free-form reasoning supplied alongside a
// raw task at tasklist creation.
type ToolThoughts struct {
	Reasoning      string   `json:"reasoning" mapstructure:"reasoning"`
	ThoughtProcess []string `json:"thought_process,omitempty" mapstructure:"thought_process"`
}

// Task is a single two-phase unit of work inside a session.
// Its ID is unique within the session and assigned at creation.
type Task struct {
	ID                  string        `json:"id"`
	Description         string        `json:"description"`
	Status              TaskStatus    `json:"status"`
	CurrentPhase        Phase         `json:"current_phase"`
	ComplexityLevel     Complexity    `json:"complexity_level"`
	InitialToolThoughts *ToolThoughts `json:"initial_tool_thoughts,omitempty"`
	PlanningPhase       *TaskPhase    `json:"planning_phase"`
	ExecutionPhase      *TaskPhase    `json:"execution_phase"`
}

// NewTask creates a pending task in the planning phase with default-filled
// phase structures. Caller-supplied phase data takes precedence over defaults.
func NewTask(description string) *Task {
	return &Task{
		ID:              fmt.Sprintf("task_%s", uuid.NewString()),
		Description:     description,
		Status:          TaskPending,
		CurrentPhase:    PhasePlanning,
		ComplexityLevel: ComplexitySimple,
		PlanningPhase: &TaskPhase{
			PhaseName:   string(PhasePlanning),
			Description: fmt.Sprintf("Plan for: %s", description),
		},
		ExecutionPhase: &TaskPhase{
			PhaseName:   string(PhaseExecution),
			Description: fmt.Sprintf("Execution of: %s", description),
		},
	}
}

// PhaseFor returns the phase structure matching the given phase name, or nil.
func (t *Task) PhaseFor(p Phase) *TaskPhase {
	switch p {
	case PhasePlanning:
		return t.PlanningPhase
	case PhaseExecution:
		return t.ExecutionPhase
	}
	return nil
}
