package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToolDescriptor describes a built-in tool declared by the external agent.
type ToolDescriptor struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
}

// MCPToolDescriptor describes a declared MCP tool, including its origin server.
type MCPToolDescriptor struct {
	Name        string `json:"name" mapstructure:"name"`
	ServerName  string `json:"server_name,omitempty" mapstructure:"server_name"`
	Description string `json:"description" mapstructure:"description"`
}

// ResourceDescriptor describes a declared user resource (docs, datasets, etc).
type ResourceDescriptor struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type,omitempty" mapstructure:"type"`
	Description string `json:"description" mapstructure:"description"`
}

// Capabilities is the declared tool inventory of a session.
// A new declare_capabilities call overwrites the built-in tool set wholesale.
type Capabilities struct {
	BuiltinTools  []ToolDescriptor     `json:"built_in_tools"`
	MCPTools      []MCPToolDescriptor  `json:"mcp_tools"`
	UserResources []ResourceDescriptor `json:"user_resources"`
}

// Empty reports whether no tools of any kind have been declared.
func (c Capabilities) Empty() bool {
	return len(c.BuiltinTools) == 0 && len(c.MCPTools) == 0
}

// DeclaredTool is the raw tool declaration as supplied by the agent, kept as a
// snapshot so later guidance can echo the original relevance assessment.
type DeclaredTool struct {
	Name                string `json:"name" mapstructure:"name"`
	Description         string `json:"description" mapstructure:"description"`
	RelevanceAssessment string `json:"relevance_assessment,omitempty" mapstructure:"relevance_assessment"`
}

// SessionData holds the auxiliary session-scoped facts that do not warrant
// dedicated fields on Session. Typed rather than an open map so that handler
// writes stay collision-free at compile time.
type SessionData struct {
	SuccessMetrics  []string       `json:"success_metrics,omitempty"`
	CodingStandards []string       `json:"coding_standards,omitempty"`
	DeclaredTools   []DeclaredTool `json:"declared_tools,omitempty"`
	DenoisedPlan    string         `json:"denoised_plan,omitempty"`
}

// Session is the unit of persistence. WorkflowState mirrors the state
// machine's state after every accepted transition (write-through); the session
// record is the durable source of truth on disagreement.
type Session struct {
	ID            string       `json:"id"`
	Name          string       `json:"name,omitempty"`
	WorkflowState State        `json:"workflow_state"`
	ResumeState   State        `json:"resume_state,omitempty"`
	Capabilities  Capabilities `json:"capabilities"`
	Tasks         []*Task      `json:"tasks"`
	Data          SessionData  `json:"data"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Sealed carries the encrypted envelope when at-rest encryption is
	// enabled (see pkg/persistence/middleware). A sealed record keeps only
	// ID, WorkflowState, and timestamps in the clear for monitoring.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a session in the initialized state.
func NewSession(name string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            fmt.Sprintf("session_%s", uuid.NewString()),
		Name:          name,
		WorkflowState: StateInitialized,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CurrentTask returns the first pending task in list order, or nil when all
// work is done. There is no separate pointer: reordering Tasks changes which
// task is current.
func (s *Session) CurrentTask() *Task {
	for _, t := range s.Tasks {
		if t.Status == TaskPending {
			return t
		}
	}
	return nil
}

// TaskByID returns the task with the given ID, or nil.
func (s *Session) TaskByID(id string) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// CompletedCount returns the number of completed tasks.
func (s *Session) CompletedCount() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Status == TaskCompleted {
			n++
		}
	}
	return n
}
