package runtime

import (
	"fmt"
	"strings"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// Guidance text lives here so handlers stay focused on state mutation.
// Every response carries CompletionGuidance: the workflow is driven by an
// external agent that only sees these strings, so they must always name a
// concrete next step.

func unknownActionResponse(action string) *domain.Response {
	return &domain.Response{
		Action:               action,
		Status:               domain.StatusGuidance,
		SuggestedNextActions: []string{domain.ActionGetStatus},
		CompletionGuidance: fmt.Sprintf(
			"Unknown action %q. Valid actions: %s.",
			action, strings.Join(domain.Actions(), ", ")),
	}
}

func noSessionResponse(action string) *domain.Response {
	return &domain.Response{
		Action:               action,
		Status:               domain.StatusNoSession,
		SuggestedNextActions: []string{domain.ActionCreateSession},
		CompletionGuidance: "No active session. Start with create_session, " +
			"optionally passing session_name.",
	}
}

func gateResponse(action string, sess *domain.Session, event domain.Event, allowed []string) *domain.Response {
	var b strings.Builder
	fmt.Fprintf(&b, "Action %s (event %s) is not allowed from state %s.",
		action, event, sess.WorkflowState)
	if len(allowed) > 0 {
		fmt.Fprintf(&b, " Events available now: %s.", strings.Join(allowed, ", "))
	} else {
		b.WriteString(" No events are available from this state.")
	}
	return &domain.Response{
		Action:               domain.ActionWorkflowGate,
		SessionID:            sess.ID,
		Status:               domain.StatusGuidance,
		CurrentState:         sess.WorkflowState,
		SuggestedNextActions: suggestionsForState(sess),
		CompletionGuidance:   b.String(),
	}
}

func noCurrentTaskResponse(action string, sess *domain.Session) *domain.Response {
	guidance := "No pending task to operate on."
	var next []string
	if len(sess.Tasks) > 0 {
		guidance += fmt.Sprintf(" All %d tasks are complete; use end_session to finish.", len(sess.Tasks))
		next = []string{domain.ActionEndSession, domain.ActionGetStatus}
	} else {
		guidance += " Create a tasklist first."
		next = []string{domain.ActionCreateTasklist, domain.ActionGetStatus}
	}
	return &domain.Response{
		Action:               action,
		SessionID:            sess.ID,
		Status:               domain.StatusGuidance,
		CurrentState:         sess.WorkflowState,
		SuggestedNextActions: next,
		CompletionGuidance:   guidance,
	}
}

// suggestionsForState maps each workflow state to the actions worth taking
// from it, in preference order.
func suggestionsForState(sess *domain.Session) []string {
	switch sess.WorkflowState {
	case domain.StateInitialized:
		return []string{domain.ActionDeclareCapabilities}
	case domain.StateCapabilitiesDeclared:
		return []string{domain.ActionDefineSuccess, domain.ActionDeclareCapabilities}
	case domain.StateSuccessDefined:
		return []string{domain.ActionCreateTasklist}
	case domain.StateTasklistCreated:
		return []string{domain.ActionMapCapabilities}
	case domain.StateCapabilitiesMapped:
		return []string{domain.ActionExecuteNext}
	case domain.StateTaskPlanning, domain.StateTaskExecuting:
		return []string{domain.ActionMarkComplete, domain.ActionExecuteNext, domain.ActionCollaborationRequest}
	case domain.StateTaskCompleted:
		if sess.CompletedCount() < len(sess.Tasks) {
			return []string{domain.ActionExecuteNext}
		}
		return []string{domain.ActionEndSession}
	case domain.StateCollaborationPaused:
		return []string{domain.ActionEditTask, domain.ActionEndSession}
	case domain.StateSessionEnded:
		return []string{domain.ActionCreateSession}
	}
	return []string{domain.ActionGetStatus}
}

func declareCapabilitiesTemplate() string {
	return strings.TrimSpace(`
declare_capabilities needs the available_tools array. Each entry:

  {
    "name": "tool name",
    "description": "what the tool does",
    "relevance_assessment": "why it matters for this session"
  }

Declare every tool you can actually invoke; later phases can only be mapped
to tools declared here. Calling declare_capabilities again replaces the
previous set.`)
}

func defineSuccessTemplate() string {
	return strings.TrimSpace(`
define_success_and_standards needs both arrays:

  "success_metrics":  measurable outcomes that mean the work is done
  "coding_standards": conventions every task must honor

Both must be non-empty. They are echoed back during task execution as the
acceptance bar.`)
}

func createTasklistTemplate() string {
	return strings.TrimSpace(`
create_tasklist needs the tasklist array. Each entry:

  {
    "description": "implementation step",
    "planning_phase":  { "description": "..." },   optional
    "execution_phase": { "description": "..." },   optional
    "initial_tool_thoughts": { "reasoning": "..." } optional
  }

Keep entries to implementation work only. Descriptions containing testing,
validation, verification, or documentation wording are rejected: those
concerns belong inside each task's execution, not as standalone tasks.
Calling create_tasklist again replaces the previous list.`)
}

func mapCapabilitiesTemplate(sess *domain.Session) string {
	var b strings.Builder
	b.WriteString("map_capabilities needs task_mappings: one entry per task, " +
		"assigning declared tools to its planning and execution phases.\n\nTasks awaiting mapping:\n")
	for _, t := range sess.Tasks {
		fmt.Fprintf(&b, "  %s: %s\n", t.ID, t.Description)
	}
	b.WriteString(`
Each mapping entry:

  {
    "task_id": "task_...",
    "planning_phase":  { "assigned_builtin_tools": [ { "tool_name": "...", "usage_purpose": "..." } ] },
    "execution_phase": { "assigned_builtin_tools": [ ... ], "assigned_mcp_tools": [ ... ] }
  }

Only tools declared via declare_capabilities may be assigned.`)
	return b.String()
}

// phaseGuidance renders the working brief for the current task phase:
// the phase description, its tool assignments, and the session's success
// bar. This is the text the agent works from between mark_complete calls.
func phaseGuidance(sess *domain.Session, task *domain.Task) string {
	var b strings.Builder
	phase := task.PhaseFor(task.CurrentPhase)

	fmt.Fprintf(&b, "Task %s (%s phase, complexity %s)\n\n%s\n",
		task.ID, task.CurrentPhase, task.ComplexityLevel, task.Description)
	if phase != nil && phase.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", phase.Description)
	}

	if phase != nil && (len(phase.AssignedBuiltinTools) > 0 || len(phase.AssignedMCPTools) > 0) {
		b.WriteString("\nAssigned tools:\n")
		for _, a := range phase.AssignedBuiltinTools {
			fmt.Fprintf(&b, "  %s: %s\n", a.ToolName, a.UsagePurpose)
		}
		for _, a := range phase.AssignedMCPTools {
			fmt.Fprintf(&b, "  %s (mcp): %s\n", a.ToolName, a.UsagePurpose)
		}
	}
	if task.CurrentPhase == domain.PhasePlanning && task.InitialToolThoughts != nil {
		fmt.Fprintf(&b, "\nInitial tool thoughts: %s\n", task.InitialToolThoughts.Reasoning)
	}

	if len(sess.Data.SuccessMetrics) > 0 {
		b.WriteString("\nSuccess metrics:\n")
		for _, m := range sess.Data.SuccessMetrics {
			fmt.Fprintf(&b, "  - %s\n", m)
		}
	}
	if len(sess.Data.CodingStandards) > 0 {
		b.WriteString("\nCoding standards:\n")
		for _, s := range sess.Data.CodingStandards {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	b.WriteString("\nCall mark_complete when this phase is done.")
	return b.String()
}

func sessionSummary(sess *domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s", sess.ID)
	if sess.Name != "" {
		fmt.Fprintf(&b, " (%s)", sess.Name)
	}
	fmt.Fprintf(&b, "\nState: %s\nTasks: %d/%d complete\n",
		sess.WorkflowState, sess.CompletedCount(), len(sess.Tasks))
	for _, t := range sess.Tasks {
		marker := " "
		if t.Status == domain.TaskCompleted {
			marker = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", marker, t.ID, t.Description)
	}
	if current := sess.CurrentTask(); current != nil {
		fmt.Fprintf(&b, "Current: %s (%s phase)\n", current.ID, current.CurrentPhase)
	}
	return b.String()
}
