package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func (d *Dispatcher) handleDeclareCapabilities(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if len(cmd.AvailableTools) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionDeclareCapabilities},
			CompletionGuidance:   declareCapabilitiesTemplate(),
		}, nil
	}

	// Wholesale replacement, never a merge. Re-declaration is how an agent
	// corrects its inventory.
	sess.Data.DeclaredTools = cmd.AvailableTools
	sess.Capabilities.BuiltinTools = make([]domain.ToolDescriptor, 0, len(cmd.AvailableTools))
	for _, t := range cmd.AvailableTools {
		sess.Capabilities.BuiltinTools = append(sess.Capabilities.BuiltinTools, domain.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
		})
	}
	d.logger.Info("capabilities declared", "session_id", sess.ID, "tools", len(cmd.AvailableTools))

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		SuggestedNextActions: []string{domain.ActionDefineSuccess},
		CompletionGuidance: fmt.Sprintf(
			"%d tools declared. Next, set the acceptance bar with "+
				"define_success_and_standards: the success_metrics and "+
				"coding_standards arrays.", len(cmd.AvailableTools)),
	}, nil
}

func (d *Dispatcher) handleDefineSuccess(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if len(cmd.SuccessMetrics) == 0 || len(cmd.CodingStandards) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionDefineSuccess},
			CompletionGuidance:   defineSuccessTemplate(),
		}, nil
	}

	sess.Data.SuccessMetrics = cmd.SuccessMetrics
	sess.Data.CodingStandards = cmd.CodingStandards
	d.logger.Info("success standards defined",
		"session_id", sess.ID,
		"metrics", len(cmd.SuccessMetrics),
		"standards", len(cmd.CodingStandards))

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		SuggestedNextActions: []string{domain.ActionCreateTasklist},
		CompletionGuidance: fmt.Sprintf(
			"Recorded %d success metrics and %d coding standards. Now break "+
				"the work into implementation steps with create_tasklist.",
			len(cmd.SuccessMetrics), len(cmd.CodingStandards)),
	}, nil
}

// forbiddenTaskKeywords mark descriptions that belong inside a task's
// execution rather than as standalone tasks. Matched as case-insensitive
// substrings.
var forbiddenTaskKeywords = []string{"test", "validate", "verify", "document", "docs"}

func rejectedKeyword(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, kw := range forbiddenTaskKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// classifyComplexity buckets a task by wording. Architectural keywords win
// over implementation keywords; anything else is simple.
func classifyComplexity(description string) domain.Complexity {
	lower := strings.ToLower(description)
	for _, kw := range []string{"system", "architecture", "framework", "integrate", "refactor"} {
		if strings.Contains(lower, kw) {
			return domain.ComplexityArchitectural
		}
	}
	for _, kw := range []string{"implement", "create", "build", "develop", "add", "modify"} {
		if strings.Contains(lower, kw) {
			return domain.ComplexityComplex
		}
	}
	return domain.ComplexitySimple
}

func (d *Dispatcher) handleCreateTasklist(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if len(cmd.Tasklist) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionCreateTasklist},
			CompletionGuidance:   createTasklistTemplate(),
		}, nil
	}

	var tasks []*domain.Task
	var rejected []string
	for _, in := range cmd.Tasklist {
		if kw, bad := rejectedKeyword(in.Description); bad {
			rejected = append(rejected, fmt.Sprintf("%q (contains %q)", in.Description, kw))
			continue
		}
		task := domain.NewTask(in.Description)
		task.ComplexityLevel = classifyComplexity(in.Description)
		task.InitialToolThoughts = in.InitialToolThoughts
		applyPhaseInput(task.PlanningPhase, in.PlanningPhase)
		applyPhaseInput(task.ExecutionPhase, in.ExecutionPhase)
		tasks = append(tasks, task)
	}

	if len(tasks) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusError,
			CurrentState:         sess.WorkflowState,
			RejectedTasks:        rejected,
			SuggestedNextActions: []string{domain.ActionCreateTasklist},
			CompletionGuidance: "Every task was rejected. Rephrase the entries as " +
				"implementation work; testing, validation, and documentation " +
				"happen inside each task, not as separate tasks.\n\n" + createTasklistTemplate(),
		}, nil
	}

	// A repeat call replaces the list, it does not append.
	sess.Tasks = tasks
	sess.Data.DenoisedPlan = cmd.DenoisedPlan
	d.logger.Info("tasklist created",
		"session_id", sess.ID, "accepted", len(tasks), "rejected", len(rejected))

	guidance := fmt.Sprintf("%d tasks created", len(tasks))
	if len(rejected) > 0 {
		guidance += fmt.Sprintf(", %d rejected for out-of-scope wording", len(rejected))
	}
	guidance += ". Assign your declared tools to each task with map_capabilities."

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		TasksCreated:         len(tasks),
		RejectedTasks:        rejected,
		TotalTasks:           len(tasks),
		SuggestedNextActions: []string{domain.ActionMapCapabilities},
		CompletionGuidance:   guidance,
	}, nil
}

// applyPhaseInput overlays caller-supplied phase data on a default-filled
// phase. Only non-zero fields override.
func applyPhaseInput(phase *domain.TaskPhase, in *domain.PhaseInput) {
	if in == nil {
		return
	}
	if in.PhaseName != "" {
		phase.PhaseName = in.PhaseName
	}
	if in.Description != "" {
		phase.Description = in.Description
	}
	if len(in.AssignedBuiltinTools) > 0 {
		phase.AssignedBuiltinTools = in.AssignedBuiltinTools
	}
	if len(in.AssignedMCPTools) > 0 {
		phase.AssignedMCPTools = in.AssignedMCPTools
	}
}

func (d *Dispatcher) handleMapCapabilities(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if len(cmd.TaskMappings) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionMapCapabilities},
			CompletionGuidance:   mapCapabilitiesTemplate(sess),
		}, nil
	}

	declared := make(map[string]bool, len(sess.Data.DeclaredTools))
	for _, t := range sess.Data.DeclaredTools {
		declared[t.Name] = true
	}

	var notices []string
	mapped := 0
	for _, m := range cmd.TaskMappings {
		task := sess.TaskByID(m.TaskID)
		if task == nil {
			notices = append(notices, fmt.Sprintf("unknown task_id %q skipped", m.TaskID))
			continue
		}
		notices = append(notices, applyMapping(task.PlanningPhase, m.PlanningPhase, declared)...)
		notices = append(notices, applyMapping(task.ExecutionPhase, m.ExecutionPhase, declared)...)
		mapped++
	}

	d.logger.Info("capabilities mapped", "session_id", sess.ID, "tasks", mapped)

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		MappingCompleted:     true,
		Notices:              notices,
		SuggestedNextActions: []string{domain.ActionExecuteNext},
		CompletionGuidance: fmt.Sprintf(
			"Tool assignments recorded for %d of %d tasks. Start work with "+
				"execute_next.", mapped, len(sess.Tasks)),
	}, nil
}

// applyMapping replaces a phase's tool assignments from a mapping entry.
// Replacement, not merge: re-mapping a phase discards its previous
// assignments. Tool names are trusted on write; an assignment naming a tool
// outside the declared set is stored as supplied and only flagged with a
// notice.
func applyMapping(phase *domain.TaskPhase, in *domain.PhaseInput, declared map[string]bool) []string {
	if in == nil || phase == nil {
		return nil
	}
	var notices []string
	for _, a := range in.AssignedBuiltinTools {
		if !declared[a.ToolName] {
			notices = append(notices, fmt.Sprintf(
				"tool %q assigned to %s was never declared", a.ToolName, phase.PhaseName))
		}
	}
	for _, a := range in.AssignedMCPTools {
		if !declared[a.ToolName] {
			notices = append(notices, fmt.Sprintf(
				"tool %q assigned to %s was never declared", a.ToolName, phase.PhaseName))
		}
	}
	phase.AssignedBuiltinTools = in.AssignedBuiltinTools
	phase.AssignedMCPTools = in.AssignedMCPTools
	if in.Description != "" {
		phase.Description = in.Description
	}
	return notices
}
