package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func (d *Dispatcher) handleCollaborationRequest(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if strings.TrimSpace(cmd.CollaborationContext) == "" {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionCollaborationRequest},
			CompletionGuidance: "collaboration_request needs collaboration_context: " +
				"a plain description of what you are blocked on and what input " +
				"you need from the operator.",
		}, nil
	}

	// sess.WorkflowState still holds the pre-pause state here; the
	// dispatcher records it as the resume point after this returns.
	d.logger.Info("collaboration requested",
		"session_id", sess.ID,
		"resume_state", sess.WorkflowState,
		"context", cmd.CollaborationContext)

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusPaused,
		SuggestedNextActions: []string{domain.ActionEditTask, domain.ActionEndSession},
		CompletionGuidance: fmt.Sprintf(
			"Workflow paused for collaboration.\n\nContext: %s\n\nWork resumes "+
				"at state %s once the operator responds; apply their input with "+
				"edit_task, or end_session to abandon.",
			cmd.CollaborationContext, sess.WorkflowState),
	}, nil
}

// taskPatch is the subset of task fields edit_task may overwrite. Pointer
// fields distinguish "absent" from "set to zero".
type taskPatch struct {
	Description     *string            `mapstructure:"description"`
	Status          *string            `mapstructure:"status"`
	CurrentPhase    *string            `mapstructure:"current_phase"`
	ComplexityLevel *string            `mapstructure:"complexity_level"`
	PlanningPhase   *domain.PhaseInput `mapstructure:"planning_phase"`
	ExecutionPhase  *domain.PhaseInput `mapstructure:"execution_phase"`
}

func (d *Dispatcher) handleEditTask(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	if cmd.TaskID == "" || len(cmd.UpdatedTaskData) == 0 {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusTemplate,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionEditTask},
			CompletionGuidance: "edit_task needs task_id and updated_task_data. " +
				"Editable fields: description, complexity_level, planning_phase, " +
				"execution_phase. status and current_phase are accepted as an " +
				"escape hatch but reworking task content is the intended use.\n\n" +
				sessionSummary(sess),
		}, nil
	}

	task := sess.TaskByID(cmd.TaskID)
	if task == nil {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusError,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionGetStatus, domain.ActionEditTask},
			CompletionGuidance: fmt.Sprintf(
				"No task %q in this session.\n\n%s", cmd.TaskID, sessionSummary(sess)),
		}, nil
	}

	var patch taskPatch
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &patch,
		Metadata: &md,
	})
	if err != nil {
		return nil, fmt.Errorf("build task patch decoder: %w", err)
	}
	if err := dec.Decode(cmd.UpdatedTaskData); err != nil {
		return &domain.Response{
			Action:               cmd.Action,
			SessionID:            sess.ID,
			Status:               domain.StatusError,
			CurrentState:         sess.WorkflowState,
			SuggestedNextActions: []string{domain.ActionEditTask},
			CompletionGuidance:   fmt.Sprintf("updated_task_data did not decode: %v", err),
		}, nil
	}

	var notices []string
	for _, unused := range md.Unused {
		notices = append(notices, fmt.Sprintf("unknown field %q ignored", unused))
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.ComplexityLevel != nil {
		task.ComplexityLevel = domain.Complexity(*patch.ComplexityLevel)
	}
	applyPhaseInput(task.PlanningPhase, patch.PlanningPhase)
	applyPhaseInput(task.ExecutionPhase, patch.ExecutionPhase)

	// Control-field overwrites bypass the workflow's own bookkeeping. They
	// stay available for operator repair but are loudly flagged.
	if patch.Status != nil {
		d.logger.Warn("edit_task overwriting task status",
			"session_id", sess.ID, "task_id", task.ID, "status", *patch.Status)
		task.Status = domain.TaskStatus(*patch.Status)
		notices = append(notices, "control field status overwritten; the first "+
			"pending task in list order is always the current one")
	}
	if patch.CurrentPhase != nil {
		d.logger.Warn("edit_task overwriting task phase",
			"session_id", sess.ID, "task_id", task.ID, "phase", *patch.CurrentPhase)
		task.CurrentPhase = domain.Phase(*patch.CurrentPhase)
		notices = append(notices, "control field current_phase overwritten")
	}
	d.logger.Info("task edited", "session_id", sess.ID, "task_id", task.ID)

	resume := sess.ResumeState
	if !resume.Valid() || resume.Terminal() {
		resume = domain.StateTaskExecuting
	}
	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		TaskID:               task.ID,
		Notices:              notices,
		SuggestedNextActions: []string{domain.ActionExecuteNext, domain.ActionGetStatus},
		CompletionGuidance: fmt.Sprintf(
			"Task %s updated. Collaboration pause is over; the workflow "+
				"resumes at state %s.", task.ID, resume),
	}, nil
}
