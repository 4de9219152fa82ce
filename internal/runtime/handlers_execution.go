package runtime

import (
	"context"
	"fmt"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// handleExecuteNext starts the next pending task when the workflow sits
// between tasks. Mid-phase it only repeats the current phase guidance, and
// with nothing left pending it reports completion; neither case mutates the
// session, so calling execute_next twice in a row is always safe.
func (d *Dispatcher) handleExecuteNext(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	event, _ := resolveExecuteNext(sess)
	if event == domain.EventStartTask {
		return d.startTask(cmd, sess)
	}
	task := sess.CurrentTask()
	if task == nil {
		return d.allTasksDone(cmd, sess), nil
	}
	return d.repeatPhase(cmd, sess, task), nil
}

// repeatPhase re-emits the guidance for the task's current phase without
// changing anything.
func (d *Dispatcher) repeatPhase(cmd *domain.Command, sess *domain.Session, task *domain.Task) *domain.Response {
	return &domain.Response{
		Action:                 cmd.Action,
		SessionID:              sess.ID,
		Status:                 domain.StatusGuidance,
		CurrentTaskID:          task.ID,
		CurrentTaskDescription: task.Description,
		CurrentPhase:           task.CurrentPhase,
		TotalTasks:             len(sess.Tasks),
		CompletedTasks:         sess.CompletedCount(),
		SuggestedNextActions:   []string{domain.ActionMarkComplete, domain.ActionCollaborationRequest},
		CompletionGuidance:     phaseGuidance(sess, task),
	}
}

// allTasksDone reports that no pending work remains.
func (d *Dispatcher) allTasksDone(cmd *domain.Command, sess *domain.Session) *domain.Response {
	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusCompleted,
		TotalTasks:           len(sess.Tasks),
		CompletedTasks:       sess.CompletedCount(),
		SuggestedNextActions: []string{domain.ActionEndSession},
		CompletionGuidance: fmt.Sprintf(
			"All %d tasks are complete; review the work against the success "+
				"metrics and call end_session.", len(sess.Tasks)),
	}
}

// handleMarkComplete closes out the current phase: planning advances to
// execution, execution completes the task.
func (d *Dispatcher) handleMarkComplete(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	task := sess.CurrentTask()
	if task == nil {
		// The dispatcher resolves the event from the same snapshot, so this
		// is unreachable; kept as a belt against future reordering.
		return noCurrentTaskResponse(cmd.Action, sess), nil
	}
	if task.CurrentPhase == domain.PhasePlanning {
		return d.advanceToExecution(cmd, sess)
	}
	return d.completeCurrentTask(cmd, sess)
}

func (d *Dispatcher) startTask(cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	task := sess.CurrentTask()
	if task == nil {
		return noCurrentTaskResponse(cmd.Action, sess), nil
	}
	task.CurrentPhase = domain.PhasePlanning
	d.logger.Info("task started", "session_id", sess.ID, "task_id", task.ID)

	return &domain.Response{
		Action:                 cmd.Action,
		SessionID:              sess.ID,
		Status:                 domain.StatusSuccess,
		CurrentTaskID:          task.ID,
		CurrentTaskDescription: task.Description,
		CurrentPhase:           task.CurrentPhase,
		TotalTasks:             len(sess.Tasks),
		CompletedTasks:         sess.CompletedCount(),
		SuggestedNextActions:   []string{domain.ActionMarkComplete, domain.ActionCollaborationRequest},
		CompletionGuidance:     phaseGuidance(sess, task),
	}, nil
}

func (d *Dispatcher) advanceToExecution(cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	task := sess.CurrentTask()
	if task == nil {
		return noCurrentTaskResponse(cmd.Action, sess), nil
	}
	task.CurrentPhase = domain.PhaseExecution
	d.logger.Info("task planning complete",
		"session_id", sess.ID, "task_id", task.ID)

	return &domain.Response{
		Action:                 cmd.Action,
		SessionID:              sess.ID,
		Status:                 domain.StatusSuccess,
		CurrentTaskID:          task.ID,
		CurrentTaskDescription: task.Description,
		CurrentPhase:           task.CurrentPhase,
		TaskID:                 task.ID,
		TotalTasks:             len(sess.Tasks),
		CompletedTasks:         sess.CompletedCount(),
		SuggestedNextActions:   []string{domain.ActionMarkComplete, domain.ActionCollaborationRequest},
		CompletionGuidance:     phaseGuidance(sess, task),
	}, nil
}

func (d *Dispatcher) completeCurrentTask(cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	task := sess.CurrentTask()
	if task == nil {
		return noCurrentTaskResponse(cmd.Action, sess), nil
	}
	// Completion is monotonic: a completed task never reverts.
	task.Status = domain.TaskCompleted
	completed := sess.CompletedCount()
	d.logger.Info("task completed",
		"session_id", sess.ID,
		"task_id", task.ID,
		"completed", completed,
		"total", len(sess.Tasks))

	resp := &domain.Response{
		Action:         cmd.Action,
		SessionID:      sess.ID,
		Status:         domain.StatusSuccess,
		TaskID:         task.ID,
		TotalTasks:     len(sess.Tasks),
		CompletedTasks: completed,
	}
	if next := sess.CurrentTask(); next != nil {
		resp.SuggestedNextActions = []string{domain.ActionExecuteNext}
		resp.CompletionGuidance = fmt.Sprintf(
			"Task %s complete (%d/%d). Next up: %s. Call execute_next to "+
				"start planning it.", task.ID, completed, len(sess.Tasks), next.Description)
		return resp, nil
	}
	resp.Status = domain.StatusCompleted
	resp.SuggestedNextActions = []string{domain.ActionEndSession}
	resp.CompletionGuidance = fmt.Sprintf(
		"Task %s complete. All %d tasks are done; review against the success "+
			"metrics and call end_session.", task.ID, len(sess.Tasks))
	return resp, nil
}
