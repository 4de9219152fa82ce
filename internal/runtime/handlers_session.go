package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func (d *Dispatcher) handleCreateSession(ctx context.Context, cmd *domain.Command, _ *domain.Session) (*domain.Response, error) {
	sess, err := d.sessions.Create(ctx, cmd.SessionName)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	d.logger.Info("session created", "session_id", sess.ID, "name", sess.Name)

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		CurrentState:         sess.WorkflowState,
		SuggestedNextActions: []string{domain.ActionDeclareCapabilities},
		CompletionGuidance: fmt.Sprintf(
			"Session %s created. It is now the active session; any previous "+
				"session remains stored but inactive. Declare your available "+
				"tools next with declare_capabilities.", sess.ID),
	}, nil
}

func (d *Dispatcher) handleGetStatus(ctx context.Context, cmd *domain.Command, _ *domain.Session) (*domain.Response, error) {
	sess, err := d.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) || errors.Is(err, domain.ErrSessionNotFound) {
			return noSessionResponse(cmd.Action), nil
		}
		return nil, fmt.Errorf("resolve current session: %w", err)
	}

	resp := &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusSuccess,
		CurrentState:         sess.WorkflowState,
		TotalTasks:           len(sess.Tasks),
		CompletedTasks:       sess.CompletedCount(),
		SuggestedNextActions: suggestionsForState(sess),
		CompletionGuidance:   sessionSummary(sess),
	}
	if current := sess.CurrentTask(); current != nil {
		resp.CurrentTaskID = current.ID
		resp.CurrentTaskDescription = current.Description
		resp.CurrentPhase = current.CurrentPhase
	}
	return resp, nil
}

func (d *Dispatcher) handleEndSession(_ context.Context, cmd *domain.Command, sess *domain.Session) (*domain.Response, error) {
	d.logger.Info("session ended",
		"session_id", sess.ID,
		"completed", sess.CompletedCount(),
		"total", len(sess.Tasks))

	return &domain.Response{
		Action:               cmd.Action,
		SessionID:            sess.ID,
		Status:               domain.StatusCompleted,
		TotalTasks:           len(sess.Tasks),
		CompletedTasks:       sess.CompletedCount(),
		SuggestedNextActions: []string{domain.ActionCreateSession},
		CompletionGuidance: fmt.Sprintf(
			"%s\nSession ended with %d of %d tasks complete. The record stays "+
				"readable via get_status or the CLI; start fresh work with "+
				"create_session.",
			sessionSummary(sess), sess.CompletedCount(), len(sess.Tasks)),
	}, nil
}
