package runtime

import "github.com/codemaster-ai/codemaster/pkg/domain"

// defaultTransitions builds the workflow table.
//
// The shape is a linear setup chain (declare capabilities, define success,
// create the tasklist, map capabilities), then a per-task loop
// (start -> plan -> execute -> complete), with a guarded loop-back to the
// next task while pending tasks remain. Collaboration pause is reachable
// from every non-terminal state and resumes to wherever work was paused.
// Session end is reachable from everywhere.
func defaultTransitions() []domain.Transition {
	hasPending := func(ctx domain.TransitionContext) bool {
		return ctx.CompletedTasks < ctx.TaskCount
	}

	ts := []domain.Transition{
		{
			From:        domain.StateInitialized,
			Event:       domain.EventDeclareCapabilities,
			To:          domain.StateCapabilitiesDeclared,
			Description: "declare the tools available for this session",
		},
		{
			// Re-declaration replaces the previous set wholesale.
			From:        domain.StateCapabilitiesDeclared,
			Event:       domain.EventDeclareCapabilities,
			To:          domain.StateCapabilitiesDeclared,
			Description: "replace the declared tool set",
		},
		{
			From:        domain.StateCapabilitiesDeclared,
			Event:       domain.EventDefineSuccess,
			To:          domain.StateSuccessDefined,
			Description: "record success metrics and coding standards",
		},
		{
			From:        domain.StateSuccessDefined,
			Event:       domain.EventCreateTasklist,
			To:          domain.StateTasklistCreated,
			Description: "create the implementation-only tasklist",
		},
		{
			// Revision before mapping replaces the list wholesale.
			From:        domain.StateTasklistCreated,
			Event:       domain.EventCreateTasklist,
			To:          domain.StateTasklistCreated,
			Description: "replace the tasklist before mapping",
		},
		{
			From:        domain.StateTasklistCreated,
			Event:       domain.EventMapCapabilities,
			To:          domain.StateCapabilitiesMapped,
			Description: "assign declared tools to each task phase",
		},
		{
			From:        domain.StateCapabilitiesMapped,
			Event:       domain.EventStartTask,
			To:          domain.StateTaskPlanning,
			Guard:       hasPending,
			Description: "begin planning the first task",
		},
		{
			From:        domain.StateTaskPlanning,
			Event:       domain.EventPlanTask,
			To:          domain.StateTaskExecuting,
			Description: "planning done, move to execution",
		},
		{
			From:        domain.StateTaskExecuting,
			Event:       domain.EventCompleteTask,
			To:          domain.StateTaskCompleted,
			Description: "execution done, task complete",
		},
		{
			From:        domain.StateTaskCompleted,
			Event:       domain.EventStartTask,
			To:          domain.StateTaskPlanning,
			Guard:       hasPending,
			Description: "begin planning the next pending task",
		},
		{
			From:        domain.StateCollaborationPaused,
			Event:       domain.EventEditTask,
			To:          domain.StateTaskExecuting,
			ToResume:    true,
			Description: "apply the edit and resume where work paused",
		},
	}

	for _, s := range domain.States() {
		if s.Terminal() || s == domain.StateCollaborationPaused {
			continue
		}
		ts = append(ts, domain.Transition{
			From:        s,
			Event:       domain.EventRequestCollaboration,
			To:          domain.StateCollaborationPaused,
			Description: "pause for operator input",
		})
	}
	for _, s := range domain.States() {
		ts = append(ts, domain.Transition{
			From:        s,
			Event:       domain.EventEndSession,
			To:          domain.StateSessionEnded,
			Description: "end the session",
		})
	}
	return ts
}
