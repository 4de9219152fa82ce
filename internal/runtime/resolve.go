package runtime

import "github.com/codemaster-ai/codemaster/pkg/domain"

// actionEvents maps the fixed-event actions to their workflow event.
// execute_next and mark_complete resolve contextually (below) and get_status
// never touches the machine.
var actionEvents = map[string]domain.Event{
	domain.ActionDeclareCapabilities:  domain.EventDeclareCapabilities,
	domain.ActionDefineSuccess:        domain.EventDefineSuccess,
	domain.ActionCreateTasklist:       domain.EventCreateTasklist,
	domain.ActionMapCapabilities:      domain.EventMapCapabilities,
	domain.ActionCollaborationRequest: domain.EventRequestCollaboration,
	domain.ActionEditTask:             domain.EventEditTask,
	domain.ActionEndSession:           domain.EventEndSession,
}

// resolveExecuteNext picks the event execute_next means from the session's
// state. Between tasks it means START_TASK; mid-phase, and once nothing is
// left pending, it means no event at all: the handler only reports, so the
// call stays free of side effects no matter how often it repeats. Phase
// advancement belongs to mark_complete alone.
// The second return is the fallback flag: true when the state matched none of
// the expected positions and START_TASK was chosen as a best effort, which the
// dispatcher logs before letting the gate decide.
func resolveExecuteNext(sess *domain.Session) (domain.Event, bool) {
	switch sess.WorkflowState {
	case domain.StateCapabilitiesMapped:
		return domain.EventStartTask, false
	case domain.StateTaskCompleted:
		if sess.CurrentTask() == nil {
			return "", false
		}
		return domain.EventStartTask, false
	case domain.StateTaskPlanning, domain.StateTaskExecuting:
		return "", false
	default:
		return domain.EventStartTask, true
	}
}

// resolveMarkComplete picks the event mark_complete means for the current
// task. A planning-phase task advances to execution; anything else completes.
// Returns false when the session has no current task to operate on.
func resolveMarkComplete(sess *domain.Session) (domain.Event, bool) {
	task := sess.CurrentTask()
	if task == nil {
		return "", false
	}
	if task.CurrentPhase == domain.PhasePlanning {
		return domain.EventPlanTask, true
	}
	return domain.EventCompleteTask, true
}
