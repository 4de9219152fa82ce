package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func TestClassifyComplexity(t *testing.T) {
	cases := []struct {
		description string
		want        domain.Complexity
	}{
		{"refactor the session architecture", domain.ComplexityArchitectural},
		{"integrate the payment gateway", domain.ComplexityArchitectural},
		{"implement retry on the client", domain.ComplexityComplex},
		{"add a timeout flag", domain.ComplexityComplex},
		{"rename the log prefix", domain.ComplexitySimple},
		{"Build the CLI entrypoint", domain.ComplexityComplex},
		{"design the storage SYSTEM", domain.ComplexityArchitectural},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyComplexity(tc.description), tc.description)
	}
}

func TestRejectedKeyword(t *testing.T) {
	for _, desc := range []string{
		"test the login flow",
		"Validate user input",
		"verify the deployment",
		"document the API",
		"update the docs page",
	} {
		_, bad := rejectedKeyword(desc)
		assert.True(t, bad, desc)
	}

	_, bad := rejectedKeyword("wire the config loader")
	assert.False(t, bad)
}

func TestCreateTasklist_FiltersForbiddenTasks(t *testing.T) {
	d, _ := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})

	resp := run(t, d, &domain.Command{
		Action: domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{
			{Description: "wire the config loader"},
			{Description: "write tests for the loader"},
			{Description: "document the endpoints"},
		},
	})
	require.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Equal(t, 1, resp.TasksCreated)
	assert.Len(t, resp.RejectedTasks, 2)
	assert.Contains(t, resp.RejectedTasks[0], "test")
}

func TestCreateTasklist_AllRejectedIsAnErrorWithoutTransition(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})

	resp := run(t, d, &domain.Command{
		Action:   domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{Description: "verify everything"}},
	})
	assert.Equal(t, domain.StatusError, resp.Status)
	assert.Equal(t, domain.StateSuccessDefined, resp.CurrentState)

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateSuccessDefined, sess.WorkflowState)
	assert.Empty(t, sess.Tasks)
}

func TestCreateTasklist_ReplacesPreviousList(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})
	run(t, d, &domain.Command{
		Action:   domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{Description: "wire the config loader"}},
	})

	resp := run(t, d, &domain.Command{
		Action:   domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{Description: "hook up the router"}},
	})
	require.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Equal(t, domain.StateTasklistCreated, resp.CurrentState)

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, sess.Tasks, 1, "revision replaces, never appends")
	assert.Equal(t, "hook up the router", sess.Tasks[0].Description)
}

func TestCreateTasklist_AppliesPhaseOverridesAndThoughts(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})
	run(t, d, &domain.Command{
		Action: domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{
			Description:         "wire the config loader",
			PlanningPhase:       &domain.PhaseInput{Description: "survey existing config packages"},
			InitialToolThoughts: &domain.ToolThoughts{Reasoning: "file_editor for the config package"},
		}},
		DenoisedPlan: "single-pass rollout",
	})

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	task := sess.Tasks[0]
	assert.Equal(t, "survey existing config packages", task.PlanningPhase.Description)
	assert.Contains(t, task.ExecutionPhase.Description, "wire the config loader")
	require.NotNil(t, task.InitialToolThoughts)
	assert.Equal(t, "file_editor for the config package", task.InitialToolThoughts.Reasoning)
	assert.Equal(t, "single-pass rollout", sess.Data.DenoisedPlan)
}

func TestDeclareCapabilities_ReplacesPreviousSet(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})

	resp := run(t, d, &domain.Command{
		Action:         domain.ActionDeclareCapabilities,
		AvailableTools: []domain.DeclaredTool{{Name: "browser", Description: "fetches pages"}},
	})
	require.Equal(t, domain.StatusSuccess, resp.Status)

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, sess.Capabilities.BuiltinTools, 1)
	assert.Equal(t, "browser", sess.Capabilities.BuiltinTools[0].Name)
}

func TestMapCapabilities_KeepsUndeclaredToolsWithNotice(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})
	run(t, d, &domain.Command{
		Action:   domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{Description: "wire the config loader"}},
	})

	resp := run(t, d, &domain.Command{
		Action: domain.ActionMapCapabilities,
		TaskMappings: []domain.TaskMapping{{
			TaskID: taskIDs(t, d)[0],
			ExecutionPhase: &domain.PhaseInput{
				AssignedBuiltinTools: []domain.ToolAssignment{
					{ToolName: "shell", UsagePurpose: "run the loader"},
					{ToolName: "quantum_compiler", UsagePurpose: "not a real tool"},
				},
			},
		}},
	})
	require.Equal(t, domain.StatusSuccess, resp.Status)
	require.Len(t, resp.Notices, 1)
	assert.Contains(t, resp.Notices[0], "quantum_compiler")

	// Trust on write: the assignment is stored exactly as supplied, the
	// notice is the only consequence of the undeclared name.
	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	tools := sess.Tasks[0].ExecutionPhase.AssignedBuiltinTools
	require.Len(t, tools, 2)
	assert.Equal(t, "shell", tools[0].ToolName)
	assert.Equal(t, "quantum_compiler", tools[1].ToolName)
}

func TestMapCapabilities_UnknownTaskOnly(t *testing.T) {
	d, mgr := newTestDispatcher()
	run(t, d, &domain.Command{Action: domain.ActionCreateSession})
	run(t, d, &domain.Command{Action: domain.ActionDeclareCapabilities, AvailableTools: declaredTools()})
	run(t, d, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"works"},
		CodingStandards: []string{"clean"},
	})
	run(t, d, &domain.Command{
		Action:   domain.ActionCreateTasklist,
		Tasklist: []domain.TaskInput{{Description: "wire the config loader"}},
	})

	resp := run(t, d, &domain.Command{
		Action:       domain.ActionMapCapabilities,
		TaskMappings: []domain.TaskMapping{{TaskID: "task_missing"}},
	})
	assert.Equal(t, domain.StatusSuccess, resp.Status, "unmatched ids are skipped, not an error")
	require.Len(t, resp.Notices, 1)
	assert.Contains(t, resp.Notices[0], "task_missing")

	// The task itself is untouched.
	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sess.Tasks[0].ExecutionPhase.AssignedBuiltinTools)
	assert.Empty(t, sess.Tasks[0].PlanningPhase.AssignedBuiltinTools)
}

func TestEditTask_ControlFieldEscapeHatch(t *testing.T) {
	d, mgr := newTestDispatcher()
	setupThroughMapping(t, d)
	run(t, d, &domain.Command{Action: domain.ActionExecuteNext})
	run(t, d, &domain.Command{
		Action:               domain.ActionCollaborationRequest,
		CollaborationContext: "operator wants task one skipped",
	})

	resp := run(t, d, &domain.Command{
		Action: domain.ActionEditTask,
		TaskID: taskIDs(t, d)[0],
		UpdatedTaskData: map[string]any{
			"status":      "completed",
			"launch_code": "ignored",
		},
	})
	require.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Len(t, resp.Notices, 2)

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, sess.Tasks[0].Status)
	assert.Equal(t, sess.Tasks[1].ID, sess.CurrentTask().ID, "current follows first pending")
}

func TestEditTask_UnknownTaskStaysPaused(t *testing.T) {
	d, mgr := newTestDispatcher()
	setupThroughMapping(t, d)
	run(t, d, &domain.Command{Action: domain.ActionExecuteNext})
	run(t, d, &domain.Command{
		Action:               domain.ActionCollaborationRequest,
		CollaborationContext: "blocked",
	})

	resp := run(t, d, &domain.Command{
		Action:          domain.ActionEditTask,
		TaskID:          "task_missing",
		UpdatedTaskData: map[string]any{"description": "anything"},
	})
	assert.Equal(t, domain.StatusError, resp.Status)

	sess, err := mgr.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateCollaborationPaused, sess.WorkflowState)
	assert.Equal(t, domain.StateTaskPlanning, sess.ResumeState, "failed edit keeps the resume marker")
}

func TestGetStatus_ReportsSnapshot(t *testing.T) {
	d, _ := newTestDispatcher()
	setupThroughMapping(t, d)
	run(t, d, &domain.Command{Action: domain.ActionExecuteNext})

	resp := run(t, d, &domain.Command{Action: domain.ActionGetStatus})
	require.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Equal(t, domain.StateTaskPlanning, resp.CurrentState)
	assert.Equal(t, 2, resp.TotalTasks)
	assert.Equal(t, 0, resp.CompletedTasks)
	assert.Equal(t, domain.PhasePlanning, resp.CurrentPhase)
	assert.NotEmpty(t, resp.CurrentTaskID)
	assert.Contains(t, resp.CompletionGuidance, "wire the config loader")
}
