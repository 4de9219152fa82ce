package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func TestDecodeCommand_NativeTypes(t *testing.T) {
	cmd, err := DecodeCommand(map[string]any{
		"action":       "create_tasklist",
		"session_name": "demo",
		"tasklist": []any{
			map[string]any{"description": "wire the config loader"},
		},
		"success_metrics": []any{"endpoints respond"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCreateTasklist, cmd.Action)
	assert.Equal(t, "demo", cmd.SessionName)
	require.Len(t, cmd.Tasklist, 1)
	assert.Equal(t, "wire the config loader", cmd.Tasklist[0].Description)
	assert.Equal(t, []string{"endpoints respond"}, cmd.SuccessMetrics)
}

func TestDecodeCommand_StringifiedJSON(t *testing.T) {
	cmd, err := DecodeCommand(map[string]any{
		"action":            "declare_capabilities",
		"available_tools":   `[{"name":"shell","description":"runs commands"}]`,
		"updated_task_data": `{"description":"new wording"}`,
	})
	require.NoError(t, err)
	require.Len(t, cmd.AvailableTools, 1)
	assert.Equal(t, "shell", cmd.AvailableTools[0].Name)
	assert.Equal(t, "new wording", cmd.UpdatedTaskData["description"])
}

func TestDecodeCommand_EmptyStringFieldDropped(t *testing.T) {
	cmd, err := DecodeCommand(map[string]any{
		"action":   "create_tasklist",
		"tasklist": "  ",
	})
	require.NoError(t, err)
	assert.Empty(t, cmd.Tasklist)
}

func TestDecodeCommand_MalformedJSONString(t *testing.T) {
	_, err := DecodeCommand(map[string]any{
		"action":   "create_tasklist",
		"tasklist": `[{"description": unquoted}]`,
	})
	require.Error(t, err)
	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "tasklist")
}

func TestDecodeCommand_UnknownParameter(t *testing.T) {
	_, err := DecodeCommand(map[string]any{
		"action":    "get_status",
		"tasklists": []any{},
	})
	require.Error(t, err)
	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "tasklists")
}

func TestDecodeCommand_NestedMappings(t *testing.T) {
	cmd, err := DecodeCommand(map[string]any{
		"action": "map_capabilities",
		"task_mappings": `[
			{
				"task_id": "task_1",
				"execution_phase": {
					"assigned_builtin_tools": [
						{"tool_name": "shell", "usage_purpose": "run builds", "priority": "high"}
					]
				}
			}
		]`,
	})
	require.NoError(t, err)
	require.Len(t, cmd.TaskMappings, 1)
	m := cmd.TaskMappings[0]
	assert.Equal(t, "task_1", m.TaskID)
	require.NotNil(t, m.ExecutionPhase)
	require.Len(t, m.ExecutionPhase.AssignedBuiltinTools, 1)
	assert.Equal(t, "shell", m.ExecutionPhase.AssignedBuiltinTools[0].ToolName)
	assert.Equal(t, "high", m.ExecutionPhase.AssignedBuiltinTools[0].Priority)
}
