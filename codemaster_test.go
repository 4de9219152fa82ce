package codemaster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/pkg/adapters/memory"
	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func TestEngine_RawRoundTrip(t *testing.T) {
	eng := codemaster.New()
	ctx := context.Background()

	resp, err := eng.ExecuteRaw(ctx, map[string]any{
		"action":       "create_session",
		"session_name": "demo",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.SessionID)

	// Stringified parameters decode the same as native ones.
	resp, err = eng.ExecuteRaw(ctx, map[string]any{
		"action":          "declare_capabilities",
		"available_tools": `[{"name":"shell","description":"runs commands"}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Equal(t, domain.StateCapabilitiesDeclared, resp.CurrentState)
}

func TestEngine_RawDecodeFailureIsGuidance(t *testing.T) {
	eng := codemaster.New()

	resp, err := eng.ExecuteRaw(context.Background(), map[string]any{
		"action":   "create_tasklist",
		"tasklist": "not json at all",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, resp.Status)
	assert.Contains(t, resp.CompletionGuidance, "did not decode")
}

func TestEngine_CustomStore(t *testing.T) {
	store := memory.NewStore()
	eng := codemaster.New(codemaster.WithStore(store))
	ctx := context.Background()

	resp, err := eng.Execute(ctx, &domain.Command{Action: domain.ActionCreateSession})
	require.NoError(t, err)

	sess, err := store.Get(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInitialized, sess.WorkflowState)
}

func TestEngine_WorkflowTableExposed(t *testing.T) {
	eng := codemaster.New()
	assert.NotEmpty(t, eng.Workflow().Transitions())
}
