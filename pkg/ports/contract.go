package ports

import (
	"context"
	"testing"
	"time"

	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	name := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Create and Current", func(t *testing.T) {
		created, err := store.Create(ctx, name)
		require.NoError(t, err, "Create should not return error")
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, domain.StateInitialized, created.WorkflowState)

		current, err := store.Current(ctx)
		require.NoError(t, err, "Current should not return error after Create")
		assert.Equal(t, created.ID, current.ID)

		require.NoError(t, store.Delete(ctx, created.ID))
	})

	t.Run("Save and Get", func(t *testing.T) {
		session, err := store.Create(ctx, name)
		require.NoError(t, err)
		defer func() { _ = store.Delete(ctx, session.ID) }()

		session.WorkflowState = domain.StateCapabilitiesDeclared
		session.Tasks = append(session.Tasks, domain.NewTask("Build CSV parser"))
		require.NoError(t, store.Save(ctx, session))

		loaded, err := store.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateCapabilitiesDeclared, loaded.WorkflowState)
		require.Len(t, loaded.Tasks, 1)
		assert.Equal(t, "Build CSV parser", loaded.Tasks[0].Description)
		assert.Equal(t, domain.TaskPending, loaded.Tasks[0].Status)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete clears current", func(t *testing.T) {
		session, err := store.Create(ctx, name)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, session.ID))

		_, err = store.Get(ctx, session.ID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Get after Delete should return ErrSessionNotFound")

		_, err = store.Current(ctx)
		assert.ErrorIs(t, err, domain.ErrNoActiveSession, "Current after deleting the current session should report no active session")
	})

	t.Run("List", func(t *testing.T) {
		s1, err := store.Create(ctx, name+"-1")
		require.NoError(t, err)
		s2, err := store.Create(ctx, name+"-2")
		require.NoError(t, err)

		defer func() {
			_ = store.Delete(ctx, s1.ID)
			_ = store.Delete(ctx, s2.ID)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, s1.ID)
		assert.Contains(t, sessions, s2.ID)
	})
}
