package memory_test

import (
	"context"
	"testing"

	"github.com/codemaster-ai/codemaster/pkg/adapters/memory"
	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	// Mutating a loaded session must not leak into the store until Save.
	ctx := context.Background()
	store := memory.NewStore()

	session, err := store.Create(ctx, "isolation")
	require.NoError(t, err)

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	loaded.Tasks = append(loaded.Tasks, domain.NewTask("mutate in place"))

	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Tasks, "unsaved mutation should not be visible")
}
