package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemaster-ai/codemaster/pkg/adapters/memory"
	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/ports"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func encryptedStore(t *testing.T, cfg EncryptionConfig) (ports.SessionStore, *memory.Store) {
	t.Helper()
	inner := memory.NewStore()
	return NewEncryptionMiddleware(cfg)(inner), inner
}

func TestEncryption_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, inner := encryptedStore(t, EncryptionConfig{ActiveKey: testKey(0x01)})

	sess, err := store.Create(ctx, "secret-project")
	require.NoError(t, err)

	sess.WorkflowState = domain.StateTasklistCreated
	sess.Tasks = append(sess.Tasks, domain.NewTask("Implement billing export"))
	sess.Data.SuccessMetrics = []string{"export completes under 5s"}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret-project", loaded.Name)
	assert.Equal(t, domain.StateTasklistCreated, loaded.WorkflowState)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "Implement billing export", loaded.Tasks[0].Description)
	assert.Equal(t, []string{"export completes under 5s"}, loaded.Data.SuccessMetrics)

	current, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, current.ID)

	// The record underneath must not expose anything beyond the envelope.
	raw, err := inner.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.Name)
	assert.Empty(t, raw.Tasks)
	assert.Empty(t, raw.Data.SuccessMetrics)
	assert.Equal(t, domain.StateTasklistCreated, raw.WorkflowState, "workflow state stays in the clear for monitoring")
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	writer := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(0x01)})(inner)
	sess, err := writer.Create(ctx, "alpha")
	require.NoError(t, err)

	reader := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(0x02)})(inner)
	_, err = reader.Get(ctx, sess.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestEncryption_KeyRotation(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	oldKey := testKey(0x01)
	newKey := testKey(0x02)

	writer := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: oldKey})(inner)
	sess, err := writer.Create(ctx, "rotated")
	require.NoError(t, err)

	rotated := NewEncryptionMiddleware(EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(inner)

	loaded, err := rotated.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", loaded.Name)

	// Saving reseals under the new key, so the fallback is no longer needed.
	require.NoError(t, rotated.Save(ctx, loaded))
	newOnly := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: newKey})(inner)
	reloaded, err := newOnly.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", reloaded.Name)
}

func TestEncryption_MissingEnvelopeFailsSecure(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	// Written without encryption, read with it.
	plain, err := inner.Create(ctx, "legacy")
	require.NoError(t, err)

	store := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(0x01)})(inner)
	_, err = store.Get(ctx, plain.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing its encrypted envelope")
}

func TestEncryption_RejectsShortKey(t *testing.T) {
	assert.Panics(t, func() {
		NewEncryptionMiddleware(EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestEncryption_ListAndDeletePassThrough(t *testing.T) {
	ctx := context.Background()
	store, _ := encryptedStore(t, EncryptionConfig{ActiveKey: testKey(0x01)})

	s1, err := store.Create(ctx, "one")
	require.NoError(t, err)
	s2, err := store.Create(ctx, "two")
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{s1.ID, s2.ID}, ids)

	require.NoError(t, store.Delete(ctx, s1.ID))
	_, err = store.Get(ctx, s1.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedaction_MasksOnWriteOnly(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := NewRedactionMiddleware([]string{
		`(?i)api[_-]?key\s*[:=]\s*\S+`,
		`ghp_[A-Za-z0-9]+`,
	})(inner)

	sess, err := store.Create(ctx, "redacted")
	require.NoError(t, err)

	task := domain.NewTask("Call the API with api_key=sk-12345 for auth")
	sess.Tasks = append(sess.Tasks, task)
	sess.Data.CodingStandards = []string{"never commit ghp_abc123 tokens"}
	require.NoError(t, store.Save(ctx, sess))

	// The caller's copy is untouched.
	assert.Contains(t, task.Description, "sk-12345")

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "Call the API with *** for auth", loaded.Tasks[0].Description)
	assert.Equal(t, []string{"never commit *** tokens"}, loaded.Data.CodingStandards)
}

func TestRedaction_MasksPhaseAssignments(t *testing.T) {
	ctx := context.Background()
	store := NewRedactionMiddleware([]string{`secret-\w+`})(memory.NewStore())

	sess, err := store.Create(ctx, "phases")
	require.NoError(t, err)

	task := domain.NewTask("Deploy service")
	task.ExecutionPhase.AssignedBuiltinTools = []domain.ToolAssignment{{
		ToolName:        "bash",
		UsagePurpose:    "run deploy with secret-token",
		SpecificActions: []string{"export TOKEN=secret-token", "deploy"},
	}}
	sess.Tasks = append(sess.Tasks, task)
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	got := loaded.Tasks[0].ExecutionPhase.AssignedBuiltinTools[0]
	assert.Equal(t, "run deploy with ***", got.UsagePurpose)
	assert.Equal(t, []string{"export TOKEN=***", "deploy"}, got.SpecificActions)
}

func TestRedaction_ComposesWithEncryption(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	var store ports.SessionStore = inner
	store = NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(0x01)})(store)
	store = NewRedactionMiddleware([]string{`hunter2`})(store)

	sess, err := store.Create(ctx, "combo")
	require.NoError(t, err)
	sess.Data.DenoisedPlan = "login with hunter2 then rotate it"
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "login with *** then rotate it", loaded.Data.DenoisedPlan)
}

func TestEncryptedStoreContract(t *testing.T) {
	store, _ := encryptedStore(t, EncryptionConfig{ActiveKey: testKey(0x01)})
	ports.RunSessionStoreContract(t, store)
}
