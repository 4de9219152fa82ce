package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: redis
redis:
  addr: redis.internal:6379
  ttl: 12h
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Redis.TTL.Std())
	assert.Equal(t, "info", cfg.Log.Level, "untouched sections keep defaults")
}

func TestLoad_EncryptionAndRedaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemaster.yaml")
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x02}, 32))
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  encryption_key: `+key+`
  fallback_keys:
    - `+old+`
  redact_patterns:
    - 'ghp_[A-Za-z0-9]+'
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	active, fallbacks, err := cfg.Store.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallbacks, 1)
	assert.Equal(t, []string{`ghp_[A-Za-z0-9]+`}, cfg.Store.RedactPatterns)
}

func TestLoad_ShortEncryptionKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemaster.yaml")
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	require.NoError(t, os.WriteFile(path, []byte("store:\n  encryption_key: "+short+"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 32")
}

func TestLoad_BadRedactPatternRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  redact_patterns:\n    - '['\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redact_patterns")
}

func TestLoad_UnknownBackendRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: etcd\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}
