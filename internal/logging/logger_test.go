package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelNames(t *testing.T) {
	ctx := context.Background()

	assert.True(t, New("debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, New("info").Enabled(ctx, slog.LevelDebug))
	assert.False(t, New("WARN").Enabled(ctx, slog.LevelInfo), "names are case-insensitive")
	assert.False(t, New("error").Enabled(ctx, slog.LevelWarn))
	assert.True(t, New("not-a-level").Enabled(ctx, slog.LevelInfo), "unknown names fall back to info")
}
