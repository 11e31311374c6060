package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false))
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, true))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, false))
}

func TestSetupFiltersByLevel(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	Setup(&buf, slog.LevelWarn)

	slog.Info("hidden")
	slog.Warn("shown", "path", "model.glb")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "path=model.glb")
}
