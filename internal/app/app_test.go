package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightimer/internal/config"
	"lightimer/internal/sound"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.Log.File = filepath.Join(dir, "logs", "lightimer.log")
	cfg.Log.Level = "verbose"
	cfg.Sound.Backend = sound.None
	return cfg
}

func TestNewWiresComponents(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)

	assert.Same(t, cfg, a.Config)
	require.NotNil(t, a.History)
	assert.Equal(t, sound.NoOp{}, a.Notifier)

	logs, err := a.History.GetRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, logs)

	a.Log.Info("hello from the test")
	require.NoError(t, a.Close())
	assert.Nil(t, a.History)

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
}

func TestNewWithoutHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false
	cfg.Log.File = ""

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.History)
	assert.NoFileExists(t, cfg.History.Path)
}

func TestNewRejectsBadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "shouty"

	_, err := New(cfg)
	assert.Error(t, err)
	_, err = NewForCommand(cfg)
	assert.Error(t, err)
}

func TestNewForCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sound.Backend = sound.Beep

	a, err := NewForCommand(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.History)
	assert.Equal(t, sound.NoOp{}, a.Notifier, "subcommands never open the audio device")
}
