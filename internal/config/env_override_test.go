package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("SHELLKIT_HISTORY sets path", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHELLKIT_HISTORY", "/var/tmp/hist")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/var/tmp/hist", cfg.History.Path)
		assert.Equal(t, BackendFile, cfg.History.Backend)
	})

	t.Run("SHELLKIT_HISTORY_BACKEND switches backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHELLKIT_HISTORY_BACKEND", "sqlite")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BackendSQLite, cfg.History.Backend)
	})

	t.Run("SHELLKIT_HISTORY_LIMIT ignores garbage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHELLKIT_HISTORY_LIMIT", "lots")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 0, cfg.History.Limit)

		t.Setenv("SHELLKIT_HISTORY_LIMIT", "25")
		cfg.applyEnvOverrides()
		assert.Equal(t, 25, cfg.History.Limit)
	})

	t.Run("SHELLKIT_PROMPT replaces prompt", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHELLKIT_PROMPT", "$ ")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "$ ", cfg.Shell.Prompt)
	})

	t.Run("SHELLKIT_LOG_LEVEL turns on debug mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHELLKIT_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultConfig(), cfg)
	})
}
