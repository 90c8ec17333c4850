package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zer0-1s/GPTtrace/internal/config"
)

func TestResolve_FlagsWin(t *testing.T) {
	t.Setenv(config.EnvAccessToken, "env-token")
	t.Setenv(config.EnvConvUUID, "env-uuid")

	cfg := config.Resolve("flag-token", "flag-uuid", true)

	assert.Equal(t, "flag-token", cfg.AccessToken)
	assert.Equal(t, "flag-uuid", cfg.SessionID)
	assert.True(t, cfg.Verbose)
}

func TestResolve_EnvFallback(t *testing.T) {
	t.Setenv(config.EnvAccessToken, "env-token")
	t.Setenv(config.EnvConvUUID, "env-uuid")

	cfg := config.Resolve("", "", false)

	assert.Equal(t, "env-token", cfg.AccessToken)
	assert.Equal(t, "env-uuid", cfg.SessionID)
	assert.False(t, cfg.Verbose)
}

func TestResolve_NothingSet(t *testing.T) {
	t.Setenv(config.EnvAccessToken, "")
	t.Setenv(config.EnvConvUUID, "")

	cfg := config.Resolve("", "", false)

	assert.Empty(t, cfg.AccessToken)
	assert.Empty(t, cfg.SessionID)
}

func TestResolve_MixedSources(t *testing.T) {
	t.Setenv(config.EnvAccessToken, "env-token")
	t.Setenv(config.EnvConvUUID, "env-uuid")

	cfg := config.Resolve("flag-token", "", false)

	assert.Equal(t, "flag-token", cfg.AccessToken)
	assert.Equal(t, "env-uuid", cfg.SessionID)
}
