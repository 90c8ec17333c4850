// Package config resolves the tool configuration once, at startup. Flags win
// over GPTTRACE_* environment variables; nothing below this layer reads the
// environment.
package config

import (
	"github.com/spf13/viper"
)

const (
	EnvAccessToken = "GPTTRACE_ACCESS_TOKEN"
	EnvConvUUID    = "GPTTRACE_CONV_UUID"
)

// Config is the explicit configuration handed to the orchestrator.
type Config struct {
	AccessToken string
	SessionID   string
	Verbose     bool
}

// Resolve merges flag values with environment fallbacks. Empty flag values
// fall back to the corresponding environment variable; Verbose has no
// environment form.
func Resolve(accessToken, sessionID string, verbose bool) Config {
	v := viper.New()
	_ = v.BindEnv("access-token", EnvAccessToken)
	_ = v.BindEnv("uuid", EnvConvUUID)

	cfg := Config{
		AccessToken: accessToken,
		SessionID:   sessionID,
		Verbose:     verbose,
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = v.GetString("access-token")
	}
	if cfg.SessionID == "" {
		cfg.SessionID = v.GetString("uuid")
	}
	return cfg
}
