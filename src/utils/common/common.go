package common

import (
	"context"

	"github.com/adtgram/engine/src/utils/config"
)

type contextKey int

const configKey contextKey = iota

// SetConfig attaches the global configuration to the context
func SetConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// GetConfig retrieves the global configuration from the context
func GetConfig(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}
