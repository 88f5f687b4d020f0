package config

import (
	"context"
	"log/slog"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/client"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

type contextKey string

const configKey contextKey = "medsafectl-config"

// GlobalConfig holds shared configuration for all medsafectl commands.
// The root command's PersistentPreRunE injects it into the command context.
type GlobalConfig struct {
	Settings       sdk.Settings
	NonInteractive bool
	Logger         *slog.Logger
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only use it in RunE functions, after the root command injected the config.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("medsafectl: config not found in context - this is a bug in medsafectl")
	}
	return cfg
}

// AnnotationSkipBootstrap marks commands that must not start the identity
// query, such as login and logout.
const AnnotationSkipBootstrap = "medsafectl/skip-bootstrap"
