// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/metagen/internal/config"
	"github.com/jackzampolin/metagen/internal/home"
	"github.com/jackzampolin/metagen/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Registry *providers.Registry
	Config   *config.Manager
	Logger   *slog.Logger
	Home     *home.Dir

	// LLMProvider overrides defaults.llm_provider from Config when set.
	LLMProvider string
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// ConfigFrom extracts the current configuration from context.
// Returns nil if no config manager is attached.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil && s.Config != nil {
		return s.Config.Get()
	}
	return nil
}

// LLMProviderFrom returns the name of the LLM provider requests should use.
func LLMProviderFrom(ctx context.Context) string {
	if s := ServicesFrom(ctx); s != nil {
		return s.LLMProviderName()
	}
	return ""
}

// LLMProviderName returns LLMProvider, falling back to the configured
// default provider.
func (s *Services) LLMProviderName() string {
	if s.LLMProvider != "" {
		return s.LLMProvider
	}
	if s.Config != nil {
		return s.Config.Get().Defaults.LLMProvider
	}
	return ""
}
