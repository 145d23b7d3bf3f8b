package model

import (
	"context"
	"fmt"
	"time"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/intent"
)

// Client is a remote classifier that holds network resources.
type Client interface {
	intent.Model
	Close()
}

// New builds the classifier selected by cfg.ModelProvider.
// It returns (nil, nil) for the "none" provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	timeout := time.Duration(cfg.ModelTimeoutSeconds) * time.Second

	switch cfg.ModelProvider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey(),
			BaseURL: cfg.ModelBaseURL,
			Model:   cfg.ModelName,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderGemini:
		c, err := NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.APIKey(),
			Model:   cfg.ModelName,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}
