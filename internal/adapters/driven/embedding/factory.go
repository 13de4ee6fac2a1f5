// Package embedding provides factory functions for creating embedding
// service adapters from settings.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is implemented by adapters that can check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// NewService creates the embedding service for the configured provider.
// Returns nil for the none provider; the engine then runs keyword-only.
func NewService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.EmbeddingProviderNone:
		return nil, nil

	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.EmbeddingProviderOpenAI:
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
}

// Validate creates a service for the settings and pings the provider.
// Intended for immediate feedback when the provider is configured.
func Validate(settings domain.EmbeddingSettings) error {
	svc, err := NewService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}

	p, ok := svc.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}
