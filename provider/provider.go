package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecollins/newsintel/config"
	openai_provider "github.com/davecollins/newsintel/provider/openai"
)

// Client represents different embedding providers
type Client string

const (
	OpenAI Client = "openai"
	Gemini Client = "gemini"
)

// Provider is the interface every embedding backend must satisfy.
type Provider interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates an embedding client from the embedding configuration.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("embedding api key not set")
		}
		return openai_provider.NewClient(cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}
