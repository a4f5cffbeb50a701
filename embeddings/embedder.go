package embeddings

import (
	"context"
	"fmt"

	"github.com/elemstage/elemstage/embeddings/ollama"
	"github.com/elemstage/elemstage/embeddings/openai"
	"github.com/elemstage/elemstage/embeddings/vertexai"
)

// Embedder computes vector embeddings for documents and queries.
type Embedder interface {
	EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Config selects and parameterizes an embedding provider.
type Config struct {
	Provider string `yaml:"provider" json:"provider"` // openai, ollama or vertexai
	Model    string `yaml:"model" json:"model"`
	BaseURL  string `yaml:"baseURL,omitempty" json:"baseURL,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty" json:"apiKey,omitempty"`
	Project  string `yaml:"project,omitempty" json:"project,omitempty"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
}

// New builds an Embedder for the configured provider.
func New(cfg *Config) (Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("embeddings: config is required")
	}
	switch cfg.Provider {
	case "", "openai":
		client := openai.New(cfg.Model, openai.WithAPIKey(cfg.APIKey), openai.WithBaseURL(cfg.BaseURL))
		return &openai.Embedder{Client: client}, nil
	case "ollama":
		client := ollama.New(cfg.Model, ollama.WithBaseURL(cfg.BaseURL))
		return &ollama.Embedder{Client: client}, nil
	case "vertexai":
		return vertexai.NewEmbedder(cfg.Project, cfg.Model, cfg.Location, nil), nil
	}
	return nil, fmt.Errorf("embeddings: unsupported provider %q", cfg.Provider)
}
