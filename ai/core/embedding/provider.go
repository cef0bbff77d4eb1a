// Package embedding provides the vector embedding capability used by the
// retrieval index.
package embedding

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// Service is the vector embedding service interface.
type Service interface {
	// Embed generates a vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates vectors for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimension.
	Dimensions() int
}

// Config represents embedding service configuration.
type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

type service struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewService creates a new embedding Service for any OpenAI-compatible
// provider.
func NewService(cfg *Config) (Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding api key required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = 1536
	}

	return &service{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		dimensions: dimensions,
	}, nil
}

func (s *service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return vectors[0], nil
}

func (s *service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = data.Embedding
	}
	return vectors, nil
}

func (s *service) Dimensions() int {
	return s.dimensions
}
