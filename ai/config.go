// Package ai wires the analysis pipeline configuration from the instance
// profile.
package ai

import (
	"fmt"

	"github.com/auralab/aura/ai/core/embedding"
	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/internal/profile"
)

// Config bundles the provider configurations derived from the profile.
type Config struct {
	LLM       llm.Config
	Embedding embedding.Config
}

// NewConfigFromProfile maps profile fields onto provider configurations.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		LLM: llm.Config{
			Provider: p.LLMProvider,
			Model:    p.LLMModel,
			APIKey:   p.LLMAPIKey,
			BaseURL:  p.LLMBaseURL,
			Timeout:  p.LLMTimeout,
			RPS:      p.LLMRPS,
		},
		Embedding: embedding.Config{
			Provider: p.EmbeddingProvider,
			Model:    p.EmbeddingModel,
			APIKey:   p.EmbeddingAPIKey,
			BaseURL:  p.EmbeddingBaseURL,
		},
	}
}

// Validate checks that the configured providers are usable.
func (c *Config) Validate() error {
	if c.LLM.APIKey != "" && c.LLM.Model == "" {
		return fmt.Errorf("llm model required when an api key is set")
	}
	if c.Embedding.APIKey != "" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding model required when an api key is set")
	}
	return nil
}
