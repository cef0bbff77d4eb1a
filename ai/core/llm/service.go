// Package llm provides the completion capability consumed by the scenario
// classifier and every agent. Any OpenAI-compatible provider works.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Service is the LLM completion capability. Implementations must be
// swappable with deterministic stubs in tests.
type Service interface {
	// Complete sends one prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Warmup sends a lightweight ping request to establish and warm up the
	// provider connection. Failures are logged, never returned.
	Warmup(ctx context.Context)
}

// Config represents LLM service configuration.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32 // default: 0.7
	Timeout     int     // Request timeout in seconds (default: 60)
	RPS         float64 // Max requests per second (default: 5)
}

type service struct {
	client      *openai.Client
	limiter     *rate.Limiter
	model       string
	provider    string
	temperature float32
	timeout     int
}

// NewService creates a new LLM Service for any OpenAI-compatible provider.
func NewService(cfg *Config) (Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = newHTTPClient()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}

	return &service{
		client:      openai.NewClientWithConfig(clientConfig),
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		model:       cfg.Model,
		provider:    cfg.Provider,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

func (s *service) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	// The external LLM dependency can hang; every call carries its own timeout.
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.timeout)*time.Second)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit wait: %w", err)
	}

	slog.Debug("llm: completion request",
		"model", s.model,
		"prompt_length", len(prompt),
		"max_tokens", maxTokens,
	)

	startTime := time.Now()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("llm: completion request failed", "error", err)
		return "", fmt.Errorf("llm completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("llm: empty response")
		return "", fmt.Errorf("empty response from llm")
	}

	slog.Debug("llm: completion response received",
		"content_length", len(resp.Choices[0].Message.Content),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return resp.Choices[0].Message.Content, nil
}

func (s *service) Warmup(ctx context.Context) {
	warmupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   1,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Hi"},
		},
	}

	if _, err := s.client.CreateChatCompletion(warmupCtx, req); err != nil {
		slog.Warn("llm: warmup ping failed (service will still work, first request may be slower)",
			"provider", s.provider,
			"model", s.model,
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return
	}

	slog.Info("llm: connection warmed up",
		"provider", s.provider,
		"model", s.model,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
