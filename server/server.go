// Package server assembles the analysis pipeline and serves it over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/auralab/aura/ai"
	"github.com/auralab/aura/ai/agent"
	"github.com/auralab/aura/ai/core/embedding"
	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/feedback"
	"github.com/auralab/aura/ai/metrics"
	"github.com/auralab/aura/ai/orchestrator"
	"github.com/auralab/aura/ai/preference"
	"github.com/auralab/aura/ai/retrieval"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/internal/profile"
	apiv1 "github.com/auralab/aura/server/router/api/v1"
	"github.com/auralab/aura/store"
)

// Server is the HTTP server hosting the analysis API.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

// NewServer builds the full pipeline: providers, detector, agents,
// orchestrator, and routes. The server works without an LLM API key; every
// LLM-dependent path then runs on canned responses.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	exporter := metrics.NewExporter(metrics.DefaultConfig())

	aiConfig := ai.NewConfigFromProfile(p)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ai config: %w", err)
	}

	llmService := buildLLMService(ctx, p, aiConfig, exporter)
	feedbackService := feedback.NewService(st)
	retrievalService := buildRetrievalService(aiConfig, st, feedbackService)
	detector, err := buildDetector(p, llmService)
	if err != nil {
		return nil, err
	}

	weights, err := preference.Load(p.WeightsPath)
	if err != nil {
		return nil, fmt.Errorf("load agent weights: %w", err)
	}

	var retriever retrieval.Retriever
	if retrievalService != nil {
		retriever = retrievalService
	}
	registry := agent.NewRegistry(llmService, retriever)

	orch := orchestrator.New(detector, registry,
		orchestrator.WithMaxInsights(p.MaxInsights),
		orchestrator.WithWeights(weights),
		orchestrator.WithExporter(exporter),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	apiService := apiv1.NewAPIV1Service(p, st, orch, registry, feedbackService, retrievalService, exporter)
	apiService.RegisterRoutes(e)

	return &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
		apiService: apiService,
	}, nil
}

// Start begins serving. It blocks until the listener fails or is shut down.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server: listening", "addr", addr, "mode", s.Profile.Mode)
	return s.echoServer.Start(addr)
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server: failed to shut down gracefully", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("server: failed to close store", "error", err)
	}
	slog.Info("server: stopped")
}

// buildLLMService creates the provider-backed completion service wrapped in
// canned-response degradation, and warms the connection in the background.
func buildLLMService(ctx context.Context, p *profile.Profile, cfg *ai.Config, exporter *metrics.Exporter) llm.Service {
	hook := llm.WithFallbackHook(exporter.RecordLLMFallback)
	if !p.IsLLMEnabled() {
		slog.Info("server: no LLM API key, running on canned responses")
		return llm.NewResilient(nil, hook)
	}

	inner, err := llm.NewService(&cfg.LLM)
	if err != nil {
		slog.Warn("server: LLM init failed, running on canned responses", "error", err)
		return llm.NewResilient(nil, hook)
	}
	slog.Info("server: LLM service initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	// Best effort: warmup failures only cost first-request latency.
	go func() {
		warmupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		inner.Warmup(warmupCtx)
	}()

	return llm.NewResilient(inner, hook)
}

// buildRetrievalService creates the store-backed retriever, or nil when no
// embedding provider is configured. Agents degrade to un-enriched prompts.
func buildRetrievalService(cfg *ai.Config, st *store.Store, fb feedback.Service) *retrieval.Service {
	if cfg.Embedding.APIKey == "" {
		slog.Info("server: no embedding API key, retrieval disabled")
		return nil
	}
	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		slog.Warn("server: embedding init failed, retrieval disabled", "error", err)
		return nil
	}
	slog.Info("server: retrieval enabled", "provider", cfg.Embedding.Provider, "model", cfg.Embedding.Model)
	return retrieval.NewService(st, embedder, fb)
}

// buildDetector creates the scenario detector per the configured strategy.
func buildDetector(p *profile.Profile, llmService llm.Service) (scenario.Detector, error) {
	if p.Classifier == "llm" {
		slog.Info("server: using LLM scenario classifier")
		return scenario.NewLLMDetector(llmService), nil
	}

	customRules, err := scenario.LoadCustomRules(p.ScenarioRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load custom scenario rules: %w", err)
	}
	if len(customRules) > 0 {
		slog.Info("server: custom scenario rules loaded", "count", len(customRules))
	}
	return scenario.NewRuleDetector(scenario.WithCustomRules(customRules)), nil
}

// requestLogger logs one line per request through slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("http: request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	})
}
