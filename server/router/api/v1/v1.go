// Package v1 exposes the REST API surface of the analysis service.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/auralab/aura/ai/agent"
	"github.com/auralab/aura/ai/feedback"
	"github.com/auralab/aura/ai/metrics"
	"github.com/auralab/aura/ai/orchestrator"
	"github.com/auralab/aura/ai/retrieval"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/internal/profile"
	"github.com/auralab/aura/store"
)

// APIV1Service bundles the domain services behind the v1 routes.
type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	Registry     *agent.Registry
	Feedback     feedback.Service
	Retrieval    *retrieval.Service
	Exporter     *metrics.Exporter
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(p *profile.Profile, st *store.Store, orch *orchestrator.Orchestrator, registry *agent.Registry, fb feedback.Service, rt *retrieval.Service, exporter *metrics.Exporter) *APIV1Service {
	return &APIV1Service{
		Profile:      p,
		Store:        st,
		Orchestrator: orch,
		Registry:     registry,
		Feedback:     fb,
		Retrieval:    rt,
		Exporter:     exporter,
	}
}

// RegisterRoutes mounts all v1 routes on the echo server.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/api/v1", middleware.CORS())

	group.POST("/analyze", s.Analyze)
	group.GET("/scenarios", s.ListScenarios)
	group.GET("/agents", s.ListAgents)
	group.POST("/feedback", s.RecordFeedback)
	group.GET("/feedback/stats", s.FeedbackStats)
	group.POST("/feedback/reset", s.ResetFeedback)
	group.GET("/retrieval/stats", s.RetrievalStats)

	e.GET("/healthz", s.Healthz)
	if s.Exporter != nil {
		e.GET("/metrics", echo.WrapHandler(s.Exporter.Handler()))
	}
}

// Healthz reports liveness.
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

// scenarioView is the catalog entry shape returned by ListScenarios.
type scenarioView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Triggers    []string `json:"triggers"`
}

// ListScenarios returns the fixed scenario catalog.
func (s *APIV1Service) ListScenarios(c echo.Context) error {
	views := make([]scenarioView, 0, len(scenario.Catalog()))
	for _, def := range scenario.Catalog() {
		views = append(views, scenarioView{
			ID:          string(def.Type),
			Description: def.Description,
			Triggers:    def.Triggers,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"scenarios": views})
}

// agentView is the registry entry shape returned by ListAgents.
type agentView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListAgents returns the fixed agent registry.
func (s *APIV1Service) ListAgents(c echo.Context) error {
	views := make([]agentView, 0, s.Registry.Len())
	for _, a := range s.Registry.All() {
		views = append(views, agentView{ID: a.ID(), Name: a.Name()})
	}
	return c.JSON(http.StatusOK, map[string]any{"agents": views})
}

// RetrievalStats reports retrieval index counts.
func (s *APIV1Service) RetrievalStats(c echo.Context) error {
	if s.Retrieval == nil {
		return c.JSON(http.StatusOK, retrieval.Stats{})
	}
	return c.JSON(http.StatusOK, s.Retrieval.GetStats(c.Request().Context()))
}
