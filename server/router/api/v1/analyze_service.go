package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/auralab/aura/ai/snapshot"
)

// analyzeRequest is the request body of POST /api/v1/analyze. It maps
// directly onto the context snapshot; binding failure is the only
// caller-error path of this endpoint.
type analyzeRequest struct {
	CurrentLocation snapshot.Location        `json:"current_location"`
	Timestamp       string                   `json:"timestamp"`
	CalendarEvents  []snapshot.Event         `json:"calendar_events"`
	UserData        map[string]any           `json:"user_data"`
	LocationHistory []snapshot.LocationPoint `json:"location_history"`
	ManualScenario  string                   `json:"manual_scenario"`
}

// Analyze runs one orchestration pass over the submitted snapshot.
func (s *APIV1Service) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	snap := &snapshot.Snapshot{
		CurrentLocation: req.CurrentLocation,
		Timestamp:       req.Timestamp,
		CalendarEvents:  req.CalendarEvents,
		UserData:        req.UserData,
		LocationHistory: req.LocationHistory,
		ManualScenario:  req.ManualScenario,
	}

	result, err := s.Orchestrator.Orchestrate(c.Request().Context(), snap)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed").SetInternal(err)
	}

	// Fold the submitted history into the retrieval index in the background.
	// Best effort: index trouble never affects the response.
	if s.Retrieval != nil {
		go s.indexSnapshot(snap)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) indexSnapshot(snap *snapshot.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Retrieval.IndexCalendarEvents(ctx, snap.CalendarEvents); err != nil {
		slog.Warn("api: calendar indexing failed", "error", err)
	}
	if err := s.Retrieval.IndexLocationHistory(ctx, snap.LocationHistory); err != nil {
		slog.Warn("api: location indexing failed", "error", err)
	}
}
