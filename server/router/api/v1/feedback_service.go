package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/auralab/aura/store"
)

// feedbackRequest is the request body of POST /api/v1/feedback.
type feedbackRequest struct {
	Category  string `json:"category"`
	AgentName string `json:"agent_name"`
	Action    string `json:"action"`
}

// RecordFeedback appends one user reaction to an insight.
func (s *APIV1Service) RecordFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if req.Category == "" || req.AgentName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category and agent_name are required")
	}
	action := store.FeedbackAction(req.Action)
	if !action.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "action must be clicked, dismissed, or ignored")
	}

	if err := s.Feedback.Record(c.Request().Context(), req.Category, req.AgentName, action); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record feedback").SetInternal(err)
	}
	if s.Exporter != nil {
		s.Exporter.RecordFeedback(req.Action)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "recorded"})
}

// FeedbackStats returns the aggregated mean score per (category, agent)
// pair.
func (s *APIV1Service) FeedbackStats(c echo.Context) error {
	stats, err := s.Feedback.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load feedback stats").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"stats": stats})
}

// ResetFeedback deletes all recorded feedback. The only deletion path.
func (s *APIV1Service) ResetFeedback(c echo.Context) error {
	if err := s.Feedback.Reset(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset feedback").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
