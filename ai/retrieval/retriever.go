// Package retrieval provides semantic similarity search over the user's
// historical calendar and location records, optionally re-ranked by
// feedback signal. Agents treat it as a best-effort collaborator: failures
// degrade to an empty result, never abort the caller.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/auralab/aura/ai/core/embedding"
	"github.com/auralab/aura/ai/feedback"
	"github.com/auralab/aura/ai/snapshot"
	"github.com/auralab/aura/store"
)

// Record is one retrieval hit handed to agents for prompt enrichment.
type Record struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// Retriever is the semantic retrieval capability injected into agents.
type Retriever interface {
	// Similar returns the top-K records semantically similar to the query.
	// Returns an empty slice when no index is built.
	Similar(ctx context.Context, query string, topK int, category store.ContextCategory) ([]Record, error)

	// SimilarWithFeedback searches calendar records with feedback-aware
	// re-ranking: when the (insight category, agent) pair has positive
	// aggregated feedback, similarity scores are boosted by a fixed factor.
	SimilarWithFeedback(ctx context.Context, query string, topK int, feedbackCategory, agentName string) ([]Record, error)
}

// feedbackBoost is the fixed multiplier applied when positive feedback
// matches the querying agent.
const feedbackBoost = 1.2

// Service implements Retriever over the context-record store.
type Service struct {
	store     *store.Store
	embedder  embedding.Service
	feedback  feedback.Service
	indexedAt time.Time
}

// NewService creates a store-backed retriever. The feedback service may be
// nil, which disables boosting.
func NewService(st *store.Store, embedder embedding.Service, fb feedback.Service) *Service {
	return &Service{store: st, embedder: embedder, feedback: fb}
}

// Stats reports how many records are indexed per category.
type Stats struct {
	CalendarEvents int64 `json:"calendar_events"`
	Locations      int64 `json:"locations"`
}

// IndexCalendarEvents embeds and stores historical calendar events.
func (s *Service) IndexCalendarEvents(ctx context.Context, events []snapshot.Event) error {
	if len(events) == 0 {
		slog.Warn("retrieval: no calendar events to index")
		return nil
	}

	texts := make([]string, len(events))
	for i, e := range events {
		texts[i] = fmt.Sprintf("%s %s: %s at %s", e.Date, e.Time, e.Title, e.Location)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed calendar events: %w", err)
	}

	now := time.Now().Unix()
	for i, e := range events {
		record := &store.ContextRecord{
			ID:       uuid.NewString(),
			Category: store.CategoryCalendar,
			Content:  texts[i],
			Metadata: map[string]string{
				"date":     e.Date,
				"time":     e.Time,
				"event":    e.Title,
				"location": e.Location,
				"duration": e.Duration,
			},
			Embedding: vectors[i],
			CreatedTs: now,
		}
		if _, err := s.store.UpsertContextRecord(ctx, record); err != nil {
			return fmt.Errorf("store calendar record: %w", err)
		}
	}
	s.indexedAt = time.Now()
	slog.Info("retrieval: indexed calendar events", "count", len(events))
	return nil
}

// IndexLocationHistory embeds and stores historical location visits.
func (s *Service) IndexLocationHistory(ctx context.Context, points []snapshot.LocationPoint) error {
	if len(points) == 0 {
		slog.Warn("retrieval: no location history to index")
		return nil
	}

	texts := make([]string, len(points))
	for i, p := range points {
		texts[i] = fmt.Sprintf("%s: visited %s", p.Timestamp, p.Location)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed location history: %w", err)
	}

	now := time.Now().Unix()
	for i, p := range points {
		record := &store.ContextRecord{
			ID:       uuid.NewString(),
			Category: store.CategoryLocation,
			Content:  texts[i],
			Metadata: map[string]string{
				"timestamp": p.Timestamp,
				"location":  p.Location,
			},
			Embedding: vectors[i],
			CreatedTs: now,
		}
		if _, err := s.store.UpsertContextRecord(ctx, record); err != nil {
			return fmt.Errorf("store location record: %w", err)
		}
	}
	s.indexedAt = time.Now()
	slog.Info("retrieval: indexed location history", "count", len(points))
	return nil
}

// GetStats returns index counts. Errors degrade to zero counts.
func (s *Service) GetStats(ctx context.Context) Stats {
	stats := Stats{}
	if count, err := s.store.CountContextRecords(ctx, store.CategoryCalendar); err == nil {
		stats.CalendarEvents = count
	}
	if count, err := s.store.CountContextRecords(ctx, store.CategoryLocation); err == nil {
		stats.Locations = count
	}
	return stats
}

func (s *Service) Similar(ctx context.Context, query string, topK int, category store.ContextCategory) ([]Record, error) {
	if topK <= 0 {
		topK = 3
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.SearchContextRecords(ctx, &store.FindSimilarContextRecords{
		Embedding: vector,
		Category:  &category,
		Limit:     topK,
	})
	if err != nil {
		return nil, fmt.Errorf("search context records: %w", err)
	}

	records := make([]Record, 0, len(hits))
	for _, hit := range hits {
		records = append(records, Record{
			Content:  hit.Record.Content,
			Metadata: hit.Record.Metadata,
			Score:    hit.Score,
		})
	}
	slog.Debug("retrieval: similar records found", "query", query, "count", len(records))
	return records, nil
}

func (s *Service) SimilarWithFeedback(ctx context.Context, query string, topK int, feedbackCategory, agentName string) ([]Record, error) {
	records, err := s.Similar(ctx, query, topK, store.CategoryCalendar)
	if err != nil || len(records) == 0 || s.feedback == nil {
		return records, err
	}

	mean, err := s.feedback.MeanScore(ctx, feedbackCategory, agentName)
	if err != nil {
		// Feedback store trouble never degrades retrieval itself.
		slog.Warn("retrieval: feedback lookup failed, skipping boost", "error", err)
		return records, nil
	}
	if mean <= 0 {
		return records, nil
	}

	for i := range records {
		records[i].Score *= feedbackBoost
	}
	slog.Debug("retrieval: boosted results on positive feedback",
		"agent", agentName,
		"mean_score", mean,
	)
	return records, nil
}
