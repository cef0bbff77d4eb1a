// Package feedback records user reactions to surfaced insights and exposes
// the aggregated mean score per (category, agent) pair.
package feedback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/auralab/aura/store"
)

// Service is the feedback persistence capability. Writes arrive from a
// serialized code path off the hot request path; reads happen on every
// orchestration pass. Eventual consistency between the two is acceptable.
type Service interface {
	// Record appends one feedback event. The score is derived
	// deterministically from the action.
	Record(ctx context.Context, category, agentName string, action store.FeedbackAction) error

	// MeanScore returns the running mean in [-1, 1] for the pair, 0 when no
	// feedback exists yet.
	MeanScore(ctx context.Context, category, agentName string) (float64, error)

	// Stats returns the aggregated mean per known (category, agent) pair.
	Stats(ctx context.Context) ([]*store.FeedbackStat, error)

	// Reset deletes all feedback. The only deletion path.
	Reset(ctx context.Context) error
}

type service struct {
	store *store.Store
}

// NewService creates a store-backed feedback service.
func NewService(st *store.Store) Service {
	return &service{store: st}
}

func (s *service) Record(ctx context.Context, category, agentName string, action store.FeedbackAction) error {
	record := &store.FeedbackRecord{
		ID:        uuid.NewString(),
		Category:  category,
		AgentName: agentName,
		Action:    action,
		Score:     action.Score(),
		CreatedTs: time.Now().Unix(),
	}
	if _, err := s.store.CreateFeedbackRecord(ctx, record); err != nil {
		return err
	}
	slog.Info("feedback: recorded",
		"category", category,
		"agent", agentName,
		"action", action,
		"score", record.Score,
	)
	return nil
}

func (s *service) MeanScore(ctx context.Context, category, agentName string) (float64, error) {
	stat, err := s.store.GetFeedbackStat(ctx, category, agentName)
	if err != nil {
		return 0, err
	}
	if stat.Count == 0 {
		return 0, nil
	}
	return stat.MeanScore, nil
}

func (s *service) Stats(ctx context.Context) ([]*store.FeedbackStat, error) {
	return s.store.ListFeedbackStats(ctx)
}

func (s *service) Reset(ctx context.Context) error {
	return s.store.ResetFeedback(ctx)
}

// Memory is an in-memory Service for tests and DB-less runs.
type Memory struct {
	mu     sync.RWMutex
	scores map[string][]float64
}

// NewMemory creates an empty in-memory feedback service.
func NewMemory() *Memory {
	return &Memory{scores: map[string][]float64{}}
}

func memoryKey(category, agentName string) string {
	return category + "\x00" + agentName
}

func (m *Memory) Record(_ context.Context, category, agentName string, action store.FeedbackAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(category, agentName)
	m.scores[key] = append(m.scores[key], action.Score())
	return nil
}

func (m *Memory) MeanScore(_ context.Context, category, agentName string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scores := m.scores[memoryKey(category, agentName)]
	if len(scores) == 0 {
		return 0, nil
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}

func (m *Memory) Stats(_ context.Context) ([]*store.FeedbackStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := []*store.FeedbackStat{}
	for key, scores := range m.scores {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		var category, agent string
		for i := 0; i < len(key); i++ {
			if key[i] == 0 {
				category, agent = key[:i], key[i+1:]
				break
			}
		}
		stats = append(stats, &store.FeedbackStat{
			Category:  category,
			AgentName: agent,
			Count:     int64(len(scores)),
			MeanScore: sum / float64(len(scores)),
		})
	}
	return stats, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = map[string][]float64{}
	return nil
}
