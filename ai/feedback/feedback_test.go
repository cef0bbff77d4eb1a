package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralab/aura/store"
)

func TestFeedbackActionScores(t *testing.T) {
	tests := []struct {
		action store.FeedbackAction
		score  float64
	}{
		{store.FeedbackClicked, 1.0},
		{store.FeedbackDismissed, -0.5},
		{store.FeedbackIgnored, 0.0},
	}
	for _, tt := range tests {
		if got := tt.action.Score(); got != tt.score {
			t.Errorf("Score(%s) = %v, want %v", tt.action, got, tt.score)
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Record(ctx, "context", "Context Analyzer", store.FeedbackClicked))
	require.NoError(t, m.Record(ctx, "context", "Context Analyzer", store.FeedbackDismissed))
	require.NoError(t, m.Record(ctx, "context", "Context Analyzer", store.FeedbackClicked))

	mean, err := m.MeanScore(ctx, "context", "Context Analyzer")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mean, 1e-6)
}

func TestMemoryMeanScoreEmptyPair(t *testing.T) {
	mean, err := NewMemory().MeanScore(context.Background(), "none", "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean)
}

func TestMemoryPairsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Record(ctx, "context", "A", store.FeedbackClicked))
	require.NoError(t, m.Record(ctx, "wellness", "A", store.FeedbackDismissed))
	require.NoError(t, m.Record(ctx, "context", "B", store.FeedbackIgnored))

	mean, err := m.MeanScore(ctx, "context", "A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, mean)

	mean, err = m.MeanScore(ctx, "wellness", "A")
	require.NoError(t, err)
	assert.Equal(t, -0.5, mean)
}

func TestMemoryStatsAndReset(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Record(ctx, "social", "Social Intelligence", store.FeedbackClicked))
	require.NoError(t, m.Record(ctx, "social", "Social Intelligence", store.FeedbackClicked))

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "social", stats[0].Category)
	assert.Equal(t, "Social Intelligence", stats[0].AgentName)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, 1.0, stats[0].MeanScore)

	require.NoError(t, m.Reset(ctx))
	stats, err = m.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
