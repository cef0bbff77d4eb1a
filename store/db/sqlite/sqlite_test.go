package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralab/aura/internal/profile"
	"github.com/auralab/aura/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()
	driver, err := NewDB(&profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func TestFeedbackRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	events := []struct {
		category string
		agent    string
		action   store.FeedbackAction
	}{
		{"wellness", "wellness", store.FeedbackClicked},
		{"wellness", "wellness", store.FeedbackDismissed},
		{"context", "context", store.FeedbackClicked},
	}
	for i, e := range events {
		_, err := d.CreateFeedbackRecord(ctx, &store.FeedbackRecord{
			ID:        string(rune('a' + i)),
			Category:  e.category,
			AgentName: e.agent,
			Action:    e.action,
			Score:     e.action.Score(),
			CreatedTs: int64(1000 + i),
		})
		require.NoError(t, err)
	}

	stat, err := d.GetFeedbackStat(ctx, "wellness", "wellness")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stat.Count)
	assert.InDelta(t, 0.25, stat.MeanScore, 1e-9) // (1.0 - 0.5) / 2

	// Unknown pair is zero-count, not an error.
	stat, err = d.GetFeedbackStat(ctx, "financial", "financial")
	require.NoError(t, err)
	assert.Zero(t, stat.Count)
	assert.Zero(t, stat.MeanScore)

	stats, err := d.ListFeedbackStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "context", stats[0].Category)
	assert.Equal(t, "wellness", stats[1].Category)

	agent := "wellness"
	records, err := d.ListFeedbackRecords(ctx, &store.FindFeedbackRecord{AgentName: &agent})
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, store.FeedbackDismissed, records[0].Action)

	require.NoError(t, d.ResetFeedback(ctx))
	stats, err = d.ListFeedbackStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestContextRecordSearchOrdering(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	seed := []struct {
		id        string
		category  store.ContextCategory
		embedding []float32
	}{
		{"near", store.CategoryCalendar, []float32{1, 0, 0}},
		{"mid", store.CategoryCalendar, []float32{1, 1, 0}},
		{"far", store.CategoryCalendar, []float32{0, 0, 1}},
		{"other", store.CategoryLocation, []float32{1, 0, 0}},
	}
	for _, s := range seed {
		_, err := d.UpsertContextRecord(ctx, &store.ContextRecord{
			ID:        s.id,
			Category:  s.category,
			Content:   s.id,
			Metadata:  map[string]string{"source": "test"},
			Embedding: s.embedding,
			CreatedTs: 1,
		})
		require.NoError(t, err)
	}

	calendar := store.CategoryCalendar
	hits, err := d.SearchContextRecords(ctx, &store.FindSimilarContextRecords{
		Embedding: []float32{1, 0, 0},
		Category:  &calendar,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Record.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "mid", hits[1].Record.ID)
	assert.Equal(t, map[string]string{"source": "test"}, hits[0].Record.Metadata)

	count, err := d.CountContextRecords(ctx, store.CategoryCalendar)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	count, err = d.CountContextRecords(ctx, store.CategoryLocation)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestContextRecordUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	record := &store.ContextRecord{
		ID:        "evt-1",
		Category:  store.CategoryCalendar,
		Content:   "old content",
		Metadata:  map[string]string{},
		Embedding: []float32{1, 0},
		CreatedTs: 1,
	}
	_, err := d.UpsertContextRecord(ctx, record)
	require.NoError(t, err)

	record.Content = "new content"
	_, err = d.UpsertContextRecord(ctx, record)
	require.NoError(t, err)

	count, err := d.CountContextRecords(ctx, store.CategoryCalendar)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	calendar := store.CategoryCalendar
	hits, err := d.SearchContextRecords(ctx, &store.FindSimilarContextRecords{
		Embedding: []float32{1, 0},
		Category:  &calendar,
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new content", hits[0].Record.Content)
}
