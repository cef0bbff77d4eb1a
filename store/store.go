// Package store provides persistence for feedback records and the
// historical context records backing semantic retrieval.
package store

import (
	"context"

	"github.com/auralab/aura/internal/profile"
)

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() any
	Close() error

	Migrate(ctx context.Context) error

	// Feedback records.
	CreateFeedbackRecord(ctx context.Context, create *FeedbackRecord) (*FeedbackRecord, error)
	ListFeedbackRecords(ctx context.Context, find *FindFeedbackRecord) ([]*FeedbackRecord, error)
	GetFeedbackStat(ctx context.Context, category, agentName string) (*FeedbackStat, error)
	ListFeedbackStats(ctx context.Context) ([]*FeedbackStat, error)
	ResetFeedback(ctx context.Context) error

	// Context records (retrieval index).
	UpsertContextRecord(ctx context.Context, upsert *ContextRecord) (*ContextRecord, error)
	SearchContextRecords(ctx context.Context, find *FindSimilarContextRecords) ([]*SimilarContextRecord, error)
	CountContextRecords(ctx context.Context, category ContextCategory) (int64, error)
}

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) CreateFeedbackRecord(ctx context.Context, create *FeedbackRecord) (*FeedbackRecord, error) {
	return s.driver.CreateFeedbackRecord(ctx, create)
}

func (s *Store) ListFeedbackRecords(ctx context.Context, find *FindFeedbackRecord) ([]*FeedbackRecord, error) {
	return s.driver.ListFeedbackRecords(ctx, find)
}

func (s *Store) GetFeedbackStat(ctx context.Context, category, agentName string) (*FeedbackStat, error) {
	return s.driver.GetFeedbackStat(ctx, category, agentName)
}

func (s *Store) ListFeedbackStats(ctx context.Context) ([]*FeedbackStat, error) {
	return s.driver.ListFeedbackStats(ctx)
}

func (s *Store) ResetFeedback(ctx context.Context) error {
	return s.driver.ResetFeedback(ctx)
}

func (s *Store) UpsertContextRecord(ctx context.Context, upsert *ContextRecord) (*ContextRecord, error) {
	return s.driver.UpsertContextRecord(ctx, upsert)
}

func (s *Store) SearchContextRecords(ctx context.Context, find *FindSimilarContextRecords) ([]*SimilarContextRecord, error) {
	return s.driver.SearchContextRecords(ctx, find)
}

func (s *Store) CountContextRecords(ctx context.Context, category ContextCategory) (int64, error) {
	return s.driver.CountContextRecords(ctx, category)
}
