package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	// Import the Postgres driver.
	_ "github.com/lib/pq"

	"github.com/auralab/aura/internal/profile"
	"github.com/auralab/aura/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a Postgres database with the DSN from the profile.
// Requires the pgvector extension for similarity search.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	postgresDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	return &DB{db: postgresDB, profile: profile}, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// embeddingDim matches text-embedding-3-small. Changing the embedding model
// requires a reindex.
const embeddingDim = 1536

func (d *DB) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS feedback_record (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	action TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_category_agent ON feedback_record (category, agent_name);

CREATE TABLE IF NOT EXISTS context_record (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	embedding vector(%d),
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_context_record_category ON context_record (category);
`, embeddingDim)

	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "failed to run postgres migration")
	}
	return nil
}
