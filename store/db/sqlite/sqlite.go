package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/auralab/aura/internal/profile"
	"github.com/auralab/aura/store"
)

// SQLite is the default driver for single-user and development instances.
// Vector similarity is computed in the application layer since plain SQLite
// has no vector index; record counts here are small (one user's history).

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database at the DSN from the profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode prevents locking issues; busy_timeout covers the
	// serialized feedback write path racing a read.
	// With `modernc.org/sqlite`, each pragma must be prefixed with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// SQLite: single connection is optimal with WAL.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	return &DB{db: sqliteDB, profile: profile}, nil
}

func (d *DB) GetDB() any {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const migrationDDL = `
CREATE TABLE IF NOT EXISTS feedback_record (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	action TEXT NOT NULL,
	score REAL NOT NULL,
	created_ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_category_agent ON feedback_record (category, agent_name);

CREATE TABLE IF NOT EXISTS context_record (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	embedding BLOB,
	created_ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_context_record_category ON context_record (category);
`

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, migrationDDL); err != nil {
		return errors.Wrap(err, "failed to run sqlite migration")
	}
	return nil
}
