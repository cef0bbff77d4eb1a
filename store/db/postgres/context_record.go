package postgres

import (
	"context"
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/auralab/aura/store"
)

func (d *DB) UpsertContextRecord(ctx context.Context, upsert *store.ContextRecord) (*store.ContextRecord, error) {
	metadata, err := json.Marshal(upsert.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal context record metadata")
	}

	var embedding any
	if len(upsert.Embedding) > 0 {
		embedding = pgvector.NewVector(upsert.Embedding)
	}

	stmt := `
		INSERT INTO context_record (id, category, content, metadata, embedding, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		string(upsert.Category),
		upsert.Content,
		metadata,
		embedding,
		upsert.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert context record")
	}
	return upsert, nil
}

// SearchContextRecords ranks records by cosine similarity using the pgvector
// `<=>` operator. Cosine distance is converted to a similarity in [0, 1].
func (d *DB) SearchContextRecords(ctx context.Context, find *store.FindSimilarContextRecords) ([]*store.SimilarContextRecord, error) {
	limit := find.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, category, content, metadata, created_ts,
			1 - (embedding <=> $1) AS similarity
		FROM context_record
		WHERE embedding IS NOT NULL
	`
	args := []any{pgvector.NewVector(find.Embedding)}
	if find.Category != nil {
		query += " AND category = $2"
		args = append(args, string(*find.Category))
	}
	query += " ORDER BY similarity DESC LIMIT " + placeholderAfter(args)
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search context records")
	}
	defer rows.Close()

	results := []*store.SimilarContextRecord{}
	for rows.Next() {
		var record store.ContextRecord
		var category string
		var metadata []byte
		var score float64
		if err := rows.Scan(
			&record.ID,
			&category,
			&record.Content,
			&metadata,
			&record.CreatedTs,
			&score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan context record")
		}
		record.Category = store.ContextCategory(category)
		if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
			record.Metadata = map[string]string{}
		}
		results = append(results, &store.SimilarContextRecord{Record: &record, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *DB) CountContextRecords(ctx context.Context, category store.ContextCategory) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM context_record WHERE category = $1`, string(category),
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count context records")
	}
	return count, nil
}
