package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/auralab/aura/store"
)

// Vectors are stored as BLOB (little-endian float32 arrays). Similarity is
// computed in Go; a single user's history stays well under a few thousand
// rows, so a linear scan is fine here.

func float32ArrayToBLOB(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

func blobToFloat32Array(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return vec
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (d *DB) UpsertContextRecord(ctx context.Context, upsert *store.ContextRecord) (*store.ContextRecord, error) {
	metadata, err := json.Marshal(upsert.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal context record metadata")
	}

	var embedding any
	if len(upsert.Embedding) > 0 {
		embedding = float32ArrayToBLOB(upsert.Embedding)
	}

	stmt := `
		INSERT INTO context_record (id, category, content, metadata, embedding, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		string(upsert.Category),
		upsert.Content,
		string(metadata),
		embedding,
		upsert.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert context record")
	}
	return upsert, nil
}

func (d *DB) SearchContextRecords(ctx context.Context, find *store.FindSimilarContextRecords) ([]*store.SimilarContextRecord, error) {
	query := `
		SELECT id, category, content, metadata, embedding, created_ts
		FROM context_record
		WHERE embedding IS NOT NULL
	`
	args := []any{}
	if find.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*find.Category))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search context records")
	}
	defer rows.Close()

	results := []*store.SimilarContextRecord{}
	for rows.Next() {
		var record store.ContextRecord
		var category, metadata string
		var embedding []byte
		if err := rows.Scan(
			&record.ID,
			&category,
			&record.Content,
			&metadata,
			&embedding,
			&record.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan context record")
		}
		record.Category = store.ContextCategory(category)
		if err := json.Unmarshal([]byte(metadata), &record.Metadata); err != nil {
			record.Metadata = map[string]string{}
		}
		record.Embedding = blobToFloat32Array(embedding)

		results = append(results, &store.SimilarContextRecord{
			Record: &record,
			Score:  cosineSimilarity(find.Embedding, record.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if find.Limit > 0 && len(results) > find.Limit {
		results = results[:find.Limit]
	}
	return results, nil
}

func (d *DB) CountContextRecords(ctx context.Context, category store.ContextCategory) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM context_record WHERE category = ?`, string(category),
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count context records")
	}
	return count, nil
}
