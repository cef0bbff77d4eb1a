package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/auralab/aura/store"
)

func (d *DB) CreateFeedbackRecord(ctx context.Context, create *store.FeedbackRecord) (*store.FeedbackRecord, error) {
	stmt := `
		INSERT INTO feedback_record (id, category, agent_name, action, score, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.Category,
		create.AgentName,
		string(create.Action),
		create.Score,
		create.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create feedback record")
	}
	return create, nil
}

func (d *DB) ListFeedbackRecords(ctx context.Context, find *store.FindFeedbackRecord) ([]*store.FeedbackRecord, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.Category != nil {
		where, args = append(where, fmt.Sprintf("category = $%d", len(args)+1)), append(args, *find.Category)
	}
	if find.AgentName != nil {
		where, args = append(where, fmt.Sprintf("agent_name = $%d", len(args)+1)), append(args, *find.AgentName)
	}

	query := `
		SELECT id, category, agent_name, action, score, created_ts
		FROM feedback_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedback records")
	}
	defer rows.Close()

	list := []*store.FeedbackRecord{}
	for rows.Next() {
		var record store.FeedbackRecord
		var action string
		if err := rows.Scan(
			&record.ID,
			&record.Category,
			&record.AgentName,
			&action,
			&record.Score,
			&record.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan feedback record")
		}
		record.Action = store.FeedbackAction(action)
		list = append(list, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) GetFeedbackStat(ctx context.Context, category, agentName string) (*store.FeedbackStat, error) {
	stmt := `
		SELECT COUNT(*), COALESCE(AVG(score), 0)
		FROM feedback_record
		WHERE category = $1 AND agent_name = $2
	`
	stat := &store.FeedbackStat{Category: category, AgentName: agentName}
	if err := d.db.QueryRowContext(ctx, stmt, category, agentName).Scan(&stat.Count, &stat.MeanScore); err != nil {
		return nil, errors.Wrap(err, "failed to get feedback stat")
	}
	return stat, nil
}

func (d *DB) ListFeedbackStats(ctx context.Context) ([]*store.FeedbackStat, error) {
	stmt := `
		SELECT category, agent_name, COUNT(*), AVG(score)
		FROM feedback_record
		GROUP BY category, agent_name
		ORDER BY category, agent_name
	`
	rows, err := d.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedback stats")
	}
	defer rows.Close()

	list := []*store.FeedbackStat{}
	for rows.Next() {
		var stat store.FeedbackStat
		if err := rows.Scan(&stat.Category, &stat.AgentName, &stat.Count, &stat.MeanScore); err != nil {
			return nil, errors.Wrap(err, "failed to scan feedback stat")
		}
		list = append(list, &stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ResetFeedback deletes all feedback records. This is the only deletion path.
func (d *DB) ResetFeedback(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM feedback_record`); err != nil {
		return errors.Wrap(err, "failed to reset feedback")
	}
	return nil
}
