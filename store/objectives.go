// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/versus/models"
)

// InsertObjectives writes all objectives in one statement.
func (q *Queries) InsertObjectives(ctx context.Context, objectives []models.Objective) error {
	if len(objectives) == 0 {
		return nil
	}

	rows := make([][]any, len(objectives))
	for i, o := range objectives {
		rows[i] = []any{o.ID, o.VersusID, o.Title, o.Points, nullString(o.Description), o.CreatedAt}
	}
	query, args := bulkInsert("objective",
		[]string{"id", "versus_id", "title", "points", "description", "created_at"}, rows)

	_, err := q.db.ExecContext(ctx, query, args...)
	return classify(err)
}

// UpdateObjective edits an objective in place. Completions keep pointing at
// the same id, so a points change shows up on the next scoreboard read.
func (q *Queries) UpdateObjective(ctx context.Context, o models.Objective) error {
	return expectOne(q.db.ExecContext(ctx, `
		UPDATE objective
		SET title = $1, points = $2, description = $3
		WHERE id = $4 AND versus_id = $5
	`, o.Title, o.Points, nullString(o.Description), o.ID, o.VersusID))
}

// DeleteObjective removes the objective and its completions.
func (q *Queries) DeleteObjective(ctx context.Context, id string) error {
	return expectOne(q.db.ExecContext(ctx, `DELETE FROM objective WHERE id = $1`, id))
}

func (q *Queries) ObjectiveByID(ctx context.Context, id string) (models.Objective, error) {
	var o models.Objective
	var description sql.NullString
	err := q.db.QueryRowContext(ctx, `
		SELECT id, versus_id, title, points, description, created_at
		FROM objective
		WHERE id = $1
	`, id).Scan(&o.ID, &o.VersusID, &o.Title, &o.Points, &description, &o.CreatedAt)
	if err != nil {
		return o, classify(err)
	}
	o.Description = stringPtr(description)
	return o, nil
}

func (q *Queries) Objectives(ctx context.Context, versusID string) ([]models.Objective, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, versus_id, title, points, description, created_at
		FROM objective
		WHERE versus_id = $1
		ORDER BY created_at, id
	`, versusID)
	if err != nil {
		return nil, fmt.Errorf("failed to query objectives: %w", err)
	}
	defer rows.Close()

	objectives := []models.Objective{}
	for rows.Next() {
		var o models.Objective
		var description sql.NullString
		if err := rows.Scan(&o.ID, &o.VersusID, &o.Title, &o.Points, &description, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Description = stringPtr(description)
		objectives = append(objectives, o)
	}

	return objectives, rows.Err()
}
