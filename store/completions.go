// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/versus/models"
)

func (q *Queries) InsertCompletion(ctx context.Context, c models.Completion) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO completion (id, versus_id, player_id, objective_id, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.VersusID, c.PlayerID, c.ObjectiveID, c.CompletedAt)
	return classify(err)
}

func (q *Queries) CompletionByID(ctx context.Context, id string) (models.Completion, error) {
	var c models.Completion
	err := q.db.QueryRowContext(ctx, `
		SELECT id, versus_id, player_id, objective_id, completed_at
		FROM completion
		WHERE id = $1
	`, id).Scan(&c.ID, &c.VersusID, &c.PlayerID, &c.ObjectiveID, &c.CompletedAt)
	return c, classify(err)
}

func (q *Queries) DeleteCompletion(ctx context.Context, id string) error {
	return expectOne(q.db.ExecContext(ctx, `DELETE FROM completion WHERE id = $1`, id))
}

// Completions returns every completion event of a versus. Points are not
// joined here; scoring resolves them against the current objectives.
func (q *Queries) Completions(ctx context.Context, versusID string) ([]models.Completion, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, versus_id, player_id, objective_id, completed_at
		FROM completion
		WHERE versus_id = $1
		ORDER BY completed_at, id
	`, versusID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.VersusID, &c.PlayerID, &c.ObjectiveID, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

// History lists a player's completions in a versus, most recent first, with
// the objective's current title and points.
func (q *Queries) History(ctx context.Context, versusID, playerID string) ([]models.HistoryEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, o.id, o.title, o.points, c.completed_at
		FROM completion c
		JOIN objective o ON o.id = c.objective_id
		WHERE c.versus_id = $1 AND c.player_id = $2
		ORDER BY c.completed_at DESC, c.id DESC
	`, versusID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var h models.HistoryEntry
		if err := rows.Scan(&h.CompletionID, &h.ObjectiveID, &h.ObjectiveTitle, &h.Points, &h.CompletedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}
