// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/versus/models"
)

const versusColumns = `id, name, type, slug, reverse_ranking, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersus(row rowScanner, v *models.Versus) error {
	return row.Scan(&v.ID, &v.Name, &v.Type, &v.Slug, &v.ReverseRanking,
		&v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
}

func (q *Queries) InsertVersus(ctx context.Context, v models.Versus) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO versus (`+versusColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, v.ID, v.Name, v.Type, v.Slug, v.ReverseRanking, v.CreatedBy, v.CreatedAt, v.UpdatedAt)
	return classify(err)
}

// UpdateVersus rewrites the editable settings. Slug and creator never change.
func (q *Queries) UpdateVersus(ctx context.Context, v models.Versus) error {
	return expectOne(q.db.ExecContext(ctx, `
		UPDATE versus
		SET name = $1, type = $2, reverse_ranking = $3, updated_at = $4
		WHERE id = $5
	`, v.Name, v.Type, v.ReverseRanking, v.UpdatedAt, v.ID))
}

// DeleteVersus removes the versus; memberships, objectives and completions
// follow through ON DELETE CASCADE.
func (q *Queries) DeleteVersus(ctx context.Context, id string) error {
	return expectOne(q.db.ExecContext(ctx, `DELETE FROM versus WHERE id = $1`, id))
}

// LockVersus takes the versus row's write lock for the rest of the
// enclosing transaction, so edits of one versus apply one after the other.
// A no-op UPDATE locks the row on postgres and takes the database write lock
// on sqlite.
func (q *Queries) LockVersus(ctx context.Context, id string) error {
	return expectOne(q.db.ExecContext(ctx, `UPDATE versus SET updated_at = updated_at WHERE id = $1`, id))
}

func (q *Queries) VersusByID(ctx context.Context, id string) (models.Versus, error) {
	var v models.Versus
	row := q.db.QueryRowContext(ctx, `SELECT `+versusColumns+` FROM versus WHERE id = $1`, id)
	return v, classify(scanVersus(row, &v))
}

func (q *Queries) VersusBySlug(ctx context.Context, slug string) (models.Versus, error) {
	var v models.Versus
	row := q.db.QueryRowContext(ctx, `SELECT `+versusColumns+` FROM versus WHERE slug = $1`, slug)
	return v, classify(scanVersus(row, &v))
}

// VersusForPlayer lists every versus the player belongs to, newest first.
func (q *Queries) VersusForPlayer(ctx context.Context, playerID string) ([]models.VersusSummary, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT v.id, v.name, v.type, v.slug, v.reverse_ranking, v.created_by,
		       v.created_at, v.updated_at, vp.is_commissioner,
		       (SELECT COUNT(*) FROM versus_player c WHERE c.versus_id = v.id) AS player_count
		FROM versus_player vp
		JOIN versus v ON v.id = vp.versus_id
		WHERE vp.player_id = $1
		ORDER BY v.created_at DESC, v.id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versus for player: %w", err)
	}
	defer rows.Close()

	summaries := []models.VersusSummary{}
	for rows.Next() {
		var s models.VersusSummary
		v := &s.Versus
		if err := rows.Scan(&v.ID, &v.Name, &v.Type, &v.Slug, &v.ReverseRanking, &v.CreatedBy,
			&v.CreatedAt, &v.UpdatedAt, &s.IsCommissioner, &s.PlayerCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
