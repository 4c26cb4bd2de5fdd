// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/danielhkuo/versus/models"
)

func (q *Queries) InsertPlayer(ctx context.Context, p models.Player) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO player (id, email, display_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Email, p.DisplayName, p.CreatedAt)
	return classify(err)
}

func (q *Queries) PlayerByID(ctx context.Context, id string) (models.Player, error) {
	var p models.Player
	err := q.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, created_at
		FROM player
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.DisplayName, &p.CreatedAt)
	return p, classify(err)
}

// PlayerByEmail expects an already normalized email.
func (q *Queries) PlayerByEmail(ctx context.Context, email string) (models.Player, error) {
	var p models.Player
	err := q.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, created_at
		FROM player
		WHERE email = $1
	`, email).Scan(&p.ID, &p.Email, &p.DisplayName, &p.CreatedAt)
	return p, classify(err)
}
