// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/versus/models"
)

// InsertMembers writes all memberships in one statement, so either every
// row lands or none does.
func (q *Queries) InsertMembers(ctx context.Context, members []models.VersusPlayer) error {
	if len(members) == 0 {
		return nil
	}

	rows := make([][]any, len(members))
	for i, m := range members {
		rows[i] = []any{m.VersusID, m.PlayerID, m.IsCommissioner, nullString(m.Nickname), m.JoinedAt}
	}
	query, args := bulkInsert("versus_player",
		[]string{"versus_id", "player_id", "is_commissioner", "nickname", "joined_at"}, rows)

	_, err := q.db.ExecContext(ctx, query, args...)
	return classify(err)
}

func (q *Queries) UpdateMember(ctx context.Context, m models.VersusPlayer) error {
	return expectOne(q.db.ExecContext(ctx, `
		UPDATE versus_player
		SET is_commissioner = $1, nickname = $2
		WHERE versus_id = $3 AND player_id = $4
	`, m.IsCommissioner, nullString(m.Nickname), m.VersusID, m.PlayerID))
}

// DeleteMember removes a membership and, by cascade, the player's completions
// in that versus.
func (q *Queries) DeleteMember(ctx context.Context, versusID, playerID string) error {
	return expectOne(q.db.ExecContext(ctx, `
		DELETE FROM versus_player WHERE versus_id = $1 AND player_id = $2
	`, versusID, playerID))
}

func (q *Queries) Membership(ctx context.Context, versusID, playerID string) (models.VersusPlayer, error) {
	var m models.VersusPlayer
	var nickname sql.NullString
	err := q.db.QueryRowContext(ctx, `
		SELECT versus_id, player_id, is_commissioner, nickname, joined_at
		FROM versus_player
		WHERE versus_id = $1 AND player_id = $2
	`, versusID, playerID).Scan(&m.VersusID, &m.PlayerID, &m.IsCommissioner, &nickname, &m.JoinedAt)
	if err != nil {
		return m, classify(err)
	}
	m.Nickname = stringPtr(nickname)
	return m, nil
}

// Members returns the full membership of a versus joined with player profiles.
func (q *Queries) Members(ctx context.Context, versusID string) ([]models.Member, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT vp.versus_id, vp.player_id, vp.is_commissioner, vp.nickname, vp.joined_at,
		       p.email, p.display_name
		FROM versus_player vp
		JOIN player p ON p.id = vp.player_id
		WHERE vp.versus_id = $1
		ORDER BY vp.joined_at, vp.player_id
	`, versusID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		var nickname sql.NullString
		if err := rows.Scan(&m.VersusID, &m.PlayerID, &m.IsCommissioner, &nickname, &m.JoinedAt,
			&m.Email, &m.DisplayName); err != nil {
			return nil, err
		}
		m.Nickname = stringPtr(nickname)
		members = append(members, m)
	}

	return members, rows.Err()
}
