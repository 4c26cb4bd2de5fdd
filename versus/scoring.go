// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// ComputeScoreboard derives every member's score and rank from the current
// objectives and completion events.
//
// A score is the sum of the current points of each completed objective.
// Every member is ranked, including members without completions. Higher
// scores rank first unless reverse is set. Ranking follows the competition
// rule: tied scores share a rank and the next distinct score takes
// 1 + the number of players strictly ahead of it.
//
// Completions that reference an unknown objective or a non-member are
// ignored.
func ComputeScoreboard(members []models.Member, objectives []models.Objective,
	completions []models.Completion, reverse bool) []models.ScoreEntry {
	points := make(map[string]int64, len(objectives))
	for _, o := range objectives {
		points[o.ID] = int64(o.Points)
	}

	entries := make([]models.ScoreEntry, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		entries[i] = models.ScoreEntry{
			PlayerID:       m.PlayerID,
			DisplayName:    m.Name(),
			IsCommissioner: m.IsCommissioner,
		}
		index[m.PlayerID] = i
	}

	for _, c := range completions {
		p, ok := points[c.ObjectiveID]
		if !ok {
			continue
		}
		i, ok := index[c.PlayerID]
		if !ok {
			continue
		}
		entries[i].Score += p
		entries[i].Completions++
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			if reverse {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.PlayerID < b.PlayerID
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries
}

// GetScoreboard recomputes the scoreboard from the store on every call.
// Members, objectives and completions are read from one consistent view.
func (s *Service) GetScoreboard(ctx context.Context, versusID string) (models.Scoreboard, error) {
	var (
		v           models.Versus
		members     []models.Member
		objectives  []models.Objective
		completions []models.Completion
	)
	err := s.snapshot(ctx, func(repo store.Repository) error {
		var err error
		if v, err = repo.VersusByID(ctx, versusID); err != nil {
			return notFound(err)
		}
		if members, err = repo.Members(ctx, versusID); err != nil {
			return err
		}
		if objectives, err = repo.Objectives(ctx, versusID); err != nil {
			return err
		}
		completions, err = repo.Completions(ctx, versusID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Scoreboard{}, err
		}
		return models.Scoreboard{}, fmt.Errorf("failed to load scoreboard: %w", err)
	}

	return models.Scoreboard{
		VersusID:       v.ID,
		ReverseRanking: v.ReverseRanking,
		Entries:        ComputeScoreboard(members, objectives, completions, v.ReverseRanking),
		TotalPlayers:   len(members),
	}, nil
}

// ScoreboardFor is GetScoreboard restricted to members of the versus.
func (s *Service) ScoreboardFor(ctx context.Context, versusID, requesterID string) (models.Scoreboard, error) {
	if _, err := s.requireMember(ctx, versusID, requesterID); err != nil {
		return models.Scoreboard{}, err
	}
	return s.GetScoreboard(ctx, versusID)
}
