// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/versus/models"
)

func member(id, name string) models.Member {
	return models.Member{
		VersusPlayer: models.VersusPlayer{VersusID: "v", PlayerID: id},
		DisplayName:  name,
	}
}

func completion(playerID, objectiveID string) models.Completion {
	return models.Completion{ID: playerID + "-" + objectiveID, VersusID: "v", PlayerID: playerID, ObjectiveID: objectiveID}
}

func ranks(entries []models.ScoreEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.DisplayName] = e.Rank
	}
	return out
}

func scores(entries []models.ScoreEntry) map[string]int64 {
	out := make(map[string]int64, len(entries))
	for _, e := range entries {
		out[e.DisplayName] = e.Score
	}
	return out
}

var (
	threeMembers = []models.Member{member("a", "A"), member("b", "B"), member("c", "C")}
	threeObjs    = []models.Objective{
		{ID: "o1", VersusID: "v", Points: 10},
		{ID: "o2", VersusID: "v", Points: 5},
		{ID: "o3", VersusID: "v", Points: 8},
	}
)

func TestComputeScoreboard(t *testing.T) {
	completions := []models.Completion{completion("a", "o1"), completion("a", "o2")}

	t.Run("highest first", func(t *testing.T) {
		entries := ComputeScoreboard(threeMembers, threeObjs, completions, false)

		require.Len(t, entries, 3)
		assert.Equal(t, map[string]int64{"A": 15, "B": 0, "C": 0}, scores(entries))
		assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 2}, ranks(entries))
		assert.Equal(t, "A", entries[0].DisplayName)
		assert.Equal(t, 2, entries[0].Completions)
	})

	t.Run("reverse ranking", func(t *testing.T) {
		entries := ComputeScoreboard(threeMembers, threeObjs, completions, true)

		assert.Equal(t, map[string]int{"A": 3, "B": 1, "C": 1}, ranks(entries))
		// Ties break on display name.
		assert.Equal(t, []string{"B", "C", "A"},
			[]string{entries[0].DisplayName, entries[1].DisplayName, entries[2].DisplayName})
	})
}

func TestComputeScoreboard_CompetitionRanking(t *testing.T) {
	members := []models.Member{member("a", "A"), member("b", "B"), member("c", "C"), member("d", "D")}
	objs := []models.Objective{{ID: "x", Points: 3}, {ID: "y", Points: 1}}
	completions := []models.Completion{
		completion("a", "x"),
		completion("b", "y"), completion("b", "y"),
		completion("c", "y"), completion("c", "y"),
		completion("d", "y"),
	}

	entries := ComputeScoreboard(members, objs, completions, false)
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 2, "D": 4}, ranks(entries))
}

func TestComputeScoreboard_Properties(t *testing.T) {
	t.Run("every member ranked", func(t *testing.T) {
		entries := ComputeScoreboard(threeMembers, threeObjs, nil, false)
		require.Len(t, entries, 3)
		for _, e := range entries {
			assert.Equal(t, 1, e.Rank)
			assert.Zero(t, e.Score)
		}
	})

	t.Run("scores sum to completed points", func(t *testing.T) {
		completions := []models.Completion{
			completion("a", "o1"), completion("b", "o1"), completion("b", "o3"), completion("c", "o2"),
		}
		var total int64
		for _, e := range ComputeScoreboard(threeMembers, threeObjs, completions, false) {
			total += e.Score
		}
		assert.Equal(t, int64(10+10+8+5), total)
	})

	t.Run("another completion never lowers a positive score", func(t *testing.T) {
		before := scores(ComputeScoreboard(threeMembers, threeObjs, []models.Completion{completion("b", "o3")}, false))
		after := scores(ComputeScoreboard(threeMembers, threeObjs,
			[]models.Completion{completion("b", "o3"), completion("b", "o3")}, false))
		assert.Greater(t, after["B"], before["B"])
	})

	t.Run("negative points", func(t *testing.T) {
		objs := []models.Objective{{ID: "pen", Points: -4}}
		entries := ComputeScoreboard(threeMembers, objs, []models.Completion{completion("a", "pen")}, false)
		assert.Equal(t, int64(-4), scores(entries)["A"])
		assert.Equal(t, 3, ranks(entries)["A"])
	})

	t.Run("unknown references ignored", func(t *testing.T) {
		completions := []models.Completion{
			completion("a", "gone"),
			completion("stranger", "o1"),
			completion("c", "o2"),
		}
		entries := ComputeScoreboard(threeMembers, threeObjs, completions, false)
		assert.Equal(t, map[string]int64{"A": 0, "B": 0, "C": 5}, scores(entries))
		for _, e := range entries {
			if e.DisplayName == "A" {
				assert.Zero(t, e.Completions)
			}
		}
	})

	t.Run("large totals", func(t *testing.T) {
		objs := []models.Objective{{ID: "big", Points: models.MaxPointsMagnitude}}
		var completions []models.Completion
		for i := 0; i < 5000; i++ {
			completions = append(completions, completion("a", "big"))
		}
		entries := ComputeScoreboard(threeMembers, objs, completions, false)
		assert.Equal(t, int64(models.MaxPointsMagnitude)*5000, entries[0].Score)
	})

	t.Run("nickname shown", func(t *testing.T) {
		nick := "Zed"
		m := member("a", "Alice")
		m.Nickname = &nick
		entries := ComputeScoreboard([]models.Member{m}, nil, nil, false)
		assert.Equal(t, "Zed", entries[0].DisplayName)
	})

	t.Run("inputs untouched", func(t *testing.T) {
		members := []models.Member{member("b", "B"), member("a", "A")}
		ComputeScoreboard(members, threeObjs, []models.Completion{completion("a", "o1")}, false)
		assert.Equal(t, "b", members[0].PlayerID)
	})
}

func TestGetScoreboard(t *testing.T) {
	e := newTestEnv(t, models.CreationModeTransaction)
	ctx := context.Background()

	alice, bob, carol := e.player(t, "Alice"), e.player(t, "Bob"), e.player(t, "Carol")
	v, objs := e.createVersus(t, alice, []models.Player{bob, carol}, 10, 5, 8)

	for _, o := range objs[:2] {
		_, err := e.svc.RecordCompletion(ctx, v.ID, alice.ID, o.ID)
		require.NoError(t, err)
	}

	board, err := e.svc.GetScoreboard(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, board.VersusID)
	assert.Equal(t, 3, board.TotalPlayers)
	assert.Equal(t, map[string]int64{"Alice": 15, "Bob": 0, "Carol": 0}, scores(board.Entries))
	assert.Equal(t, map[string]int{"Alice": 1, "Bob": 2, "Carol": 2}, ranks(board.Entries))

	_, err = e.svc.UpdateVersusSettings(ctx, v.ID, alice.ID,
		models.VersusConfig{Name: v.Name, Type: v.Type, ReverseRanking: true})
	require.NoError(t, err)

	board, err = e.svc.GetScoreboard(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, board.ReverseRanking)
	assert.Equal(t, map[string]int{"Alice": 3, "Bob": 1, "Carol": 1}, ranks(board.Entries))

	_, err = e.svc.GetScoreboard(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetScoreboard_PointsEditRescores(t *testing.T) {
	e := newTestEnv(t, models.CreationModeTransaction)
	ctx := context.Background()

	alice, bob := e.player(t, "Alice"), e.player(t, "Bob")
	v, objs := e.createVersus(t, alice, []models.Player{bob}, 10)

	for i := 0; i < 2; i++ {
		_, err := e.svc.RecordCompletion(ctx, v.ID, bob.ID, objs[0].ID)
		require.NoError(t, err)
	}
	board, err := e.svc.GetScoreboard(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), scoreOf(t, board, bob.ID))

	edit := keepObjectives(objs)
	edit[0].Points = 15
	require.NoError(t, e.svc.UpdateVersusObjectives(ctx, v.ID, alice.ID, edit))

	board, err = e.svc.GetScoreboard(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), scoreOf(t, board, bob.ID))
	assert.Equal(t, 2, e.count(t, "completion"))
}

func TestScoreboardFor(t *testing.T) {
	e := newTestEnv(t, models.CreationModeTransaction)
	ctx := context.Background()

	alice, mallory := e.player(t, "Alice"), e.player(t, "Mallory")
	v, _ := e.createVersus(t, alice, nil, 10)

	_, err := e.svc.ScoreboardFor(ctx, v.ID, alice.ID)
	assert.NoError(t, err)

	var authz *AuthorizationError
	_, err = e.svc.ScoreboardFor(ctx, v.ID, mallory.ID)
	assert.ErrorAs(t, err, &authz)
}
