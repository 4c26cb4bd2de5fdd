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

func TestDraft(t *testing.T) {
	base := NewDraft("creator")
	require.Len(t, base.Players(), 1)
	assert.True(t, base.Players()[0].IsCommissioner)

	withBob := base.WithPlayer(models.PlayerInput{Email: "bob@example.com"})
	assert.Len(t, base.Players(), 1, "receiver must not change")
	assert.Len(t, withBob.Players(), 2)

	t.Run("replace by email", func(t *testing.T) {
		nick := "Bobby"
		d := withBob.WithPlayer(models.PlayerInput{Email: " BOB@example.com", Nickname: &nick})
		require.Len(t, d.Players(), 2)
		assert.Equal(t, "Bobby", *d.Players()[1].Nickname)
		assert.Nil(t, withBob.Players()[1].Nickname)
	})

	t.Run("creator stays commissioner", func(t *testing.T) {
		d := withBob.WithPlayer(models.PlayerInput{PlayerID: "creator", IsCommissioner: false})
		require.Len(t, d.Players(), 2)
		assert.True(t, d.Players()[0].IsCommissioner)
	})

	t.Run("creator cannot be removed", func(t *testing.T) {
		d := withBob.WithoutPlayer("creator")
		assert.Len(t, d.Players(), 2)
	})

	t.Run("remove by email", func(t *testing.T) {
		d := withBob.WithoutPlayer("Bob@Example.com")
		assert.Len(t, d.Players(), 1)
		assert.Len(t, withBob.Players(), 2)
	})

	t.Run("objectives", func(t *testing.T) {
		d := base.
			WithObjective(models.ObjectiveInput{Title: "One", Points: 1}).
			WithObjective(models.ObjectiveInput{Title: "Two", Points: 2})

		assert.Len(t, d.WithoutObjective(5).Objectives(), 2)
		assert.Len(t, d.WithoutObjective(-1).Objectives(), 2)

		trimmed := d.WithoutObjective(0)
		require.Len(t, trimmed.Objectives(), 1)
		assert.Equal(t, "Two", trimmed.Objectives()[0].Title)
		assert.Equal(t, "One", d.Objectives()[0].Title)
	})

	t.Run("getters return copies", func(t *testing.T) {
		players := withBob.Players()
		players[0].PlayerID = "someone else"
		assert.Equal(t, "creator", withBob.Players()[0].PlayerID)
	})

	t.Run("submission", func(t *testing.T) {
		d := withBob.
			WithConfig(models.VersusConfig{Name: "Pool", Type: "billiards"}).
			WithObjective(models.ObjectiveInput{Title: "Break", Points: 3})

		req := d.Submission()
		assert.Equal(t, "Pool", req.Name)
		assert.Len(t, req.Players, 2)
		assert.Len(t, req.Objectives, 1)
		assert.Equal(t, "creator", d.CreatorID())
	})
}

func TestSubmit(t *testing.T) {
	e := newTestEnv(t, models.CreationModeTransaction)
	ctx := context.Background()

	alice, bob := e.player(t, "Alice"), e.player(t, "Bob")

	d := NewDraft(alice.ID).
		WithConfig(models.VersusConfig{Name: "Bowling Night", Type: "bowling"}).
		WithPlayer(models.PlayerInput{Email: bob.Email}).
		WithObjective(models.ObjectiveInput{Title: "Strike", Points: 10}).
		WithObjective(models.ObjectiveInput{Title: "Spare", Points: 5})

	v, err := e.svc.Submit(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "Bowling Night", v.Name)

	ok, err := e.svc.IsCommissioner(ctx, v.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, e.count(t, "versus_player"))
	assert.Equal(t, 2, e.count(t, "objective"))

	// An empty draft fails validation and writes nothing.
	_, err = e.svc.Submit(ctx, NewDraft(alice.ID))
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, 1, e.count(t, "versus"))
}
