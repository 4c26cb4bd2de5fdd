// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"slices"

	"github.com/danielhkuo/versus/models"
)

// Draft is the partially built input of a new versus as it moves through the
// creation steps. It is a value: every With/Without method returns a new
// Draft and leaves the receiver untouched.
type Draft struct {
	creatorID  string
	config     models.VersusConfig
	players    []models.PlayerInput
	objectives []models.ObjectiveInput
}

// NewDraft starts a draft with the creator seeded as commissioner.
func NewDraft(creatorID string) Draft {
	return Draft{
		creatorID: creatorID,
		players:   []models.PlayerInput{{PlayerID: creatorID, IsCommissioner: true}},
	}
}

func (d Draft) CreatorID() string { return d.creatorID }
func (d Draft) Config() models.VersusConfig { return d.config }
func (d Draft) Players() []models.PlayerInput { return slices.Clone(d.players) }
func (d Draft) Objectives() []models.ObjectiveInput { return slices.Clone(d.objectives) }

func (d Draft) WithConfig(cfg models.VersusConfig) Draft {
	d.config = cfg
	return d
}

// WithPlayer adds a player, or replaces the entry with the same id or email.
// The creator's entry always stays a commissioner.
func (d Draft) WithPlayer(p models.PlayerInput) Draft {
	if p.PlayerID == d.creatorID {
		p.IsCommissioner = true
	}

	players := slices.Clone(d.players)
	for i, cur := range players {
		if samePlayer(cur, p) {
			players[i] = p
			d.players = players
			return d
		}
	}
	d.players = append(players, p)
	return d
}

// WithoutPlayer drops the entry matching id or email. The creator cannot be
// dropped.
func (d Draft) WithoutPlayer(idOrEmail string) Draft {
	if idOrEmail == d.creatorID {
		return d
	}
	email := NormalizeEmail(idOrEmail)
	d.players = slices.DeleteFunc(slices.Clone(d.players), func(p models.PlayerInput) bool {
		return (p.PlayerID != "" && p.PlayerID == idOrEmail) || (p.Email != "" && NormalizeEmail(p.Email) == email)
	})
	return d
}

func (d Draft) WithObjective(o models.ObjectiveInput) Draft {
	d.objectives = append(slices.Clone(d.objectives), o)
	return d
}

// WithoutObjective drops the objective at index i. Out-of-range indexes are
// ignored.
func (d Draft) WithoutObjective(i int) Draft {
	if i < 0 || i >= len(d.objectives) {
		return d
	}
	d.objectives = slices.Delete(slices.Clone(d.objectives), i, i+1)
	return d
}

// Submission returns the coordinator input built from the draft.
func (d Draft) Submission() models.CreateVersusRequest {
	return models.CreateVersusRequest{
		VersusConfig: d.config,
		Players:      d.Players(),
		Objectives:   d.Objectives(),
	}
}

// Submit creates the versus described by the draft.
func (s *Service) Submit(ctx context.Context, d Draft) (models.Versus, error) {
	req := d.Submission()
	return s.CreateVersus(ctx, d.creatorID, req.VersusConfig, req.Players, req.Objectives)
}

func samePlayer(a, b models.PlayerInput) bool {
	if a.PlayerID != "" && a.PlayerID == b.PlayerID {
		return true
	}
	return a.Email != "" && NormalizeEmail(a.Email) == NormalizeEmail(b.Email)
}
