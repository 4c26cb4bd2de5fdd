// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// playerDiff is the set of row writes turning the current membership into
// the desired one.
type playerDiff struct {
	insert []models.VersusPlayer
	update []models.VersusPlayer
	remove []string
}

func (d playerDiff) empty() bool {
	return len(d.insert)+len(d.update)+len(d.remove) == 0
}

func diffPlayers(versusID string, current []models.Member, desired []resolvedPlayer, newRow func() models.VersusPlayer) playerDiff {
	var d playerDiff

	existing := make(map[string]models.VersusPlayer, len(current))
	for _, m := range current {
		existing[m.PlayerID] = m.VersusPlayer
	}

	wanted := make(map[string]bool, len(desired))
	for _, p := range desired {
		wanted[p.PlayerID] = true
		cur, ok := existing[p.PlayerID]
		if !ok {
			row := newRow()
			row.VersusID = versusID
			row.PlayerID = p.PlayerID
			row.IsCommissioner = p.IsCommissioner
			row.Nickname = p.Nickname
			d.insert = append(d.insert, row)
			continue
		}
		if cur.IsCommissioner != p.IsCommissioner || !sameString(cur.Nickname, p.Nickname) {
			cur.IsCommissioner = p.IsCommissioner
			cur.Nickname = p.Nickname
			d.update = append(d.update, cur)
		}
	}

	for _, m := range current {
		if !wanted[m.PlayerID] {
			d.remove = append(d.remove, m.PlayerID)
		}
	}
	return d
}

// objectiveDiff is the set of row writes turning the current objectives into
// the desired ones. Updated rows keep their id so completions stay attached.
type objectiveDiff struct {
	insert []models.Objective
	update []models.Objective
	remove []string
}

func (d objectiveDiff) empty() bool {
	return len(d.insert)+len(d.update)+len(d.remove) == 0
}

func diffObjectives(current []models.Objective, desired []models.ObjectiveInput, build func(models.ObjectiveInput) models.Objective) objectiveDiff {
	var d objectiveDiff

	existing := make(map[string]models.Objective, len(current))
	for _, o := range current {
		existing[o.ID] = o
	}

	kept := make(map[string]bool, len(desired))
	for _, in := range desired {
		if in.ID == "" {
			d.insert = append(d.insert, build(in))
			continue
		}
		kept[in.ID] = true
		cur := existing[in.ID]
		if cur.Title != in.Title || cur.Points != in.Points || !sameString(cur.Description, in.Description) {
			cur.Title = in.Title
			cur.Points = in.Points
			cur.Description = in.Description
			d.update = append(d.update, cur)
		}
	}

	for _, o := range current {
		if !kept[o.ID] {
			d.remove = append(d.remove, o.ID)
		}
	}
	return d
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UpdateVersusPlayers replaces the membership of a versus with the desired
// list. Players present in both are updated in place, new players are
// inserted and missing players are removed along with their completions.
func (s *Service) UpdateVersusPlayers(ctx context.Context, versusID, requesterID string, desired []models.PlayerInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.requireCommissioner(ctx, versusID, requesterID); err != nil {
		return err
	}
	if err := validatePlayerInputs(desired); err != nil {
		return err
	}
	resolved, err := s.resolvePlayers(ctx, desired)
	if err != nil {
		return err
	}
	if countCommissioners(resolved) == 0 {
		return errLastCommissioner
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	joined := s.now()
	var diff playerDiff
	err = s.editing(writeCtx, versusID, func(repo store.Repository) error {
		current, err := repo.Members(writeCtx, versusID)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		diff = diffPlayers(versusID, current, resolved, func() models.VersusPlayer {
			return models.VersusPlayer{JoinedAt: joined}
		})
		if diff.empty() {
			return nil
		}

		if err := repo.InsertMembers(writeCtx, diff.insert); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return &ConflictError{Message: "player is already a member of this versus"}
			}
			return err
		}
		for _, m := range diff.update {
			if err := repo.UpdateMember(writeCtx, m); err != nil {
				return err
			}
		}
		for _, playerID := range diff.remove {
			if err := repo.DeleteMember(writeCtx, versusID, playerID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		after, err := repo.Members(writeCtx, versusID)
		if err != nil {
			return fmt.Errorf("failed to reload members: %w", err)
		}
		if countMemberCommissioners(after) == 0 {
			return errLastCommissioner
		}
		return nil
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return conflict
		}
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("player update failed", "versus_id", versusID, "error", err)
		return fmt.Errorf("failed to update players: %w", err)
	}
	if diff.empty() {
		return nil
	}

	s.log.Info("players updated", "versus_id", versusID,
		"added", len(diff.insert), "updated", len(diff.update), "removed", len(diff.remove))
	return nil
}

var errLastCommissioner = &ConflictError{Message: "cannot remove the last commissioner"}

func countCommissioners(players []resolvedPlayer) int {
	n := 0
	for _, p := range players {
		if p.IsCommissioner {
			n++
		}
	}
	return n
}

func countMemberCommissioners(members []models.Member) int {
	n := 0
	for _, m := range members {
		if m.IsCommissioner {
			n++
		}
	}
	return n
}

// UpdateVersusObjectives replaces the objectives of a versus with the
// desired list. Entries carrying an id edit that objective in place, so its
// completions are kept and rescored; removed objectives take their
// completions with them.
func (s *Service) UpdateVersusObjectives(ctx context.Context, versusID, requesterID string, desired []models.ObjectiveInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.requireCommissioner(ctx, versusID, requesterID); err != nil {
		return err
	}
	desired, err := validateObjectiveInputs(desired)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	now := s.now()
	var diff objectiveDiff
	err = s.editing(writeCtx, versusID, func(repo store.Repository) error {
		current, err := repo.Objectives(writeCtx, versusID)
		if err != nil {
			return fmt.Errorf("failed to load objectives: %w", err)
		}
		known := make(map[string]bool, len(current))
		for _, o := range current {
			known[o.ID] = true
		}
		for _, in := range desired {
			if in.ID != "" && !known[in.ID] {
				return invalid("objectives", "objective %s does not belong to this versus", in.ID)
			}
		}

		n := 0
		diff = diffObjectives(current, desired, func(in models.ObjectiveInput) models.Objective {
			n++
			return models.Objective{
				ID:          newID(),
				VersusID:    versusID,
				Title:       in.Title,
				Points:      in.Points,
				Description: in.Description,
				CreatedAt:   now.Add(time.Duration(n) * time.Microsecond),
			}
		})
		if diff.empty() {
			return nil
		}

		if err := repo.InsertObjectives(writeCtx, diff.insert); err != nil {
			return err
		}
		for _, o := range diff.update {
			if err := repo.UpdateObjective(writeCtx, o); err != nil {
				return err
			}
		}
		for _, id := range diff.remove {
			if err := repo.DeleteObjective(writeCtx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			return validation
		}
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("objective update failed", "versus_id", versusID, "error", err)
		return fmt.Errorf("failed to update objectives: %w", err)
	}
	if diff.empty() {
		return nil
	}

	s.log.Info("objectives updated", "versus_id", versusID,
		"added", len(diff.insert), "updated", len(diff.update), "removed", len(diff.remove))
	return nil
}

// UpdateVersusSettings changes name, type and ranking direction.
func (s *Service) UpdateVersusSettings(ctx context.Context, versusID, requesterID string, cfg models.VersusConfig) (models.Versus, error) {
	if err := s.requireCommissioner(ctx, versusID, requesterID); err != nil {
		return models.Versus{}, err
	}
	cfg, err := validateConfig(cfg)
	if err != nil {
		return models.Versus{}, err
	}

	v, err := s.backend.VersusByID(ctx, versusID)
	if err != nil {
		return models.Versus{}, notFound(err)
	}
	v.Name = cfg.Name
	v.Type = cfg.Type
	v.ReverseRanking = cfg.ReverseRanking
	v.UpdatedAt = s.now()

	if err := s.backend.UpdateVersus(ctx, v); err != nil {
		return models.Versus{}, notFound(err)
	}

	s.log.Info("versus settings updated", "versus_id", versusID, "reverse_ranking", v.ReverseRanking)
	return v, nil
}

// DeleteVersus removes a versus with everything attached to it.
func (s *Service) DeleteVersus(ctx context.Context, versusID, requesterID string) error {
	if err := s.requireCommissioner(ctx, versusID, requesterID); err != nil {
		return err
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	if err := s.backend.DeleteVersus(writeCtx, versusID); err != nil {
		return notFound(err)
	}

	s.log.Info("versus deleted", "versus_id", versusID, "by", requesterID)
	return nil
}
