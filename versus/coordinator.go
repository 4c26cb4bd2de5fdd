// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// Creation steps, in the order they are written.
const (
	stepVersus     = "versus"
	stepMembers    = "members"
	stepObjectives = "objectives"
	stepCommit     = "commit"
)

// creationPlan holds every row of a new versus, fully built before the
// first write.
type creationPlan struct {
	versus     models.Versus
	members    []models.VersusPlayer
	objectives []models.Objective
}

// creator writes a creationPlan all-or-nothing.
type creator interface {
	create(ctx context.Context, plan creationPlan) error
}

// writePlan issues the three ordered writes and reports the step that failed.
func writePlan(ctx context.Context, repo store.Repository, plan creationPlan) (string, error) {
	if err := repo.InsertVersus(ctx, plan.versus); err != nil {
		return stepVersus, err
	}
	if err := repo.InsertMembers(ctx, plan.members); err != nil {
		return stepMembers, err
	}
	if err := repo.InsertObjectives(ctx, plan.objectives); err != nil {
		return stepObjectives, err
	}
	return "", nil
}

// txCreator writes the plan inside one database transaction.
type txCreator struct {
	backend Backend
}

func (c *txCreator) create(ctx context.Context, plan creationPlan) error {
	var failed string
	started := false
	err := c.backend.RunInTx(ctx, func(repo store.Repository) error {
		started = true
		step, err := writePlan(ctx, repo, plan)
		failed = step
		return err
	})
	if err == nil {
		return nil
	}

	switch {
	case !started, failed == stepVersus:
		return fmt.Errorf("failed to insert versus: %w", err)
	case failed == "":
		failed = stepCommit
	}
	return &PartialWriteError{Step: failed, Err: err}
}

// compensatingCreator writes each step on its own and deletes the versus
// row when a later step fails. Used when the store cannot offer a
// transaction spanning all three writes.
type compensatingCreator struct {
	repo    store.Repository
	timeout time.Duration
	log     *slog.Logger
}

func (c *compensatingCreator) create(ctx context.Context, plan creationPlan) error {
	step, err := writePlan(ctx, c.repo, plan)
	if err == nil {
		return nil
	}
	if step == stepVersus {
		return fmt.Errorf("failed to insert versus: %w", err)
	}

	// The compensation gets its own deadline: the write phase may have
	// failed precisely because its deadline expired.
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	rbErr := c.repo.DeleteVersus(rbCtx, plan.versus.ID)
	if rbErr != nil && !errors.Is(rbErr, store.ErrNotFound) {
		c.log.Log(ctx, LevelCritical, "versus rollback failed, manual cleanup required",
			"alert", true,
			"versus_id", plan.versus.ID,
			"step", step,
			"error", err,
			"rollback_error", rbErr,
		)
		return &RollbackFailure{VersusID: plan.versus.ID, Step: step, Err: err, RollbackErr: rbErr}
	}

	c.log.Warn("versus creation rolled back", "versus_id", plan.versus.ID, "step", step, "error", err)
	return &PartialWriteError{Step: step, Err: err}
}

// CreateVersus validates the whole input, resolves players and then writes
// the versus, its memberships and its objectives as one unit. Any failure
// before the first write leaves the store untouched; any failure after it
// leaves no trace of the versus.
//
// Retries are not deduplicated: each successful call creates a new versus.
func (s *Service) CreateVersus(ctx context.Context, creatorID string, cfg models.VersusConfig,
	players []models.PlayerInput, objectives []models.ObjectiveInput) (models.Versus, error) {
	if err := ctx.Err(); err != nil {
		return models.Versus{}, err
	}

	cfg, err := validateConfig(cfg)
	if err != nil {
		return models.Versus{}, err
	}
	if err := validatePlayerInputs(players); err != nil {
		return models.Versus{}, err
	}
	objectives, err = validateObjectiveInputs(objectives)
	if err != nil {
		return models.Versus{}, err
	}
	for _, o := range objectives {
		if o.ID != "" {
			return models.Versus{}, invalid("objectives", "new objectives cannot carry an id")
		}
	}

	resolved, err := s.resolvePlayers(ctx, players)
	if err != nil {
		return models.Versus{}, err
	}
	creatorEntries := 0
	for _, p := range resolved {
		if p.PlayerID == creatorID {
			creatorEntries++
		}
	}
	if creatorEntries != 1 {
		return models.Versus{}, invalid("players", "the creator must be listed exactly once")
	}

	plan := s.buildPlan(creatorID, cfg, resolved, objectives)

	// Last point at which cancellation is honoured.
	if err := ctx.Err(); err != nil {
		return models.Versus{}, err
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	if err := s.creator.create(writeCtx, plan); err != nil {
		var rf *RollbackFailure
		if !errors.As(err, &rf) {
			s.log.Error("versus creation failed", "creator_id", creatorID, "mode", s.mode, "error", err)
		}
		return models.Versus{}, err
	}

	s.log.Info("versus created",
		"versus_id", plan.versus.ID,
		"creator_id", creatorID,
		"players", len(plan.members),
		"objectives", len(plan.objectives),
	)
	return plan.versus, nil
}

func (s *Service) buildPlan(creatorID string, cfg models.VersusConfig, players []resolvedPlayer,
	objectives []models.ObjectiveInput) creationPlan {
	now := s.now()
	v := models.Versus{
		ID:             newID(),
		Name:           cfg.Name,
		Type:           cfg.Type,
		ReverseRanking: cfg.ReverseRanking,
		CreatedBy:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	v.Slug = makeSlug(v.Name, v.ID)

	plan := creationPlan{versus: v}
	for _, p := range players {
		plan.members = append(plan.members, models.VersusPlayer{
			VersusID:       v.ID,
			PlayerID:       p.PlayerID,
			IsCommissioner: p.IsCommissioner || p.PlayerID == creatorID,
			Nickname:       p.Nickname,
			JoinedAt:       now,
		})
	}
	for i, o := range objectives {
		plan.objectives = append(plan.objectives, models.Objective{
			ID:          newID(),
			VersusID:    v.ID,
			Title:       o.Title,
			Points:      o.Points,
			Description: o.Description,
			// Keeps the submitted order stable under ORDER BY created_at.
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return plan
}

// makeSlug derives a share slug from the name plus a piece of the id.
func makeSlug(name, id string) string {
	base := slug.Make(name)
	if base == "" {
		base = "versus"
	}
	if len(base) > 40 {
		base = strings.TrimRight(base[:40], "-")
	}
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return base + "-" + suffix
}
