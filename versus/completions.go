// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// RecordCompletion appends a completion of objectiveID by playerID. The
// player must be a member and the objective must belong to the same versus.
// The same objective may be completed any number of times.
func (s *Service) RecordCompletion(ctx context.Context, versusID, playerID, objectiveID string) (models.Completion, error) {
	if _, err := s.requireMember(ctx, versusID, playerID); err != nil {
		return models.Completion{}, err
	}

	obj, err := s.backend.ObjectiveByID(ctx, objectiveID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && obj.VersusID != versusID) {
		return models.Completion{}, invalid("objective_id", "objective does not belong to this versus")
	}
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to load objective: %w", err)
	}

	c := models.Completion{
		ID:          newID(),
		VersusID:    versusID,
		PlayerID:    playerID,
		ObjectiveID: objectiveID,
		CompletedAt: s.now(),
	}
	if err := s.backend.InsertCompletion(ctx, c); err != nil {
		// Objective or membership removed between the check and the insert.
		if errors.Is(err, store.ErrConstraint) {
			return models.Completion{}, &ConflictError{Message: "objective or membership no longer exists"}
		}
		return models.Completion{}, fmt.Errorf("failed to insert completion: %w", err)
	}

	s.log.Info("completion recorded",
		"versus_id", versusID,
		"player_id", playerID,
		"objective_id", objectiveID,
		"completion_id", c.ID,
	)
	return c, nil
}

// DeleteCompletion removes a completion. Only the player who recorded it may
// delete it; completions are never edited.
func (s *Service) DeleteCompletion(ctx context.Context, completionID, requesterID string) error {
	c, err := s.backend.CompletionByID(ctx, completionID)
	if err != nil {
		return notFound(err)
	}
	if c.PlayerID != requesterID {
		return &AuthorizationError{Message: "only the player who recorded a completion can delete it"}
	}

	if err := s.backend.DeleteCompletion(ctx, completionID); err != nil {
		return notFound(err)
	}

	s.log.Info("completion deleted", "completion_id", completionID, "versus_id", c.VersusID, "player_id", requesterID)
	return nil
}

// GetHistory lists a player's completions in a versus, newest first, with
// the current points of each objective. The requester must be a member.
func (s *Service) GetHistory(ctx context.Context, versusID, playerID, requesterID string) ([]models.HistoryEntry, error) {
	if _, err := s.requireMember(ctx, versusID, requesterID); err != nil {
		return nil, err
	}
	if playerID != requesterID {
		ok, err := s.IsMember(ctx, versusID, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load membership: %w", err)
		}
		if !ok {
			return nil, ErrNotFound
		}
	}
	return s.backend.History(ctx, versusID, playerID)
}
