// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/store"
)

// Backend is the entity store plus its transaction runner.
type Backend interface {
	store.Repository
	RunInTx(ctx context.Context, fn func(store.Repository) error) error
}

type Options struct {
	// CreationMode is models.CreationModeTransaction (default) or
	// models.CreationModeCompensating.
	CreationMode string
	// WriteTimeout bounds the write phase, which no longer follows the
	// caller's cancellation once the first write is issued.
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

type Service struct {
	backend      Backend
	creator      creator
	mode         string
	writeTimeout time.Duration
	log          *slog.Logger
	now          func() time.Time

	// editMu serializes edits when there is no transaction to hold the
	// versus row lock.
	editMu sync.Mutex
}

func NewService(backend Backend, opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.CreationMode == "" {
		opts.CreationMode = models.CreationModeTransaction
	}

	s := &Service{
		backend:      backend,
		mode:         opts.CreationMode,
		writeTimeout: opts.WriteTimeout,
		log:          opts.Logger,
		now:          func() time.Time { return time.Now().UTC() },
	}

	switch opts.CreationMode {
	case models.CreationModeTransaction:
		s.creator = &txCreator{backend: backend}
	case models.CreationModeCompensating:
		s.creator = &compensatingCreator{repo: backend, timeout: opts.WriteTimeout, log: opts.Logger}
	default:
		return nil, fmt.Errorf("unknown creation mode %q", opts.CreationMode)
	}

	return s, nil
}

// writeContext detaches the write phase from the caller's cancellation so a
// started sequence (and its compensation) always runs to the end.
func (s *Service) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
}

// atomically runs an edit. In transaction mode the whole diff commits or
// nothing does; in compensating mode each row write stands on its own.
func (s *Service) atomically(ctx context.Context, fn func(store.Repository) error) error {
	if s.mode == models.CreationModeTransaction {
		return s.backend.RunInTx(ctx, fn)
	}
	return fn(s.backend)
}

// editing runs fn as one edit of a versus. The versus row is locked before
// fn reads anything, so concurrent edits of the same versus see each other's
// results instead of a stale membership or objective list.
func (s *Service) editing(ctx context.Context, versusID string, fn func(store.Repository) error) error {
	if s.mode != models.CreationModeTransaction {
		s.editMu.Lock()
		defer s.editMu.Unlock()
	}
	return s.atomically(ctx, func(repo store.Repository) error {
		if err := repo.LockVersus(ctx, versusID); err != nil {
			return notFound(err)
		}
		return fn(repo)
	})
}

// snapshot runs a group of reads against one consistent view when the
// store supports it.
func (s *Service) snapshot(ctx context.Context, fn func(store.Repository) error) error {
	return s.atomically(ctx, fn)
}

func newID() string {
	return uuid.NewString()
}

// Player directory

// RegisterPlayer creates a player profile. Emails are unique.
func (s *Service) RegisterPlayer(ctx context.Context, email, displayName string) (models.Player, error) {
	email, displayName, err := validatePlayerProfile(email, displayName)
	if err != nil {
		return models.Player{}, err
	}

	p := models.Player{
		ID:          newID(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   s.now(),
	}
	if err := s.backend.InsertPlayer(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.Player{}, &ConflictError{Message: "email is already registered"}
		}
		return models.Player{}, fmt.Errorf("failed to insert player: %w", err)
	}

	s.log.Info("player registered", "player_id", p.ID)
	return p, nil
}

func (s *Service) PlayerByEmail(ctx context.Context, email string) (models.Player, error) {
	p, err := s.backend.PlayerByEmail(ctx, NormalizeEmail(email))
	return p, notFound(err)
}

func (s *Service) PlayerByID(ctx context.Context, id string) (models.Player, error) {
	p, err := s.backend.PlayerByID(ctx, id)
	return p, notFound(err)
}

// resolvePlayers binds every input to a registered player. Read-only.
func (s *Service) resolvePlayers(ctx context.Context, inputs []models.PlayerInput) ([]resolvedPlayer, error) {
	resolved := make([]resolvedPlayer, 0, len(inputs))
	for _, in := range inputs {
		var (
			p   models.Player
			err error
		)
		if id := strings.TrimSpace(in.PlayerID); id != "" {
			p, err = s.backend.PlayerByID(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalid("players", "unknown player %s", id)
			}
		} else {
			email := NormalizeEmail(in.Email)
			p, err = s.backend.PlayerByEmail(ctx, email)
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalid("players", "no player is registered with email %s", email)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player: %w", err)
		}
		resolved = append(resolved, resolvedPlayer{
			PlayerID:       p.ID,
			IsCommissioner: in.IsCommissioner,
			Nickname:       cleanNickname(in.Nickname),
		})
	}
	return resolved, checkResolvedDuplicates(resolved)
}

// Authorization checks

// IsMember reports whether the player belongs to the versus.
func (s *Service) IsMember(ctx context.Context, versusID, playerID string) (bool, error) {
	_, err := s.backend.Membership(ctx, versusID, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// IsCommissioner reports whether the player is a commissioner of the versus.
func (s *Service) IsCommissioner(ctx context.Context, versusID, playerID string) (bool, error) {
	m, err := s.backend.Membership(ctx, versusID, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil && m.IsCommissioner, err
}

// requireMember returns ErrNotFound for a missing versus and an
// AuthorizationError for a non-member.
func (s *Service) requireMember(ctx context.Context, versusID, playerID string) (models.VersusPlayer, error) {
	if _, err := s.backend.VersusByID(ctx, versusID); err != nil {
		return models.VersusPlayer{}, notFound(err)
	}
	m, err := s.backend.Membership(ctx, versusID, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return m, &AuthorizationError{Message: "not a member of this versus"}
	}
	if err != nil {
		return m, fmt.Errorf("failed to load membership: %w", err)
	}
	return m, nil
}

func (s *Service) requireCommissioner(ctx context.Context, versusID, playerID string) error {
	m, err := s.requireMember(ctx, versusID, playerID)
	if err != nil {
		return err
	}
	if !m.IsCommissioner {
		return &AuthorizationError{Message: "only a commissioner can edit this versus"}
	}
	return nil
}

// Read model

// GetVersus returns the versus with its members and objectives.
func (s *Service) GetVersus(ctx context.Context, versusID, requesterID string) (models.VersusDetail, error) {
	if _, err := s.requireMember(ctx, versusID, requesterID); err != nil {
		return models.VersusDetail{}, err
	}

	var detail models.VersusDetail
	err := s.snapshot(ctx, func(repo store.Repository) error {
		var err error
		if detail.Versus, err = repo.VersusByID(ctx, versusID); err != nil {
			return notFound(err)
		}
		if detail.Members, err = repo.Members(ctx, versusID); err != nil {
			return err
		}
		detail.Objectives, err = repo.Objectives(ctx, versusID)
		return err
	})
	return detail, err
}

// GetVersusBySlug resolves a share slug and returns the versus detail.
func (s *Service) GetVersusBySlug(ctx context.Context, slug, requesterID string) (models.VersusDetail, error) {
	v, err := s.backend.VersusBySlug(ctx, slug)
	if err != nil {
		return models.VersusDetail{}, notFound(err)
	}
	return s.GetVersus(ctx, v.ID, requesterID)
}

func (s *Service) ListVersusForPlayer(ctx context.Context, playerID string) ([]models.VersusSummary, error) {
	return s.backend.VersusForPlayer(ctx, playerID)
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
