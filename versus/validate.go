// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/versus/models"
)

// Field limits
const (
	maxNameLen        = 60
	maxTypeLen        = 30
	maxNicknameLen    = 30
	maxTitleLen       = 80
	maxDescriptionLen = 500
	maxDisplayNameLen = 50
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateConfig(cfg models.VersusConfig) (models.VersusConfig, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Type = strings.TrimSpace(cfg.Type)

	if cfg.Name == "" {
		return cfg, invalid("name", "is required")
	}
	if utf8.RuneCountInString(cfg.Name) > maxNameLen {
		return cfg, invalid("name", "must be at most %d characters", maxNameLen)
	}
	if cfg.Type == "" {
		return cfg, invalid("type", "is required")
	}
	if utf8.RuneCountInString(cfg.Type) > maxTypeLen {
		return cfg, invalid("type", "must be at most %d characters", maxTypeLen)
	}
	return cfg, nil
}

// validatePlayerInputs checks the shape of a player list before any lookup:
// size bounds, identity present, nickname length and duplicate identities.
func validatePlayerInputs(players []models.PlayerInput) error {
	if len(players) == 0 {
		return invalid("players", "at least one player is required")
	}
	if len(players) > models.MaxPlayers {
		return invalid("players", "at most %d players are allowed", models.MaxPlayers)
	}

	seenIDs := make(map[string]bool, len(players))
	seenEmails := make(map[string]bool, len(players))
	for i, p := range players {
		id := strings.TrimSpace(p.PlayerID)
		email := NormalizeEmail(p.Email)
		if id == "" && email == "" {
			return invalid("players", "entry %d needs a player_id or email", i+1)
		}
		if id != "" {
			if seenIDs[id] {
				return invalid("players", "player %s is listed more than once", id)
			}
			seenIDs[id] = true
		}
		if email != "" {
			if seenEmails[email] {
				return invalid("players", "email %s is listed more than once", email)
			}
			seenEmails[email] = true
		}
		if p.Nickname != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Nickname)) > maxNicknameLen {
			return invalid("players", "nickname must be at most %d characters", maxNicknameLen)
		}
	}
	return nil
}

// resolvedPlayer is a player input bound to a registered player id.
type resolvedPlayer struct {
	PlayerID       string
	IsCommissioner bool
	Nickname       *string
}

// checkResolvedDuplicates catches the same player referenced once by id and
// once by email.
func checkResolvedDuplicates(players []resolvedPlayer) error {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.PlayerID] {
			return invalid("players", "player %s is listed more than once", p.PlayerID)
		}
		seen[p.PlayerID] = true
	}
	return nil
}

func validateObjectiveInputs(objectives []models.ObjectiveInput) ([]models.ObjectiveInput, error) {
	if len(objectives) == 0 {
		return nil, invalid("objectives", "at least one objective is required")
	}
	if len(objectives) > models.MaxObjectives {
		return nil, invalid("objectives", "at most %d objectives are allowed", models.MaxObjectives)
	}

	cleaned := make([]models.ObjectiveInput, len(objectives))
	seenIDs := make(map[string]bool, len(objectives))
	for i, o := range objectives {
		o.ID = strings.TrimSpace(o.ID)
		o.Title = strings.TrimSpace(o.Title)
		if o.Title == "" {
			return nil, invalid("objectives", "entry %d needs a title", i+1)
		}
		if utf8.RuneCountInString(o.Title) > maxTitleLen {
			return nil, invalid("objectives", "title must be at most %d characters", maxTitleLen)
		}
		if o.Points > models.MaxPointsMagnitude || o.Points < -models.MaxPointsMagnitude {
			return nil, invalid("objectives", "points must be between -%d and %d", models.MaxPointsMagnitude, models.MaxPointsMagnitude)
		}
		if o.Description != nil {
			d := strings.TrimSpace(*o.Description)
			if utf8.RuneCountInString(d) > maxDescriptionLen {
				return nil, invalid("objectives", "description must be at most %d characters", maxDescriptionLen)
			}
			if d == "" {
				o.Description = nil
			} else {
				o.Description = &d
			}
		}
		if o.ID != "" {
			if seenIDs[o.ID] {
				return nil, invalid("objectives", "objective %s is listed more than once", o.ID)
			}
			seenIDs[o.ID] = true
		}
		cleaned[i] = o
	}
	return cleaned, nil
}

func cleanNickname(n *string) *string {
	if n == nil {
		return nil
	}
	s := strings.TrimSpace(*n)
	if s == "" {
		return nil
	}
	return &s
}

func validatePlayerProfile(email, displayName string) (string, string, error) {
	email = NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	at := strings.Index(email, "@")
	if email == "" || at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", "", invalid("email", "must be a valid address")
	}
	if displayName == "" {
		return "", "", invalid("display_name", "is required")
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "", "", invalid("display_name", "must be at most %d characters", maxDisplayNameLen)
	}
	return email, displayName, nil
}
