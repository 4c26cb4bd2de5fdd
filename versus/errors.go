// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package versus

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned when a versus, objective or completion does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or out-of-bounds input. It is always
// returned before any write is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation or a guard such as removing
// the last commissioner.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthorizationError reports that the requesting player may not perform the
// operation. Nothing has been written when it is returned.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// PartialWriteError reports that a creation step failed after an earlier
// step succeeded. The earlier writes have already been undone.
type PartialWriteError struct {
	Step string
	Err  error
}

func (e *PartialWriteError) Error() string {
	return "failed to create, no Versus was created"
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// RollbackFailure reports that undoing a partial creation failed too. The
// versus row may still exist and needs manual cleanup.
type RollbackFailure struct {
	VersusID    string
	Step        string
	Err         error
	RollbackErr error
}

func (e *RollbackFailure) Error() string {
	return "failed to create versus"
}

func (e *RollbackFailure) Unwrap() []error { return []error{e.Err, e.RollbackErr} }

// LevelCritical is logged for inconsistencies that need an operator.
const LevelCritical = slog.LevelError + 4

// ReplaceLevelName renders LevelCritical as CRITICAL in slog handlers.
func ReplaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
