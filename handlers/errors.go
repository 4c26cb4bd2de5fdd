// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/versus"
)

// writeServiceError maps a versus.Service error onto a status code.
// Unexpected errors are logged and answered with fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		validation *versus.ValidationError
		authz      *versus.AuthorizationError
		conflict   *versus.ConflictError
		partial    *versus.PartialWriteError
		rollback   *versus.RollbackFailure
	)

	switch {
	case errors.As(err, &validation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &authz):
		middleware.ErrorResponse(w, http.StatusForbidden, authz.Error())
	case errors.Is(err, versus.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.As(err, &conflict):
		middleware.ErrorResponse(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &rollback):
		// Already logged at critical level by the coordinator.
		middleware.ErrorResponse(w, http.StatusInternalServerError, rollback.Error())
	case errors.As(err, &partial):
		middleware.ErrorResponse(w, http.StatusInternalServerError, partial.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request aborted", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Request canceled")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// requester returns the authenticated player id or answers 401.
func requester(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID, ok := middleware.PlayerID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Bearer token required")
	}
	return playerID, ok
}
