// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/versus"
)

type ScoreboardHandler struct {
	svc *versus.Service
}

func NewScoreboardHandler(svc *versus.Service) *ScoreboardHandler {
	return &ScoreboardHandler{svc: svc}
}

// GetScoreboard handles GET /versus/{id}/scoreboard
// Scores are recomputed on every request.
func (h *ScoreboardHandler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	board, err := h.svc.ScoreboardFor(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to compute scoreboard")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	middleware.JSONResponse(w, http.StatusOK, board)
}
