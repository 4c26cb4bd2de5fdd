// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/versus"
)

type CompletionHandler struct {
	svc *versus.Service
}

func NewCompletionHandler(svc *versus.Service) *CompletionHandler {
	return &CompletionHandler{svc: svc}
}

// RecordCompletion handles POST /versus/{id}/completions
// Players record completions for themselves only.
func (h *CompletionHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.RecordCompletionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	objectiveID := strings.TrimSpace(req.ObjectiveID)
	if objectiveID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "objective_id is required")
		return
	}

	c, err := h.svc.RecordCompletion(r.Context(), r.PathValue("id"), playerID, objectiveID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to record completion")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RecordCompletionResponse{CompletionID: c.ID})
}

// DeleteCompletion handles DELETE /completions/{id}
func (h *CompletionHandler) DeleteCompletion(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCompletion(r.Context(), r.PathValue("id"), playerID); err != nil {
		writeServiceError(w, r, err, "Failed to delete completion")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHistory handles GET /versus/{id}/players/{playerId}/history
func (h *CompletionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := requester(w, r)
	if !ok {
		return
	}

	versusID := r.PathValue("id")
	playerID := r.PathValue("playerId")

	history, err := h.svc.GetHistory(r.Context(), versusID, playerID, requesterID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load history")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		VersusID: versusID,
		PlayerID: playerID,
		History:  history,
	})
}
