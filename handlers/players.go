// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/versus"
)

type PlayerHandler struct {
	svc *versus.Service
}

func NewPlayerHandler(svc *versus.Service) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

// Register handles POST /players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterPlayerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.RegisterPlayer(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err, "Failed to register player")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterPlayerResponse{Player: p})
}

// Lookup handles GET /players/lookup?email=
func (h *PlayerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if _, ok := requester(w, r); !ok {
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	p, err := h.svc.PlayerByEmail(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err, "Failed to look up player")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}
