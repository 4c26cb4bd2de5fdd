// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/models"
	"github.com/danielhkuo/versus/versus"
)

type VersusHandler struct {
	svc *versus.Service
}

func NewVersusHandler(svc *versus.Service) *VersusHandler {
	return &VersusHandler{svc: svc}
}

// CreateVersus handles POST /versus
// The authenticated player is the creator and is always a commissioner.
func (h *VersusHandler) CreateVersus(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.CreateVersusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	draft := versus.NewDraft(playerID).WithConfig(req.VersusConfig)
	for _, p := range req.Players {
		draft = draft.WithPlayer(p)
	}
	for _, o := range req.Objectives {
		draft = draft.WithObjective(o)
	}

	v, err := h.svc.Submit(r.Context(), draft)
	if err != nil {
		writeServiceError(w, r, err, "failed to create, no Versus was created")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateVersusResponse{
		VersusID: v.ID,
		Slug:     v.Slug,
	})
}

// ListVersus handles GET /versus
func (h *VersusHandler) ListVersus(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListVersusForPlayer(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list versus")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListVersusResponse{Versus: list})
}

// GetVersus handles GET /versus/{id}
func (h *VersusHandler) GetVersus(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetVersus(r.Context(), r.PathValue("id"), playerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load versus")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// GetVersusBySlug handles GET /slugs/{slug}
func (h *VersusHandler) GetVersusBySlug(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetVersusBySlug(r.Context(), r.PathValue("slug"), playerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load versus")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpdateSettings handles PATCH /versus/{id}
func (h *VersusHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.VersusConfig
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	v, err := h.svc.UpdateVersusSettings(r.Context(), r.PathValue("id"), playerID, req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update versus")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, v)
}

// DeleteVersus handles DELETE /versus/{id}
func (h *VersusHandler) DeleteVersus(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteVersus(r.Context(), r.PathValue("id"), playerID); err != nil {
		writeServiceError(w, r, err, "Failed to delete versus")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePlayers handles PUT /versus/{id}/players
func (h *VersusHandler) UpdatePlayers(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.UpdatePlayersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	versusID := r.PathValue("id")
	if err := h.svc.UpdateVersusPlayers(r.Context(), versusID, playerID, req.Players); err != nil {
		writeServiceError(w, r, err, "Failed to update players")
		return
	}

	h.writeDetail(w, r, versusID, playerID)
}

// UpdateObjectives handles PUT /versus/{id}/objectives
func (h *VersusHandler) UpdateObjectives(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.UpdateObjectivesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	versusID := r.PathValue("id")
	if err := h.svc.UpdateVersusObjectives(r.Context(), versusID, playerID, req.Objectives); err != nil {
		writeServiceError(w, r, err, "Failed to update objectives")
		return
	}

	h.writeDetail(w, r, versusID, playerID)
}

// writeDetail answers an edit with the versus as it now stands. A requester
// who removed themselves gets 204.
func (h *VersusHandler) writeDetail(w http.ResponseWriter, r *http.Request, versusID, playerID string) {
	detail, err := h.svc.GetVersus(r.Context(), versusID, playerID)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}
