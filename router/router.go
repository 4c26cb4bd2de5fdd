// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/versus/cliparse"
	"github.com/danielhkuo/versus/handlers"
	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/versus"
)

func NewRouter(svc *versus.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	playerHandler := handlers.NewPlayerHandler(svc)
	versusHandler := handlers.NewVersusHandler(svc)
	completionHandler := handlers.NewCompletionHandler(svc)
	scoreboardHandler := handlers.NewScoreboardHandler(svc)

	authed := middleware.RequireAuth(cfg.TokenSecret)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(authed(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Player directory
	mux.HandleFunc("POST /players", middleware.WithLogging(playerHandler.Register))
	handle("GET /players/lookup", playerHandler.Lookup)

	// Versus lifecycle
	handle("POST /versus", versusHandler.CreateVersus)
	handle("GET /versus", versusHandler.ListVersus)
	handle("GET /versus/{id}", versusHandler.GetVersus)
	handle("PATCH /versus/{id}", versusHandler.UpdateSettings)
	handle("DELETE /versus/{id}", versusHandler.DeleteVersus)
	handle("GET /slugs/{slug}", versusHandler.GetVersusBySlug)

	// Commissioner edits
	handle("PUT /versus/{id}/players", versusHandler.UpdatePlayers)
	handle("PUT /versus/{id}/objectives", versusHandler.UpdateObjectives)

	// Completions and scoring
	handle("POST /versus/{id}/completions", completionHandler.RecordCompletion)
	handle("DELETE /completions/{id}", completionHandler.DeleteCompletion)
	handle("GET /versus/{id}/players/{playerId}/history", completionHandler.GetHistory)
	handle("GET /versus/{id}/scoreboard", scoreboardHandler.GetScoreboard)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("versus API v1"))
	})

	return mux
}
