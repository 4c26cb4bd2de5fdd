// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Versus API.

# Route Registration

	mux := router.NewRouter(svc, cfg)

# Endpoints

Public:

	GET  /health
	GET  /
	POST /players - Register a player

Bearer token required:

	GET    /players/lookup?email=                 - Find a player by email
	POST   /versus                                - Create versus
	GET    /versus                                - Caller's versus
	GET    /versus/{id}                           - Versus detail (members)
	PATCH  /versus/{id}                           - Settings (commissioner)
	DELETE /versus/{id}                           - Delete (commissioner)
	GET    /slugs/{slug}                          - Versus detail by slug
	PUT    /versus/{id}/players                   - Replace players (commissioner)
	PUT    /versus/{id}/objectives                - Replace objectives (commissioner)
	POST   /versus/{id}/completions               - Record own completion
	DELETE /completions/{id}                      - Delete own completion
	GET    /versus/{id}/players/{playerId}/history - Completion history
	GET    /versus/{id}/scoreboard                - Live scoreboard
*/
package router
