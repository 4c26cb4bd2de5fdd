// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Versus API.

# Handler Types

Each handler is a struct holding the versus.Service:

  - PlayerHandler: registration and email lookup
  - VersusHandler: create, read, settings, delete, player and objective edits
  - CompletionHandler: record and delete completions, player history
  - ScoreboardHandler: live scoreboard

	versusHandler := handlers.NewVersusHandler(svc)

# Authentication

Every route except POST /players runs behind middleware.RequireAuth. The
authenticated player is the creator of a new versus and the owner of any
completion it records.

# Errors

Service errors map onto status codes:

	*versus.ValidationError    → 400
	*versus.AuthorizationError → 403
	versus.ErrNotFound         → 404
	*versus.ConflictError      → 409
	*versus.PartialWriteError  → 500 "failed to create, no Versus was created"
	*versus.RollbackFailure    → 500
	context canceled/deadline  → 503
*/
package handlers
