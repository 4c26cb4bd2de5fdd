// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Versus API server.

Versus lets a group define a challenge, invite players, set scored
objectives and record completions. Scores and ranks are recomputed from the
current objectives on every read.

# Starting the Server

	DATABASE_URL=versus.db TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -token-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - TOKEN_SECRET (-token-secret): HS256 secret of the sign-in service

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - CREATION_MODE (-creation-mode): transaction (default) or compensating
  - WRITE_TIMEOUT (-write-timeout): deadline for started writes (default: 10s)
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output

# Architecture

  - versus: creation coordinator, edits, scoring engine, draft
  - store: SQL entity store and transaction runner
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: auth, CORS, logging, JSON helpers
  - models: Domain, request and response types
  - auth: Bearer token verification
  - db: Connection and schema creation
  - cliparse: Configuration parsing
*/
package main
