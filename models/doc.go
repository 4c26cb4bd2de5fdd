// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterPlayerRequest: email, display_name
  - CreateVersusRequest: name, type, reverse_ranking, players, objectives
  - UpdatePlayersRequest: full desired player list
  - UpdateObjectivesRequest: full desired objective list
  - RecordCompletionRequest: objective_id

Players are referenced through PlayerInput (player_id or email) and
objectives through ObjectiveInput (id is set when editing an existing row).

# Response Types

  - CreateVersusResponse: versus_id, slug
  - RecordCompletionResponse: completion_id
  - ListVersusResponse: versus summaries for the caller
  - HistoryResponse: a player's completions, most recent first
  - ErrorResponse: error, message

# Domain Types

  - Player: registered user
  - Versus: a challenge instance
  - VersusPlayer / Member: membership, optionally joined with the profile
  - Objective: scorable rule with signed points
  - Completion: timestamped record of a player performing an objective
  - Scoreboard / ScoreEntry: derived scores and competition ranks

Scores are never stored. Scoreboard values are computed on every read.

# Limits

	MaxPlayers         = 12
	MaxObjectives      = 12
	MaxPointsMagnitude = 999999
*/
package models
