// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package versus is the core of the service: creating a versus, editing its
players and objectives, recording completions and computing the scoreboard.

# Creation

CreateVersus writes three row sets (the versus, its memberships, its
objectives) as one unit. Everything is validated and every player is
resolved before the first write. Two strategies exist:

  - transaction: all three writes run in one database transaction.
  - compensating: each write commits on its own; if a later step fails the
    versus row is deleted again, which cascades to the rows already written.

A failed step surfaces as *PartialWriteError. A compensating delete that
fails too surfaces as *RollbackFailure and is logged at LevelCritical with
alert=true.

Cancellation is honoured until the first write. From then on the writes
(and any compensation) run under a context detached from the caller and
bounded by Options.WriteTimeout.

The HTTP layer builds its input through Draft, an immutable value that is
turned into the coordinator input by Submission.

# Edits

UpdateVersusPlayers and UpdateVersusObjectives take the full desired list and
apply the difference: rows in both lists are updated in place, new rows are
inserted and missing rows are deleted. Objectives keep their ids across
edits, so completions stay attached and are rescored.

# Scoring

ComputeScoreboard is a pure function over members, objectives and
completions. GetScoreboard loads those and calls it; nothing is cached.
*/
package versus
