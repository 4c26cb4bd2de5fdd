// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store reads and writes players, versus, memberships, objectives
// and completions over database/sql. The same queries run on PostgreSQL
// (lib/pq) and SQLite (modernc.org/sqlite).
//
// Queries works on a *sql.DB or a *sql.Tx. Store adds RunInTx, which hands a
// transaction-bound Repository to a callback and commits when it returns nil.
//
// Driver errors are mapped onto ErrNotFound, ErrDuplicate and ErrConstraint.
package store
