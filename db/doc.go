// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "versus.db")

SQLite DSNs get the foreign_keys pragma appended so cascade deletes behave
the same on both engines.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - player: registered users (unique email)
  - versus: challenge metadata and ranking direction
  - versus_player: memberships, primary key (versus_id, player_id)
  - objective: scorable rules with signed points
  - completion: timestamped objective completions

# Relationships

	versus 1──* versus_player *──1 player
	versus 1──* objective
	objective 1──* completion
	versus_player 1──* completion (via versus_id, player_id)

Deleting a versus removes its memberships and objectives, which in turn
remove their completions. Removing a membership removes that player's
completions in the versus.
*/
package db
