// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database and verifies the connection.
// SQLite connections always run with foreign keys enabled, since cascade
// deletes are what clean up memberships, objectives and completions.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver, dsn string
	switch dbType {
	case TypePostgres:
		driver, dsn = "postgres", url
	case TypeSQLite, "":
		driver, dsn = "sqlite", sqliteDSN(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY and keeps :memory: databases
		// on one connection.
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxIdleConns(10)
		conn.SetMaxOpenConns(50)
		conn.SetConnMaxLifetime(time.Hour)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// sqliteDSN appends the foreign_keys pragma to a sqlite DSN.
func sqliteDSN(url string) string {
	if strings.Contains(url, "foreign_keys") {
		return url
	}
	if !strings.HasPrefix(url, "file:") {
		url = "file:" + url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Players
CREATE TABLE IF NOT EXISTS player (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Versus
CREATE TABLE IF NOT EXISTS versus (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    reverse_ranking BOOLEAN NOT NULL DEFAULT FALSE,
    created_by TEXT NOT NULL REFERENCES player(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_versus_created_by ON versus(created_by);

-- Memberships
CREATE TABLE IF NOT EXISTS versus_player (
    versus_id TEXT NOT NULL REFERENCES versus(id) ON DELETE CASCADE,
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    is_commissioner BOOLEAN NOT NULL DEFAULT FALSE,
    nickname TEXT,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (versus_id, player_id)
);

CREATE INDEX IF NOT EXISTS idx_versus_player_player_id ON versus_player(player_id);

-- Objectives
CREATE TABLE IF NOT EXISTS objective (
    id TEXT PRIMARY KEY,
    versus_id TEXT NOT NULL REFERENCES versus(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    points INTEGER NOT NULL CHECK (points >= -999999 AND points <= 999999),
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (id, versus_id)
);

CREATE INDEX IF NOT EXISTS idx_objective_versus_id ON objective(versus_id);

-- Completions
CREATE TABLE IF NOT EXISTS completion (
    id TEXT PRIMARY KEY,
    versus_id TEXT NOT NULL,
    player_id TEXT NOT NULL,
    objective_id TEXT NOT NULL,
    completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (versus_id, player_id) REFERENCES versus_player(versus_id, player_id) ON DELETE CASCADE,
    -- A completion can only name an objective of its own versus
    FOREIGN KEY (objective_id, versus_id) REFERENCES objective(id, versus_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_completion_versus_player ON completion(versus_id, player_id);
CREATE INDEX IF NOT EXISTS idx_completion_objective_id ON completion(objective_id);
`
