// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p              PORT           Server port (default 3318)
	-d              DATABASE_URL   Database URL (required)
	-t              DATABASE_TYPE  sqlite (default) or postgres
	-token-secret   TOKEN_SECRET   Bearer token secret (required)
	-creation-mode  CREATION_MODE  transaction (default) or compensating
	-write-timeout  WRITE_TIMEOUT  Deadline for started writes (default 10s)
	-log-level      LOG_LEVEL      debug, info (default), warn, error
	-log-format     LOG_FORMAT     text (default) or json

CLI flags take precedence over environment variables. A .env file in the
working directory is read first through godotenv and never overrides
variables that are already set.
*/
package cliparse
