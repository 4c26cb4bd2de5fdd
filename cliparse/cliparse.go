// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	TokenSecret  string
	CreationMode string
	WriteTimeout time.Duration
	LogLevel     string
	LogFormat    string
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present; it never
// overrides variables that are already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	_ = godotenv.Load()

	fs := flag.NewFlagSet("versus", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Bearer token signing secret (prefer env)")

	fs.StringVar(&cfg.CreationMode, "creation-mode", "", "Versus creation strategy (transaction or compensating)")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", 0, "Deadline for a started write sequence")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = orEnv(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	cfg.CreationMode = orEnv(cfg.CreationMode, "CREATION_MODE", "transaction")
	if cfg.CreationMode != "transaction" && cfg.CreationMode != "compensating" {
		return Config{}, fmt.Errorf("unsupported creation mode %q", cfg.CreationMode)
	}

	if cfg.WriteTimeout == 0 {
		if s := os.Getenv("WRITE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid WRITE_TIMEOUT env variable")
			}
			cfg.WriteTimeout = d
		} else {
			cfg.WriteTimeout = 10 * time.Second
		}
	}
	if cfg.WriteTimeout < 0 {
		return Config{}, errors.New("write timeout must be positive")
	}

	cfg.LogLevel = orEnv(cfg.LogLevel, "LOG_LEVEL", "info")
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("unsupported log level %q", cfg.LogLevel)
	}

	cfg.LogFormat = orEnv(cfg.LogFormat, "LOG_FORMAT", "text")
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return cfg, nil
}

func orEnv(value, key, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
