// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before env lookup.

# Config Fields

  - Port: Server listen port (default: 8080)
  - DataFile: SQLite database file path (default: data/quizstats.db)
  - DataFallback: Fallback path when the data directory is not writable
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - DatabaseURL: PostgreSQL connection string (required for postgres)
  - SeedFile: Optional JSON seed file for the question corpus
  - AdminKey: Optional key guarding /api/admin endpoints

# CLI Flags

	-p            Server port
	-d            SQLite data file path
	-fallback     Fallback data file path
	-t            Database type
	-database-url Postgres connection URL
	-seed         Seed file path
	-admin-key    Admin key

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATA_FILE     → -d
	DATA_FALLBACK → -fallback
	DATABASE_TYPE → -t
	DATABASE_URL  → -database-url
	SEED_FILE     → -seed
	ADMIN_KEY     → -admin-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - PORT is set but not a number
  - DATABASE_TYPE is neither sqlite nor postgres
  - DATABASE_TYPE is postgres and no DATABASE_URL is provided

AdminKey is optional. When empty, admin endpoints accept any caller;
intended only for local development.
*/
package cliparse
