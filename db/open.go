// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database type constants
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the durable store. For sqlite, dataFile is the database
// file path; if its directory cannot be created the fallbackFile path is
// tried before giving up. For postgres, dsn is the connection URL and the
// file paths are ignored.
func Open(dbType, dataFile, fallbackFile, dsn string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres:
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("postgres ping failed: %w", err)
		}
		return conn, nil

	case TypeSQLite:
		path, err := ensureDataDir(dataFile, fallbackFile)
		if err != nil {
			return nil, err
		}
		conn, err := sql.Open("sqlite", sqliteDSN(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}
}

// sqliteDSN builds the connection string for modernc.org/sqlite.
// WAL keeps readers from ever observing a half-applied multi-row write,
// and busy_timeout serializes concurrent writers instead of failing them.
func sqliteDSN(path string) string {
	return "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"
}

// ensureDataDir makes sure the directory for the store file exists and is
// writable, falling back to the secondary path when the primary is not.
// MkdirAll alone is not enough: it succeeds on an existing read-only
// directory, which would otherwise fail only at the first write.
func ensureDataDir(primary, fallback string) (string, error) {
	if err := usableDir(filepath.Dir(primary)); err == nil {
		return primary, nil
	} else if fallback == "" || fallback == primary {
		return "", fmt.Errorf("data directory for %s not usable: %w", primary, err)
	} else {
		slog.Warn("primary data path not writable, using fallback", "primary", primary, "fallback", fallback, "error", err)
	}

	if err := usableDir(filepath.Dir(fallback)); err != nil {
		return "", fmt.Errorf("fallback data directory for %s not usable: %w", fallback, err)
	}
	return fallback, nil
}

// usableDir creates dir if needed and confirms it accepts writes by
// creating and removing a scratch file.
func usableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writecheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
