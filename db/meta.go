// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Meta keys
const (
	MetaSeedVersion   = "seed_version"
	MetaPollStatus    = "poll_status"
	MetaActiveIndex   = "active_question_index"
	MetaRevealCorrect = "reveal_correct"
	MetaQnAHighlight  = "qna_highlight_id"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx, so meta reads can
// participate in a caller's transaction.
type Queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// GetMeta returns the value for key, or def if the key is absent.
func GetMeta(q Queryer, key, def string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM meta WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta upserts a meta key.
func SetMeta(e Execer, key, value string) error {
	_, err := e.Exec(`
		INSERT INTO meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write meta %q: %w", key, err)
	}
	return nil
}

// GetMetaInt reads an integer meta value, or def if absent or malformed.
func GetMetaInt(q Queryer, key string, def int) (int, error) {
	raw, err := GetMeta(q, key, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, nil
	}
	return n, nil
}

// GetMetaBool reads a boolean meta value stored as "true"/"false".
func GetMetaBool(q Queryer, key string, def bool) (bool, error) {
	raw, err := GetMeta(q, key, strconv.FormatBool(def))
	if err != nil {
		return false, err
	}
	return raw == "true" || raw == "1", nil
}
