// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// SeedQuestion is one question in a seed document. Correct is a 0-based
// index into Options, or nil when no option is marked correct.
type SeedQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct *int     `json:"correct"`
}

// SeedSet is a versioned question corpus. When Version differs from the
// stored seed_version, the whole corpus is replaced in one transaction.
type SeedSet struct {
	Version   string         `json:"version"`
	Questions []SeedQuestion `json:"questions"`
}

// LoadSeedFile reads a seed document from a JSON file.
func LoadSeedFile(path string) (SeedSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedSet{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var set SeedSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return SeedSet{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := set.validate(); err != nil {
		return SeedSet{}, err
	}
	return set, nil
}

// DefaultSeed returns the built-in question set used when no seed file is
// configured, so a fresh server is usable immediately.
func DefaultSeed() SeedSet {
	correct := func(i int) *int { return &i }
	return SeedSet{
		Version: "default-1",
		Questions: []SeedQuestion{
			{
				Text:    "Which Go statement starts a new goroutine?",
				Options: []string{"spawn", "go", "fork", "async"},
				Correct: correct(1),
			},
			{
				Text:    "What does a sync.WaitGroup wait for?",
				Options: []string{"Mutex release", "Channel close", "Counter to reach zero", "Context cancellation"},
				Correct: correct(2),
			},
			{
				Text:    "Which of these is your favorite session so far?",
				Options: []string{"Keynote", "Concurrency deep dive", "Lightning talks", "Hallway track"},
			},
		},
	}
}

func (s SeedSet) validate() error {
	if s.Version == "" {
		return fmt.Errorf("seed set has no version")
	}
	for i, q := range s.Questions {
		if q.Text == "" {
			return fmt.Errorf("seed question %d has no text", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("seed question %d needs at least two options", i)
		}
		if q.Correct != nil && (*q.Correct < 0 || *q.Correct >= len(q.Options)) {
			return fmt.Errorf("seed question %d: correct index %d out of range", i, *q.Correct)
		}
	}
	return nil
}

// Seed replaces the question corpus when the seed version changed.
// The wipe and reinsert run in a single transaction so concurrent readers
// never observe a mix of the old and new generation. Returns whether a
// reseed actually happened.
func Seed(conn *sql.DB, set SeedSet) (bool, error) {
	if err := set.validate(); err != nil {
		return false, err
	}

	current, err := GetMeta(conn, MetaSeedVersion, "")
	if err != nil {
		return false, err
	}
	if current == set.Version {
		return false, nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	// Full-corpus migration: prior generation goes away entirely.
	for _, stmt := range []string{
		`DELETE FROM responses`,
		`DELETE FROM options`,
		`DELETE FROM questions`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return false, fmt.Errorf("failed to clear prior seed generation: %w", err)
		}
	}

	for i, q := range set.Questions {
		var questionID int64
		err := tx.QueryRow(`
			INSERT INTO questions (text) VALUES ($1) RETURNING id
		`, q.Text).Scan(&questionID)
		if err != nil {
			return false, fmt.Errorf("failed to insert seed question %d: %w", i, err)
		}

		optionIDs := make([]int64, len(q.Options))
		for j, text := range q.Options {
			err := tx.QueryRow(`
				INSERT INTO options (question_id, text) VALUES ($1, $2) RETURNING id
			`, questionID, text).Scan(&optionIDs[j])
			if err != nil {
				return false, fmt.Errorf("failed to insert seed option %d/%d: %w", i, j, err)
			}
		}

		if q.Correct != nil {
			_, err := tx.Exec(`
				UPDATE questions SET correct_option_id = $1 WHERE id = $2
			`, optionIDs[*q.Correct], questionID)
			if err != nil {
				return false, fmt.Errorf("failed to set correct option for seed question %d: %w", i, err)
			}
		}
	}

	if err := SetMeta(tx, MetaSeedVersion, set.Version); err != nil {
		return false, err
	}
	// The active index may point past the new corpus; start over.
	if err := SetMeta(tx, MetaActiveIndex, strconv.Itoa(0)); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	slog.Info("reseeded question corpus", "version", set.Version, "questions", len(set.Questions), "previous", current)
	return true, nil
}
