// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Aditya060/Quiz-Stats/db"
	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/models"
)

// Machine owns the poll lifecycle: {status, active question index, reveal
// flag}, all persisted in the meta table. Every mutation goes through a
// named transition; there is no other writer of these keys. Transitions
// broadcast stateChanged only after their write committed.
type Machine struct {
	db  *sql.DB
	hub live.Notifier
}

func NewMachine(conn *sql.DB, hub live.Notifier) *Machine {
	return &Machine{db: conn, hub: hub}
}

// Start resets the poll: wipes all votes, rewinds to the first question
// and sets status running. Idempotent - starting an already running poll
// just resets it again.
func (m *Machine) Start() error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	if err := db.SetMeta(tx, db.MetaPollStatus, models.StatusRunning); err != nil {
		return err
	}
	if err := db.SetMeta(tx, db.MetaActiveIndex, "0"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit start transaction: %w", err)
	}

	slog.Info("poll started")
	m.hub.Notify(live.Event{Event: live.EventStateChanged})
	return nil
}

// Next advances to the following question, clamping at the end of the
// list rather than erroring. Also forces status back to running, which
// lets an admin revive an ended poll by advancing it. Returns the new
// (possibly unchanged) index.
func (m *Machine) Next() (int, error) {
	tx, err := m.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin next transaction: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}

	current, err := db.GetMetaInt(tx, db.MetaActiveIndex, 0)
	if err != nil {
		return 0, err
	}

	next := current + 1
	if next > total-1 {
		next = total - 1
	}
	if next < 0 {
		next = 0
	}

	if err := db.SetMeta(tx, db.MetaActiveIndex, strconv.Itoa(next)); err != nil {
		return 0, err
	}
	if err := db.SetMeta(tx, db.MetaPollStatus, models.StatusRunning); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit next transaction: %w", err)
	}

	slog.Info("advanced question", "index", next, "total", total)
	m.hub.Notify(live.Event{Event: live.EventStateChanged})
	return next, nil
}

// End marks the poll ended. Votes and the active index are kept so the
// shared display can keep showing final results.
func (m *Machine) End() error {
	if err := db.SetMeta(m.db, db.MetaPollStatus, models.StatusEnded); err != nil {
		return err
	}

	slog.Info("poll ended")
	m.hub.Notify(live.Event{Event: live.EventStateChanged})
	return nil
}

// SetReveal toggles whether displays show the correct option. Independent
// of poll status.
func (m *Machine) SetReveal(reveal bool) error {
	if err := db.SetMeta(m.db, db.MetaRevealCorrect, strconv.FormatBool(reveal)); err != nil {
		return err
	}

	slog.Info("reveal toggled", "reveal", reveal)
	m.hub.Notify(live.Event{Event: live.EventStateChanged})
	return nil
}

// Snapshot reads the current poll state. TotalQuestions is counted live
// so it always reflects the current seed generation.
func (m *Machine) Snapshot() (models.StateResponse, error) {
	var snap models.StateResponse

	status, err := db.GetMeta(m.db, db.MetaPollStatus, models.StatusIdle)
	if err != nil {
		return snap, err
	}
	index, err := db.GetMetaInt(m.db, db.MetaActiveIndex, 0)
	if err != nil {
		return snap, err
	}
	reveal, err := db.GetMetaBool(m.db, db.MetaRevealCorrect, false)
	if err != nil {
		return snap, err
	}

	var total int
	if err := m.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
		return snap, fmt.Errorf("failed to count questions: %w", err)
	}

	snap = models.StateResponse{
		Status:         status,
		ActiveIndex:    index,
		TotalQuestions: total,
		RevealCorrect:  reveal,
	}
	return snap, nil
}
