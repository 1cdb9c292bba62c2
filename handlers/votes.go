// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub live.Notifier
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, hub live.Notifier) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, hub: hub}
}

// isUniqueViolation recognizes the uniqueness-constraint error of both
// backends. The constraint is the authoritative guard: two concurrent
// submissions for the same (device, question) pair race down to the
// index, and the loser lands here.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// Submit handles POST /api/vote
// Records one vote per (device, question) pair. A duplicate is a 409 with
// the ALREADY_VOTED code so clients can branch on "already answered"
// rather than a generic failure.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}

	if req.QuestionID <= 0 || req.OptionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "questionId and optionId are required")
		return
	}
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if req.DeviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "deviceId is required")
		return
	}

	// The option must actually belong to the question being answered.
	var valid bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM options WHERE id = $1 AND question_id = $2)
	`, req.OptionID, req.QuestionID).Scan(&valid)
	if err != nil {
		slog.Error("failed to verify option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	if !valid {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "option does not belong to question")
		return
	}

	// Fast path for the common repeat case. The unique index below still
	// catches the race where two requests pass this check together.
	var already bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM responses WHERE device_id = $1 AND question_id = $2)
	`, req.DeviceID, req.QuestionID).Scan(&already)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	if already {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrCodeAlreadyVoted, "this device already voted on this question")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO responses (question_id, option_id, device_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, req.QuestionID, req.OptionID, req.DeviceID, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrCodeAlreadyVoted, "this device already voted on this question")
			return
		}
		slog.Error("failed to insert vote", "error", err, "question_id", req.QuestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "question_id", req.QuestionID, "option_id", req.OptionID)
	h.hub.Notify(live.Event{Event: live.EventStatsUpdated})

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Reset handles POST /api/vote/reset
// Deletes the device's vote for a question if present. Idempotent: a
// second reset reports removed 0 and does not broadcast, so repeated
// resets never cause refresh storms.
func (h *VoteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}

	if req.QuestionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "questionId is required")
		return
	}
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if req.DeviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "deviceId is required")
		return
	}

	res, err := h.db.Exec(`
		DELETE FROM responses WHERE device_id = $1 AND question_id = $2
	`, req.DeviceID, req.QuestionID)
	if err != nil {
		slog.Error("failed to reset vote", "error", err, "question_id", req.QuestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reset vote")
		return
	}

	removed, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reset vote")
		return
	}

	if removed > 0 {
		slog.Info("vote reset", "question_id", req.QuestionID)
		h.hub.Notify(live.Event{Event: live.EventStatsUpdated})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResetVoteResponse{OK: true, Removed: removed})
}

// BulkSubmit handles POST /api/submit
// Legacy submission path: a batch of answers with no device attribution
// and no dedup. Malformed entries (missing ids) are skipped, the rest are
// applied in one transaction, and viewers get a single broadcast for the
// whole batch instead of one per row.
func (h *VoteHandler) BulkSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.BulkSubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	defer tx.Rollback()

	inserted := 0
	now := time.Now()
	for _, a := range req.Answers {
		if a.QuestionID <= 0 || a.OptionID <= 0 {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO responses (question_id, option_id, device_id, created_at)
			VALUES ($1, $2, NULL, $3)
		`, a.QuestionID, a.OptionID, now)
		if err != nil {
			slog.Error("failed to insert bulk answer", "error", err, "question_id", a.QuestionID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to submit answers")
			return
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit bulk submission", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to submit answers")
		return
	}

	if inserted > 0 {
		slog.Info("bulk submission recorded", "answers", inserted, "skipped", len(req.Answers)-inserted)
		h.hub.Notify(live.Event{Event: live.EventStatsUpdated})
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
