// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
)

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// Get handles GET /api/stats[?questionId=]
// Tallies are recomputed from the response rows on every read - there is
// no materialized counter to drift.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var questionID int64
	if raw := r.URL.Query().Get("questionId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "questionId must be a positive integer")
			return
		}
		questionID = id
	}

	query := `SELECT id, text, correct_option_id FROM questions ORDER BY id`
	args := []any{}
	if questionID != 0 {
		query = `SELECT id, text, correct_option_id FROM questions WHERE id = $1 ORDER BY id`
		args = append(args, questionID)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query questions for stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	defer rows.Close()

	stats := []models.QuestionStats{}
	for rows.Next() {
		var qs models.QuestionStats
		var correct sql.NullInt64
		if err := rows.Scan(&qs.ID, &qs.Text, &correct); err != nil {
			slog.Error("failed to scan question for stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
			return
		}
		if correct.Valid {
			qs.CorrectOptionID = &correct.Int64
		}
		stats = append(stats, qs)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate questions for stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}

	for i := range stats {
		counts, total, err := h.tally(stats[i].ID)
		if err != nil {
			slog.Error("failed to tally question", "error", err, "question_id", stats[i].ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
			return
		}
		stats[i].Options = counts
		stats[i].Total = total
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{Stats: stats})
}

// tally computes per-option counts and the question total via an
// aggregate over the response rows.
func (h *StatsHandler) tally(questionID int64) ([]models.OptionCount, int64, error) {
	rows, err := h.db.Query(`
		SELECT o.id, o.text, COUNT(r.id)
		FROM options o
		LEFT JOIN responses r ON r.option_id = o.id
		WHERE o.question_id = $1
		GROUP BY o.id, o.text
		ORDER BY o.id
	`, questionID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := []models.OptionCount{}
	var total int64
	for rows.Next() {
		var oc models.OptionCount
		if err := rows.Scan(&oc.ID, &oc.Text, &oc.Count); err != nil {
			return nil, 0, err
		}
		counts = append(counts, oc)
		total += oc.Count
	}
	return counts, total, rows.Err()
}
