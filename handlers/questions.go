// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
)

type QuestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewQuestionHandler(db *sql.DB, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{db: db, cfg: cfg}
}

// List handles GET /api/questions
// Returns the full question set with options, in presentation order.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT q.id, q.text, o.id, o.text
		FROM questions q
		LEFT JOIN options o ON o.question_id = q.id
		ORDER BY q.id, o.id
	`)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var qID int64
		var qText string
		var oID sql.NullInt64
		var oText sql.NullString
		if err := rows.Scan(&qID, &qText, &oID, &oText); err != nil {
			slog.Error("failed to scan question row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
			return
		}

		if len(questions) == 0 || questions[len(questions)-1].ID != qID {
			questions = append(questions, models.Question{ID: qID, Text: qText, Options: []models.Option{}})
		}
		if oID.Valid {
			last := &questions[len(questions)-1]
			last.Options = append(last.Options, models.Option{ID: oID.Int64, Text: oText.String})
		}
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate question rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{Questions: questions})
}
