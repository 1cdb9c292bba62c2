// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/hmac"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
	"github.com/Aditya060/Quiz-Stats/state"
)

type AdminHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	machine *state.Machine
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, machine *state.Machine) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, machine: machine}
}

// authorizeAdmin checks the X-Admin-Key header when an admin key is
// configured. An unset key leaves the gated endpoints open, which is the
// expected setup for a trusted-room live event. Shared by the admin
// lifecycle endpoints and the Q&A moderation endpoints.
func authorizeAdmin(w http.ResponseWriter, r *http.Request, key string) bool {
	if key == "" {
		return true
	}
	if !hmac.Equal([]byte(r.Header.Get("X-Admin-Key")), []byte(key)) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "X-Admin-Key header required")
		return false
	}
	return true
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	return authorizeAdmin(w, r, h.cfg.AdminKey)
}

// Start handles POST /api/admin/start
func (h *AdminHandler) Start(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	if err := h.machine.Start(); err != nil {
		slog.Error("failed to start poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to start poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Next handles POST /api/admin/next
// Clamps at the last question; reaching the end is a steady state, not an
// error.
func (h *AdminHandler) Next(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	index, err := h.machine.Next()
	if err != nil {
		slog.Error("failed to advance question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to advance question")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AdminIndexResponse{OK: true, Index: index})
}

// End handles POST /api/admin/end
func (h *AdminHandler) End(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	if err := h.machine.End(); err != nil {
		slog.Error("failed to end poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to end poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// SetCorrect handles POST /api/admin/correct
// Marks an option as the correct answer for a question, or clears the
// mark when optionId is null.
func (h *AdminHandler) SetCorrect(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.SetCorrectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}
	if req.QuestionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "questionId is required")
		return
	}

	if req.OptionID != nil {
		var valid bool
		err := h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM options WHERE id = $1 AND question_id = $2)
		`, *req.OptionID, req.QuestionID).Scan(&valid)
		if err != nil {
			slog.Error("failed to verify option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
			return
		}
		if !valid {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "option does not belong to question")
			return
		}
	}

	res, err := h.db.Exec(`
		UPDATE questions SET correct_option_id = $1 WHERE id = $2
	`, req.OptionID, req.QuestionID)
	if err != nil {
		slog.Error("failed to set correct option", "error", err, "question_id", req.QuestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to set correct option")
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to set correct option")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrCodeNotFound, "question not found")
		return
	}

	slog.Info("correct option updated", "question_id", req.QuestionID)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Reveal handles POST /api/admin/reveal-correct
func (h *AdminHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.RevealRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}

	if err := h.machine.SetReveal(req.Reveal); err != nil {
		slog.Error("failed to toggle reveal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to toggle reveal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RevealResponse{OK: true, Reveal: req.Reveal})
}
