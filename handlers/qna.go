// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/db"
	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/models"
)

// Bounded window for the live display; older items age out of the
// payload, not out of the store.
const qnaListLimit = 200

const anonymousUser = "Anonymous"

type QnAHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub live.Notifier
}

func NewQnAHandler(db *sql.DB, cfg cliparse.Config, hub live.Notifier) *QnAHandler {
	return &QnAHandler{db: db, cfg: cfg, hub: hub}
}

// Submit handles POST /api/qna/submit
func (h *QnAHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.QnASubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "text is required")
		return
	}
	user := strings.TrimSpace(req.User)
	if user == "" {
		user = anonymousUser
	}

	var id int64
	err := h.db.QueryRow(`
		INSERT INTO qna_submissions ("user", text, created_at)
		VALUES ($1, $2, $3) RETURNING id
	`, user, text, time.Now()).Scan(&id)
	if err != nil {
		slog.Error("failed to insert qna submission", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to submit question")
		return
	}

	slog.Info("qna submitted", "id", id, "user", user)
	h.hub.Notify(live.Event{Event: live.EventQnASubmitted})

	middleware.JSONResponse(w, http.StatusOK, models.QnASubmitResponse{OK: true, ID: id})
}

// List handles GET /api/qna/list
// Returns the most recent submissions, newest first, plus the currently
// highlighted item id so late joiners can catch up without an event.
func (h *QnAHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, "user", text, created_at
		FROM qna_submissions
		ORDER BY id DESC
		LIMIT $1
	`, qnaListLimit)
	if err != nil {
		slog.Error("failed to query qna submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	defer rows.Close()

	items := []models.QnAItem{}
	for rows.Next() {
		var item models.QnAItem
		if err := rows.Scan(&item.ID, &item.User, &item.Text, &item.CreatedAt); err != nil {
			slog.Error("failed to scan qna submission", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate qna submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}

	highlight, err := db.GetMetaInt(h.db, db.MetaQnAHighlight, 0)
	if err != nil {
		slog.Error("failed to read qna highlight", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QnAListResponse{
		QnA:         items,
		HighlightID: int64(highlight),
	})
}

// Highlight handles POST /api/qna/highlight
// The highlight is a singleton pointer in the meta table, not a per-item
// flag: highlighting one item implicitly unhighlights the previous one.
// Moderation endpoints share the admin-key gate; submission and listing
// stay open.
func (h *QnAHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	if !authorizeAdmin(w, r, h.cfg.AdminKey) {
		return
	}

	var req models.QnAIDRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}
	if req.ID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "id is required")
		return
	}

	if err := db.SetMeta(h.db, db.MetaQnAHighlight, strconv.FormatInt(req.ID, 10)); err != nil {
		slog.Error("failed to set qna highlight", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to highlight")
		return
	}

	h.hub.Notify(live.Event{Event: live.EventQnAHighlighted, ID: req.ID})
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Unhighlight handles POST /api/qna/unhighlight
func (h *QnAHandler) Unhighlight(w http.ResponseWriter, r *http.Request) {
	if !authorizeAdmin(w, r, h.cfg.AdminKey) {
		return
	}

	if err := db.SetMeta(h.db, db.MetaQnAHighlight, "0"); err != nil {
		slog.Error("failed to clear qna highlight", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to unhighlight")
		return
	}

	// ID 0 (omitted on the wire) means "nothing highlighted".
	h.hub.Notify(live.Event{Event: live.EventQnAHighlighted})
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Reject handles POST /api/qna/reject
// Hard delete, no undo. Re-rejecting an already removed id is a no-op
// and does not broadcast.
func (h *QnAHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if !authorizeAdmin(w, r, h.cfg.AdminKey) {
		return
	}

	var req models.QnAIDRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "Invalid JSON")
		return
	}
	if req.ID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCodeBadRequest, "id is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM qna_submissions WHERE id = $1`, req.ID)
	if err != nil {
		slog.Error("failed to delete qna submission", "error", err, "id", req.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reject")
		return
	}
	removed, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reject")
		return
	}

	// Rejecting the highlighted item also clears the highlight pointer.
	highlight, err := db.GetMetaInt(tx, db.MetaQnAHighlight, 0)
	if err != nil {
		slog.Error("failed to read qna highlight", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reject")
		return
	}
	clearedHighlight := int64(highlight) == req.ID && removed > 0
	if clearedHighlight {
		if err := db.SetMeta(tx, db.MetaQnAHighlight, "0"); err != nil {
			slog.Error("failed to clear qna highlight", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reject")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit rejection", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrCodeServerError, "Failed to reject")
		return
	}

	if removed > 0 {
		slog.Info("qna rejected", "id", req.ID)
		h.hub.Notify(live.Event{Event: live.EventQnARejected, ID: req.ID})
		if clearedHighlight {
			h.hub.Notify(live.Event{Event: live.EventQnAHighlighted})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
