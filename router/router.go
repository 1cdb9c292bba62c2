// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/Aditya060/Quiz-Stats/cliparse"
	"github.com/Aditya060/Quiz-Stats/handlers"
	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/middleware"
	"github.com/Aditya060/Quiz-Stats/state"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, hub *live.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	machine := state.NewMachine(db, hub)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	stateHandler := handlers.NewStateHandler(machine)
	voteHandler := handlers.NewVoteHandler(db, cfg, hub)
	statsHandler := handlers.NewStatsHandler(db, cfg)
	qnaHandler := handlers.NewQnAHandler(db, cfg, hub)
	adminHandler := handlers.NewAdminHandler(db, cfg, machine)
	liveHandler := handlers.NewLiveHandler(hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Snapshots (public reads)
	mux.HandleFunc("GET /api/questions", middleware.WithLogging(questionHandler.List))
	mux.HandleFunc("GET /api/state", middleware.WithLogging(stateHandler.Get))
	mux.HandleFunc("GET /api/stats", middleware.WithLogging(statsHandler.Get))

	// Voting
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(voteHandler.Submit))
	mux.HandleFunc("POST /api/vote/reset", middleware.WithLogging(voteHandler.Reset))
	mux.HandleFunc("POST /api/submit", middleware.WithLogging(voteHandler.BulkSubmit))

	// Admin operations
	mux.HandleFunc("POST /api/admin/start", middleware.WithLogging(adminHandler.Start))
	mux.HandleFunc("POST /api/admin/next", middleware.WithLogging(adminHandler.Next))
	mux.HandleFunc("POST /api/admin/end", middleware.WithLogging(adminHandler.End))
	mux.HandleFunc("POST /api/admin/correct", middleware.WithLogging(adminHandler.SetCorrect))
	mux.HandleFunc("POST /api/admin/reveal-correct", middleware.WithLogging(adminHandler.Reveal))

	// Q&A
	mux.HandleFunc("POST /api/qna/submit", middleware.WithLogging(qnaHandler.Submit))
	mux.HandleFunc("GET /api/qna/list", middleware.WithLogging(qnaHandler.List))
	mux.HandleFunc("POST /api/qna/highlight", middleware.WithLogging(qnaHandler.Highlight))
	mux.HandleFunc("POST /api/qna/unhighlight", middleware.WithLogging(qnaHandler.Unhighlight))
	mux.HandleFunc("POST /api/qna/reject", middleware.WithLogging(qnaHandler.Reject))

	// Push channel (not wrapped in logging; the connection is long-lived)
	mux.HandleFunc("GET /api/ws", liveHandler.Serve)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quiz-stats API v1"))
	})

	return mux
}
