// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quiz Stats API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Health:

	GET /health

Snapshots (public reads):

	GET /api/questions - Question corpus with options
	GET /api/state     - Poll status, active index, reveal flag
	GET /api/stats     - Vote tallies per question

Voting (public, per-device):

	POST /api/vote       - Submit one vote
	POST /api/vote/reset - Withdraw a device's vote
	POST /api/submit     - Bulk answer submission

Admin (requires X-Admin-Key when configured):

	POST /api/admin/start          - Start the poll, wiping votes
	POST /api/admin/next           - Advance the active question
	POST /api/admin/end            - End the poll
	POST /api/admin/correct        - Mark the correct option
	POST /api/admin/reveal-correct - Toggle answer reveal

Q&A (moderation endpoints require X-Admin-Key when configured):

	POST /api/qna/submit      - Submit an audience question
	GET  /api/qna/list        - Recent submissions, newest first
	POST /api/qna/highlight   - Highlight a submission
	POST /api/qna/unhighlight - Clear the highlight
	POST /api/qna/reject      - Delete a submission

Push channel:

	GET /api/ws - WebSocket event stream

# Handler Initialization

The router creates handler instances with dependency injection:

	machine := state.NewMachine(db, hub)
	voteHandler := handlers.NewVoteHandler(db, cfg, hub)
	statsHandler := handlers.NewStatsHandler(db, cfg)
	qnaHandler := handlers.NewQnAHandler(db, cfg, hub)
	adminHandler := handlers.NewAdminHandler(db, cfg, machine)

Handlers receive the database connection, configuration, and the
broadcast hub where they emit events.
*/
package router
