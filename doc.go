// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quiz Stats server.

Quiz Stats is a live-polling and Q&A backend: participants vote on
multiple-choice questions from their phones, an admin advances questions
and reveals correct answers, and a shared display renders aggregated
results in near-real time over a WebSocket push channel.

# Starting the Server

	go run main.go

All settings have defaults; typical overrides:

	PORT=8080 DATA_FILE=/var/lib/quizstats/app.db go run main.go

Or with flags:

	go run main.go -p 8080 -d /var/lib/quizstats/app.db

# Configuration

  - PORT (-p): server port (default 8080)
  - DATA_FILE (-d): sqlite store location (default data/quizstats.db);
    DATA_FALLBACK is used when the primary directory is not writable
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-database-url): postgres connection URL
  - SEED_FILE (-seed): JSON question corpus; a built-in set is used
    otherwise
  - ADMIN_KEY (-admin-key): when set, admin endpoints require the
    X-Admin-Key header

# Architecture

  - handlers: HTTP request handlers (questions, votes, stats, qna, admin)
  - state: poll state machine over the meta table
  - live: WebSocket broadcast hub (signal events, client-side re-fetch)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types
  - db: store access, schema, meta table, versioned seeding
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
