// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quiz Stats API.

# Handler Types

Each handler is a struct with its dependencies injected via a constructor:

  - QuestionHandler: question set retrieval
  - VoteHandler: vote submission, per-device reset, bulk submission
  - StatsHandler: per-option tallies, recomputed on every read
  - QnAHandler: audience question submission and moderation
  - AdminHandler: poll state transitions and answer-key management
  - StateHandler: poll state snapshot
  - LiveHandler: WebSocket upgrade onto the broadcast hub

# Voting Flow

A participant device votes once per question:

	POST /api/vote {questionId, optionId, deviceId}

A duplicate for the same (device, question) pair answers 409 with the
ALREADY_VOTED code - the unique index on responses is the authoritative
guard, so a concurrent duplicate cannot race past the application check.
Resets are idempotent:

	POST /api/vote/reset {questionId, deviceId} -> {ok, removed}

# Admin Flow

Poll state moves idle -> running -> ended via /api/admin/start, next and
end; next clamps at the last question. /api/admin/correct and
/api/admin/reveal-correct manage the answer key. When ADMIN_KEY is
configured these endpoints, and the Q&A moderation endpoints
(highlight, unhighlight, reject), require the X-Admin-Key header.
Audience-facing submission and listing stay open.

# Broadcasts

Every successful mutation notifies the hub after its write committed;
zero-effect writes (reset of a missing vote, re-reject) stay silent.
*/
package handlers
