// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the durable store: opening the connection, creating the
schema, the generic meta key/value table, and versioned seeding.

# Backends

The store is sqlite by default (modernc.org/sqlite, file selected via
configuration with a fallback path), with an optional postgres backend:

	conn, err := db.Open(db.TypeSQLite, "/var/lib/quizstats/app.db", "/tmp/quizstats/app.db", "")

Both backends share the same query text: sqlite accepts $1-style
parameters natively, so no placeholder rewriting is needed.

# Schema

Five tables: questions, options, responses, qna_submissions, meta.

One-vote-per-device-per-question is enforced by the unique index on
responses(device_id, question_id), not by application logic. Concurrent
submissions for the same pair race down to the index; the loser surfaces
a constraint violation that handlers map to a conflict response.

# Seeding

A SeedSet carries a version marker. Seed compares it against the stored
seed_version and, when different, wipes and reinserts the whole corpus in
one transaction, so readers never observe a partially seeded question set.
*/
package db
