// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tap-survey API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SurveyHandler: survey catalog (create, list, toggle, delete)
  - VotingHandler: vote intake (cast, hasVoted, results, tag resolution)
  - FollowUpHandler: follow-up answer batches and their summaries
  - ResultsHandler: owner dashboard aggregation
  - DeviceHandler: device id registration

Handlers are created via constructor functions that accept *sql.DB and Config:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)

# Vote Intake Flow

A scanned tag or opened link drives the flow:

	GET  /resolve?payload=...        → (survey_id, response)
	GET  /surveys/{id}/votes/me      → short-circuit if already voted
	POST /surveys/{id}/votes         → cast; returns vote_id, has_follow_up
	POST /surveys/{id}/follow-up     → at most once per vote

Respondent operations require the X-Device-ID header. Cast and submit are
not blindly retryable: a timed-out write may have committed, and the
correct outcome of a retry is duplicate_vote / duplicate_submission, which
callers treat as already-done rather than failure.

# Concurrency

The two write paths do NOT check-then-insert in application code. They
insert and let the storage UNIQUE constraints decide; IsUniqueViolation
maps the losing side of a race to its duplicate_* error kind. All other
operations are idempotent reads.

# Ownership

Survey mutation (toggle, delete) compares X-Owner-ID against the stored
owner. Ownerless surveys exist in pre-auth deployments and are mutable by
anyone. Reads are public.
*/
package handlers
