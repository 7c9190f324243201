// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the configured dialect:

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Two dialects are supported: PostgreSQL (lib/pq) for production and SQLite
(modernc.org/sqlite) for small deployments and the test suite. The dialects
differ only in column types (JSONB vs TEXT) and timestamp defaults.

# Tables

  - survey: question set, embedded follow-up questions (JSON array), owner
  - vote: one row per (survey, device), the primary yes/no answer
  - follow_up_response: at most one answer batch per vote
  - device: identifiers issued by the device registration endpoint

# Uniqueness Invariants

Two UNIQUE constraints carry the system's correctness under concurrent
writes; they are enforced here, in storage, not in application code:

	vote(survey_id, device_id)     -- one vote per device per survey
	follow_up_response(vote_id)    -- one answer batch per vote

Concurrent duplicate inserts lose the race inside the database and surface
as driver errors; IsUniqueViolation recognizes them for both drivers so
handlers can map them to duplicate_vote / duplicate_submission.

# Relationships

	survey 1──* vote                (by survey_id, no FK)
	vote   1──1 follow_up_response  (by vote_id, no FK)

Foreign keys are deliberately absent: deleting a survey retains its votes
and follow-up responses as historical data.

# Indexes

  - survey.owner_id, survey.created_at
  - vote.survey_id (plus the composite UNIQUE above)
  - follow_up_response.survey_id (plus the UNIQUE on vote_id)
*/
package db
