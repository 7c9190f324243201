// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Database type constants, matching the -t flag / DATABASE_TYPE env.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, databaseType string) error {
	schema := schemaSQLite
	if databaseType == TypePostgres {
		schema = schemaPostgres
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver. The UNIQUE constraints on
// vote(survey_id, device_id) and follow_up_response(vote_id) are the
// atomicity guarantee for concurrent casts and submissions; losing the
// race surfaces here.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	// modernc.org/sqlite
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return true
	}
	// lib/pq
	return strings.Contains(msg, "duplicate key value violates unique constraint")
}

const schemaPostgres = `
-- Surveys
-- follow_up_questions is an ordered JSON array; insertion order is display order.
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    question TEXT NOT NULL,
    follow_up_questions JSONB NOT NULL DEFAULT '[]',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    owner_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_survey_owner_id ON survey(owner_id);
CREATE INDEX IF NOT EXISTS idx_survey_created_at ON survey(created_at);

-- Votes
-- No foreign key to survey: deleting a survey keeps its votes as history.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL,
    response TEXT NOT NULL CHECK (response IN ('yes', 'no')),
    device_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (survey_id, device_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_survey_id ON vote(survey_id);

-- Follow-up responses
CREATE TABLE IF NOT EXISTS follow_up_response (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL,
    vote_id TEXT NOT NULL UNIQUE,
    device_id TEXT NOT NULL,
    answers JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_follow_up_response_survey_id ON follow_up_response(survey_id);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    last_seen_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    question TEXT NOT NULL,
    follow_up_questions TEXT NOT NULL DEFAULT '[]',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    owner_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_survey_owner_id ON survey(owner_id);
CREATE INDEX IF NOT EXISTS idx_survey_created_at ON survey(created_at);

CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL,
    response TEXT NOT NULL CHECK (response IN ('yes', 'no')),
    device_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (survey_id, device_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_survey_id ON vote(survey_id);

CREATE TABLE IF NOT EXISTS follow_up_response (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL,
    vote_id TEXT NOT NULL UNIQUE,
    device_id TEXT NOT NULL,
    answers TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_follow_up_response_survey_id ON follow_up_response(survey_id);

CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
