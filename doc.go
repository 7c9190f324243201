// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tap-survey API server.

tap-survey is the backend for NFC-tap yes/no surveys: organizers publish a
survey, respondents tap a tag (or open a link) to cast one vote per device,
optionally answer follow-up questions, and the organizer reads aggregated
results.

# Starting the Server

The server requires a database URL via environment or CLI flags:

	DATABASE_URL=file:tap-survey.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PUBLIC_DOMAIN (-domain): domain in https tag URLs (default: tap-survey.app)
  - REQUIRE_OWNER (-require-owner): reject ownerless survey creation

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (surveys, voting, follow-up, results, devices)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types and validation
  - nfctag: tag payload codec (survey URL ⇄ surveyId/response)
  - auth: id generation
  - db: schema creation for both supported dialects
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
