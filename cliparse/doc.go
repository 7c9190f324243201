// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - PublicDomain: Domain used in https tag URLs (default: tap-survey.app)
  - RequireOwner: Reject ownerless survey creation (default: false)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-domain         Public domain for tag URLs
	-require-owner  Require X-Owner-ID on survey creation

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	PUBLIC_DOMAIN  → -domain
	REQUIRE_OWNER  → -require-owner

CLI flags take precedence over environment variables. main loads a .env
file via godotenv before parsing, so either source works in development.

# Validation

ParseFlags returns an error if DATABASE_URL is missing or DATABASE_TYPE is
not sqlite/postgres.
*/
package cliparse
