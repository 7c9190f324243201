// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tap-survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Survey catalog (mutation requires X-Owner-ID unless the survey is ownerless):

	POST   /surveys               - Create survey
	GET    /surveys               - List all surveys, newest first
	GET    /surveys/mine          - List surveys owned by X-Owner-ID
	GET    /surveys/mine/results  - Owned surveys with vote tallies
	GET    /surveys/{id}          - Survey details plus tag URLs
	POST   /surveys/{id}/toggle   - Flip active flag
	DELETE /surveys/{id}          - Delete (votes retained)

Vote intake (public, requires X-Device-ID):

	POST /surveys/{id}/votes    - Cast yes/no vote, one per device
	GET  /surveys/{id}/votes/me - Has this device voted?
	GET  /surveys/{id}/results  - Yes/no tally

Follow-up responses:

	POST /surveys/{id}/follow-up         - Submit answers, one batch per vote
	GET  /surveys/{id}/follow-up         - Raw responses
	GET  /surveys/{id}/follow-up/summary - Per-question histograms

Tag resolution and devices:

	GET  /resolve?payload=...  - Decode a tag payload
	POST /devices/register     - Issue or confirm a device id

# Handler Initialization

The router creates handler instances with dependency injection:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	followUpHandler := handlers.NewFollowUpHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
