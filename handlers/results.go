// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/middleware"
	"github.com/danielhkuo/tap-survey/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// ListOwnedWithResults handles GET /surveys/mine/results
// Every survey owned by the requester with its vote tally attached, newest
// first. Pure composition over the vote ledger: one HTTP round trip for
// the organizer's dashboard instead of one per survey.
func (h *ResultsHandler) ListOwnedWithResults(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-Owner-ID")
	if ownerID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrAuth, "X-Owner-ID header required")
		return
	}

	surveys, err := querySurveys(h.db, `
		SELECT id, title, question, follow_up_questions, is_active, owner_id, created_at
		FROM survey
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		slog.Error("failed to list owned surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	withResults := make([]models.SurveyWithResults, 0, len(surveys))
	for _, survey := range surveys {
		tally, err := voteTally(h.db, survey.ID)
		if err != nil {
			slog.Error("failed to tally votes", "error", err, "survey_id", survey.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
			return
		}
		withResults = append(withResults, models.SurveyWithResults{
			Survey:  survey,
			Results: tally,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, withResults)
}
