// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tap-survey/auth"
	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/db"
	"github.com/danielhkuo/tap-survey/middleware"
	"github.com/danielhkuo/tap-survey/models"
	"github.com/danielhkuo/tap-survey/nfctag"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// CastVote handles POST /surveys/{id}/votes
// Preconditions in order: survey exists, survey active, no prior vote for
// (survey, device). The duplicate check is the UNIQUE constraint on
// vote(survey_id, device_id): concurrent casts with the same device race
// inside the database and exactly one insert wins.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "X-Device-ID header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "Invalid JSON")
		return
	}

	if req.Response != models.ResponseYes && req.Response != models.ResponseNo {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "response must be yes or no")
		return
	}

	survey, err := getSurveyByID(h.db, surveyID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to query survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	if !survey.IsActive {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrInactiveSurvey, "Survey is no longer active")
		return
	}

	voteID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate vote ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to cast vote")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO vote (id, survey_id, response, device_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, surveyID, req.Response, deviceID, time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrDuplicateVote, "This device has already voted on this survey")
			return
		}
		slog.Error("failed to insert vote", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to cast vote")
		return
	}

	slog.Info("vote cast", "survey_id", surveyID, "vote_id", voteID, "response", req.Response)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:      voteID,
		HasFollowUp: len(survey.FollowUpQuestions) > 0,
	})
}

// HasVoted handles GET /surveys/{id}/votes/me
// Pure lookup used to short-circuit re-presentation of an already-answered
// survey link.
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "X-Device-ID header required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE survey_id = $1 AND device_id = $2
		)
	`, surveyID, deviceID).Scan(&exists)

	if err != nil {
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{
		HasVoted: exists,
	})
}

// GetResults handles GET /surveys/{id}/results
// A survey with no votes (or an unknown survey id) tallies to all zeros.
func (h *VotingHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	tally, err := voteTally(h.db, surveyID)
	if err != nil {
		slog.Error("failed to tally votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// ResolveTag handles GET /resolve?payload=...
// Deep-link entry point for the vote intake flow: decodes a scanned tag
// payload into (survey_id, response).
func (h *VotingHandler) ResolveTag(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("payload")

	decoded := nfctag.Decode(payload)
	if decoded == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "Unrecognized tag payload")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResolveTagResponse{
		SurveyID: decoded.SurveyID,
		Response: decoded.Response,
	})
}
