// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tap-survey/auth"
	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/middleware"
	"github.com/danielhkuo/tap-survey/models"
	"github.com/danielhkuo/tap-survey/nfctag"
)

type SurveyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-Owner-ID")
	if h.cfg.RequireOwner && ownerID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrAuth, "X-Owner-ID header required")
		return
	}

	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "Invalid JSON")
		return
	}

	if err := models.ValidateCreateSurvey(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, err.Error())
		return
	}

	surveyID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate survey ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to create survey")
		return
	}

	followUps := req.FollowUpQuestions
	if followUps == nil {
		followUps = []models.FollowUpQuestion{}
	}
	followUpsJSON, err := json.Marshal(followUps)
	if err != nil {
		slog.Error("failed to marshal follow-up questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to create survey")
		return
	}

	var owner sql.NullString
	if ownerID != "" {
		owner = sql.NullString{String: ownerID, Valid: true}
	}

	_, err = h.db.Exec(`
		INSERT INTO survey (id, title, question, follow_up_questions, is_active, owner_id, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)
	`, surveyID, req.Title, req.Question, string(followUpsJSON), owner, time.Now())

	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", surveyID, "follow_ups", len(followUps))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID: surveyID,
	})
}

// GetSurvey handles GET /surveys/{id}
// Includes the tag URL set so organizers can write NFC tags for it
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
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

	middleware.JSONResponse(w, http.StatusOK, models.SurveyDetail{
		Survey: *survey,
		Tags:   h.tagURLs(surveyID),
	})
}

// ListSurveys handles GET /surveys
// Public: every survey, newest first
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := querySurveys(h.db, `
		SELECT id, title, question, follow_up_questions, is_active, owner_id, created_at
		FROM survey
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to list surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, surveys)
}

// ListOwnedSurveys handles GET /surveys/mine
func (h *SurveyHandler) ListOwnedSurveys(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, surveys)
}

// ToggleActive handles POST /surveys/{id}/toggle
// Flips is_active. Only the owner may do this; inactive surveys reject new
// votes but keep their historical data.
func (h *SurveyHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	if _, err := h.authorizeMutation(w, r, surveyID); err != nil {
		return // response already written
	}

	var isActive bool
	err := h.db.QueryRow(`
		UPDATE survey SET is_active = NOT is_active WHERE id = $1
		RETURNING is_active
	`, surveyID).Scan(&isActive)

	if err != nil {
		slog.Error("failed to toggle survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to toggle survey")
		return
	}

	slog.Info("survey toggled", "survey_id", surveyID, "is_active", isActive)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleActiveResponse{
		IsActive: isActive,
	})
}

// DeleteSurvey handles DELETE /surveys/{id}
// Votes and follow-up responses are retained as historical data.
func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	if _, err := h.authorizeMutation(w, r, surveyID); err != nil {
		return
	}

	_, err := h.db.Exec(`DELETE FROM survey WHERE id = $1`, surveyID)
	if err != nil {
		slog.Error("failed to delete survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to delete survey")
		return
	}

	slog.Info("survey deleted", "survey_id", surveyID)

	w.WriteHeader(http.StatusNoContent)
}

// authorizeMutation loads the survey's owner and checks the requester
// against it. An ownerless survey (pre-auth deployment) is mutable by
// anyone. Writes the error response itself and returns a non-nil error
// when the caller should stop.
func (h *SurveyHandler) authorizeMutation(w http.ResponseWriter, r *http.Request, surveyID string) (sql.NullString, error) {
	var owner sql.NullString
	err := h.db.QueryRow(`SELECT owner_id FROM survey WHERE id = $1`, surveyID).Scan(&owner)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "Survey not found")
		return owner, err
	}
	if err != nil {
		slog.Error("failed to query survey owner", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return owner, err
	}

	requester := r.Header.Get("X-Owner-ID")
	if owner.Valid && requester != owner.String {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrAuth, "Not the survey owner")
		return owner, errNotOwner
	}

	return owner, nil
}

func (h *SurveyHandler) tagURLs(surveyID string) models.TagURLSet {
	return models.TagURLSet{
		Yes: models.TagURLs{
			App: nfctag.EncodeApp(surveyID, models.ResponseYes),
			Web: nfctag.EncodeWeb(h.cfg.PublicDomain, surveyID, models.ResponseYes),
		},
		No: models.TagURLs{
			App: nfctag.EncodeApp(surveyID, models.ResponseNo),
			Web: nfctag.EncodeWeb(h.cfg.PublicDomain, surveyID, models.ResponseNo),
		},
	}
}
