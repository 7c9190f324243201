// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/tap-survey/auth"
	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/db"
	"github.com/danielhkuo/tap-survey/middleware"
	"github.com/danielhkuo/tap-survey/models"
)

type FollowUpHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewFollowUpHandler(db *sql.DB, cfg cliparse.Config) *FollowUpHandler {
	return &FollowUpHandler{db: db, cfg: cfg}
}

// Submit handles POST /surveys/{id}/follow-up
// Preconditions in order: vote exists, vote belongs to this survey, the
// caller's device is the one that cast the vote, no prior answer batch for
// the vote. The last check is the UNIQUE constraint on
// follow_up_response(vote_id); a retried or racing submit loses there and
// gets duplicate_submission, which callers treat as already-done.
func (h *FollowUpHandler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req models.SubmitFollowUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "Invalid JSON")
		return
	}

	if req.VoteID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "vote_id is required")
		return
	}

	var voteSurveyID, voteDeviceID string
	err := h.db.QueryRow(`
		SELECT survey_id, device_id FROM vote WHERE id = $1
	`, req.VoteID).Scan(&voteSurveyID, &voteDeviceID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "Vote not found")
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	if voteSurveyID != surveyID {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "Vote does not belong to this survey")
		return
	}

	// One device cannot complete another device's follow-up.
	if voteDeviceID != deviceID {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrAuth, "Device mismatch")
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

	if err := models.ValidateAnswers(survey.FollowUpQuestions, req.Answers); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, err.Error())
		return
	}

	answers := req.Answers
	if answers == nil {
		answers = []models.FollowUpAnswer{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		slog.Error("failed to marshal answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to submit follow-up")
		return
	}

	responseID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate response ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to submit follow-up")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO follow_up_response (id, survey_id, vote_id, device_id, answers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, responseID, surveyID, req.VoteID, deviceID, string(answersJSON), time.Now())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrDuplicateSubmission, "Follow-up already submitted for this vote")
			return
		}
		slog.Error("failed to insert follow-up response", "error", err, "vote_id", req.VoteID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to submit follow-up")
		return
	}

	slog.Info("follow-up submitted", "survey_id", surveyID, "vote_id", req.VoteID, "answers", len(answers))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitFollowUpResponse{
		Success: true,
	})
}

// GetResponses handles GET /surveys/{id}/follow-up
// Raw response list, for the aggregator or export.
func (h *FollowUpHandler) GetResponses(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("id")
	if surveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "survey_id is required")
		return
	}

	responses, err := queryResponses(h.db, surveyID)
	if err != nil {
		slog.Error("failed to query follow-up responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, responses)
}

// GetSummary handles GET /surveys/{id}/follow-up/summary
// Per-question answer histograms, keyed by question id, built in survey
// question order.
func (h *FollowUpHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	responses, err := queryResponses(h.db, surveyID)
	if err != nil {
		slog.Error("failed to query follow-up responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
		return
	}

	summary := make(map[string]models.QuestionSummary, len(survey.FollowUpQuestions))
	for _, question := range survey.FollowUpQuestions {
		counts := map[string]int{}
		for _, response := range responses {
			for _, answer := range response.Answers {
				if answer.QuestionID != question.ID {
					continue
				}
				counts[answerKey(answer.Answer)]++
				break
			}
		}
		summary[question.ID] = models.QuestionSummary{
			Question: question.Question,
			Type:     question.Type,
			Answers:  counts,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

func queryResponses(database *sql.DB, surveyID string) ([]models.FollowUpResponse, error) {
	rows, err := database.Query(`
		SELECT id, survey_id, vote_id, device_id, answers, created_at
		FROM follow_up_response
		WHERE survey_id = $1
		ORDER BY created_at
	`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []models.FollowUpResponse{}
	for rows.Next() {
		var resp models.FollowUpResponse
		var answersJSON string
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.VoteID, &resp.DeviceID,
			&answersJSON, &resp.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answersJSON), &resp.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers for response %s: %w", resp.ID, err)
		}
		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

// answerKey is the canonical string form of an answer for histogram keys:
// string arrays join with ", ", numbers use their natural representation.
func answerKey(answer any) string {
	switch v := answer.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprintf("%v", e))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
