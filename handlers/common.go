// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/tap-survey/models"
)

// Sentinel for the authorize helpers; the HTTP response is already written
// when this is returned, callers just stop.
var errNotOwner = errors.New("requester is not the survey owner")

// getSurveyByID loads one survey including its embedded follow-up
// questions. Returns sql.ErrNoRows when absent.
func getSurveyByID(db *sql.DB, surveyID string) (*models.Survey, error) {
	row := db.QueryRow(`
		SELECT id, title, question, follow_up_questions, is_active, owner_id, created_at
		FROM survey
		WHERE id = $1
	`, surveyID)

	return scanSurvey(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (*models.Survey, error) {
	var survey models.Survey
	var followUpsJSON string
	var owner sql.NullString

	err := row.Scan(&survey.ID, &survey.Title, &survey.Question, &followUpsJSON,
		&survey.IsActive, &owner, &survey.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(followUpsJSON), &survey.FollowUpQuestions); err != nil {
		return nil, fmt.Errorf("failed to decode follow-up questions for survey %s: %w", survey.ID, err)
	}
	if owner.Valid {
		survey.OwnerID = &owner.String
	}

	return &survey, nil
}

func querySurveys(db *sql.DB, query string, args ...any) ([]models.Survey, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []models.Survey{}
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, *survey)
	}

	return surveys, rows.Err()
}

// voteTally computes the yes/no aggregate for one survey. Percentages are
// 0 when there are no votes and unrounded count/total*100 otherwise;
// rounding is the presentation layer's job.
func voteTally(db *sql.DB, surveyID string) (models.VoteTally, error) {
	var tally models.VoteTally

	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN response = 'yes' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN response = 'no' THEN 1 ELSE 0 END), 0)
		FROM vote
		WHERE survey_id = $1
	`, surveyID).Scan(&tally.Total, &tally.Yes, &tally.No)
	if err != nil {
		return tally, err
	}

	if tally.Total > 0 {
		tally.YesPercentage = float64(tally.Yes) / float64(tally.Total) * 100
		tally.NoPercentage = float64(tally.No) / float64(tally.Total) * 100
	}

	return tally, nil
}
