// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/tap-survey/auth"
	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/db"
	"github.com/danielhkuo/tap-survey/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own named memory database so parallel tests
// don't share state; cache=shared keeps the pool's connections on the same
// database, and a single open connection serializes writers so concurrency
// tests exercise the UNIQUE constraints rather than SQLITE_BUSY.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to generate test database name: %v", err)
	}

	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: "sqlite",
		PublicDomain: "tap-survey.test",
		RequireOwner: false,
	}
}

// CreateTestSurvey inserts a survey and returns its ID. ownerID == ""
// creates an ownerless survey (pre-auth deployment).
func CreateTestSurvey(t *testing.T, conn *sql.DB, ownerID string, active bool, questions []models.FollowUpQuestion) string {
	t.Helper()

	surveyID, _ := auth.GenerateID(16)

	if questions == nil {
		questions = []models.FollowUpQuestion{}
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("Failed to marshal follow-up questions: %v", err)
	}

	var owner *string
	if ownerID != "" {
		owner = &ownerID
	}

	_, err = conn.Exec(`
		INSERT INTO survey (id, title, question, follow_up_questions, is_active, owner_id, created_at)
		VALUES ($1, 'Test Survey', 'Is this a test?', $2, $3, $4, $5)
	`, surveyID, string(questionsJSON), active, owner, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	return surveyID
}

// CastTestVote inserts a vote directly and returns its ID
func CastTestVote(t *testing.T, conn *sql.DB, surveyID, deviceID, response string) string {
	t.Helper()

	voteID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO vote (id, survey_id, response, device_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, surveyID, response, deviceID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// RatingQuestion builds a rating follow-up question for fixtures
func RatingQuestion(id string, min, max int) models.FollowUpQuestion {
	return models.FollowUpQuestion{
		ID:       id,
		Type:     models.QuestionRating,
		Question: "How would you rate it?",
		Min:      &min,
		Max:      &max,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorKind checks the stable error kind of an error response
func AssertErrorKind(t *testing.T, w *httptest.ResponseRecorder, kind string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v. Body: %s", err, w.Body.String())
	}
	if resp.Error != kind {
		t.Errorf("Expected error kind %q, got %q (message: %s)", kind, resp.Error, resp.Message)
	}
}
