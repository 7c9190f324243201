// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/tap-survey/models"
	"github.com/danielhkuo/tap-survey/testutil"
)

// TestConcurrentDuplicateVotes verifies that when the same device fires N
// simultaneous casts at one survey (an NFC tag read retried by a flaky
// client), exactly one vote lands and the rest are rejected as duplicates.
func TestConcurrentDuplicateVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())
	surveyID := testutil.CreateTestSurvey(t, db, "owner-1", true, nil)

	numAttempts := 10
	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			handler.CastVote(w, castVoteRequest(surveyID, "racing-device", models.ResponseYes))

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				var errResp models.ErrorResponse
				json.NewDecoder(w.Body).Decode(&errResp)
				if errResp.Error == models.ErrDuplicateVote {
					duplicateCount.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful cast, got %d", successCount.Load())
	}
	if int(duplicateCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d duplicate rejections, got %d", numAttempts-1, duplicateCount.Load())
	}

	var voteCount int
	err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE survey_id = $1 AND device_id = $2",
		surveyID, "racing-device").Scan(&voteCount)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 1 {
		t.Errorf("Expected 1 vote in database, got %d", voteCount)
	}
}

// TestConcurrentDistinctDevices verifies that simultaneous casts from
// different devices don't interfere with each other
func TestConcurrentDistinctDevices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())
	surveyID := testutil.CreateTestSurvey(t, db, "owner-1", true, nil)

	numDevices := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numDevices; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			response := models.ResponseYes
			if idx%2 == 1 {
				response = models.ResponseNo
			}

			w := httptest.NewRecorder()
			handler.CastVote(w, castVoteRequest(surveyID, "device-"+strconv.Itoa(idx), response))

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numDevices {
		t.Errorf("Expected %d successful casts, got %d", numDevices, successCount.Load())
	}

	var voteCount, uniqueDevices int
	err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT device_id) FROM vote WHERE survey_id = $1",
		surveyID).Scan(&voteCount, &uniqueDevices)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != numDevices {
		t.Errorf("Expected %d votes in database, got %d", numDevices, voteCount)
	}
	if uniqueDevices != numDevices {
		t.Errorf("Expected %d unique devices, got %d (possible duplicates)", numDevices, uniqueDevices)
	}
}

// TestConcurrentFollowUpSubmissions verifies that N simultaneous follow-up
// submissions for the same vote produce exactly one stored response
func TestConcurrentFollowUpSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewFollowUpHandler(db, testutil.GetTestConfig())

	questions := []models.FollowUpQuestion{testutil.RatingQuestion("q1", 1, 5)}
	surveyID := testutil.CreateTestSurvey(t, db, "owner-1", true, questions)
	voteID := testutil.CastTestVote(t, db, surveyID, "device-1", models.ResponseYes)

	numAttempts := 8
	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			answers := []models.FollowUpAnswer{{QuestionID: "q1", Answer: idx%5 + 1}}
			w := httptest.NewRecorder()
			handler.Submit(w, submitFollowUpRequest(surveyID, voteID, "device-1", answers))

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				var errResp models.ErrorResponse
				json.NewDecoder(w.Body).Decode(&errResp)
				if errResp.Error == models.ErrDuplicateSubmission {
					duplicateCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful submission, got %d", successCount.Load())
	}
	if int(duplicateCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d duplicate rejections, got %d", numAttempts-1, duplicateCount.Load())
	}

	var responseCount int
	err := db.QueryRow("SELECT COUNT(*) FROM follow_up_response WHERE vote_id = $1", voteID).Scan(&responseCount)
	if err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	if responseCount != 1 {
		t.Errorf("Expected 1 follow-up response in database, got %d", responseCount)
	}
}

// TestParallelSurveys verifies that vote traffic on different surveys
// doesn't interfere
func TestParallelSurveys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)

	numSurveys := 5
	votesPer := 4
	surveyIDs := make([]string, numSurveys)
	for i := range surveyIDs {
		surveyIDs[i] = testutil.CreateTestSurvey(t, db, "owner-"+strconv.Itoa(i), true, nil)
	}

	var wg sync.WaitGroup
	for i := 0; i < numSurveys; i++ {
		for j := 0; j < votesPer; j++ {
			wg.Add(1)
			go func(surveyIdx, deviceIdx int) {
				defer wg.Done()

				device := "s" + strconv.Itoa(surveyIdx) + "-d" + strconv.Itoa(deviceIdx)
				w := httptest.NewRecorder()
				votingHandler.CastVote(w, castVoteRequest(surveyIDs[surveyIdx], device, models.ResponseYes))

				if w.Code != http.StatusCreated {
					t.Errorf("Survey %d device %d cast failed: %d", surveyIdx, deviceIdx, w.Code)
				}
			}(i, j)
		}
	}

	wg.Wait()

	for i, surveyID := range surveyIDs {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE survey_id = $1", surveyID).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to count votes for survey %d: %v", i, err)
		}
		if count != votesPer {
			t.Errorf("Survey %d: expected %d votes, got %d", i, votesPer, count)
		}
	}
}
