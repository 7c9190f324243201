// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote response constants
const (
	ResponseYes = "yes"
	ResponseNo  = "no"
)

// Follow-up question type constants
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionRating         = "rating"
	QuestionText           = "text"
	QuestionYesNo          = "yes_no"
)

// Device platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Error kinds returned in ErrorResponse.Error. Stable: clients key on these.
const (
	ErrValidation          = "validation_error"
	ErrAuth                = "auth_error"
	ErrNotFound            = "not_found"
	ErrInactiveSurvey      = "inactive_survey"
	ErrDuplicateVote       = "duplicate_vote"
	ErrDuplicateSubmission = "duplicate_submission"
	ErrBadRequest          = "bad_request"
	ErrInternal            = "internal_error"
)

// Request types

type CreateSurveyRequest struct {
	Title             string             `json:"title" validate:"required"`
	Question          string             `json:"question" validate:"required"`
	FollowUpQuestions []FollowUpQuestion `json:"follow_up_questions" validate:"omitempty,dive"`
}

type CastVoteRequest struct {
	Response string `json:"response"`
}

type SubmitFollowUpRequest struct {
	VoteID  string           `json:"vote_id"`
	Answers []FollowUpAnswer `json:"answers"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type CreateSurveyResponse struct {
	SurveyID string `json:"survey_id"`
}

type CastVoteResponse struct {
	VoteID      string `json:"vote_id"`
	HasFollowUp bool   `json:"has_follow_up"`
}

type HasVotedResponse struct {
	HasVoted bool `json:"has_voted"`
}

type SubmitFollowUpResponse struct {
	Success bool `json:"success"`
}

type ToggleActiveResponse struct {
	IsActive bool `json:"is_active"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type ResolveTagResponse struct {
	SurveyID string `json:"survey_id"`
	Response string `json:"response"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Survey struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Question          string             `json:"question"`
	FollowUpQuestions []FollowUpQuestion `json:"follow_up_questions"`
	IsActive          bool               `json:"is_active"`
	OwnerID           *string            `json:"owner_id,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

type FollowUpQuestion struct {
	ID       string   `json:"id" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=multiple_choice rating text yes_no"`
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options,omitempty"`
	Min      *int     `json:"min,omitempty"`
	Max      *int     `json:"max,omitempty"`
}

type Vote struct {
	ID        string    `json:"id"`
	SurveyID  string    `json:"survey_id"`
	Response  string    `json:"response"`
	DeviceID  string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// Answer is string, float64, or []any of strings after JSON decoding.
// The variant must match the question's declared type (see ValidateAnswers).
type FollowUpAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     any    `json:"answer"`
}

type FollowUpResponse struct {
	ID        string           `json:"id"`
	SurveyID  string           `json:"survey_id"`
	VoteID    string           `json:"vote_id"`
	Answers   []FollowUpAnswer `json:"answers"`
	DeviceID  string           `json:"-"` // Never expose in JSON
	CreatedAt time.Time        `json:"created_at"`
}

type VoteTally struct {
	Total         int     `json:"total"`
	Yes           int     `json:"yes"`
	No            int     `json:"no"`
	YesPercentage float64 `json:"yes_percentage"`
	NoPercentage  float64 `json:"no_percentage"`
}

// TagURLs pairs the app-scheme form written to NFC tags with the https form
// that generic QR/NFC readers can resolve.
type TagURLs struct {
	App string `json:"app"`
	Web string `json:"web"`
}

type TagURLSet struct {
	Yes TagURLs `json:"yes"`
	No  TagURLs `json:"no"`
}

type SurveyDetail struct {
	Survey
	Tags TagURLSet `json:"tags"`
}

type SurveyWithResults struct {
	Survey
	Results VoteTally `json:"results"`
}

type QuestionSummary struct {
	Question string         `json:"question"`
	Type     string         `json:"type"`
	Answers  map[string]int `json:"answers"`
}
