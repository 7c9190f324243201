// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSurveyRequest: title, question, follow_up_questions
  - CastVoteRequest: response ("yes" or "no")
  - SubmitFollowUpRequest: vote_id, answers
  - RegisterDeviceRequest: platform

# Response Types

Types for JSON responses:

  - CreateSurveyResponse: survey_id
  - CastVoteResponse: vote_id, has_follow_up
  - HasVotedResponse: has_voted
  - SubmitFollowUpResponse: success
  - ToggleActiveResponse: is_active
  - RegisterDeviceResponse: device_id, is_new
  - ResolveTagResponse: survey_id, response
  - ErrorResponse: error (stable kind), message

# Domain Types

  - Survey: question set, active flag, owner
  - FollowUpQuestion: typed secondary question embedded in a survey
  - Vote: one device's yes/no answer (device id never serialized)
  - FollowUpAnswer / FollowUpResponse: one answer batch tied to one vote
  - VoteTally: yes/no counts and unrounded percentages
  - QuestionSummary: per-question answer histogram

# Validation

ValidateCreateSurvey combines go-playground/validator struct tags with the
per-type follow-up question rules:

  - multiple_choice requires at least 2 options
  - rating requires min < max
  - question ids must be unique within a survey

ValidateAnswers checks submitted answers against the declared question types
(the answer union is string | number | string array).

# Error Kinds

The Error field of ErrorResponse is one of:

	validation_error, auth_error, not_found, inactive_survey,
	duplicate_vote, duplicate_submission, bad_request, internal_error

Clients branch on these; messages are human-readable detail only.
*/
package models
