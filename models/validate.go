// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateCreateSurvey checks a create-survey request: required fields via
// struct tags, then the per-type follow-up question rules that tags cannot
// express (option counts, rating bounds, unique question ids).
func ValidateCreateSurvey(req *CreateSurveyRequest) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("%s failed on %q", e.Namespace(), e.Tag())
		}
		return err
	}

	seen := make(map[string]bool, len(req.FollowUpQuestions))
	for _, q := range req.FollowUpQuestions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate follow-up question id %q", q.ID)
		}
		seen[q.ID] = true

		switch q.Type {
		case QuestionMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %q: multiple_choice requires at least 2 options", q.ID)
			}
		case QuestionRating:
			if q.Min == nil || q.Max == nil {
				return fmt.Errorf("question %q: rating requires min and max", q.ID)
			}
			if *q.Min >= *q.Max {
				return fmt.Errorf("question %q: rating min must be less than max", q.ID)
			}
		}
	}

	return nil
}

// ValidateAnswers checks that each supplied answer carries the variant shape
// declared by the matching survey question: yes_no wants "yes"/"no",
// multiple_choice a string or string array, rating an integer within
// [min, max], text a string. Answers for question ids the survey doesn't
// know pass through; skipped questions are simply absent.
func ValidateAnswers(questions []FollowUpQuestion, answers []FollowUpAnswer) error {
	byID := make(map[string]FollowUpQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	for _, a := range answers {
		if a.QuestionID == "" {
			return fmt.Errorf("answer is missing question_id")
		}
		q, known := byID[a.QuestionID]
		if !known {
			continue
		}

		switch q.Type {
		case QuestionYesNo:
			s, ok := a.Answer.(string)
			if !ok || (s != ResponseYes && s != ResponseNo) {
				return fmt.Errorf("question %q: answer must be %q or %q", q.ID, ResponseYes, ResponseNo)
			}
		case QuestionText:
			if _, ok := a.Answer.(string); !ok {
				return fmt.Errorf("question %q: answer must be a string", q.ID)
			}
		case QuestionMultipleChoice:
			if _, ok := a.Answer.(string); ok {
				continue
			}
			if _, ok := asStringSlice(a.Answer); !ok {
				return fmt.Errorf("question %q: answer must be a string or string array", q.ID)
			}
		case QuestionRating:
			n, ok := asNumber(a.Answer)
			if !ok || n != math.Trunc(n) {
				return fmt.Errorf("question %q: answer must be an integer", q.ID)
			}
			if int(n) < *q.Min || int(n) > *q.Max {
				return fmt.Errorf("question %q: answer must be between %d and %d", q.ID, *q.Min, *q.Max)
			}
		}
	}

	return nil
}

// asStringSlice accepts both []string (constructed in-process) and []any of
// strings (what encoding/json produces).
func asStringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}
