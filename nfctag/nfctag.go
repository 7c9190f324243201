// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package nfctag

import (
	"regexp"
	"strings"
)

// Scheme is the custom URL scheme written to NFC tags by the app.
const Scheme = "tapsurvey"

// Payload is the decoded content of a survey tag.
type Payload struct {
	SurveyID string
	Response string
}

// Tags written by the app use the custom scheme; tags or QR codes read by
// generic readers resolve the https form. Both must decode to the same
// payload. Matching is case-insensitive; the response token is normalized
// to lower case.
var (
	appPattern = regexp.MustCompile(`(?i)` + Scheme + `://survey/([^/]+)/(yes|no)`)
	webPattern = regexp.MustCompile(`(?i)https?://[^/]+/survey/([^/]+)/(yes|no)`)
)

// EncodeApp returns the custom-scheme URL for a survey response.
func EncodeApp(surveyID, response string) string {
	return Scheme + "://survey/" + surveyID + "/" + response
}

// EncodeWeb returns the https URL for a survey response.
func EncodeWeb(domain, surveyID, response string) string {
	return "https://" + domain + "/survey/" + surveyID + "/" + response
}

// Decode parses a tag payload into (surveyId, response). It accepts both
// the custom-scheme and https forms and returns nil when the payload
// matches neither. It never fails: this is a pure parse with no I/O.
func Decode(payload string) *Payload {
	payload = strings.TrimSpace(payload)
	for _, pattern := range []*regexp.Regexp{appPattern, webPattern} {
		if m := pattern.FindStringSubmatch(payload); m != nil {
			return &Payload{
				SurveyID: m[1],
				Response: strings.ToLower(m[2]),
			}
		}
	}
	return nil
}
