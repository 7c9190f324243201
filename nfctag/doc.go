// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package nfctag encodes and decodes the canonical survey tag payload.

A survey tag carries one URL in one of two equivalent forms:

	tapsurvey://survey/{surveyId}/{yes|no}      (app scheme, written to tags)
	https://{domain}/survey/{surveyId}/{yes|no} (web form, any reader)

Decode accepts both, case-insensitively, and returns nil on anything else.
The NFC transport and the deep-link router both depend on this package for
a single shared definition of what a survey tag encodes.
*/
package nfctag
