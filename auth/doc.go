// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation utilities.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

Used for survey, vote, and follow-up response ids.

# Device IDs

Device identifiers are UUIDs:

	deviceID := auth.NewDeviceID()

A device id is a correlation key for vote deduplication, not an identity.
It is generated once per install/browser profile (client-side or via the
registration endpoint) and presented in the X-Device-ID header. Clearing it
and re-registering is possible and accepted; the scheme deters casual
double-voting, nothing stronger.

# Owner Identity

Owner identity is NOT minted here. The authentication provider is external;
handlers receive an opaque authenticated owner id in the X-Owner-ID header
and compare it against the survey's stored owner_id.
*/
package auth
