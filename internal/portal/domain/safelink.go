package domain

import "time"

// SafeLinkToken defers consumption of a one-time credential link behind an
// explicit user action. The email carries the raw token; only its
// fingerprint is stored here, and the credential URL is released by a
// single successful claim.
type SafeLinkToken struct {
	ID        string // SHA-256 fingerprint of the raw token
	TargetURL string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
