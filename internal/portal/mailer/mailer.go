// Package mailer delivers notification emails. Delivery is purely a side
// effect: failures here must never undo ledger or account state, so callers
// treat delivery errors as warnings and only configuration errors as fatal.
package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured reports that no delivery provider is configured. Callers
// fail fast on this instead of silently dropping mail.
var ErrNotConfigured = errors.New("mailer: provider not configured")

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends notification emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
