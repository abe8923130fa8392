// Package idp wraps the external identity provider. The provider owns
// account ids, one-time links, and session establishment; this service only
// consumes those capabilities and never stores credentials itself.
package idp

import (
	"context"
	"errors"
)

var (
	// ErrAccountNotFound reports that no account exists for an email.
	ErrAccountNotFound = errors.New("idp: account not found")
	// ErrExchangeFailed reports that a code or token could not be exchanged
	// for a session.
	ErrExchangeFailed = errors.New("idp: session exchange failed")
)

// LinkKind selects the flavour of one-time link the provider generates.
type LinkKind string

const (
	LinkInvite   LinkKind = "invite"
	LinkMagic    LinkKind = "magiclink"
	LinkRecovery LinkKind = "recovery"
)

// Metadata is propagated into the account at creation time for
// defense-in-depth. It is never trusted as the source of truth; the
// invitation ledger is.
type Metadata struct {
	FullName       string `json:"full_name,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Role           string `json:"role,omitempty"`
	InvitedBy      string `json:"invited_by,omitempty"`
}

// Account is the identity provider's account object. Confirmed reports
// whether the email has been verified, which happens on the first completed
// sign-in; an unconfirmed account has never held working credentials.
type Account struct {
	ID        string
	Email     string
	Confirmed bool
	Metadata  Metadata
}

// Session is an established provider session bound to an account.
type Session struct {
	AccountID   string
	Email       string
	FullName    string
	AccessToken string
}

// Provider is the consumed identity capability. Calls are not retried here;
// retry policy belongs to callers, which hold idempotency keys (email,
// invitation id) that make repeated invocation safe.
type Provider interface {
	// AccountByEmail returns the account for an email, matched
	// case-insensitively, or ErrAccountNotFound.
	AccountByEmail(ctx context.Context, email string) (Account, error)

	// CreateAccount provisions a new account with the given metadata.
	CreateAccount(ctx context.Context, email string, meta Metadata) (Account, error)

	// GenerateLink mints a one-time link of the given kind that lands the
	// recipient on redirectTo after the provider consumes the credential.
	GenerateLink(ctx context.Context, kind LinkKind, email, redirectTo string, meta Metadata) (string, error)

	// ExchangeCode trades an authorization code for a session.
	ExchangeCode(ctx context.Context, code string) (Session, error)

	// SessionFromToken validates an access token (implicit flow) and returns
	// the session it represents.
	SessionFromToken(ctx context.Context, accessToken string) (Session, error)

	// SignOut revokes the session behind an access token.
	SignOut(ctx context.Context, accessToken string) error
}
