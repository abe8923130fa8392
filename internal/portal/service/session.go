package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aaplusconsultants/policytrain/internal/portal/idp"
	"github.com/aaplusconsultants/policytrain/internal/portal/metrics"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

// ErrCrossover reports that a verified session belongs to a different
// person than the invitation flow intended. The session is destroyed before
// this error is returned; no provisioning writes have happened.
var ErrCrossover = errors.New("session identity does not match intended recipient")

// EstablishedSession is the outcome of session establishment plus
// reconciliation: a verified identity that is now correctly provisioned.
type EstablishedSession struct {
	AccountID      string
	Email          string
	OrganizationID string
	Role           string
	Provisioned    bool
}

// SessionService turns provider credentials (a PKCE code or a bearer access
// token) into a reconciled session. The crossover guard runs before any
// provisioning write so a shared or forwarded device can never bind one
// person's account to another person's invitation.
type SessionService struct {
	IDP       idp.Provider
	Reconcile *ReconcileService
}

// EstablishFromCode exchanges a PKCE authorization code for a session and
// reconciles it. intendedEmail, when non-empty, is the email the invitation
// flow expected to authenticate; a mismatch destroys the session.
func (s *SessionService) EstablishFromCode(ctx context.Context, code, intendedEmail string) (EstablishedSession, error) {
	sess, err := s.IDP.ExchangeCode(ctx, code)
	if err != nil {
		return EstablishedSession{}, err
	}
	return s.establish(ctx, sess, intendedEmail)
}

// EstablishFromToken verifies an access token delivered via the implicit
// (hash-fragment) flow and reconciles it.
func (s *SessionService) EstablishFromToken(ctx context.Context, accessToken, intendedEmail string) (EstablishedSession, error) {
	sess, err := s.IDP.SessionFromToken(ctx, accessToken)
	if err != nil {
		return EstablishedSession{}, err
	}
	return s.establish(ctx, sess, intendedEmail)
}

func (s *SessionService) establish(ctx context.Context, sess idp.Session, intendedEmail string) (EstablishedSession, error) {
	log := slogx.FromContext(ctx)

	// Crossover guard. Runs before reconciliation so a mismatched identity
	// leaves zero traces in the ledger.
	if intendedEmail != "" && !strings.EqualFold(sess.Email, intendedEmail) {
		log.Warn("crossover detected, destroying session",
			slog.String("account_id", sess.AccountID),
		)
		metrics.CrossoverRejections.Inc()
		if err := s.IDP.SignOut(ctx, sess.AccessToken); err != nil {
			log.Warn("failed to sign out mismatched session", slog.Any("error", err))
		}
		return EstablishedSession{}, ErrCrossover
	}

	res, err := s.Reconcile.Reconcile(ctx, Identity{
		AccountID: sess.AccountID,
		Email:     sess.Email,
		FullName:  sess.FullName,
	})
	if err != nil {
		return EstablishedSession{}, err
	}

	return EstablishedSession{
		AccountID:      sess.AccountID,
		Email:          sess.Email,
		OrganizationID: res.OrganizationID,
		Role:           res.Role,
		Provisioned:    res.Provisioned,
	}, nil
}
