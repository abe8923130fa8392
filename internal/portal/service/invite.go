package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/idp"
	"github.com/aaplusconsultants/policytrain/internal/portal/mailer"
	"github.com/aaplusconsultants/policytrain/internal/portal/metrics"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/idx"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidRole   = errors.New("invalid role")
	ErrOrgNotFound   = errors.New("organization not found")
	ErrMailerMissing = errors.New("mail delivery is not configured")
)

// Invite outcome statuses.
const (
	InviteIssued        = "issued"         // new account created, safe link mailed
	InviteAddedExisting = "added_existing" // existing account attached directly
)

// InviteRequest is one invitation to process.
type InviteRequest struct {
	Email          string
	FullName       string
	OrganizationID string
	Role           string
	InvitedBy      string
}

// InviteResult reports what happened to one invitation.
type InviteResult struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	InvitationID string `json:"invitation_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// InviteService runs the invitation pipeline: record intent in the ledger,
// create the provider account, and deliver a safe link that defers the real
// credential URL behind an explicit claim.
type InviteService struct {
	Store     store.Store
	IDP       idp.Provider
	Mailer    mailer.Mailer
	SafeLinks *SafeLinkService

	// AppURL is the externally reachable base URL of the portal frontend,
	// used to build claim and password-setup URLs.
	AppURL string
}

// Invite processes a single invitation.
//
// For an email with no provider account, the ledger write happens BEFORE
// account creation: if the process dies in between, the first login finds
// the pending invitation and reconciliation completes provisioning. The
// reverse order would strand an account with no way to learn its
// organization.
func (s *InviteService) Invite(ctx context.Context, req InviteRequest) (InviteResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return s.failed(req.Email, ErrInvalidEmail)
	}
	if !domain.ValidRole(req.Role) {
		return s.failed(req.Email, ErrInvalidRole)
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.failed(req.Email, ErrOrgNotFound)
		}
		return s.failed(req.Email, err)
	}

	account, err := s.IDP.AccountByEmail(ctx, req.Email)
	switch {
	case err == nil:
		onboarding, err := s.stillOnboarding(ctx, account)
		if err != nil {
			return s.failed(req.Email, err)
		}
		if onboarding {
			// The account exists but has never been signed into. A re-invite
			// must reissue the credential link, not direct-attach.
			return s.issue(ctx, req, org, &account)
		}
		// Settled accounts skip the credential dance entirely: attach
		// profile and membership now and tell the person they have access.
		return s.addExisting(ctx, req, org, account)
	case errors.Is(err, idp.ErrAccountNotFound):
		return s.issue(ctx, req, org, nil)
	default:
		return s.failed(req.Email, err)
	}
}

// stillOnboarding reports whether an email that already has a provider
// account is still mid-onboarding. An unconfirmed account or a pending
// invitation means the person holds no working credentials yet.
func (s *InviteService) stillOnboarding(ctx context.Context, account idp.Account) (bool, error) {
	if !account.Confirmed {
		return true, nil
	}
	_, err := s.Store.Invitations().FindPendingByEmail(ctx, account.Email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// issue runs the credential flow. existing is nil for a brand-new email and
// the current account when re-inviting someone who never finished
// onboarding.
func (s *InviteService) issue(ctx context.Context, req InviteRequest, org domain.Organization, existing *idp.Account) (InviteResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Ledger first. UpsertPending enforces at-most-one-pending per email
	// with last-invite-wins semantics for unconsumed invites.
	invID, err := s.Store.Invitations().UpsertPending(ctx, domain.Invitation{
		ID:             idx.New().String(),
		Email:          req.Email,
		OrganizationID: org.ID,
		Role:           req.Role,
		InvitedBy:      req.InvitedBy,
	})
	if err != nil {
		return s.failed(req.Email, err)
	}

	// 2. Provider account, unconfirmed, unless one already exists. Seeded
	// metadata is a convenience copy; the ledger remains the source of
	// truth for provisioning.
	if existing == nil {
		_, err = s.IDP.CreateAccount(ctx, req.Email, idp.Metadata{
			FullName:       req.FullName,
			OrganizationID: org.ID,
			Role:           req.Role,
			InvitedBy:      req.InvitedBy,
		})
		if err != nil {
			return s.failed(req.Email, fmt.Errorf("create account: %w", err))
		}
	}

	// 3. Credential link. The provider's default redirect would drop the
	// user on a generic landing page, so it is rewritten to the password
	// setup page carrying the intended email for the crossover guard.
	// Invite links are refused for confirmed accounts; a recovery link
	// reaches the same password-setup page.
	kind := idp.LinkInvite
	if existing != nil && existing.Confirmed {
		kind = idp.LinkRecovery
	}
	setupURL := s.AppURL + "/auth/update-password?email=" + url.QueryEscape(req.Email)
	actionLink, err := s.IDP.GenerateLink(ctx, kind, req.Email, setupURL, idp.Metadata{
		FullName:       req.FullName,
		OrganizationID: org.ID,
		Role:           req.Role,
	})
	if err != nil {
		return s.failed(req.Email, fmt.Errorf("generate link: %w", err))
	}
	actionLink, err = overrideRedirect(actionLink, setupURL)
	if err != nil {
		return s.failed(req.Email, err)
	}

	// 4. Wrap the credential link in a safe link so prefetching mail
	// scanners cannot consume the one-time token.
	tokenID, err := s.SafeLinks.Issue(ctx, actionLink)
	if err != nil {
		return s.failed(req.Email, err)
	}
	claimURL := s.AppURL + "/auth/verify-invite?token=" + url.QueryEscape(tokenID)

	// 5. Delivery. A missing provider is fatal (the invite is unreachable
	// without mail); a rejected delivery is not, the ledger and account are
	// already correct and the invite can be re-sent.
	err = s.Mailer.Send(ctx, inviteMail(req.Email, org, claimURL))
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return s.failed(req.Email, ErrMailerMissing)
		}
		log.Warn("invite email delivery failed",
			slog.String("invitation_id", invID),
			slog.Any("error", err),
		)
	}

	log.Info("invitation issued",
		slog.String("invitation_id", invID),
		slog.String("organization_id", org.ID),
		slog.String("role", req.Role),
	)
	metrics.Invites.WithLabelValues("issued").Inc()
	return InviteResult{Email: req.Email, Status: InviteIssued, InvitationID: invID}, nil
}

// addExisting attaches an email whose provider account is already settled.
// No invitation row, no credential link: profile and membership are written
// directly and a notification is sent.
func (s *InviteService) addExisting(ctx context.Context, req InviteRequest, org domain.Organization, account idp.Account) (InviteResult, error) {
	log := slogx.FromContext(ctx)

	displayName := req.FullName
	if displayName == "" {
		displayName = account.Metadata.FullName
	}
	if displayName == "" {
		displayName = emailLocalPart(account.Email)
	}

	err := s.Store.Profiles().UpsertProfile(ctx, domain.Profile{
		ID:             account.ID,
		Email:          account.Email,
		DisplayName:    displayName,
		Role:           req.Role,
		OrganizationID: org.ID,
	})
	if err != nil {
		return s.failed(req.Email, err)
	}

	err = s.Store.Memberships().UpsertMembership(ctx, domain.Membership{
		OrganizationID: org.ID,
		UserID:         account.ID,
		Role:           req.Role,
	})
	if err != nil {
		return s.failed(req.Email, err)
	}

	err = s.Mailer.Send(ctx, addedMail(account.Email, org, s.AppURL))
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			return s.failed(req.Email, ErrMailerMissing)
		}
		log.Warn("added-to-organization email delivery failed", slog.Any("error", err))
	}

	log.Info("existing account added to organization",
		slog.String("account_id", account.ID),
		slog.String("organization_id", org.ID),
	)
	metrics.Invites.WithLabelValues("added_existing").Inc()
	return InviteResult{Email: req.Email, Status: InviteAddedExisting}, nil
}

// BulkInvite processes a batch concurrently. Each invitation succeeds or
// fails independently; the result slice preserves input order.
func (s *InviteService) BulkInvite(ctx context.Context, reqs []InviteRequest) []InviteResult {
	results := make([]InviteResult, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req InviteRequest) {
			defer wg.Done()
			res, err := s.Invite(ctx, req)
			if err != nil {
				res = InviteResult{Email: req.Email, Status: "failed", Error: err.Error()}
			}
			results[i] = res
		}(i, req)
	}
	wg.Wait()

	return results
}

func (s *InviteService) failed(email string, err error) (InviteResult, error) {
	metrics.Invites.WithLabelValues("failed").Inc()
	return InviteResult{Email: email, Status: "failed", Error: err.Error()}, err
}

// overrideRedirect rewrites the redirect_to query parameter of a provider
// action link. Providers honour their own configured redirect allow-list
// inconsistently, so the final destination is pinned here.
func overrideRedirect(actionLink, redirectTo string) (string, error) {
	u, err := url.Parse(actionLink)
	if err != nil {
		return "", fmt.Errorf("parse action link: %w", err)
	}
	q := u.Query()
	q.Set("redirect_to", redirectTo)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func inviteMail(to string, org domain.Organization, claimURL string) mailer.Message {
	support := org.SupportEmail
	if support == "" {
		support = "your administrator"
	}
	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("You're invited to %s compliance training", org.Name),
		HTML: fmt.Sprintf(
			`<p>You have been invited to join <strong>%s</strong> on the compliance training portal.</p>`+
				`<p><a href="%s">Accept your invitation</a> to set a password and get started.</p>`+
				`<p>The link is valid for a limited time. Questions? Contact %s.</p>`,
			org.Name, claimURL, support),
		Text: fmt.Sprintf(
			"You have been invited to join %s on the compliance training portal.\n\n"+
				"Accept your invitation to set a password and get started:\n%s\n\n"+
				"The link is valid for a limited time. Questions? Contact %s.\n",
			org.Name, claimURL, support),
	}
}

func addedMail(to string, org domain.Organization, appURL string) mailer.Message {
	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("You've been added to %s", org.Name),
		HTML: fmt.Sprintf(
			`<p>Your existing account now has access to <strong>%s</strong> on the compliance training portal.</p>`+
				`<p><a href="%s">Sign in</a> with your usual credentials.</p>`,
			org.Name, appURL),
		Text: fmt.Sprintf(
			"Your existing account now has access to %s on the compliance training portal.\n\n"+
				"Sign in with your usual credentials: %s\n",
			org.Name, appURL),
	}
}
