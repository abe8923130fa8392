package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/mailer"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/stretchr/testify/require"
)

func newInviteService(st store.Store, provider *fakeIDP, mail *fakeMailer) *InviteService {
	return &InviteService{
		Store:     st,
		IDP:       provider,
		Mailer:    mail,
		SafeLinks: &SafeLinkService{Store: st},
		AppURL:    "https://training.example.com",
	}
}

func TestInviteNewUserFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	provider := newFakeIDP()
	mail := &fakeMailer{}
	svc := newInviteService(st, provider, mail)

	res, err := svc.Invite(ctx, InviteRequest{
		Email:          "casey@acme.example",
		FullName:       "Casey Lee",
		OrganizationID: org.ID,
		Role:           domain.RoleLearner,
		InvitedBy:      "admin-1",
	})
	require.NoError(t, err)
	require.Equal(t, InviteIssued, res.Status)
	require.NotEmpty(t, res.InvitationID)

	// Ledger records intent before any login happens.
	inv, err := st.Invitations().FindPendingByEmail(ctx, "casey@acme.example")
	require.NoError(t, err)
	require.Equal(t, org.ID, inv.OrganizationID)
	require.Equal(t, domain.RoleLearner, inv.Role)
	require.Equal(t, "admin-1", inv.InvitedBy)

	// The provider account exists but no profile yet; that is the
	// reconciler's job on first login.
	_, err = provider.AccountByEmail(ctx, "casey@acme.example")
	require.NoError(t, err)
	_, err = st.Profiles().GetProfileByEmail(ctx, "casey@acme.example")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Mail carries a claim URL, not the credential link itself.
	require.Equal(t, []string{"casey@acme.example"}, mail.sentTo())
	body := mail.sent[0].Text
	require.Contains(t, body, "https://training.example.com/auth/verify-invite?token=")
	require.NotContains(t, body, "idp.test")

	// Claiming the safe link releases the credential link with the
	// redirect pinned to the password setup page.
	claimURL, err := url.Parse(extractURL(t, body, "https://training.example.com/auth/verify-invite"))
	require.NoError(t, err)
	target, err := svc.SafeLinks.Claim(ctx, claimURL.Query().Get("token"))
	require.NoError(t, err)
	require.Contains(t, target, "redirect_to=")
	require.Contains(t, target,
		url.QueryEscape("https://training.example.com/auth/update-password?email="+url.QueryEscape("casey@acme.example")))
}

func TestInviteExistingUserIsAttachedDirectly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	provider := newFakeIDP()
	provider.addAccount("acct-9", "casey@acme.example")
	mail := &fakeMailer{}
	svc := newInviteService(st, provider, mail)

	res, err := svc.Invite(ctx, InviteRequest{
		Email:          "casey@acme.example",
		OrganizationID: org.ID,
		Role:           domain.RoleAdmin,
		InvitedBy:      "admin-1",
	})
	require.NoError(t, err)
	require.Equal(t, InviteAddedExisting, res.Status)
	require.Empty(t, res.InvitationID)

	// No invitation row; profile and membership are written immediately.
	_, err = st.Invitations().FindPendingByEmail(ctx, "casey@acme.example")
	require.ErrorIs(t, err, store.ErrNotFound)

	profile, err := st.Profiles().GetProfileByID(ctx, "acct-9")
	require.NoError(t, err)
	require.Equal(t, org.ID, profile.OrganizationID)
	require.Equal(t, domain.RoleAdmin, profile.Role)

	member, err := st.Memberships().GetMembership(ctx, org.ID, "acct-9")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, member.Role)

	require.Equal(t, []string{"casey@acme.example"}, mail.sentTo())
}

func TestInviteDeliveryFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	provider := newFakeIDP()
	mail := &fakeMailer{sendErr: errors.New("smtp exploded")}
	svc := newInviteService(st, provider, mail)

	res, err := svc.Invite(ctx, InviteRequest{
		Email:          "casey@acme.example",
		OrganizationID: org.ID,
		Role:           domain.RoleLearner,
	})
	require.NoError(t, err)
	require.Equal(t, InviteIssued, res.Status)

	// The ledger write survived the delivery failure.
	_, err = st.Invitations().FindPendingByEmail(ctx, "casey@acme.example")
	require.NoError(t, err)
}

func TestInviteMissingMailerIsFatal(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	provider := newFakeIDP()
	mail := &fakeMailer{sendErr: mailer.ErrNotConfigured}
	svc := newInviteService(st, provider, mail)

	_, err := svc.Invite(ctx, InviteRequest{
		Email:          "casey@acme.example",
		OrganizationID: org.ID,
		Role:           domain.RoleLearner,
	})
	require.ErrorIs(t, err, ErrMailerMissing)
}

func TestInviteValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	svc := newInviteService(st, newFakeIDP(), &fakeMailer{})

	_, err := svc.Invite(ctx, InviteRequest{
		Email: "not-an-email", OrganizationID: org.ID, Role: domain.RoleLearner,
	})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Invite(ctx, InviteRequest{
		Email: "casey@acme.example", OrganizationID: org.ID, Role: "owner",
	})
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Invite(ctx, InviteRequest{
		Email: "casey@acme.example", OrganizationID: "missing", Role: domain.RoleLearner,
	})
	require.ErrorIs(t, err, ErrOrgNotFound)
}

func TestInviteReplacesPendingInvitation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	first := seedOrg(t, st, "First Org", "first")
	second := seedOrg(t, st, "Second Org", "second")
	mail := &fakeMailer{}
	svc := newInviteService(st, newFakeIDP(), mail)

	_, err := svc.Invite(ctx, InviteRequest{
		Email: "casey@example.com", OrganizationID: first.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)

	// The first invite created an unconfirmed account, so the re-invite
	// must run the credential flow again rather than direct-attach.
	res, err := svc.Invite(ctx, InviteRequest{
		Email: "casey@example.com", OrganizationID: second.ID, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, InviteIssued, res.Status)
	require.NotEmpty(t, res.InvitationID)

	// Only the latest unconsumed invitation survives.
	inv, err := st.Invitations().FindPendingByEmail(ctx, "casey@example.com")
	require.NoError(t, err)
	require.Equal(t, second.ID, inv.OrganizationID)
	require.Equal(t, domain.RoleAdmin, inv.Role)

	// No profile yet, and the second mail is a fresh claim link, not a
	// sign-in notification.
	_, err = st.Profiles().GetProfileByEmail(ctx, "casey@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, mail.sent, 2)
	require.Contains(t, mail.sent[1].Text, "/auth/verify-invite?token=")
	require.NotContains(t, mail.sent[1].Text, "usual credentials")
}

func TestInviteReissuesForConfirmedAccountWithPendingInvitation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	first := seedOrg(t, st, "First Org", "first")
	second := seedOrg(t, st, "Second Org", "second")
	provider := newFakeIDP()
	provider.addAccount("acct-5", "casey@example.com")
	mail := &fakeMailer{}
	svc := newInviteService(st, provider, mail)

	seedPendingInvite(t, st, "casey@example.com", first.ID, domain.RoleLearner)

	res, err := svc.Invite(ctx, InviteRequest{
		Email: "casey@example.com", OrganizationID: second.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)
	require.Equal(t, InviteIssued, res.Status)

	inv, err := st.Invitations().FindPendingByEmail(ctx, "casey@example.com")
	require.NoError(t, err)
	require.Equal(t, second.ID, inv.OrganizationID)

	// A confirmed account cannot take another invite link; the reissued
	// credential is a recovery link to the same password-setup page.
	body := mail.sent[0].Text
	claimURL, err := url.Parse(extractURL(t, body, "https://training.example.com/auth/verify-invite"))
	require.NoError(t, err)
	target, err := svc.SafeLinks.Claim(ctx, claimURL.Query().Get("token"))
	require.NoError(t, err)
	require.Contains(t, target, "type=recovery")
}

func TestBulkInvitePreservesOrderAndIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	svc := newInviteService(st, newFakeIDP(), &fakeMailer{})

	results := svc.BulkInvite(ctx, []InviteRequest{
		{Email: "a@example.com", OrganizationID: org.ID, Role: domain.RoleLearner},
		{Email: "broken", OrganizationID: org.ID, Role: domain.RoleLearner},
		{Email: "c@example.com", OrganizationID: org.ID, Role: domain.RoleLearner},
	})
	require.Len(t, results, 3)
	require.Equal(t, "a@example.com", results[0].Email)
	require.Equal(t, InviteIssued, results[0].Status)
	require.Equal(t, "failed", results[1].Status)
	require.NotEmpty(t, results[1].Error)
	require.Equal(t, InviteIssued, results[2].Status)
}

func extractURL(t *testing.T, body, prefix string) string {
	t.Helper()

	idx := strings.Index(body, prefix)
	require.GreaterOrEqual(t, idx, 0)
	rest := body[idx:]
	if end := strings.IndexAny(rest, " \n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
