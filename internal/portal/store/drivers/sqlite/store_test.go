package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedOrg(t *testing.T, st *Store, code string) domain.Organization {
	t.Helper()

	org := domain.Organization{ID: idx.New().String(), Name: code, Code: code}
	require.NoError(t, st.Organizations().CreateOrganization(context.Background(), org))
	return org
}

func TestOrganizationCodeIsUnique(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedOrg(t, st, "acme")

	err := st.Organizations().CreateOrganization(ctx, domain.Organization{
		ID: idx.New().String(), Name: "Other", Code: "acme",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateBranding(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")

	require.NoError(t, st.Organizations().UpdateBranding(ctx, org.ID, domain.Branding{
		LogoURL:      "https://cdn.example.com/acme.png",
		SupportEmail: "help@acme.example",
		SupportPhone: "+61 2 5550 0000",
	}))

	got, err := st.Organizations().GetOrganizationByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/acme.png", got.LogoURL)
	require.Equal(t, "help@acme.example", got.SupportEmail)

	err = st.Organizations().UpdateBranding(ctx, "missing", domain.Branding{})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertPendingReplacesExistingPendingInvitation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	first := seedOrg(t, st, "first")
	second := seedOrg(t, st, "second")

	firstID, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "casey@example.com",
		OrganizationID: first.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)

	// Same email while pending: the row is updated in place, id preserved.
	secondID, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "casey@example.com",
		OrganizationID: second.ID, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, firstID, secondID)

	inv, err := st.Invitations().FindPendingByEmail(ctx, "casey@example.com")
	require.NoError(t, err)
	require.Equal(t, second.ID, inv.OrganizationID)
	require.Equal(t, domain.RoleAdmin, inv.Role)
}

func TestUpsertPendingCollidesAcrossEmailCase(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	first := seedOrg(t, st, "first")
	second := seedOrg(t, st, "second")

	firstID, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "Casey@Example.com",
		OrganizationID: first.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)

	// A case variant of the same address hits the same pending row.
	secondID, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "casey@example.com",
		OrganizationID: second.ID, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, firstID, secondID)

	inv, err := st.Invitations().FindPendingByEmail(ctx, "CASEY@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, second.ID, inv.OrganizationID)
	require.Equal(t, domain.RoleAdmin, inv.Role)
}

func TestAcceptedInvitationDoesNotBlockNewPending(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")

	id, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "casey@example.com",
		OrganizationID: org.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)
	require.NoError(t, st.Invitations().MarkAccepted(ctx, id))

	// A fresh pending row may coexist with accepted history.
	newID, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "casey@example.com",
		OrganizationID: org.ID, Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.NotEqual(t, id, newID)

	inv, err := st.Invitations().GetInvitationByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)
}

func TestMarkAcceptedUnknownInvitation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	err := st.Invitations().MarkAccepted(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAcceptedBefore(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")

	id, err := st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "old@example.com",
		OrganizationID: org.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)
	require.NoError(t, st.Invitations().MarkAccepted(ctx, id))

	// Cutoff in the future removes the accepted row; pending rows survive.
	_, err = st.Invitations().UpsertPending(ctx, domain.Invitation{
		ID: idx.New().String(), Email: "fresh@example.com",
		OrganizationID: org.ID, Role: domain.RoleLearner,
	})
	require.NoError(t, err)

	require.NoError(t, st.Invitations().DeleteAcceptedBefore(ctx, time.Now().UTC().Add(time.Hour)))

	_, err = st.Invitations().GetInvitationByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Invitations().FindPendingByEmail(ctx, "fresh@example.com")
	require.NoError(t, err)
}

func TestUpsertMembershipUpdatesRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")

	require.NoError(t, st.Memberships().UpsertMembership(ctx, domain.Membership{
		OrganizationID: org.ID, UserID: "acct-1", Role: domain.RoleLearner,
	}))
	require.NoError(t, st.Memberships().UpsertMembership(ctx, domain.Membership{
		OrganizationID: org.ID, UserID: "acct-1", Role: domain.RoleAdmin,
	}))

	members, err := st.Memberships().ListMembershipsByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, domain.RoleAdmin, members[0].Role)
}

func TestConsumeSafeLinkIsSingleUse(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.SafeLinks().CreateSafeLink(ctx, domain.SafeLinkToken{
		ID: "tok", TargetURL: "https://example.com/x",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	url, claimed, err := st.SafeLinks().ConsumeSafeLink(ctx, "tok", now)
	require.NoError(t, err)
	require.True(t, claimed)
	require.Equal(t, "https://example.com/x", url)

	_, claimed, err = st.SafeLinks().ConsumeSafeLink(ctx, "tok", now)
	require.NoError(t, err)
	require.False(t, claimed)
}

func TestConsumeSafeLinkRespectsExpiry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, st.SafeLinks().CreateSafeLink(ctx, domain.SafeLinkToken{
		ID: "tok", TargetURL: "https://example.com/x",
		ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour),
	}))

	_, claimed, err := st.SafeLinks().ConsumeSafeLink(ctx, "tok", now)
	require.NoError(t, err)
	require.False(t, claimed)

	// The row still exists for claim classification.
	tok, err := st.SafeLinks().GetSafeLinkByID(ctx, "tok")
	require.NoError(t, err)
	require.False(t, tok.Used)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Profiles().UpsertProfile(ctx, domain.Profile{
			ID: "acct-1", Email: "a@example.com", OrganizationID: org.ID, Role: domain.RoleLearner,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Profiles().GetProfileByID(ctx, "acct-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Profiles().UpsertProfile(ctx, domain.Profile{
			ID: "acct-1", Email: "a@example.com", OrganizationID: org.ID, Role: domain.RoleLearner,
		})
	}))

	got, err := st.Profiles().GetProfileByID(ctx, "acct-1")
	require.NoError(t, err)
	require.Equal(t, "a@example.com", got.Email)
}

func TestListCompletionsByOrganization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "acme")
	other := seedOrg(t, st, "other")

	require.NoError(t, st.Profiles().UpsertProfile(ctx, domain.Profile{
		ID: "acct-1", Email: "a@example.com", OrganizationID: org.ID, Role: domain.RoleLearner,
	}))
	require.NoError(t, st.Profiles().UpsertProfile(ctx, domain.Profile{
		ID: "acct-2", Email: "b@example.com", OrganizationID: other.ID, Role: domain.RoleLearner,
	}))

	mod := domain.Module{ID: idx.New().String(), Slug: "privacy-101", Title: "Privacy 101"}
	require.NoError(t, st.Modules().CreateModule(ctx, mod))

	now := time.Now().UTC()
	require.NoError(t, st.Completions().UpsertCompletion(ctx, domain.Completion{
		UserID: "acct-1", ModuleID: mod.ID, Score: 90, CompletedAt: now,
	}))
	require.NoError(t, st.Completions().UpsertCompletion(ctx, domain.Completion{
		UserID: "acct-2", ModuleID: mod.ID, Score: 80, CompletedAt: now,
	}))

	got, err := st.Completions().ListCompletionsByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "acct-1", got[0].UserID)
	require.Equal(t, 90, got[0].Score)
}
