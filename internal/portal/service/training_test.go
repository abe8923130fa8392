package service

import (
	"context"
	"testing"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletionUpdatesOnRetake(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TrainingService{Store: st}

	mod, err := svc.CreateModule(ctx, CreateModuleRequest{
		Slug:  "privacy-101",
		Title: "Privacy 101",
	})
	require.NoError(t, err)

	require.NoError(t, st.Profiles().UpsertProfile(ctx, domain.Profile{
		ID: "acct-1", Email: "a@example.com", Role: domain.RoleLearner,
	}))

	first, err := svc.RecordCompletion(ctx, "acct-1", mod.ID, 70)
	require.NoError(t, err)
	require.Equal(t, 70, first.Score)

	second, err := svc.RecordCompletion(ctx, "acct-1", mod.ID, 95)
	require.NoError(t, err)
	require.Equal(t, 95, second.Score)

	completions, err := svc.UserCompletions(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, completions, 1)
	require.Equal(t, 95, completions[0].Score)
}

func TestRecordCompletionValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TrainingService{Store: st}

	_, err := svc.RecordCompletion(ctx, "acct-1", "missing", 50)
	require.ErrorIs(t, err, ErrModuleNotFound)

	mod, err := svc.CreateModule(ctx, CreateModuleRequest{Slug: "x-101", Title: "X"})
	require.NoError(t, err)

	_, err = svc.RecordCompletion(ctx, "acct-1", mod.ID, 101)
	require.ErrorIs(t, err, ErrInvalidScore)
	_, err = svc.RecordCompletion(ctx, "acct-1", mod.ID, -1)
	require.ErrorIs(t, err, ErrInvalidScore)
}

func TestCreateModuleRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TrainingService{Store: st}

	_, err := svc.CreateModule(ctx, CreateModuleRequest{Slug: "privacy-101", Title: "Privacy"})
	require.NoError(t, err)

	_, err = svc.CreateModule(ctx, CreateModuleRequest{Slug: "privacy-101", Title: "Again"})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestOrganizationProgressCountsPerMember(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	org := seedOrg(t, st, "Acme Corp", "acme")
	svc := &TrainingService{Store: st}

	a, err := svc.CreateModule(ctx, CreateModuleRequest{Slug: "privacy-101", Title: "Privacy 101"})
	require.NoError(t, err)
	_, err = svc.CreateModule(ctx, CreateModuleRequest{Slug: "security-101", Title: "Security 101"})
	require.NoError(t, err)

	require.NoError(t, st.Profiles().UpsertProfile(ctx, domain.Profile{
		ID: "acct-1", Email: "a@example.com", DisplayName: "A", OrganizationID: org.ID, Role: domain.RoleLearner,
	}))
	require.NoError(t, st.Profiles().UpsertProfile(ctx, domain.Profile{
		ID: "acct-2", Email: "b@example.com", DisplayName: "B", OrganizationID: org.ID, Role: domain.RoleLearner,
	}))

	_, err = svc.RecordCompletion(ctx, "acct-1", a.ID, 88)
	require.NoError(t, err)

	progress, err := svc.OrganizationProgress(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	byUser := make(map[string]MemberProgress, len(progress))
	for _, p := range progress {
		byUser[p.UserID] = p
	}
	require.Equal(t, 1, byUser["acct-1"].Completed)
	require.Equal(t, 0, byUser["acct-2"].Completed)
	require.Equal(t, 2, byUser["acct-1"].Total)
}

func TestOrganizationCreateAndBranding(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &OrganizationService{Store: st}

	org, err := svc.Create(ctx, CreateOrganizationRequest{
		Name: "Acme Corp", Code: "Acme", CreatedBy: "acct-0",
	})
	require.NoError(t, err)
	require.Equal(t, "acme", org.Code)

	_, err = svc.Create(ctx, CreateOrganizationRequest{Name: "Other", Code: "acme"})
	require.ErrorIs(t, err, ErrCodeTaken)

	_, err = svc.Create(ctx, CreateOrganizationRequest{Name: "Bad", Code: "Not A Slug!"})
	require.ErrorIs(t, err, ErrInvalidCode)

	updated, err := svc.UpdateBranding(ctx, org.ID, domain.Branding{
		LogoURL:      "https://cdn.example.com/acme.png",
		SupportEmail: "help@acme.example",
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/acme.png", updated.LogoURL)
}
