package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/metrics"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

// ErrUnaffiliated reports an authenticated identity with no profile and no
// pending invitation. This is a terminal state requiring administrator
// action; the caller must never guess an organization.
var ErrUnaffiliated = errors.New("identity has no invitation and no profile")

// Identity is the authenticated identity handed to the reconciler, produced
// by session establishment. The account id comes from the provider; email is
// the only correlation key into the invitation ledger.
type Identity struct {
	AccountID string
	Email     string
	FullName  string
}

// ReconcileResult describes the settled (profile, membership) pair.
type ReconcileResult struct {
	OrganizationID string
	Role           string
	// Provisioned is true when this call performed the writes, false when
	// the identity was already settled and the call was a no-op.
	Provisioned bool
}

// ReconcileService derives consistent profile and membership state from an
// authenticated identity plus the invitation ledger. It is safe to call on
// every authenticated request: once settled, it performs no writes.
type ReconcileService struct {
	Store store.Store
}

// Reconcile runs the provisioning state machine for one identity.
//
// There is no cross-store transaction spanning the identity provider and
// the relational store, so each write is individually idempotent and the
// sequence is ordered for crash tolerance: Profile first (everything keys
// off it), Membership second, Invitation-accepted last. A crash between
// steps means the next call redoes idempotent upserts and then marks the
// invitation accepted; it can never double-assign an organization.
func (s *ReconcileService) Reconcile(ctx context.Context, id Identity) (ReconcileResult, error) {
	log := slogx.FromContext(ctx)

	if id.AccountID == "" || id.Email == "" {
		return ReconcileResult{}, errors.New("identity missing account id or email")
	}

	// 1. Idempotent short-circuit: a profile with a home organization means
	// the identity is already settled.
	profile, err := s.Store.Profiles().GetProfileByID(ctx, id.AccountID)
	if err == nil && profile.OrganizationID != "" {
		metrics.Reconciles.WithLabelValues("settled").Inc()
		return ReconcileResult{
			OrganizationID: profile.OrganizationID,
			Role:           profile.Role,
		}, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up profile", slog.Any("error", err))
		metrics.Reconciles.WithLabelValues("failed").Inc()
		return ReconcileResult{}, err
	}

	// 2. Correlate by email. Invitations are keyed by email before any
	// account exists, so this is the only join between namespaces.
	invite, err := s.Store.Invitations().FindPendingByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("authenticated identity has no pending invitation",
				slog.String("account_id", id.AccountID),
			)
			metrics.Reconciles.WithLabelValues("unaffiliated").Inc()
			return ReconcileResult{}, ErrUnaffiliated
		}
		log.Error("failed to look up invitation", slog.Any("error", err))
		metrics.Reconciles.WithLabelValues("failed").Inc()
		return ReconcileResult{}, err
	}

	displayName := id.FullName
	if displayName == "" {
		displayName = emailLocalPart(id.Email)
	}

	// 3. Profile before Membership: a membership row without a profile is
	// meaningless to the rest of the application.
	err = s.Store.Profiles().UpsertProfile(ctx, domain.Profile{
		ID:             id.AccountID,
		Email:          id.Email,
		DisplayName:    displayName,
		Role:           invite.Role,
		OrganizationID: invite.OrganizationID,
	})
	if err != nil {
		log.Error("failed to upsert profile",
			slog.String("account_id", id.AccountID),
			slog.Any("error", err),
		)
		metrics.Reconciles.WithLabelValues("failed").Inc()
		return ReconcileResult{}, err
	}

	err = s.Store.Memberships().UpsertMembership(ctx, domain.Membership{
		OrganizationID: invite.OrganizationID,
		UserID:         id.AccountID,
		Role:           invite.Role,
	})
	if err != nil {
		log.Error("failed to upsert membership",
			slog.String("account_id", id.AccountID),
			slog.String("organization_id", invite.OrganizationID),
			slog.Any("error", err),
		)
		metrics.Reconciles.WithLabelValues("failed").Inc()
		return ReconcileResult{}, err
	}

	// 4. Bookkeeping last. If this fails the user is already correctly
	// provisioned; the stale pending row is retried on the next reconcile.
	if err := s.Store.Invitations().MarkAccepted(ctx, invite.ID); err != nil {
		log.Warn("failed to mark invitation accepted; will retry on next reconcile",
			slog.String("invitation_id", invite.ID),
			slog.Any("error", err),
		)
	}

	log.Info("identity reconciled",
		slog.String("account_id", id.AccountID),
		slog.String("organization_id", invite.OrganizationID),
		slog.String("role", invite.Role),
	)
	metrics.Reconciles.WithLabelValues("provisioned").Inc()

	return ReconcileResult{
		OrganizationID: invite.OrganizationID,
		Role:           invite.Role,
		Provisioned:    true,
	}, nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
