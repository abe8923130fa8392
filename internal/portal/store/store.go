package store

import (
	"context"
	"errors"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Organizations() Organizations
	Invitations() Invitations
	Profiles() Profiles
	Memberships() Memberships
	SafeLinks() SafeLinks
	Modules() Modules
	Completions() Completions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	// CreateOrganization inserts a new organization. Returns
	// ErrAlreadyExists when the code is taken.
	CreateOrganization(ctx context.Context, org domain.Organization) error

	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// GetOrganizationByCode returns an organization by its unique slug.
	GetOrganizationByCode(ctx context.Context, code string) (domain.Organization, error)

	// ListOrganizations returns all organizations ordered by creation date.
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)

	// UpdateBranding mutates the branding fields and bumps updated_at.
	UpdateBranding(ctx context.Context, orgID string, b domain.Branding) error
}

type Invitations interface {
	// UpsertPending records invitation intent for an email. An existing
	// pending invitation for the same email is overwritten (last-invite-wins
	// for unconsumed invites). Returns the id of the surviving row.
	UpsertPending(ctx context.Context, inv domain.Invitation) (string, error)

	// FindPendingByEmail returns the single pending invitation for an email,
	// matched case-insensitively.
	FindPendingByEmail(ctx context.Context, email string) (domain.Invitation, error)

	// GetInvitationByID returns an invitation by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// MarkAccepted transitions an invitation to accepted. Idempotent:
	// marking an already-accepted invitation is a no-op.
	MarkAccepted(ctx context.Context, id string) error

	// DeleteAcceptedBefore removes accepted invitations older than cutoff
	// (housekeeping).
	DeleteAcceptedBefore(ctx context.Context, cutoff time.Time) error
}

type Profiles interface {
	// UpsertProfile inserts or updates a profile keyed on id (the identity
	// provider's account id). Safe to retry.
	UpsertProfile(ctx context.Context, p domain.Profile) error

	// GetProfileByID returns a profile by account id.
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileByEmail returns a profile by email, matched case-insensitively.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	// ListProfilesByOrganization returns all profiles homed in an organization.
	ListProfilesByOrganization(ctx context.Context, orgID string) ([]domain.Profile, error)
}

type Memberships interface {
	// UpsertMembership inserts or updates the single membership row for the
	// (organization, user) pair. Safe to retry.
	UpsertMembership(ctx context.Context, m domain.Membership) error

	// GetMembership returns the membership for the (organization, user) pair.
	GetMembership(ctx context.Context, orgID, userID string) (domain.Membership, error)

	// ListMembershipsByOrganization returns all memberships in an organization.
	ListMembershipsByOrganization(ctx context.Context, orgID string) ([]domain.Membership, error)
}

type SafeLinks interface {
	// CreateSafeLink stores a freshly issued safe-link token.
	CreateSafeLink(ctx context.Context, t domain.SafeLinkToken) error

	// GetSafeLinkByID returns a token regardless of its used/expired state.
	GetSafeLinkByID(ctx context.Context, id string) (domain.SafeLinkToken, error)

	// ConsumeSafeLink atomically marks an unused, unexpired token as used and
	// returns its target URL. claimed is false when the token is missing,
	// already used, or expired; callers classify via GetSafeLinkByID.
	ConsumeSafeLink(ctx context.Context, id string, now time.Time) (url string, claimed bool, err error)

	// DeleteExpiredSafeLinks removes tokens that expired before cutoff
	// (housekeeping).
	DeleteExpiredSafeLinks(ctx context.Context, cutoff time.Time) error
}

type Modules interface {
	// CreateModule inserts a new training module. Returns ErrAlreadyExists
	// when the slug is taken.
	CreateModule(ctx context.Context, m domain.Module) error

	// GetModuleByID returns a module by id.
	GetModuleByID(ctx context.Context, id string) (domain.Module, error)

	// ListModules returns the module catalog ordered by title.
	ListModules(ctx context.Context) ([]domain.Module, error)
}

type Completions interface {
	// UpsertCompletion inserts or updates the completion row for the
	// (user, module) pair.
	UpsertCompletion(ctx context.Context, c domain.Completion) error

	// ListCompletionsByUser returns all completions for a user.
	ListCompletionsByUser(ctx context.Context, userID string) ([]domain.Completion, error)

	// ListCompletionsByOrganization returns completions for every user homed
	// in the organization.
	ListCompletionsByOrganization(ctx context.Context, orgID string) ([]domain.Completion, error)
}
