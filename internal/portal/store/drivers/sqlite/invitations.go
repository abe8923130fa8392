package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
)

type invitationsRepo struct {
	db dbtx
}

// UpsertPending relies on the partial unique index over pending emails: a
// colliding pending invitation is overwritten in place, keeping its id, so
// re-inviting a not-yet-onboarded user is a correction rather than an error.
// Emails are stored lowercased so the index collides across case variants.
func (r *invitationsRepo) UpsertPending(ctx context.Context, inv domain.Invitation) (string, error) {
	now := time.Now().UTC()
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO invitations (id, email, organization_id, role, invited_by, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'pending', ?, ?)
		ON CONFLICT (email) WHERE status = 'pending' DO UPDATE SET
			organization_id = excluded.organization_id,
			role            = excluded.role,
			invited_by      = excluded.invited_by,
			updated_at      = excluded.updated_at
		RETURNING id`,
		inv.ID, strings.ToLower(inv.Email), inv.OrganizationID, inv.Role, inv.InvitedBy, now, now,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *invitationsRepo) FindPendingByEmail(ctx context.Context, email string) (domain.Invitation, error) {
	return scanInvitation(r.db.QueryRowContext(ctx, `
		SELECT id, email, organization_id, role, invited_by, status, created_at, updated_at
		FROM invitations
		WHERE lower(email) = lower(?) AND status = 'pending'`, email))
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	return scanInvitation(r.db.QueryRowContext(ctx, `
		SELECT id, email, organization_id, role, invited_by, status, created_at, updated_at
		FROM invitations WHERE id = ?`, id))
}

// MarkAccepted is idempotent: re-marking an accepted invitation matches the
// same row and rewrites the same status.
func (r *invitationsRepo) MarkAccepted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'accepted', updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *invitationsRepo) DeleteAcceptedBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = 'accepted' AND updated_at < ?`, cutoff)
	return err
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(&inv.ID, &inv.Email, &inv.OrganizationID, &inv.Role,
		&inv.InvitedBy, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func requireRowsAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
