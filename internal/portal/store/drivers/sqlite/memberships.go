package sqlite

import (
	"context"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) UpsertMembership(ctx context.Context, m domain.Membership) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organization_members (organization_id, user_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET
			role       = excluded.role,
			updated_at = excluded.updated_at`,
		m.OrganizationID, m.UserID, m.Role, now, now,
	)
	return err
}

func (r *membershipsRepo) GetMembership(ctx context.Context, orgID, userID string) (domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx, `
		SELECT organization_id, user_id, role, created_at, updated_at
		FROM organization_members
		WHERE organization_id = ? AND user_id = ?`, orgID, userID,
	).Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) ListMembershipsByOrganization(ctx context.Context, orgID string) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT organization_id, user_id, role, created_at, updated_at
		FROM organization_members
		WHERE organization_id = ? ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.Role,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
